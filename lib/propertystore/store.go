// Package propertystore persists merged property records keyed by
// parcel id and auction date.
package propertystore

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"

	"deedscout-backend/lib/property"
	"deedscout-backend/lib/telemetry"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

//go:embed schema.sql
var Schema string

var tracer = telemetry.Tracer("deedscout.lib.propertystore")

var ErrNotFound = errors.New("property record not found")

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) Store {
	return Store{db: db}
}

const upsertQuery = `
INSERT INTO property_record (
    parcel_id, auction_date, state, county,
    opening_bid, assessed_value, address, appraiser_url,
    owner, city, zip, acres, zoning, zoning_type,
    coordinates, elevation_high, elevation_low, flood_zone,
    regrid_url, birdseye_url, resolved_date
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (parcel_id, auction_date) DO UPDATE SET
    state = excluded.state,
    county = excluded.county,
    opening_bid = excluded.opening_bid,
    assessed_value = excluded.assessed_value,
    address = excluded.address,
    appraiser_url = excluded.appraiser_url,
    owner = excluded.owner,
    city = excluded.city,
    zip = excluded.zip,
    acres = excluded.acres,
    zoning = excluded.zoning,
    zoning_type = excluded.zoning_type,
    coordinates = excluded.coordinates,
    elevation_high = excluded.elevation_high,
    elevation_low = excluded.elevation_low,
    flood_zone = excluded.flood_zone,
    regrid_url = excluded.regrid_url,
    birdseye_url = excluded.birdseye_url,
    resolved_date = excluded.resolved_date
`

func (s Store) Upsert(ctx context.Context, record property.Record) error {
	ctx, span := tracer.Start(ctx, "Upsert")
	defer span.End()
	span.SetAttributes(
		attribute.String("parcel_id", record.ParcelId),
		attribute.String("auction_date", record.AuctionDate),
	)

	_, err := s.db.ExecContext(ctx, upsertQuery,
		record.ParcelId, record.AuctionDate, record.State, record.County,
		record.OpeningBid, record.AssessedValue, record.Address, record.AppraiserUrl,
		record.Owner, record.City, record.Zip, record.Acres,
		record.Zoning, record.ZoningType,
		record.Coordinates, record.ElevationHigh, record.ElevationLow, record.FloodZone,
		record.RegridUrl, record.BirdseyeUrl, record.ResolvedDate,
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

const selectColumns = `
    parcel_id, auction_date, state, county,
    opening_bid, assessed_value, address, appraiser_url,
    owner, city, zip, acres, zoning, zoning_type,
    coordinates, elevation_high, elevation_low, flood_zone,
    regrid_url, birdseye_url, resolved_date
`

func scanRecord(row interface{ Scan(...any) error }) (property.Record, error) {
	var record property.Record
	var acres sql.NullFloat64
	err := row.Scan(
		&record.ParcelId, &record.AuctionDate, &record.State, &record.County,
		&record.OpeningBid, &record.AssessedValue, &record.Address, &record.AppraiserUrl,
		&record.Owner, &record.City, &record.Zip, &acres,
		&record.Zoning, &record.ZoningType,
		&record.Coordinates, &record.ElevationHigh, &record.ElevationLow, &record.FloodZone,
		&record.RegridUrl, &record.BirdseyeUrl, &record.ResolvedDate,
	)
	if err != nil {
		return property.Record{}, err
	}
	if acres.Valid {
		record.Acres = &acres.Float64
	}
	return record, nil
}

func (s Store) Get(ctx context.Context, parcelId, auctionDate string) (property.Record, error) {
	ctx, span := tracer.Start(ctx, "Get")
	defer span.End()

	row := s.db.QueryRowContext(ctx,
		"SELECT"+selectColumns+
			"FROM property_record WHERE parcel_id = ? AND auction_date = ?",
		parcelId, auctionDate)
	record, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return property.Record{}, ErrNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return property.Record{}, err
	}
	return record, nil
}

func (s Store) ListByDate(ctx context.Context, auctionDate string) ([]property.Record, error) {
	ctx, span := tracer.Start(ctx, "ListByDate")
	defer span.End()
	span.SetAttributes(attribute.String("auction_date", auctionDate))

	rows, err := s.db.QueryContext(ctx,
		"SELECT"+selectColumns+
			"FROM property_record WHERE auction_date = ? ORDER BY parcel_id",
		auctionDate)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	defer rows.Close()

	var records []property.Record
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return records, nil
}

// ListUnresolved lists the records for an auction date that have no
// resolver data yet.
func (s Store) ListUnresolved(ctx context.Context, auctionDate string) ([]property.Record, error) {
	ctx, span := tracer.Start(ctx, "ListUnresolved")
	defer span.End()

	rows, err := s.db.QueryContext(ctx,
		"SELECT"+selectColumns+
			"FROM property_record WHERE auction_date = ? AND resolved_date = '' ORDER BY parcel_id",
		auctionDate)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	defer rows.Close()

	var records []property.Record
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return records, nil
}
