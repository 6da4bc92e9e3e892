package propertystore_test

import (
	"context"
	"testing"

	"deedscout-backend/lib/property"
	"deedscout-backend/lib/propertystore"
	"deedscout-backend/lib/testutil"

	"github.com/stretchr/testify/require"
)

func seedRecord(parcelId string) property.Record {
	acres := 0.25
	return property.Record{
		ParcelId:    parcelId,
		AuctionDate: "09/03/2026",
		State:       "FL",
		County:      "Alachua",
		OpeningBid:  1200,
		Address:     "123 MAIN ST",
		Acres:       &acres,
	}
}

func TestUpsertAndGet(t *testing.T) {
	store := testutil.SetupStore(t)
	ctx := context.Background()

	record := seedRecord("12345-000-000")
	require.NoError(t, store.Upsert(ctx, record))

	got, err := store.Get(ctx, "12345-000-000", "09/03/2026")
	require.NoError(t, err)
	require.Equal(t, record, got)

	_, err = store.Get(ctx, "missing", "09/03/2026")
	require.ErrorIs(t, err, propertystore.ErrNotFound)
}

func TestUpsertOverwrites(t *testing.T) {
	store := testutil.SetupStore(t)
	ctx := context.Background()

	record := seedRecord("12345-000-000")
	require.NoError(t, store.Upsert(ctx, record))

	record.Owner = "SMITH JOHN"
	record.ResolvedDate = "08/29/2026"
	require.NoError(t, store.Upsert(ctx, record))

	got, err := store.Get(ctx, "12345-000-000", "09/03/2026")
	require.NoError(t, err)
	require.Equal(t, "SMITH JOHN", got.Owner)

	records, err := store.ListByDate(ctx, "09/03/2026")
	require.NoError(t, err)
	require.Len(t, records, 1)
}

func TestListByDate(t *testing.T) {
	store := testutil.SetupStore(t)
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, seedRecord("b-parcel")))
	require.NoError(t, store.Upsert(ctx, seedRecord("a-parcel")))
	other := seedRecord("c-parcel")
	other.AuctionDate = "10/01/2026"
	require.NoError(t, store.Upsert(ctx, other))

	records, err := store.ListByDate(ctx, "09/03/2026")
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, "a-parcel", records[0].ParcelId)
	require.Equal(t, "b-parcel", records[1].ParcelId)
}

func TestListUnresolved(t *testing.T) {
	store := testutil.SetupStore(t)
	ctx := context.Background()

	resolved := seedRecord("resolved-parcel")
	resolved.ResolvedDate = "08/29/2026"
	require.NoError(t, store.Upsert(ctx, resolved))
	require.NoError(t, store.Upsert(ctx, seedRecord("pending-parcel")))

	records, err := store.ListUnresolved(ctx, "09/03/2026")
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, "pending-parcel", records[0].ParcelId)
}
