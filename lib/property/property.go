// Package property holds the merged record model shared by the
// auction crawler and the parcel resolver, plus the precedence rules
// for combining the two sources.
package property

import (
	"fmt"
	"net/url"

	"deedscout-backend/lib/textutil"
)

// Record is one property, keyed by parcel id and auction date. The
// auction site populates the core fields, the parcel resolver
// supplements the rest.
type Record struct {
	ParcelId    string `json:"parcelId"`
	AuctionDate string `json:"auctionDate"`
	State       string `json:"state"`
	County      string `json:"county"`

	// from the auction listing
	OpeningBid    float64 `json:"openingBid"`
	AssessedValue float64 `json:"assessedValue"`
	Address       string  `json:"address"`
	AppraiserUrl  string  `json:"appraiserUrl"`

	// supplemented by the parcel resolver
	Owner         string   `json:"owner"`
	City          string   `json:"city"`
	Zip           string   `json:"zip"`
	Acres         *float64 `json:"acres"`
	Zoning        string   `json:"zoning"`
	ZoningType    string   `json:"zoningType"`
	Coordinates   string   `json:"coordinates"`
	ElevationHigh string   `json:"elevationHigh"`
	ElevationLow  string   `json:"elevationLow"`
	FloodZone     string   `json:"floodZone"`
	RegridUrl     string   `json:"regridUrl"`
	BirdseyeUrl   string   `json:"birdseyeUrl"`
	ResolvedDate  string   `json:"resolvedDate"`
}

// Supplement are the fields the parcel resolver can contribute.
type Supplement struct {
	ParcelId      string
	Owner         string
	Address       string
	City          string
	Zip           string
	Acres         *float64
	Zoning        string
	ZoningType    string
	Coordinates   string
	ElevationHigh string
	ElevationLow  string
	FloodZone     string
	AssessedValue float64
	RegridUrl     string
	BirdseyeUrl   string
}

// Merge folds supplement into record and returns the result.
// Auction-sourced fields (parcel id, address, bids, values, dates)
// are never written, even when blank; resolver fields only fill
// blanks, except RegridUrl which always takes a fresh non-blank value
// so a re-resolve can repoint a stale link. Merging the same
// supplement twice is a no-op.
func Merge(record Record, supplement Supplement) Record {
	fillString(&record.Owner, supplement.Owner)
	fillString(&record.City, supplement.City)
	fillString(&record.Zip, supplement.Zip)
	fillString(&record.Zoning, supplement.Zoning)
	fillString(&record.ZoningType, supplement.ZoningType)
	fillString(&record.Coordinates, supplement.Coordinates)
	fillString(&record.ElevationHigh, supplement.ElevationHigh)
	fillString(&record.ElevationLow, supplement.ElevationLow)
	fillString(&record.FloodZone, supplement.FloodZone)
	if record.Acres == nil && supplement.Acres != nil {
		acres := *supplement.Acres
		record.Acres = &acres
	}
	if supplement.RegridUrl != "" {
		record.RegridUrl = supplement.RegridUrl
	}
	fillString(&record.BirdseyeUrl, supplement.BirdseyeUrl)
	return record
}

func fillString(dst *string, src string) {
	if *dst == "" && src != "" {
		*dst = src
	}
}

// GoogleMapsURL builds a maps link for the record, preferring exact
// coordinates over the street address.
func (r *Record) GoogleMapsURL() string {
	query := r.locationQuery()
	if query == "" {
		return ""
	}
	return "https://www.google.com/maps/search/?api=1&query=" + url.QueryEscape(query)
}

// FemaFloodURL builds a fema flood map lookup link for the record.
func (r *Record) FemaFloodURL() string {
	query := r.locationQuery()
	if query == "" {
		return ""
	}
	return "https://msc.fema.gov/portal/search?AddressQuery=" + url.QueryEscape(query)
}

func (r *Record) locationQuery() string {
	if dms := textutil.ToDMS(r.Coordinates); dms != "" {
		return dms
	}
	if r.Address != "" {
		addr := r.Address
		if r.City != "" {
			addr = fmt.Sprintf("%s, %s", addr, r.City)
		}
		return addr
	}
	return ""
}
