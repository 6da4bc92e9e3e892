package realauction

import "time"

// AuctionRecord is one listing scraped from an auction calendar page.
type AuctionRecord struct {
	ParcelId        string
	PropertyAddress string
	OpeningBid      float64
	AssessedValue   float64
	AuctionDate     time.Time
	PageNumber      int
	AppraiserUrl    string
}

// Progress reports crawl status to the caller after each page.
type Progress struct {
	Page    int
	Records int
}
