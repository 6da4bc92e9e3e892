package property

import (
	"deedscout-backend/lib/scrapers/realauction"
	"deedscout-backend/lib/timezone"
)

// FromAuction seeds a record from a crawled auction listing.
func FromAuction(auction realauction.AuctionRecord, state, county string) Record {
	return Record{
		ParcelId:      auction.ParcelId,
		AuctionDate:   timezone.FormatAuctionDate(auction.AuctionDate),
		State:         state,
		County:        county,
		OpeningBid:    auction.OpeningBid,
		AssessedValue: auction.AssessedValue,
		Address:       auction.PropertyAddress,
		AppraiserUrl:  auction.AppraiserUrl,
	}
}
