package timezone

import "time"

var Location *time.Location

func init() {
	var err error
	Location, err = time.LoadLocation("America/New_York")
	if err != nil {
		panic(err)
	}
}

// force timezone to be eastern because the auction calendars publish
// dates in the county's local day, disturbances happen when a server
// in another zone manipulates dates based on <time.Time>.Year()/Month()/Day()
func Now() time.Time {
	return time.Now().In(Location)
}

// layouts accepted for the AUCTIONDATE query parameter
var auctionDateLayouts = []string{
	"01/02/2006",
	"1/2/2006",
	"2006-01-02",
}

func ParseAuctionDate(s string) (time.Time, bool) {
	for _, layout := range auctionDateLayouts {
		t, err := time.ParseInLocation(layout, s, Location)
		if err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// the format the auction site expects in AUCTIONDATE and the format
// county url templates substitute in. the civil date is formatted as
// given, no zone conversion, so a caller holding midnight in any zone
// gets that calendar day
func FormatAuctionDate(t time.Time) string {
	return t.Format("01/02/2006")
}
