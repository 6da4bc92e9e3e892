package realauction

import (
	"log/slog"
	"regexp"
	"strings"
	"time"

	"deedscout-backend/lib/textutil"
)

// label tables for the listing markup. Florida and Texas calendars use
// different wording, the first label that yields a value wins.
var (
	idLabels      = []string{"Account Number:", "Alternate Key:", "Parcel ID:"}
	bidLabels     = []string{"Opening Bid:", "Min. Bid:"}
	valueLabels   = []string{"Assessed Value:", "Adjudged Value:"}
	addressLabels = []string{"Property Address:"}
)

var (
	itemSplit = regexp.MustCompile(`(?i)<div[^>]*id="AITEM_`)
	hrefAttr  = regexp.MustCompile(`href="([^"]+)"`)
	innerTag  = regexp.MustCompile(`<.*?>`)
)

// extractField tries the labels against the primary @F..@G delimiter
// pair, then falls back to the cell-attribute variant some calendars
// emit instead.
func extractField(item string, labels []string) string {
	value, _ := textutil.ExtractLabeled(item, textutil.LabelRule{
		Labels:     labels,
		StartDelim: "@F",
		EndDelim:   "@G",
	}, 0)
	if value == "" {
		value, _ = textutil.ExtractLabeled(item, textutil.LabelRule{
			Labels:     labels,
			StartDelim: `@CAD_DTA">`,
			EndDelim:   "@G",
		}, 0)
	}
	return value
}

// ParseListingHTML splits the retHTML payload into auction item blocks
// and extracts a record from each. Blocks without a parcel id are
// skipped.
func ParseListingHTML(retHTML string, auctionDate time.Time, pageNum int) []AuctionRecord {
	var records []AuctionRecord

	blocks := itemSplit.Split(retHTML, -1)
	for _, block := range blocks {
		if strings.TrimSpace(block) == "" {
			continue
		}
		item := `id="AITEM_` + block

		parcelIdRaw := extractField(item, idLabels)
		parcelId := textutil.Clean(innerTag.ReplaceAllString(parcelIdRaw, ""))
		if parcelId == "" {
			// an unparseable block never aborts the page
			slog.Warn("skipping auction block without a parcel id", "page", pageNum)
			continue
		}
		appUrl := ""
		if m := hrefAttr.FindStringSubmatch(parcelIdRaw); m != nil {
			appUrl = m[1]
		}

		openingBid := textutil.ParseCurrency(extractField(item, bidLabels))
		assessedValue := textutil.ParseCurrency(extractField(item, valueLabels))

		addrLine1 := extractField(item, addressLabels)
		if addrLine1 == "" {
			addrLine1 = textutil.ExtractDelimited(
				item, `Property Address:</th><td @CAD_DTA">`, "@G", 0)
		}

		addrLine2 := ""
		if addr1Idx := strings.Index(item, "Property Address:"); addr1Idx > -1 {
			// the line below the address holds city, state and zip.
			// florida calendars mark it with a row-scoped label cell
			addrLine2 = textutil.ExtractDelimited(
				item, `@H@CAD_LBL" scope="row">@F`, "@G", addr1Idx)
			// texas calendars put it in the next plain cell
			if addrLine2 == "" {
				addrLine2 = textutil.ExtractDelimited(
					item, `</th><td @CAD_DTA">`, "@G", addr1Idx+20)
			}
		}

		address := strings.TrimSpace(
			textutil.Clean(addrLine1) + " " + textutil.Clean(addrLine2))

		records = append(records, AuctionRecord{
			ParcelId:        parcelId,
			PropertyAddress: address,
			OpeningBid:      openingBid,
			AssessedValue:   assessedValue,
			AuctionDate:     auctionDate,
			PageNumber:      pageNum,
			AppraiserUrl:    appUrl,
		})
	}

	return records
}
