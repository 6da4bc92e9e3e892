package commands

import (
	"fmt"
	"log/slog"
	"os"

	"deedscout-backend/lib/property"
	"deedscout-backend/lib/restyutil"
	"deedscout-backend/lib/scrapers/realauction"
	"deedscout-backend/lib/serviceutil"
	"deedscout-backend/lib/timezone"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	crawlState  *string
	crawlCounty *string
	crawlDate   *string
	crawlUrl    *string
	crawlDb     *string
	crawlDebug  *bool
)

func init() {
	crawlState = crawlCmd.Flags().String("state", "FL", "State code of the auction site.")
	crawlCounty = crawlCmd.Flags().String("county", "", "County whose auction calendar to crawl.")
	crawlDate = crawlCmd.Flags().String("date", "", "Auction date, MM/DD/YYYY.")
	crawlUrl = crawlCmd.Flags().String("url", "", "Crawl an explicit listing url instead of a registry county.")
	crawlDb = crawlCmd.Flags().String("db", "", "The database to write crawl results to.")
	crawlDebug = crawlCmd.Flags().Bool("debug-http", false, "Dump http exchanges to .dev/resty/crawl.")
	rootCmd.AddCommand(crawlCmd)
}

func crawlListingUrl() string {
	if *crawlUrl != "" {
		return *crawlUrl
	}
	if *crawlCounty == "" || *crawlDate == "" {
		serviceutil.Fatal("missing flags", fmt.Errorf("either --url or --county and --date are required"))
	}
	date, ok := timezone.ParseAuctionDate(*crawlDate)
	if !ok {
		serviceutil.Fatal("invalid date", fmt.Errorf("%q is not an MM/DD/YYYY date", *crawlDate))
	}
	url, err := realauction.AuctionURL(*crawlState, *crawlCounty, date)
	if err != nil {
		serviceutil.Fatal("failed to build auction url", err)
	}
	return url
}

var crawlCmd = &cobra.Command{
	Use:   "crawl --county <name> --date <MM/DD/YYYY> [--state <code>]",
	Short: "Crawls an auction calendar and stores its listings.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		cfg := readConfig()
		store := openStore(cfg, *crawlDb)

		if *crawlDebug {
			realauction.SetRestyInstrumentOutput(restyutil.NewFilesystemOutput(".dev/resty/crawl"))
		}

		listingUrl := crawlListingUrl()
		slog.Info("crawling auction calendar", "url", listingUrl)

		client := realauction.NewClient(realauction.ClientOptions{})
		client.OnProgress = func(p realauction.Progress) {
			slog.Info("crawl progress", "page", p.Page, "records", p.Records)
		}

		auctions, err := client.GetAuctions(ctx, listingUrl)
		if err != nil {
			serviceutil.Fatal("failed to crawl auction calendar", err)
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Parcel", "Address", "Opening Bid", "Assessed", "Page"})
		for _, auction := range auctions {
			record := property.FromAuction(auction, *crawlState, *crawlCounty)
			if err := store.Upsert(ctx, record); err != nil {
				serviceutil.Fatal("failed to store record", err)
			}
			t.AppendRow(table.Row{
				record.ParcelId, record.Address,
				fmt.Sprintf("%.2f", record.OpeningBid),
				fmt.Sprintf("%.2f", record.AssessedValue),
				auction.PageNumber,
			})
		}
		t.Render()
		slog.Info("crawl complete", "records", len(auctions))
	},
}
