package commands

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"deedscout-backend/lib/serviceutil"

	"github.com/spf13/cobra"
)

var (
	exportDate *string
	exportOut  *string
	exportDb   *string
)

func init() {
	exportDate = exportCmd.Flags().String("date", "", "Auction date to export, MM/DD/YYYY.")
	exportOut = exportCmd.Flags().String("out", "deedscout.csv", "Path of the csv file to write.")
	exportDb = exportCmd.Flags().String("db", "", "The database holding the records to export.")
	exportCmd.MarkFlagRequired("date")
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export --date <MM/DD/YYYY> [--out <path/to.csv>]",
	Short: "Exports the records of an auction date to csv.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		cfg := readConfig()
		store := openStore(cfg, *exportDb)

		records, err := store.ListByDate(ctx, *exportDate)
		if err != nil {
			serviceutil.Fatal("failed to list records", err)
		}

		f, err := os.Create(*exportOut)
		if err != nil {
			serviceutil.Fatal("failed to create output file", err)
		}
		defer f.Close()

		w := csv.NewWriter(f)
		header := []string{
			"parcel_id", "auction_date", "state", "county",
			"opening_bid", "assessed_value", "address", "city", "zip",
			"owner", "acres", "zoning", "zoning_type",
			"coordinates", "flood_zone",
			"appraiser_url", "regrid_url", "maps_url", "fema_url",
		}
		if err := w.Write(header); err != nil {
			serviceutil.Fatal("failed to write csv", err)
		}
		for _, r := range records {
			acres := ""
			if r.Acres != nil {
				acres = strconv.FormatFloat(*r.Acres, 'f', -1, 64)
			}
			row := []string{
				r.ParcelId, r.AuctionDate, r.State, r.County,
				fmt.Sprintf("%.2f", r.OpeningBid),
				fmt.Sprintf("%.2f", r.AssessedValue),
				r.Address, r.City, r.Zip,
				r.Owner, acres, r.Zoning, r.ZoningType,
				r.Coordinates, r.FloodZone,
				r.AppraiserUrl, r.RegridUrl, r.GoogleMapsURL(), r.FemaFloodURL(),
			}
			if err := w.Write(row); err != nil {
				serviceutil.Fatal("failed to write csv", err)
			}
		}
		w.Flush()
		if err := w.Error(); err != nil {
			serviceutil.Fatal("failed to write csv", err)
		}

		slog.Info("export complete", "records", len(records), "out", *exportOut)
	},
}
