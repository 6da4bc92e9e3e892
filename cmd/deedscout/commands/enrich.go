package commands

import (
	"context"
	"log/slog"
	"time"

	"deedscout-backend/lib/fetchutil"
	"deedscout-backend/lib/property"
	"deedscout-backend/lib/scrapers/regrid"
	"deedscout-backend/lib/serviceutil"
	"deedscout-backend/lib/timezone"

	"github.com/mazen160/go-random"
	"github.com/spf13/cobra"
)

var (
	enrichDate *string
	enrichDb   *string
)

func init() {
	enrichDate = enrichCmd.Flags().String("date", "", "Auction date to enrich, MM/DD/YYYY.")
	enrichDb = enrichCmd.Flags().String("db", "", "The database holding the records to enrich.")
	enrichCmd.MarkFlagRequired("date")
	rootCmd.AddCommand(enrichCmd)
}

func enrichPause(ctx context.Context) error {
	delay := 300 * time.Millisecond
	if jitter, err := random.IntRange(0, 200); err == nil {
		delay += time.Duration(jitter) * time.Millisecond
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(delay):
		return nil
	}
}

var enrichCmd = &cobra.Command{
	Use:   "enrich --date <MM/DD/YYYY>",
	Short: "Resolves parcel data for every unresolved record of an auction date.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		cfg := readConfig()
		store := openStore(cfg, *enrichDb)
		client := newRegridClient(cfg)

		records, err := store.ListUnresolved(ctx, *enrichDate)
		if err != nil {
			serviceutil.Fatal("failed to list records", err)
		}
		slog.Info("enriching records", "date", *enrichDate, "count", len(records))

		var resolved, ambiguous, missing, failed int
		for i, record := range records {
			query := record.ParcelId
			if query == "" {
				query = record.Address
			}

			result, err := client.Resolve(ctx, query)
			if fetchutil.IsRateLimited(err) {
				// stand down entirely, hammering on makes it worse
				slog.Error("rate limited, stopping", "err", err, "remaining", len(records)-i)
				break
			}
			if err != nil {
				slog.Warn("failed to resolve record", "parcel", record.ParcelId, "err", err)
				failed++
				continue
			}

			switch result.Status {
			case regrid.StatusResolved:
				record = property.Merge(record, *result.Supplement)
				record.ResolvedDate = timezone.FormatAuctionDate(timezone.Now())
				if err := store.Upsert(ctx, record); err != nil {
					serviceutil.Fatal("failed to store record", err)
				}
				resolved++
			case regrid.StatusMultiple:
				slog.Warn("ambiguous parcel",
					"parcel", record.ParcelId,
					"candidates", len(result.Candidates),
					"search", result.SearchUrl)
				ambiguous++
			case regrid.StatusNotFound:
				slog.Warn("parcel not found",
					"parcel", record.ParcelId, "search", result.SearchUrl)
				missing++
			}

			if i < len(records)-1 {
				if err := enrichPause(ctx); err != nil {
					return
				}
			}
		}

		slog.Info("enrich complete",
			"resolved", resolved,
			"ambiguous", ambiguous,
			"missing", missing,
			"failed", failed)
	},
}
