package commands

import (
	"fmt"
	"log/slog"
	"os"

	"deedscout-backend/lib/scrapers/regrid"
	"deedscout-backend/lib/serviceutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(resolveCmd)
}

func newRegridClient(cfg Config) *regrid.Client {
	client, err := regrid.NewClient(regrid.ClientOptions{
		Email:    cfg.Regrid.Email,
		Password: cfg.Regrid.Password,
	})
	if err != nil {
		serviceutil.Fatal("failed to initialize regrid client", err)
	}
	return client
}

var resolveCmd = &cobra.Command{
	Use:   "resolve <parcel id, address or regrid url>",
	Short: "Resolves a single query against the parcel site and prints the result.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := readConfig()
		client := newRegridClient(cfg)

		result, err := client.Resolve(cmd.Context(), args[0])
		if err != nil {
			serviceutil.Fatal("failed to resolve query", err)
		}

		switch result.Status {
		case regrid.StatusNotFound:
			slog.Info("no matches", "query", result.Query, "search", result.SearchUrl)
		case regrid.StatusMultiple:
			slog.Info("multiple matches", "query", result.Query, "count", len(result.Candidates))
			t := table.NewWriter()
			t.SetOutputMirror(os.Stdout)
			t.AppendHeader(table.Row{"Score", "Parcel", "Address", "City", "Owner", "Url"})
			for _, c := range result.Candidates {
				t.AppendRow(table.Row{
					fmt.Sprintf("%.2f", c.Score),
					c.ParcelId, c.Address, c.City, c.Owner, c.Url,
				})
			}
			t.Render()
		case regrid.StatusResolved:
			s := result.Supplement
			t := table.NewWriter()
			t.SetOutputMirror(os.Stdout)
			t.AppendRow(table.Row{"Parcel", s.ParcelId})
			t.AppendRow(table.Row{"Address", s.Address})
			t.AppendRow(table.Row{"City", s.City})
			t.AppendRow(table.Row{"Zip", s.Zip})
			t.AppendRow(table.Row{"Owner", s.Owner})
			if s.Acres != nil {
				t.AppendRow(table.Row{"Acres", fmt.Sprintf("%.3f", *s.Acres)})
			}
			t.AppendRow(table.Row{"Zoning", s.Zoning})
			t.AppendRow(table.Row{"Zoning Type", s.ZoningType})
			t.AppendRow(table.Row{"Coordinates", s.Coordinates})
			t.AppendRow(table.Row{"Flood Zone", s.FloodZone})
			t.AppendRow(table.Row{"Assessed Value", fmt.Sprintf("%.2f", s.AssessedValue)})
			t.AppendRow(table.Row{"Regrid", s.RegridUrl})
			t.Render()
		}
	},
}
