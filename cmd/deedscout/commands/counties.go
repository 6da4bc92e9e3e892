package commands

import (
	"os"

	"deedscout-backend/lib/scrapers/realauction"
	"deedscout-backend/lib/serviceutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(countiesCmd)
}

var countiesCmd = &cobra.Command{
	Use:   "counties [state]",
	Short: "Lists the known auction sites, optionally filtered by state.",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		states, err := realauction.States()
		if err != nil {
			serviceutil.Fatal("failed to load county registry", err)
		}
		if len(args) == 1 {
			states = []string{args[0]}
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"State", "County", "Calendar"})
		for _, state := range states {
			counties, err := realauction.Counties(state)
			if err != nil {
				serviceutil.Fatal("failed to load county registry", err)
			}
			for _, county := range counties {
				t.AppendRow(table.Row{state, county.Name, county.Calendar})
			}
		}
		t.Render()
	},
}
