package commands

import (
	"context"
	"fmt"
	"os"

	"deedscout-backend/lib/configutil"
	"deedscout-backend/lib/propertystore"
	"deedscout-backend/lib/serviceutil"
	"deedscout-backend/lib/sqliteutil"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "deedscout",
	Short: "deedscout crawls tax deed auction calendars and enriches listings with parcel data.",
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type RegridConfig struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type Config struct {
	Regrid   RegridConfig `json:"regrid"`
	Database string       `json:"database"`
}

func readConfig() Config {
	cfg, err := configutil.ReadConfig[Config]("deedscout.json5")
	if err != nil {
		serviceutil.Fatal("failed to read config", err)
	}
	if cfg.Database == "" {
		cfg.Database = "deedscout.db"
	}
	return cfg
}

// openStore opens the database from config, or dbOverride when the
// command was given an explicit --db.
func openStore(cfg Config, dbOverride string) propertystore.Store {
	target := cfg.Database
	if dbOverride != "" {
		target = dbOverride
	}
	db, err := sqliteutil.OpenDB(propertystore.Schema, target)
	if err != nil {
		serviceutil.Fatal("failed to open db", err)
	}
	return propertystore.NewStore(db)
}
