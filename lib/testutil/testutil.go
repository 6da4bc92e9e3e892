package testutil

import (
	"database/sql"
	"testing"

	"deedscout-backend/lib/propertystore"
	"deedscout-backend/lib/sqliteutil"
	"deedscout-backend/lib/telemetry"

	"github.com/stretchr/testify/require"
)

// SetupDB opens an in-memory sqlite database with the given schema
// applied and tears it down with the test.
func SetupDB(t *testing.T, schema string) *sql.DB {
	t.Helper()

	cleanupTelemetry := telemetry.SetupForTesting(t, "deedscout-test")
	t.Cleanup(cleanupTelemetry)

	db, err := sqliteutil.OpenDB(schema, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

// SetupStore provides a property store backed by an in-memory
// database.
func SetupStore(t *testing.T) propertystore.Store {
	t.Helper()
	return propertystore.NewStore(SetupDB(t, propertystore.Schema))
}
