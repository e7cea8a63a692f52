package testutil_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/tripplanner/migrations"
	"github.com/pkordes/tripplanner/testutil"
)

// TestMigrations applies every migration, checks the schema, then rolls all
// the way back to an empty database.
func TestMigrations(t *testing.T) {
	db := testutil.NewSQLDB(t)

	provider, err := goose.NewProvider(
		goose.DialectPostgres,
		db,
		migrations.FS,
	)
	require.NoError(t, err, "create goose provider")

	ctx := context.Background()

	// The repo package's TestMain may already have migrated this database.
	if _, err := provider.DownTo(ctx, 0); err != nil {
		t.Fatalf("TestMigrations: initial reset: %v", err)
	}

	results, err := provider.Up(ctx)
	require.NoError(t, err, "goose up")
	assert.NotEmpty(t, results, "expected at least one migration to be applied")

	for _, table := range []string{"trips", "stops"} {
		assertTableExists(t, db, table)
	}
	assertDeferredUnique(t, db, "stops_trip_day_order_key")

	_, err = provider.DownTo(ctx, 0)
	require.NoError(t, err, "goose down-to 0")

	for _, table := range []string{"trips", "stops"} {
		assertTableNotExists(t, db, table)
	}
}

func assertTableExists(t *testing.T, db *sql.DB, table string) {
	t.Helper()
	assertTablePresence(t, db, table, true)
}

func assertTableNotExists(t *testing.T, db *sql.DB, table string) {
	t.Helper()
	assertTablePresence(t, db, table, false)
}

func assertTablePresence(t *testing.T, db *sql.DB, table string, shouldExist bool) {
	t.Helper()

	const q = `
		SELECT EXISTS (
			SELECT 1 FROM information_schema.tables
			WHERE table_schema = 'public'
			AND   table_name   = $1
		)`
	var exists bool
	err := db.QueryRowContext(context.Background(), q, table).Scan(&exists)
	require.NoError(t, err, "check table existence for %q", table)

	if shouldExist {
		assert.True(t, exists, "expected table %q to exist", table)
	} else {
		assert.False(t, exists, "expected table %q to not exist", table)
	}
}

// assertDeferredUnique fails unless the named constraint is checked at commit.
// Reorder batches rely on it to pass through duplicate (trip, day, order) rows.
func assertDeferredUnique(t *testing.T, db *sql.DB, name string) {
	t.Helper()

	const q = `
		SELECT condeferrable, condeferred
		FROM pg_constraint
		WHERE conname = $1 AND contype = 'u'`
	var deferrable, deferred bool
	err := db.QueryRowContext(context.Background(), q, name).Scan(&deferrable, &deferred)
	require.NoError(t, err, "look up constraint %q", name)

	assert.True(t, deferrable, "%q must be DEFERRABLE", name)
	assert.True(t, deferred, "%q must be INITIALLY DEFERRED", name)
}
