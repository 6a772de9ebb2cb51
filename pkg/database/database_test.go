package database

import (
	"testing"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"helpboard/config"
	"helpboard/pkg/logger"
)

func TestQualify(t *testing.T) {
	assert.Equal(t, "announcements", Qualify("", "announcements"))
	assert.Equal(t, "public.announcements", Qualify("public", "announcements"))
}

func TestSplitStatements(t *testing.T) {
	stmts := splitStatements("CREATE TABLE a (id INT);\n\n  CREATE INDEX i ON a (id);\n")
	assert.Equal(t, []string{"CREATE TABLE a (id INT)", "CREATE INDEX i ON a (id)"}, stmts)
}

func TestRunMigrationsIsIdempotent(t *testing.T) {
	db, err := sqlx.Connect(DriverSQLite, ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	defer db.Close()

	require.NoError(t, RunMigrations(db, "", logger.NewNop()))
	require.NoError(t, RunMigrations(db, "", logger.NewNop()))

	var versions int
	require.NoError(t, db.Get(&versions, "SELECT COUNT(*) FROM schema_migrations"))
	assert.Equal(t, 1, versions)

	for _, table := range []string{"announcements", "responses", "messages", "donations", "celebrity_requests", "site_visits"} {
		var n int
		assert.NoError(t, db.Get(&n, "SELECT COUNT(*) FROM "+table), table)
	}
}

func TestMigrationsExistForEveryDriver(t *testing.T) {
	for _, driver := range []string{DriverPostgres, DriverMySQL, DriverSQLite} {
		migrations, err := loadMigrations(driver, "")
		require.NoError(t, err, driver)
		assert.NotEmpty(t, migrations, driver)
	}
}

func TestNewConnectionRejectsUnknownDriver(t *testing.T) {
	_, err := NewConnection(config.DatabaseConfig{Driver: "oracle", URL: "x"})
	assert.Error(t, err)
}
