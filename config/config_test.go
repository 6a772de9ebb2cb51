package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/helpboard")
	t.Setenv("ADMIN_CODE", "code")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.APIPort)
	assert.Equal(t, "pgx", cfg.Database.Driver)
	assert.Equal(t, "public", cfg.Database.Schema)
	assert.Equal(t, "manual", cfg.Payment.Provider)
	assert.Equal(t, "paid", cfg.Listing.Visibility)
	assert.True(t, cfg.Donation.AutoConfirm)
	assert.Equal(t, 12*time.Hour, cfg.Admin.SessionTTL)
	assert.Equal(t, 2*time.Minute, cfg.Reconcile.Interval)
	assert.Equal(t, "announcements", cfg.FunctionComponent)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "user:pw@tcp(localhost:3306)/helpboard")
	t.Setenv("DB_DRIVER", "mysql")
	t.Setenv("ADMIN_CODE_HASHES", "$2a$10$a,$2a$10$b")
	t.Setenv("PAYMENT_PROVIDER", "TINKOFF")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.1,10.0.0.2")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.Database.Schema)
	assert.Len(t, cfg.Admin.CodeHashes, 2)
	assert.Equal(t, "tinkoff", cfg.Payment.Provider)
	assert.Equal(t, []string{"10.0.0.1", "10.0.0.2"}, cfg.TrustedProxies)
}

func TestLoadRejectsInvalid(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/helpboard")
	t.Setenv("ADMIN_CODE", "")

	_, err := Load()
	assert.Error(t, err, "admin credentials are required")

	t.Setenv("ADMIN_CODE", "code")
	t.Setenv("LISTING_VISIBILITY", "everything")
	_, err = Load()
	assert.Error(t, err)
}
