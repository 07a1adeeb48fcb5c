package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcdev12/auctionpro/go/internal/dbconfig"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, zerolog.InfoLevel, cfg.LogLevel)
	assert.Equal(t, 5*time.Second, cfg.BidDuration)
	assert.True(t, cfg.StartingBudget.Equal(decimal.NewFromInt(120)))
	assert.Equal(t, 4, cfg.ExpiryWorkers)
	assert.Equal(t, dbconfig.DriverMemory, cfg.DB.Driver)
	assert.Equal(t, "@every 1m", cfg.ArchiveSchedule)
	assert.Equal(t, 10*time.Minute, cfg.ArchiveAfter)
	assert.Empty(t, cfg.NATSURL)
}

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "auctiond.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
http-addr: ":9000"
bid-duration: 8s
starting-budget: "200.50"
db-driver: sqlite
sqlite-path: /var/lib/auction.db
`), 0o600))

	t.Setenv("AUCTION_BID_DURATION", "3s")
	t.Setenv("AUCTION_LOG_LEVEL", "debug")

	cfg, err := Load([]string{"--config", path, "--expiry-workers", "2", "--log-level", "warn"})
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.HTTPAddr, "file value")
	assert.Equal(t, 3*time.Second, cfg.BidDuration, "env beats file")
	assert.Equal(t, zerolog.WarnLevel, cfg.LogLevel, "flag beats env")
	assert.Equal(t, 2, cfg.ExpiryWorkers)
	assert.True(t, cfg.StartingBudget.Equal(decimal.RequireFromString("200.50")))
	assert.Equal(t, dbconfig.DriverSQLite, cfg.DB.Driver)
	assert.Equal(t, "/var/lib/auction.db", cfg.DB.SQLitePath)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "bad_level", args: []string{"--log-level", "loud"}},
		{name: "bad_budget", args: []string{"--starting-budget", "lots"}},
		{name: "zero_budget", args: []string{"--starting-budget", "0"}},
		{name: "zero_duration", args: []string{"--bid-duration", "0s"}},
		{name: "no_workers", args: []string{"--expiry-workers", "0"}},
		{name: "bad_driver", args: []string{"--db-driver", "oracle"}},
		{name: "unknown_flag", args: []string{"--nope"}},
		{name: "missing_file", args: []string{"--config", "/does/not/exist.yaml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.args)
			assert.Error(t, err)
		})
	}
}
