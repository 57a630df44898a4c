package daemon

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tokenmint/tokenmint/internal/config"
	"github.com/tokenmint/tokenmint/internal/db/controller/token"
	"github.com/tokenmint/tokenmint/internal/db/models"
)

// testConfig returns a daemon config backed by an in-memory database.
func testConfig() *config.Config {
	return &config.Config{
		DevMode: true,
		Title:   "TokenMint",
		DB: config.DB{
			GormEngine: "sqlite",
			Path:       ":memory:",
		},
		Webserver: config.Webserver{
			Port:         8080,
			ShutDownTime: 1,
			URL:          "http://localhost:8080",
		},
		Mint: config.Mint{
			DefaultLength:   16,
			MaxLength:       64,
			MaxCount:        5,
			DefaultAlphabet: []string{"a-z", "0-9"},
			OTPIssuer:       "TokenMint",
			OTPSecretSize:   20,
		},
	}
}

func TestNewNilConfig(t *testing.T) {
	d, err := New(nil)
	require.ErrorIs(t, err, ErrConfigNil)
	assert.Nil(t, d)
}

func TestNewUnknownEngine(t *testing.T) {
	cfg := testConfig()
	cfg.DB.GormEngine = "oracle"

	d, err := New(cfg)
	require.ErrorIs(t, err, ErrUnknownGormEngine)
	assert.Nil(t, d)
}

func TestNewSQLite(t *testing.T) {
	d, err := New(testConfig())
	require.NoError(t, err)
	require.NotNil(t, d)
	require.NotNil(t, d.webService)

	// The migration must have produced a usable token registry.
	record := models.Token{
		ID:          "t-1",
		Name:        "ci deploy",
		Fingerprint: "fp-1",
		Length:      16,
	}
	require.NoError(t, token.Create(d.db, &record))

	stored, err := token.Get(d.db, "t-1")
	require.NoError(t, err)
	assert.Equal(t, "ci deploy", stored.Name)
}

func TestNewBadDefaultAlphabet(t *testing.T) {
	cfg := testConfig()
	cfg.Mint.DefaultAlphabet = []string{"klingon"}

	d, err := New(cfg)
	require.Error(t, err)
	assert.Nil(t, d)
}

func TestSweepPurgesExpired(t *testing.T) {
	d, err := New(testConfig())
	require.NoError(t, err)

	expired := time.Now().Add(-time.Hour)
	live := time.Now().Add(time.Hour)

	seed := []models.Token{
		{ID: "exp-1", Name: "old", Fingerprint: "fp-exp-1", Length: 8, ExpiresAt: &expired},
		{ID: "live-1", Name: "fresh", Fingerprint: "fp-live-1", Length: 8, ExpiresAt: &live},
		{ID: "eternal-1", Name: "keeper", Fingerprint: "fp-eternal-1", Length: 8},
	}
	for i := range seed {
		require.NoError(t, d.db.Create(&seed[i]).Error)
	}

	d.sweep()

	remaining, err := token.GetAll(d.db)
	require.NoError(t, err)
	require.Len(t, remaining, 2)

	for _, r := range remaining {
		assert.NotEqual(t, "exp-1", r.ID)
	}
}
