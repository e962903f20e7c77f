package config_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/tartampluch/go-cadence/internal/config"
)

// TestConstants_Integrity ensures critical constants are not empty or malformed.
// This prevents accidental deletion of keys required for runtime logic.
func TestConstants_Integrity(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"AppName", config.AppName},
		{"AppID", config.AppID},
		{"Version", config.Version},
		{"UserAgent", config.UserAgent},
		{"ICalVersion", config.ICalVersion},
		{"ICalProdid", config.ICalProdid},
		{"DefaultSlotTime", config.DefaultSlotTime},
		{"UIDSalt", config.UIDSalt},
		{"KeyringService", config.KeyringService},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotEmpty(t, tt.value, "Critical constant %s should not be empty", tt.name)
		})
	}
}

// TestDefaults_Sanity checks that default values make sense logically.
func TestDefaults_Sanity(t *testing.T) {
	assert.Equal(t, 2000, config.DefaultLeapYear, "Default leap year must be 2000 for consistency")

	// The trigger-time walk must cover a full year, leap days included.
	assert.Equal(t, 366, config.MaxTriggerWalkDays)

	// Slot bounds: at least one prompt per day, at most three.
	assert.Equal(t, 1, config.MinNotifyFrequency)
	assert.Equal(t, 3, config.MaxNotifyFrequency)

	// The default slot must itself parse with the slot format.
	_, err := time.Parse(config.TimeFormatSlot, config.DefaultSlotTime)
	assert.NoError(t, err, "DefaultSlotTime must match TimeFormatSlot")

	// Digest caps: the compact platform shows fewer names than the regular one.
	assert.Less(t, config.CompactProfileNameCap, config.RegularProfileNameCap)

	assert.Greater(t, config.DefaultSnapWindow, 0*time.Second, "Snap window must be positive")
	assert.Greater(t, config.DefaultFeedWindowDays, 0, "Feed window must be positive")
	assert.Greater(t, config.DefaultCustomSpacingDays, 0)
}

// TestUserAgent_Format ensures the UA string follows the standard format.
func TestUserAgent_Format(t *testing.T) {
	assert.True(t, strings.HasPrefix(config.UserAgent, "Go-Cadence/"), "UserAgent must start with AppName/")
}

// TestTimeoutsAndLimits ensures that operational constraints are reasonable.
func TestTimeoutsAndLimits(t *testing.T) {
	t.Parallel()

	assert.Greater(t, config.HTTPTimeout, 0*time.Second, "HTTPTimeout must be positive")
	assert.LessOrEqual(t, config.HTTPTimeout, 2*time.Minute, "HTTPTimeout should not be excessively long")
	assert.Greater(t, config.ShutdownTimeout, 0*time.Second, "ShutdownTimeout must be positive")

	assert.Greater(t, config.MaxHTTPResponseSize, 0, "MaxHTTPResponseSize must be positive")
	assert.GreaterOrEqual(t, int64(config.MaxHTTPResponseSize), int64(50*1024*1024), "MaxHTTPResponseSize should be at least 50MB for real-world usage")
	assert.Less(t, int64(config.MaxHTTPResponseSize), int64(1*1024*1024*1024), "MaxHTTPResponseSize should stay under 1GB to protect RAM")
}

// TestRuntimeDefaults verifies the assembled runtime configuration.
func TestRuntimeDefaults(t *testing.T) {
	cfg := config.Default()

	assert.Equal(t, config.LocalhostBindAddr+config.AddrSeparator+config.DefaultPort, cfg.ListenAddr())
	assert.Equal(t, config.DefaultLanguage, cfg.Notify.Language)
	assert.Equal(t, config.DefaultFeedWindowDays, cfg.Feed.WindowDays)
}
