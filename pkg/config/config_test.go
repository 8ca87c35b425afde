package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"repair-tracker/pkg/trackingcode"
)

func TestNew_ReadsEnvironment(t *testing.T) {
	t.Setenv("APP_ENV", "Production")
	t.Setenv("ADMIN_API_KEY", "s3cret")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://qsolutions.com, https://www.qsolutions.com ,")
	t.Setenv("MAIL_PORT", "465")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "not-a-number")
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("PUBLIC_BASE_URL", "https://track.qsolutions.com/")

	cfg := New()

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "s3cret", cfg.Admin.APIKey)
	assert.Equal(t, []string{"https://qsolutions.com", "https://www.qsolutions.com"}, cfg.Security.AllowedOrigins)
	assert.Equal(t, 465, cfg.Mail.Port)
	assert.Equal(t, 10, cfg.Security.RateLimitPerMinute)
	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "https://track.qsolutions.com", cfg.Server.BaseURL)
	assert.Equal(t, trackingcode.ModeRandom, cfg.Tracking.Mode)
	assert.False(t, cfg.Mail.Enabled())
}

func TestConfig_Validate(t *testing.T) {
	cases := []struct {
		name    string
		env     string
		mode    trackingcode.Mode
		wantErr bool
	}{
		{name: "random in production", env: "production", mode: trackingcode.ModeRandom},
		{name: "time in development", env: "development", mode: trackingcode.ModeTime},
		{name: "time in production", env: "production", mode: trackingcode.ModeTime, wantErr: true},
		{name: "unknown mode", env: "development", mode: "sequential", wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := &Config{App: AppConfig{Env: tc.env}, Tracking: TrackingConfig{Mode: tc.mode}}
			err := cfg.Validate()
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}
