package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(false)
	require.NoError(t, err)

	require.Equal(t, "catalyst.db", cfg.DBFile)
	require.Equal(t, ":8080", cfg.Addr)
	require.Equal(t, "localhost:8081", cfg.AdminAddr)
	require.Equal(t, 30*time.Minute, cfg.PageStateTTL)
	require.Equal(t, int64(2<<20), cfg.MaxAvatarBytes)
	require.False(t, cfg.TrustProxy)
	require.False(t, cfg.IsDevelopment())
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("CATALYST_DB", "other.db")
	t.Setenv("CATALYST_ADDR", ":9999")
	t.Setenv("CATALYST_ENVIRONMENT", "development")
	t.Setenv("CATALYST_PAGE_STATE_TTL", "5m")
	t.Setenv("CATALYST_TRUST_PROXY", "true")

	cfg, err := Load(false)
	require.NoError(t, err)

	require.Equal(t, "other.db", cfg.DBFile)
	require.Equal(t, ":9999", cfg.Addr)
	require.Equal(t, 5*time.Minute, cfg.PageStateTTL)
	require.True(t, cfg.TrustProxy)
	require.True(t, cfg.IsDevelopment())
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalyst.yaml")
	require.NoError(t, os.WriteFile(path, []byte("addr: \":7070\"\nlogin_burst: 9\n"), 0600))
	t.Setenv("CATALYST_CONFIG", path)

	cfg, err := Load(false)
	require.NoError(t, err)
	require.Equal(t, ":7070", cfg.Addr)
	require.Equal(t, 9, cfg.LoginBurst)
}

func TestValidate(t *testing.T) {
	valid := Config{
		DBFile:         "x.db",
		AdminAddr:      "localhost:1",
		PageStateTTL:   time.Minute,
		MaxAvatarBytes: 1,
		LoginRate:      1,
		LoginBurst:     1,
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		cliMode bool
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false, false},
		{"missing db", func(c *Config) { c.DBFile = "" }, false, true},
		{"missing db in cli mode", func(c *Config) { c.DBFile = "" }, true, false},
		{"zero ttl", func(c *Config) { c.PageStateTTL = 0 }, false, true},
		{"zero avatar limit", func(c *Config) { c.MaxAvatarBytes = 0 }, false, true},
		{"zero burst", func(c *Config) { c.LoginBurst = 0 }, false, true},
		{"missing admin addr", func(c *Config) { c.AdminAddr = "" }, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.mutate(&c)
			err := c.Validate(tt.cliMode)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}
