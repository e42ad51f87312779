package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	DBFile         string
	Addr           string
	AdminAddr      string
	Environment    string
	PageStateTTL   time.Duration
	MaxAvatarBytes int64
	LoginRate      float64
	LoginBurst     int
	SecureCookies  bool
	TrustProxy     bool
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// Load reads configuration from CATALYST_* environment variables and,
// when CATALYST_CONFIG points to a file, from that file.
func Load(cliMode bool) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("catalyst")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("db", "catalyst.db")
	v.SetDefault("addr", ":8080")
	v.SetDefault("admin_addr", "localhost:8081")
	v.SetDefault("environment", "production")
	v.SetDefault("page_state_ttl", "30m")
	v.SetDefault("max_avatar_bytes", 2<<20)
	v.SetDefault("login_rate", 1.0)
	v.SetDefault("login_burst", 5)
	v.SetDefault("secure_cookies", false)
	v.SetDefault("trust_proxy", false)

	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	cfg := &Config{
		DBFile:         v.GetString("db"),
		Addr:           v.GetString("addr"),
		AdminAddr:      v.GetString("admin_addr"),
		Environment:    v.GetString("environment"),
		PageStateTTL:   v.GetDuration("page_state_ttl"),
		MaxAvatarBytes: v.GetInt64("max_avatar_bytes"),
		LoginRate:      v.GetFloat64("login_rate"),
		LoginBurst:     v.GetInt("login_burst"),
		SecureCookies:  v.GetBool("secure_cookies"),
		TrustProxy:     v.GetBool("trust_proxy"),
	}

	if err := cfg.Validate(cliMode); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate(cliMode bool) error {
	if c.AdminAddr == "" {
		return fmt.Errorf("CATALYST_ADMIN_ADDR is required")
	}

	// CLI commands only talk to the admin server.
	if cliMode {
		return nil
	}

	if c.DBFile == "" {
		return fmt.Errorf("CATALYST_DB is required")
	}

	if c.PageStateTTL <= 0 {
		return fmt.Errorf("CATALYST_PAGE_STATE_TTL must be greater than 0")
	}

	if c.MaxAvatarBytes <= 0 {
		return fmt.Errorf("CATALYST_MAX_AVATAR_BYTES must be greater than 0")
	}

	if c.LoginRate <= 0 || c.LoginBurst <= 0 {
		return fmt.Errorf("CATALYST_LOGIN_RATE and CATALYST_LOGIN_BURST must be greater than 0")
	}

	return nil
}
