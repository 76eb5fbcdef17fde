// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/spf13/viper"
)

type Config struct {
	HTTPAddr       string `mapstructure:"http_addr"`
	PostgresURL    string `mapstructure:"postgres_url"`
	PlatformWallet string `mapstructure:"platform_wallet"`

	MigrateMaxTries   uint `mapstructure:"migrate_max_tries"`
	MigrateRetryDelay int  `mapstructure:"migrate_retry_delay_ms"`

	LogFile      string `mapstructure:"log_file"`
	DebugLogging bool   `mapstructure:"debug_logging"`
}

const (
	DefaultHTTPAddr          = ":8080"
	DefaultMigrateMaxTries   = 3
	DefaultMigrateRetryDelay = 1000
	DefaultLogFile           = "launchpad.log"
)

// Load reads the config file at path and overlays LAUNCHPAD_* env vars.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	defaults := map[string]interface{}{
		"http_addr":              DefaultHTTPAddr,
		"migrate_max_tries":      DefaultMigrateMaxTries,
		"migrate_retry_delay_ms": DefaultMigrateRetryDelay,
		"log_file":               DefaultLogFile,
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.AutomaticEnv()
	v.SetEnvPrefix("LAUNCHPAD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if env := v.GetString("POSTGRES_URL"); env != "" {
		cfg.PostgresURL = env
	}
	if env := v.GetString("PLATFORM_WALLET"); env != "" {
		cfg.PlatformWallet = env
	}

	return &cfg, validate(&cfg)
}

func validate(cfg *Config) error {
	if cfg.HTTPAddr == "" {
		return errors.New("http_addr must not be empty")
	}
	if cfg.PlatformWallet == "" {
		return errors.New("missing platform_wallet in configuration")
	}
	if _, err := solana.PublicKeyFromBase58(cfg.PlatformWallet); err != nil {
		return fmt.Errorf("invalid platform_wallet: %w", err)
	}
	if cfg.MigrateMaxTries == 0 {
		return errors.New("migrate_max_tries must be at least 1")
	}
	if cfg.MigrateRetryDelay <= 0 {
		return errors.New("invalid migrate_retry_delay_ms")
	}
	return nil
}

// PlatformWalletKey returns the validated platform wallet.
func (c *Config) PlatformWalletKey() solana.PublicKey {
	return solana.MustPublicKeyFromBase58(c.PlatformWallet)
}
