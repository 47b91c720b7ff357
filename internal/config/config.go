package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	ListenAddr    string        `mapstructure:"listen_addr"`
	DatabasePath  string        `mapstructure:"database"`
	SessionTTL    time.Duration `mapstructure:"session_ttl"`
	SecureCookies bool          `mapstructure:"secure_cookies"`
	LogLevel      string        `mapstructure:"log_level"`
}

const (
	DefaultConfigFile   = "biodex.yaml"
	DefaultListenAddr   = "localhost:8080"
	DefaultDatabasePath = "biodex.db"
	DefaultSessionTTL   = 24 * time.Hour
	DefaultLogLevel     = "info"
)

// Load resolves configuration in file, then environment (BIODEX_*),
// then default order. A missing file is only an error when a path was
// given explicitly.
func Load(fileName string) (Config, error) {
	v := viper.New()

	v.SetDefault("listen_addr", DefaultListenAddr)
	v.SetDefault("database", DefaultDatabasePath)
	v.SetDefault("session_ttl", DefaultSessionTTL)
	v.SetDefault("secure_cookies", false)
	v.SetDefault("log_level", DefaultLogLevel)

	v.SetEnvPrefix("biodex")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	explicit := fileName != ""
	if !explicit {
		fileName = DefaultConfigFile
	}
	v.SetConfigFile(fileName)

	if err := v.ReadInConfig(); err != nil {
		if explicit {
			return Config{}, fmt.Errorf("load config '%s': %w", fileName, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config unmarshal: %w", err)
	}

	return cfg, nil
}
