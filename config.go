package fastdb

import (
	"fmt"

	"github.com/spf13/viper"
)

// Defaults shared by the server and client.
const (
	DefaultHost = "localhost"
	DefaultPort = 5100

	DefaultDataDir     = "databases"
	DefaultCatalogFile = "fastdb_info.db"
	DefaultLogFile     = "log.txt"
	DefaultDigestAlgo  = "sha256"

	// DatabaseExt is the extension of every backing-store file.
	DatabaseExt = ".db"
)

// Config holds the server-side settings. Values come from defaults, an
// optional config file, FASTDB_* environment variables, and command-line
// flags, in increasing order of precedence.
type Config struct {
	Host        string `mapstructure:"host"`
	Port        int    `mapstructure:"port"`
	DataDir     string `mapstructure:"data_dir"`
	CatalogFile string `mapstructure:"catalog_file"`
	LogFile     string `mapstructure:"log_file"`
	DigestAlgo  string `mapstructure:"digest_algo"`
}

// NewViper returns a viper instance preloaded with the FastDB defaults and
// environment bindings. Callers bind their flags on top of it.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("host", DefaultHost)
	v.SetDefault("port", DefaultPort)
	v.SetDefault("data_dir", DefaultDataDir)
	v.SetDefault("catalog_file", DefaultCatalogFile)
	v.SetDefault("log_file", DefaultLogFile)
	v.SetDefault("digest_algo", DefaultDigestAlgo)
	v.SetEnvPrefix("FASTDB")
	v.AutomaticEnv()
	return v
}

// LoadConfig reads the optional config file (when path is non-empty) and
// unmarshals the merged settings.
func LoadConfig(v *viper.Viper, path string) (Config, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}
