package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config holds all configuration for the importer
type Config struct {
	Import   ImportConfig   `mapstructure:"import"`
	Paligo   PaligoConfig   `mapstructure:"paligo"`
	Log      LogConfig      `mapstructure:"log"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Database DatabaseConfig `mapstructure:"database"`
}

// ImportConfig describes what gets imported and how
type ImportConfig struct {
	CSVFile      string `mapstructure:"csv_file"`
	DefaultColor int    `mapstructure:"default_color"`
	DryRun       bool   `mapstructure:"dry_run"`
}

// PaligoConfig holds the taxonomy API configuration
type PaligoConfig struct {
	BaseURL              string   `mapstructure:"base_url"`
	Timeout              int      `mapstructure:"timeout"`
	MaxRequestsPerSecond int      `mapstructure:"max_requests_per_second"`
	Proxies              []string `mapstructure:"proxies"`

	// Authentication
	Username string `mapstructure:"username"`
	APIKey   string `mapstructure:"api_key"`
	EnvFile  string `mapstructure:"env_file"`
}

// LogConfig controls the logrus setup and the optional rotating log file
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	File       string `mapstructure:"file"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
}

// RedisConfig holds Redis connection details for the outcome stream
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	Database int    `mapstructure:"database"`
	Stream   string `mapstructure:"stream"`
}

// DatabaseConfig holds Postgres connection details for the outcome table
type DatabaseConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
}

// Load reads configuration from an optional YAML file, the env file and
// environment variables. An empty path searches for config.yaml in the
// current directory; a missing config.yaml is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		log.Debug("No config.yaml found, using defaults")
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	if err := v.BindEnv("paligo.api_key", "PALIGO_API_KEY"); err != nil {
		return nil, fmt.Errorf("unable to bind api key: %w", err)
	}

	// Env lookups are lazy, so variables from the env file are still seen
	// by Unmarshal below. PALIGO_ENV_FILE overrides the path.
	envFile := v.GetString("paligo.env_file")
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			log.Debugf("Env file %s not loaded: %v", envFile, err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	return &config, nil
}

// Validate checks that everything a live import needs is present.
// Dry runs never touch the API, so credentials are not required for them.
func (c *Config) Validate() error {
	if c.Import.CSVFile == "" {
		return errors.New("import.csv_file is required")
	}
	if c.Import.DryRun {
		return nil
	}
	if c.Paligo.BaseURL == "" {
		return errors.New("paligo.base_url is required")
	}
	if c.Paligo.Username == "" {
		return errors.New("paligo.username is required")
	}
	if c.Paligo.APIKey == "" {
		return errors.New("PALIGO_API_KEY is not set")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("import.csv_file", "taxonomy_import.csv")
	v.SetDefault("import.default_color", 3)
	v.SetDefault("import.dry_run", false)

	v.SetDefault("paligo.base_url", "https://josh-anderson.paligoapp.com/api/v2/")
	v.SetDefault("paligo.timeout", 30)
	v.SetDefault("paligo.max_requests_per_second", 0)
	v.SetDefault("paligo.proxies", []string{})
	v.SetDefault("paligo.username", "josh.anderson@paligo.net")
	v.SetDefault("paligo.api_key", "")
	v.SetDefault("paligo.env_file", "environment.env")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size", 10)
	v.SetDefault("log.max_backups", 5)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.database", 0)
	v.SetDefault("redis.stream", "taxonomy:stream:outcomes")

	v.SetDefault("database.enabled", false)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "paligo")
	v.SetDefault("database.user", "paligo_user")
	v.SetDefault("database.password", "paligo_pass")
}
