// Package config provides configuration management for the stamp remapper.
package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. STAMP_DATABASE_HOST.
const EnvPrefix = "STAMP"

// DefaultPreserveAnnotation marks members that must keep their names.
const DefaultPreserveAnnotation = "wtf.pants.stamp.annotations.StampPreserve"

// Config holds all configuration for the application.
type Config struct {
	Mapping  MappingConfig  `mapstructure:"mapping"`
	Database DatabaseConfig `mapstructure:"database"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Output   OutputConfig   `mapstructure:"output"`
	Log      LogConfig      `mapstructure:"log"`
}

// MappingConfig controls how class mappings are built.
type MappingConfig struct {
	PreserveAnnotation    string   `mapstructure:"preserve_annotation"`
	AllowDuplicateMembers bool     `mapstructure:"allow_duplicate_members"`
	LibraryPrefixes       []string `mapstructure:"library_prefixes"`
	ApplicationPrefixes   []string `mapstructure:"application_prefixes"`
	Workers               int      `mapstructure:"workers"`
	FilterCacheSize       int      `mapstructure:"filter_cache_size"`
}

// DatabaseConfig holds database connection configuration.
type DatabaseConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Type     string `mapstructure:"type"` // postgres, mysql or sqlite
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Database string `mapstructure:"database"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Path     string `mapstructure:"path"` // sqlite file
	MaxConns int    `mapstructure:"max_conns"`
}

// StorageConfig holds object storage configuration for published exports.
type StorageConfig struct {
	Type      string `mapstructure:"type"` // cos or local
	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
	SecretID  string `mapstructure:"secret_id"`
	SecretKey string `mapstructure:"secret_key"`
	Domain    string `mapstructure:"domain"`     // e.g., "myqcloud.com"
	Scheme    string `mapstructure:"scheme"`     // e.g., "https" or "http"
	LocalPath string `mapstructure:"local_path"` // for local storage
	Prefix    string `mapstructure:"prefix"`     // key prefix for uploads
}

// OutputConfig controls mapping export files.
type OutputConfig struct {
	Dir    string `mapstructure:"dir"`
	Format string `mapstructure:"format"` // json, gzip, zstd or srg
	Pretty bool   `mapstructure:"pretty"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"` // empty logs to stderr
}

// Load reads configuration from the specified file path. An empty path
// searches ./stamp.yaml, ./configs/stamp.yaml and /etc/stamp/stamp.yaml;
// a missing file falls back to defaults.
func Load(configPath string) (*Config, error) {
	v := newViper()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("stamp")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/stamp")
	}

	if err := v.ReadInConfig(); err != nil {
		// a missing file means defaults plus environment
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	return unmarshal(v)
}

// LoadFromReader loads configuration from raw content (useful for testing).
func LoadFromReader(configType string, content []byte) (*Config, error) {
	v := newViper()

	v.SetConfigType(configType)
	if err := v.ReadConfig(bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	return unmarshal(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func unmarshal(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("mapping.preserve_annotation", DefaultPreserveAnnotation)
	v.SetDefault("mapping.allow_duplicate_members", false)
	v.SetDefault("mapping.library_prefixes", []string{})
	v.SetDefault("mapping.application_prefixes", []string{})
	v.SetDefault("mapping.workers", 4)
	v.SetDefault("mapping.filter_cache_size", 10000)

	v.SetDefault("database.enabled", false)
	v.SetDefault("database.type", "sqlite")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.path", "./stamp.db")
	v.SetDefault("database.max_conns", 10)

	v.SetDefault("storage.type", "local")
	v.SetDefault("storage.local_path", "./storage")
	v.SetDefault("storage.prefix", "mappings")

	v.SetDefault("output.dir", "./output")
	v.SetDefault("output.format", "json")
	v.SetDefault("output.pretty", true)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.output_path", "")
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Mapping.PreserveAnnotation) == "" {
		return fmt.Errorf("mapping preserve_annotation is required")
	}
	if c.Mapping.Workers < 1 {
		return fmt.Errorf("mapping workers must be at least 1")
	}

	switch c.Output.Format {
	case "json", "gzip", "zstd", "srg":
	default:
		return fmt.Errorf("unsupported output format: %s", c.Output.Format)
	}

	if c.Database.Enabled {
		switch c.Database.Type {
		case "postgres", "mysql":
			if c.Database.Host == "" {
				return fmt.Errorf("database host is required")
			}
		case "sqlite":
			if c.Database.Path == "" {
				return fmt.Errorf("database path is required for sqlite")
			}
		default:
			return fmt.Errorf("unsupported database type: %s", c.Database.Type)
		}
	}

	// Storage config validation is delegated to the storage package

	return nil
}

// EnsureOutputDir creates the output directory if it doesn't exist.
func (c *Config) EnsureOutputDir() error {
	if c.Output.Dir == "" {
		return nil
	}
	return os.MkdirAll(c.Output.Dir, 0755)
}
