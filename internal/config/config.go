package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application
type Config struct {
	Server       ServerConfig       `yaml:"server"`
	Storage      StorageConfig      `yaml:"storage"`
	Interactions InteractionsConfig `yaml:"interactions"`
	Profiles     ProfilesConfig     `yaml:"profiles"`
	Log          LogConfig          `yaml:"log"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port         int    `yaml:"port"`
	Host         string `yaml:"host"`
	ReadTimeout  int    `yaml:"read_timeout_s"`
	WriteTimeout int    `yaml:"write_timeout_s"`
	IdleTimeout  int    `yaml:"idle_timeout_s"`
}

// StorageConfig selects and configures the key-value backend that holds matches
type StorageConfig struct {
	Backend        string         `yaml:"backend"` // memory, sqlite, postgres, s3
	Key            string         `yaml:"key"`
	MaxMatches     int            `yaml:"max_matches"`
	DebounceMS     int            `yaml:"debounce_ms"`
	WriteTimeoutMS int            `yaml:"write_timeout_ms"`
	SQLitePath     string         `yaml:"sqlite_path"`
	Database       DatabaseConfig `yaml:"database"`
	AWS            AWSConfig      `yaml:"aws"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

// AWSConfig holds AWS configuration
type AWSConfig struct {
	Region    string `yaml:"region"`
	S3Bucket  string `yaml:"s3_bucket"`
	S3Prefix  string `yaml:"s3_prefix"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Endpoint  string `yaml:"endpoint"` // S3-compatible endpoint, path-style addressing when set
}

// InteractionsConfig holds settings for the like/dislike endpoint
type InteractionsConfig struct {
	DelayMS int `yaml:"delay_ms"`
}

// ProfilesConfig holds settings for the profile listing endpoint
type ProfilesConfig struct {
	DelayMS int    `yaml:"delay_ms"`
	File    string `yaml:"file"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string `yaml:"level"`
}

// Default returns the configuration used when a field is left empty.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:         8080,
			Host:         "0.0.0.0",
			ReadTimeout:  15,
			WriteTimeout: 15,
			IdleTimeout:  60,
		},
		Storage: StorageConfig{
			Backend:        "memory",
			Key:            "tinder-matches",
			MaxMatches:     1000,
			DebounceMS:     200,
			WriteTimeoutMS: 5000,
			SQLitePath:     "matches.db",
		},
		Interactions: InteractionsConfig{DelayMS: 200},
		Profiles:     ProfilesConfig{DelayMS: 300},
		Log:          LogConfig{Level: "info"},
	}
}

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML on top of Default.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage.Backend {
	case "memory", "sqlite", "postgres", "s3":
	default:
		return fmt.Errorf("unsupported storage backend: %q", c.Storage.Backend)
	}
	if c.Storage.Key == "" {
		return fmt.Errorf("storage.key must not be empty")
	}
	if c.Storage.MaxMatches <= 0 {
		return fmt.Errorf("storage.max_matches must be positive")
	}
	if c.Storage.DebounceMS < 0 || c.Interactions.DelayMS < 0 || c.Profiles.DelayMS < 0 {
		return fmt.Errorf("delays must not be negative")
	}
	if c.Storage.Backend == "s3" && c.Storage.AWS.S3Bucket == "" {
		return fmt.Errorf("storage.aws.s3_bucket is required for the s3 backend")
	}
	return nil
}

// DSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// Debounce returns the persistence debounce interval
func (c *StorageConfig) Debounce() time.Duration {
	return time.Duration(c.DebounceMS) * time.Millisecond
}

// WriteTimeout returns the deadline for a single persistence write
func (c *StorageConfig) WriteTimeout() time.Duration {
	return time.Duration(c.WriteTimeoutMS) * time.Millisecond
}

// Delay returns the simulated processing latency for interactions
func (c *InteractionsConfig) Delay() time.Duration {
	return time.Duration(c.DelayMS) * time.Millisecond
}

// Delay returns the simulated latency for the profile listing
func (c *ProfilesConfig) Delay() time.Duration {
	return time.Duration(c.DelayMS) * time.Millisecond
}
