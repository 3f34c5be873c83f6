package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config represents the application configuration
type Config struct {
	Server   ServerConfig   `json:"server"`
	Database DatabaseConfig `json:"database"`
	Landmap  LandmapConfig  `json:"landmap"`
	Lams     LamsConfig     `json:"lams"`
	Storage  StorageConfig  `json:"storage"`
	Sessions SessionsConfig `json:"sessions"`
	Tracking TrackingConfig `json:"tracking"`
	Logging  LoggingConfig  `json:"logging"`
}

// ServerConfig represents server configuration
type ServerConfig struct {
	Host         string   `json:"host"`
	Port         int      `json:"port"`
	ReadTimeout  Duration `json:"read_timeout"`
	WriteTimeout Duration `json:"write_timeout"`
	IdleTimeout  Duration `json:"idle_timeout"`
}

// DatabaseConfig represents database configuration
type DatabaseConfig struct {
	Host           string   `json:"host"`
	Port           int      `json:"port"`
	User           string   `json:"user"`
	Password       string   `json:"password"`
	DBName         string   `json:"db_name"`
	SSLMode        string   `json:"ssl_mode"`
	MaxConnections int      `json:"max_connections"`
	MaxIdleConns   int      `json:"max_idle_conns"`
	MaxLifetime    Duration `json:"max_lifetime"`
}

// LandmapConfig points at the boundary generation service
type LandmapConfig struct {
	BaseURL   string   `json:"base_url"`
	Token     string   `json:"token"`
	AssetHost string   `json:"asset_host"`
	Timeout   Duration `json:"timeout"`
}

// LamsConfig points at the farmer and land information services
type LamsConfig struct {
	BaseURL string   `json:"base_url"`
	Token   string   `json:"token"`
	Timeout Duration `json:"timeout"`
}

// StorageConfig controls map archiving. An empty bucket disables it.
type StorageConfig struct {
	Bucket          string `json:"bucket"`
	Prefix          string `json:"prefix"`
	Region          string `json:"region"`
	Endpoint        string `json:"endpoint"`
	AccessKeyID     string `json:"access_key_id"`
	SecretAccessKey string `json:"secret_access_key"`
}

// SessionsConfig controls plot session lifetime
type SessionsConfig struct {
	IdleTimeout   Duration `json:"idle_timeout"`
	SweepSchedule string   `json:"sweep_schedule"`
}

// TrackingConfig controls device location handling
type TrackingConfig struct {
	FixMaxAge     Duration `json:"fix_max_age"`
	LocateTimeout Duration `json:"locate_timeout"`
}

// LoggingConfig
type LoggingConfig struct {
	Level string `json:"level"`
}

// Duration accepts either a Go duration string ("30s") or nanoseconds in JSON.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
	case string:
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", value, err)
		}
		*d = Duration(parsed)
	default:
		return fmt.Errorf("invalid duration %v", v)
	}
	return nil
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// Std returns the value as a time.Duration
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Default returns the configuration used when no file or environment is present
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         8080,
			ReadTimeout:  Duration(15 * time.Second),
			WriteTimeout: Duration(30 * time.Second),
			IdleTimeout:  Duration(60 * time.Second),
		},
		Database: DatabaseConfig{
			Host:           "localhost",
			Port:           5432,
			User:           os.Getenv("USER"),
			DBName:         "plot_portal",
			SSLMode:        "disable",
			MaxConnections: 25,
			MaxIdleConns:   5,
			MaxLifetime:    Duration(30 * time.Minute),
		},
		Landmap: LandmapConfig{
			BaseURL: "http://localhost:8000",
			Timeout: Duration(60 * time.Second),
		},
		Lams: LamsConfig{
			BaseURL: "http://localhost:8001",
			Timeout: Duration(30 * time.Second),
		},
		Storage: StorageConfig{
			Prefix: "plot-portal",
		},
		Sessions: SessionsConfig{
			IdleTimeout:   Duration(30 * time.Minute),
			SweepSchedule: "@every 1m",
		},
		Tracking: TrackingConfig{
			FixMaxAge:     Duration(10 * time.Second),
			LocateTimeout: Duration(15 * time.Second),
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadConfig loads configuration from file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	config := Default()

	// Load from file if exists
	if configPath != "" {
		if data, err := os.ReadFile(configPath); err == nil {
			if err := json.Unmarshal(data, config); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	// Override with environment variables
	overrideWithEnv(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate rejects configurations the service cannot start with
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.Landmap.BaseURL == "" {
		return fmt.Errorf("landmap base_url is required")
	}
	if c.Lams.BaseURL == "" {
		return fmt.Errorf("lams base_url is required")
	}
	if c.Sessions.IdleTimeout <= 0 {
		return fmt.Errorf("sessions idle_timeout must be positive")
	}
	return nil
}

func overrideWithEnv(config *Config) {
	setString(&config.Server.Host, "SERVER_HOST")
	setInt(&config.Server.Port, "SERVER_PORT")

	setString(&config.Database.Host, "DATABASE_HOST")
	setInt(&config.Database.Port, "DATABASE_PORT")
	setString(&config.Database.User, "DATABASE_USER")
	setString(&config.Database.Password, "DATABASE_PASSWORD")
	setString(&config.Database.DBName, "DATABASE_DBNAME")
	setString(&config.Database.SSLMode, "DATABASE_SSLMODE")

	setString(&config.Landmap.BaseURL, "LANDMAP_BASE_URL")
	setString(&config.Landmap.Token, "LANDMAP_API_TOKEN")
	setString(&config.Landmap.AssetHost, "LANDMAP_ASSET_HOST")
	setDuration(&config.Landmap.Timeout, "LANDMAP_TIMEOUT")

	setString(&config.Lams.BaseURL, "LAMS_BASE_URL")
	setString(&config.Lams.Token, "LAMS_API_TOKEN")
	setDuration(&config.Lams.Timeout, "LAMS_TIMEOUT")

	setString(&config.Storage.Bucket, "STORAGE_BUCKET")
	setString(&config.Storage.Prefix, "STORAGE_PREFIX")
	setString(&config.Storage.Region, "AWS_REGION")
	setString(&config.Storage.Endpoint, "STORAGE_ENDPOINT")
	setString(&config.Storage.AccessKeyID, "AWS_ACCESS_KEY_ID")
	setString(&config.Storage.SecretAccessKey, "AWS_SECRET_ACCESS_KEY")

	setDuration(&config.Sessions.IdleTimeout, "SESSION_IDLE_TIMEOUT")
	setString(&config.Sessions.SweepSchedule, "SESSION_SWEEP_SCHEDULE")

	setDuration(&config.Tracking.FixMaxAge, "TRACKING_FIX_MAX_AGE")
	setDuration(&config.Tracking.LocateTimeout, "TRACKING_LOCATE_TIMEOUT")

	setString(&config.Logging.Level, "LOG_LEVEL")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			*dst = i
		}
	}
}

func setDuration(dst *Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = Duration(d)
		}
	}
}

// GetDatabaseURL returns the database connection string
func (c *DatabaseConfig) GetDatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode)
}

// GetServerAddr returns the server address
func (c *ServerConfig) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
