package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	OpenAI    OpenAIConfig    `mapstructure:"openai"`
	Datastore DatastoreConfig `mapstructure:"datastore"`
	Sync      SyncConfig      `mapstructure:"sync"`
	Worker    WorkerConfig    `mapstructure:"worker"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
}

// OpenAIConfig holds configuration for the classification service
type OpenAIConfig struct {
	APIKey    string        `mapstructure:"api_key"`
	BaseURL   string        `mapstructure:"base_url"`
	Model     string        `mapstructure:"model"`
	MaxTokens int           `mapstructure:"max_tokens"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// DatastoreConfig holds configuration for the external email data store
type DatastoreConfig struct {
	URL        string        `mapstructure:"url"`
	ServiceKey string        `mapstructure:"service_key"`
	Table      string        `mapstructure:"table"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// SyncConfig holds configuration for the periodic external-store sync
type SyncConfig struct {
	Enabled         bool `mapstructure:"enabled"`
	IntervalMinutes int  `mapstructure:"interval_minutes"`
}

// WorkerConfig holds configuration for the classification pipeline worker
type WorkerConfig struct {
	IdlePollInterval time.Duration `mapstructure:"idle_poll_interval"`
	Throttle         time.Duration `mapstructure:"throttle"`
}

// LoadConfig loads configuration from environment variables and config file
func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	// Environment variables override config file
	viper.AutomaticEnv()
	bindEnvVars()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.read_timeout", "30s")
	viper.SetDefault("server.write_timeout", "30s")

	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 3306)

	viper.SetDefault("openai.base_url", "https://api.openai.com/v1")
	viper.SetDefault("openai.model", "gpt-4o-mini")
	viper.SetDefault("openai.max_tokens", 400)
	viper.SetDefault("openai.timeout", "30s")

	viper.SetDefault("datastore.table", "emails")
	viper.SetDefault("datastore.timeout", "15s")

	viper.SetDefault("sync.enabled", false)
	viper.SetDefault("sync.interval_minutes", 5)

	viper.SetDefault("worker.idle_poll_interval", "1s")
	viper.SetDefault("worker.throttle", "100ms")
}

// bindEnvVars binds environment variables to configuration keys
func bindEnvVars() {
	// Server
	viper.BindEnv("server.port", "SERVER_PORT")
	viper.BindEnv("server.read_timeout", "SERVER_READ_TIMEOUT")
	viper.BindEnv("server.write_timeout", "SERVER_WRITE_TIMEOUT")

	// Database
	viper.BindEnv("database.host", "DB_HOST")
	viper.BindEnv("database.port", "DB_PORT")
	viper.BindEnv("database.user", "DB_USER")
	viper.BindEnv("database.password", "DB_PASSWORD")
	viper.BindEnv("database.dbname", "DB_NAME")

	// OpenAI
	viper.BindEnv("openai.api_key", "OPENAI_API_KEY")
	viper.BindEnv("openai.base_url", "OPENAI_BASE_URL")
	viper.BindEnv("openai.model", "OPENAI_MODEL")
	viper.BindEnv("openai.max_tokens", "OPENAI_MAX_TOKENS")
	viper.BindEnv("openai.timeout", "OPENAI_TIMEOUT")

	// Datastore
	viper.BindEnv("datastore.url", "DATASTORE_URL")
	viper.BindEnv("datastore.service_key", "DATASTORE_SERVICE_KEY")
	viper.BindEnv("datastore.table", "DATASTORE_TABLE")
	viper.BindEnv("datastore.timeout", "DATASTORE_TIMEOUT")

	// Sync
	viper.BindEnv("sync.enabled", "SYNC_ENABLED")
	viper.BindEnv("sync.interval_minutes", "SYNC_INTERVAL_MINUTES")

	// Worker
	viper.BindEnv("worker.idle_poll_interval", "WORKER_IDLE_POLL_INTERVAL")
	viper.BindEnv("worker.throttle", "WORKER_THROTTLE")
}

// GetDSN returns the database connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.User, c.Password, c.Host, c.Port, c.DBName)
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}

	if c.Database.Host == "" || c.Database.User == "" || c.Database.DBName == "" {
		return fmt.Errorf("database host, user, and dbname are required")
	}

	if c.Sync.Enabled {
		if c.Datastore.URL == "" || c.Datastore.ServiceKey == "" {
			return fmt.Errorf("datastore url and service key are required when sync is enabled")
		}
		if c.Sync.IntervalMinutes <= 0 {
			return fmt.Errorf("sync interval must be greater than 0")
		}
	}

	if c.Worker.IdlePollInterval <= 0 || c.Worker.Throttle <= 0 {
		return fmt.Errorf("worker intervals must be greater than 0")
	}

	return nil
}
