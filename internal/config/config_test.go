package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8080",
		},
		Database: DatabaseConfig{
			Host:   "localhost",
			User:   "test",
			DBName: "test",
		},
		Worker: WorkerConfig{
			IdlePollInterval: time.Second,
			Throttle:         100 * time.Millisecond,
		},
	}
}

func TestConfigValidation(t *testing.T) {
	config := validConfig()
	assert.NoError(t, config.Validate())

	invalidConfig := &Config{
		Server: ServerConfig{
			Port: "",
		},
	}
	assert.Error(t, invalidConfig.Validate())
}

func TestConfigValidationSyncRequiresDatastore(t *testing.T) {
	config := validConfig()
	config.Sync = SyncConfig{Enabled: true, IntervalMinutes: 5}

	assert.Error(t, config.Validate())

	config.Datastore = DatastoreConfig{
		URL:        "https://store.example.com",
		ServiceKey: "key",
	}
	assert.NoError(t, config.Validate())

	config.Sync.IntervalMinutes = 0
	assert.Error(t, config.Validate())
}

func TestConfigValidationWorkerIntervals(t *testing.T) {
	config := validConfig()
	config.Worker.IdlePollInterval = 0

	assert.Error(t, config.Validate())
}

func TestDatabaseDSN(t *testing.T) {
	config := DatabaseConfig{
		Host:     "localhost",
		Port:     3306,
		User:     "testuser",
		Password: "testpass",
		DBName:   "testdb",
	}

	dsn := config.GetDSN()
	expected := "testuser:testpass@tcp(localhost:3306)/testdb?charset=utf8mb4&parseTime=True&loc=Local"
	assert.Equal(t, expected, dsn)
}
