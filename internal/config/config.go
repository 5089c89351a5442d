package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// FileConfig holds JSON file storage backend settings
type FileConfig struct {
	Path string `json:"path" mapstructure:"path"`
}

// SQLConfig holds relational storage backend settings. When Host is
// empty the backend falls back to a local sqlite file at Path.
type SQLConfig struct {
	Host     string `json:"host" mapstructure:"host"`
	Port     string `json:"port" mapstructure:"port"`
	Username string `json:"username" mapstructure:"username"`
	Password string `json:"password" mapstructure:"password"`
	Database string `json:"database" mapstructure:"database"`
	Path     string `json:"path" mapstructure:"path"`
}

// StorageConfig selects and parameterizes the plan storage backend.
type StorageConfig struct {
	Type string     `json:"type" mapstructure:"type"`
	File FileConfig `json:"file" mapstructure:"file"`
	SQL  SQLConfig  `json:"sql" mapstructure:"sql"`
}

// BattleConfig holds the battle timing constants.
type BattleConfig struct {
	MaxTime        float64 `json:"maxTime" mapstructure:"maxTime"`
	MarkerDuration float64 `json:"markerDuration" mapstructure:"markerDuration"`
}

// OTelConfig holds OpenTelemetry export settings.
type OTelConfig struct {
	Enabled      bool          `json:"enabled" mapstructure:"enabled"`
	ServiceName  string        `json:"serviceName" mapstructure:"serviceName"`
	BatchTimeout time.Duration `json:"batchTimeout" mapstructure:"batchTimeout"`
	Endpoint     string        `json:"endpoint" mapstructure:"endpoint"`
	Insecure     bool          `json:"insecure" mapstructure:"insecure"`
}

// InfluxConfig holds usage metrics export settings.
type InfluxConfig struct {
	Enabled  bool   `json:"enabled" mapstructure:"enabled"`
	Host     string `json:"host" mapstructure:"host"`
	Port     string `json:"port" mapstructure:"port"`
	Protocol string `json:"protocol" mapstructure:"protocol"`
	Token    string `json:"token" mapstructure:"token"`
	Org      string `json:"org" mapstructure:"org"`
}

// Load reads configuration from JSON file and sets default values.
// configDir is the directory containing the config file.
func Load(configDir string) error {
	// Set default values
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./planlogs")

	viper.SetDefault("battle.maxTime", 40)
	viper.SetDefault("battle.markerDuration", 10)

	viper.SetDefault("timeline.preset", "coarse")

	viper.SetDefault("storage.type", "file")
	viper.SetDefault("storage.file.path", "./plans.json")
	viper.SetDefault("storage.sql.host", "")
	viper.SetDefault("storage.sql.port", "5432")
	viper.SetDefault("storage.sql.username", "postgres")
	viper.SetDefault("storage.sql.password", "postgres")
	viper.SetDefault("storage.sql.database", "planner")
	viper.SetDefault("storage.sql.path", "./planner.db")

	viper.SetDefault("api.listenAddr", ":5100")
	viper.SetDefault("live.enabled", true)

	viper.SetDefault("otel.enabled", false)
	viper.SetDefault("otel.serviceName", "canyon-planner")
	viper.SetDefault("otel.batchTimeout", "5s")
	viper.SetDefault("otel.endpoint", "")
	viper.SetDefault("otel.insecure", true)

	viper.SetDefault("influx.enabled", false)
	viper.SetDefault("influx.host", "localhost")
	viper.SetDefault("influx.port", "8086")
	viper.SetDefault("influx.protocol", "http")
	viper.SetDefault("influx.token", "")
	viper.SetDefault("influx.org", "planner-metrics")

	viper.SetConfigName("planner.cfg.json")
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	err := viper.ReadInConfig()
	if err != nil {
		return fmt.Errorf("error reading config file: %v", err)
	}

	return nil
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetFloat returns a float config value.
func GetFloat(key string) float64 {
	return viper.GetFloat64(key)
}

// GetStorageConfig returns the storage backend section.
func GetStorageConfig() StorageConfig {
	return StorageConfig{
		Type: viper.GetString("storage.type"),
		File: FileConfig{
			Path: viper.GetString("storage.file.path"),
		},
		SQL: SQLConfig{
			Host:     viper.GetString("storage.sql.host"),
			Port:     viper.GetString("storage.sql.port"),
			Username: viper.GetString("storage.sql.username"),
			Password: viper.GetString("storage.sql.password"),
			Database: viper.GetString("storage.sql.database"),
			Path:     viper.GetString("storage.sql.path"),
		},
	}
}

// GetBattleConfig returns the battle timing section.
func GetBattleConfig() BattleConfig {
	return BattleConfig{
		MaxTime:        viper.GetFloat64("battle.maxTime"),
		MarkerDuration: viper.GetFloat64("battle.markerDuration"),
	}
}

// GetOTelConfig returns the OpenTelemetry section.
func GetOTelConfig() OTelConfig {
	return OTelConfig{
		Enabled:      viper.GetBool("otel.enabled"),
		ServiceName:  viper.GetString("otel.serviceName"),
		BatchTimeout: viper.GetDuration("otel.batchTimeout"),
		Endpoint:     viper.GetString("otel.endpoint"),
		Insecure:     viper.GetBool("otel.insecure"),
	}
}

// GetInfluxConfig returns the usage metrics section.
func GetInfluxConfig() InfluxConfig {
	return InfluxConfig{
		Enabled:  viper.GetBool("influx.enabled"),
		Host:     viper.GetString("influx.host"),
		Port:     viper.GetString("influx.port"),
		Protocol: viper.GetString("influx.protocol"),
		Token:    viper.GetString("influx.token"),
		Org:      viper.GetString("influx.org"),
	}
}
