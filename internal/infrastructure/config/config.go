package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/nerrad567/instrument-core/internal/naming"
)

// Config is the root configuration structure for an instrument host.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Instrument InstrumentConfig `yaml:"instrument"`
	Addressing AddressingConfig `yaml:"addressing"`
	Console    ConsoleConfig    `yaml:"console"`
	Database   DatabaseConfig   `yaml:"database"`
	Presets    PresetsConfig    `yaml:"presets"`
	MQTT       MQTTConfig       `yaml:"mqtt"`
	API        APIConfig        `yaml:"api"`
	WebSocket  WebSocketConfig  `yaml:"websocket"`
	InfluxDB   InfluxDBConfig   `yaml:"influxdb"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// InstrumentConfig controls the component tree runtime.
type InstrumentConfig struct {
	// Name identifies the instrument in MQTT topics and telemetry tags.
	Name string `yaml:"name"`

	// TickIntervalMS is the tick period in milliseconds.
	TickIntervalMS int `yaml:"tick_interval_ms"`

	// FatalInit aborts startup when any component fails to initialise.
	// By default failed components keep running and report running=false.
	FatalInit bool `yaml:"fatal_init"`
}

// AddressingConfig controls endpoint address synthesis.
type AddressingConfig struct {
	// Delimiter is "/" or ".".
	Delimiter string `yaml:"delimiter"`

	// Case is a naming style: snake, kebab, upper_snake, upper_kebab or verbatim.
	Case string `yaml:"case"`

	// Prefix is prepended to every address, e.g. "/dmi".
	Prefix string `yaml:"prefix"`
}

// ConsoleConfig controls the stdin command console.
type ConsoleConfig struct {
	Enabled bool `yaml:"enabled"`
}

// DatabaseConfig contains SQLite database settings.
type DatabaseConfig struct {
	Path        string `yaml:"path"`
	WALMode     bool   `yaml:"wal_mode"`
	BusyTimeout int    `yaml:"busy_timeout"`
}

// PresetsConfig controls parameter preset storage.
type PresetsConfig struct {
	Enabled bool `yaml:"enabled"`

	// AutoLoad names a preset applied after setup. Empty disables it.
	AutoLoad string `yaml:"auto_load"`
}

// MQTTConfig contains MQTT broker connection settings.
type MQTTConfig struct {
	Enabled   bool                `yaml:"enabled"`
	Broker    MQTTBrokerConfig    `yaml:"broker"`
	Auth      MQTTAuthConfig      `yaml:"auth"`
	QoS       int                 `yaml:"qos"`
	Reconnect MQTTReconnectConfig `yaml:"reconnect"`

	// Retain publishes persistent endpoint values as retained messages.
	Retain bool `yaml:"retain"`
}

// MQTTBrokerConfig contains MQTT broker connection details.
type MQTTBrokerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	TLS      bool   `yaml:"tls"`
	ClientID string `yaml:"client_id"`
}

// MQTTAuthConfig contains MQTT authentication credentials.
type MQTTAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// MQTTReconnectConfig contains MQTT reconnection settings.
type MQTTReconnectConfig struct {
	InitialDelay int `yaml:"initial_delay"`
	MaxDelay     int `yaml:"max_delay"`
	MaxAttempts  int `yaml:"max_attempts"`
}

// APIConfig contains HTTP API server settings.
type APIConfig struct {
	Enabled  bool             `yaml:"enabled"`
	Host     string           `yaml:"host"`
	Port     int              `yaml:"port"`
	Timeouts APITimeoutConfig `yaml:"timeouts"`
	CORS     CORSConfig       `yaml:"cors"`
}

// APITimeoutConfig contains HTTP timeout settings in seconds.
type APITimeoutConfig struct {
	Read  int `yaml:"read"`
	Write int `yaml:"write"`
	Idle  int `yaml:"idle"`
}

// CORSConfig contains Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// WebSocketConfig contains WebSocket server settings.
type WebSocketConfig struct {
	Path           string `yaml:"path"`
	MaxMessageSize int    `yaml:"max_message_size"`
	PingInterval   int    `yaml:"ping_interval"`
	PongTimeout    int    `yaml:"pong_timeout"`
}

// InfluxDBConfig contains InfluxDB connection settings.
type InfluxDBConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Token         string `yaml:"token"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"`

	// SampleEvery records numeric endpoints every N ticks.
	SampleEvery int `yaml:"sample_every"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: INSTRUMENT_SECTION_KEY
// For example: INSTRUMENT_MQTT_HOST, INSTRUMENT_TICK_INTERVAL_MS
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Default returns a Config with sensible defaults: a 1 kHz tick, kebab-case
// slash addresses, console on, every network service off.
func Default() *Config {
	return &Config{
		Instrument: InstrumentConfig{
			Name:           "instrument",
			TickIntervalMS: 1,
		},
		Addressing: AddressingConfig{
			Delimiter: "/",
			Case:      "kebab",
		},
		Console: ConsoleConfig{
			Enabled: true,
		},
		Database: DatabaseConfig{
			Path:        "./data/instrument.db",
			WALMode:     true,
			BusyTimeout: 5,
		},
		MQTT: MQTTConfig{
			Broker: MQTTBrokerConfig{
				Host:     "localhost",
				Port:     1883,
				ClientID: "instrument-core",
			},
			QoS: 0,
			Reconnect: MQTTReconnectConfig{
				InitialDelay: 1,
				MaxDelay:     60,
			},
		},
		API: APIConfig{
			Host: "127.0.0.1",
			Port: 8080,
			Timeouts: APITimeoutConfig{
				Read:  10,
				Write: 10,
				Idle:  60,
			},
		},
		WebSocket: WebSocketConfig{
			Path:           "/ws",
			MaxMessageSize: 8192,
			PingInterval:   30,
			PongTimeout:    10,
		},
		InfluxDB: InfluxDBConfig{
			BatchSize:     500,
			FlushInterval: 1,
			SampleEvery:   100,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: INSTRUMENT_SECTION_KEY
func applyEnvOverrides(cfg *Config) {
	// Instrument
	if v := os.Getenv("INSTRUMENT_NAME"); v != "" {
		cfg.Instrument.Name = v
	}
	if v, ok := envInt("INSTRUMENT_TICK_INTERVAL_MS"); ok {
		cfg.Instrument.TickIntervalMS = v
	}

	// Database
	if v := os.Getenv("INSTRUMENT_DATABASE_PATH"); v != "" {
		cfg.Database.Path = v
	}

	// MQTT
	if v := os.Getenv("INSTRUMENT_MQTT_HOST"); v != "" {
		cfg.MQTT.Broker.Host = v
	}
	if v := os.Getenv("INSTRUMENT_MQTT_USERNAME"); v != "" {
		cfg.MQTT.Auth.Username = v
	}
	if v := os.Getenv("INSTRUMENT_MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Auth.Password = v
	}

	// API
	if v := os.Getenv("INSTRUMENT_API_HOST"); v != "" {
		cfg.API.Host = v
	}
	if v, ok := envInt("INSTRUMENT_API_PORT"); ok {
		cfg.API.Port = v
	}

	// InfluxDB
	if v := os.Getenv("INSTRUMENT_INFLUXDB_TOKEN"); v != "" {
		cfg.InfluxDB.Token = v
	}

	// Logging
	if v := os.Getenv("INSTRUMENT_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

// envInt reads an integer environment variable; unparsable values are ignored.
func envInt(key string) (int, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []string

	// Instrument validation
	if c.Instrument.Name == "" {
		errs = append(errs, "instrument.name is required")
	} else if strings.ContainsAny(c.Instrument.Name, "/+#") {
		errs = append(errs, "instrument.name must not contain '/', '+' or '#'")
	}
	if c.Instrument.TickIntervalMS < 1 {
		errs = append(errs, "instrument.tick_interval_ms must be at least 1")
	}

	// Addressing validation
	if c.Addressing.Delimiter != "/" && c.Addressing.Delimiter != "." {
		errs = append(errs, "addressing.delimiter must be \"/\" or \".\"")
	}
	if _, ok := naming.ParseStyle(c.Addressing.Case); !ok {
		errs = append(errs, "addressing.case must be snake, kebab, upper_snake, upper_kebab or verbatim")
	}

	// Database validation
	if c.Presets.Enabled && c.Database.Path == "" {
		errs = append(errs, "database.path is required when presets are enabled")
	}
	if c.Presets.AutoLoad != "" && !c.Presets.Enabled {
		errs = append(errs, "presets.auto_load requires presets.enabled")
	}

	// MQTT validation
	if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
		errs = append(errs, "mqtt.qos must be 0, 1, or 2")
	}
	if c.MQTT.Enabled && c.MQTT.Broker.Host == "" {
		errs = append(errs, "mqtt.broker.host is required when mqtt is enabled")
	}

	// API validation
	if c.API.Enabled && (c.API.Port < 1 || c.API.Port > 65535) {
		errs = append(errs, "api.port must be between 1 and 65535")
	}

	// InfluxDB validation
	if c.InfluxDB.Enabled {
		if c.InfluxDB.URL == "" {
			errs = append(errs, "influxdb.url is required when influxdb is enabled")
		}
		if c.InfluxDB.SampleEvery < 1 {
			errs = append(errs, "influxdb.sample_every must be at least 1")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// TickInterval returns the tick period as a Duration.
func (c *Config) TickInterval() time.Duration {
	return time.Duration(c.Instrument.TickIntervalMS) * time.Millisecond
}

// GetReadTimeout returns the API read timeout as a Duration.
func (c *Config) GetReadTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Read) * time.Second
}

// GetWriteTimeout returns the API write timeout as a Duration.
func (c *Config) GetWriteTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Write) * time.Second
}

// GetIdleTimeout returns the API idle timeout as a Duration.
func (c *Config) GetIdleTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Idle) * time.Second
}
