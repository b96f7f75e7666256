package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "instrument.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return path
}

func TestLoad_ValidConfig(t *testing.T) {
	path := writeConfig(t, `
instrument:
  name: "theremin"
  tick_interval_ms: 2
addressing:
  delimiter: "."
  case: "snake"
  prefix: "dmi"
mqtt:
  enabled: true
  broker:
    host: "broker.local"
    port: 1883
  qos: 1
presets:
  enabled: true
  auto_load: "stage"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Instrument.Name != "theremin" {
		t.Errorf("Instrument.Name = %q, want %q", cfg.Instrument.Name, "theremin")
	}
	if cfg.TickInterval() != 2*time.Millisecond {
		t.Errorf("TickInterval() = %v, want 2ms", cfg.TickInterval())
	}
	if cfg.Addressing.Delimiter != "." || cfg.Addressing.Case != "snake" || cfg.Addressing.Prefix != "dmi" {
		t.Errorf("Addressing = %+v", cfg.Addressing)
	}
	if cfg.MQTT.Broker.Host != "broker.local" {
		t.Errorf("MQTT.Broker.Host = %q, want %q", cfg.MQTT.Broker.Host, "broker.local")
	}
	if !cfg.Console.Enabled {
		t.Error("Console.Enabled default lost")
	}
	if cfg.Presets.AutoLoad != "stage" {
		t.Errorf("Presets.AutoLoad = %q, want %q", cfg.Presets.AutoLoad, "stage")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/instrument.yaml")
	if err == nil {
		t.Error("Load() expected error for missing file, got nil")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "invalid: [yaml: content"))
	if err == nil {
		t.Error("Load() expected error for invalid YAML, got nil")
	}
}

func TestLoad_ValidationFailure(t *testing.T) {
	_, err := Load(writeConfig(t, `
instrument:
  tick_interval_ms: 0
`))
	if err == nil {
		t.Error("Load() expected validation error for zero tick interval, got nil")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"missing name", func(c *Config) { c.Instrument.Name = "" }, true},
		{"topic wildcard in name", func(c *Config) { c.Instrument.Name = "a/#" }, true},
		{"zero tick", func(c *Config) { c.Instrument.TickIntervalMS = 0 }, true},
		{"bad delimiter", func(c *Config) { c.Addressing.Delimiter = ":" }, true},
		{"bad case", func(c *Config) { c.Addressing.Case = "camel" }, true},
		{"case alias", func(c *Config) { c.Addressing.Case = "kebab-case" }, false},
		{"case alias none", func(c *Config) { c.Addressing.Case = "none" }, false},
		{"case alias screaming", func(c *Config) { c.Addressing.Case = "SCREAMING_SNAKE" }, false},
		{"invalid QoS", func(c *Config) { c.MQTT.QoS = 3 }, true},
		{"mqtt without host", func(c *Config) { c.MQTT.Enabled = true; c.MQTT.Broker.Host = "" }, true},
		{"api port high", func(c *Config) { c.API.Enabled = true; c.API.Port = 70000 }, true},
		{"api port ignored when disabled", func(c *Config) { c.API.Port = 0 }, false},
		{"influx without url", func(c *Config) { c.InfluxDB.Enabled = true }, true},
		{"presets without database", func(c *Config) { c.Presets.Enabled = true; c.Database.Path = "" }, true},
		{"auto load without presets", func(c *Config) { c.Presets.AutoLoad = "x" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_GetTimeouts(t *testing.T) {
	cfg := &Config{
		API: APIConfig{
			Timeouts: APITimeoutConfig{
				Read:  30,
				Write: 45,
				Idle:  60,
			},
		},
	}

	if got := cfg.GetReadTimeout().Seconds(); got != 30 {
		t.Errorf("GetReadTimeout() = %v, want 30", got)
	}

	if got := cfg.GetWriteTimeout().Seconds(); got != 45 {
		t.Errorf("GetWriteTimeout() = %v, want 45", got)
	}

	if got := cfg.GetIdleTimeout().Seconds(); got != 60 {
		t.Errorf("GetIdleTimeout() = %v, want 60", got)
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	cfg := Default()

	t.Setenv("INSTRUMENT_NAME", "cello")
	t.Setenv("INSTRUMENT_TICK_INTERVAL_MS", "5")
	t.Setenv("INSTRUMENT_DATABASE_PATH", "/custom/path.db")
	t.Setenv("INSTRUMENT_MQTT_HOST", "mqtt.example.com")
	t.Setenv("INSTRUMENT_MQTT_USERNAME", "testuser")
	t.Setenv("INSTRUMENT_MQTT_PASSWORD", "testpass")
	t.Setenv("INSTRUMENT_API_PORT", "9090")
	t.Setenv("INSTRUMENT_INFLUXDB_TOKEN", "secret-token")
	t.Setenv("INSTRUMENT_LOG_LEVEL", "debug")

	applyEnvOverrides(cfg)

	if cfg.Instrument.Name != "cello" {
		t.Errorf("Instrument.Name = %q, want %q", cfg.Instrument.Name, "cello")
	}
	if cfg.Instrument.TickIntervalMS != 5 {
		t.Errorf("Instrument.TickIntervalMS = %d, want 5", cfg.Instrument.TickIntervalMS)
	}
	if cfg.Database.Path != "/custom/path.db" {
		t.Errorf("Database.Path = %q, want %q", cfg.Database.Path, "/custom/path.db")
	}
	if cfg.MQTT.Broker.Host != "mqtt.example.com" {
		t.Errorf("MQTT.Broker.Host = %q, want %q", cfg.MQTT.Broker.Host, "mqtt.example.com")
	}
	if cfg.MQTT.Auth.Username != "testuser" || cfg.MQTT.Auth.Password != "testpass" {
		t.Errorf("MQTT.Auth = %+v", cfg.MQTT.Auth)
	}
	if cfg.API.Port != 9090 {
		t.Errorf("API.Port = %d, want 9090", cfg.API.Port)
	}
	if cfg.InfluxDB.Token != "secret-token" {
		t.Errorf("InfluxDB.Token = %q, want %q", cfg.InfluxDB.Token, "secret-token")
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "debug")
	}
}

func TestApplyEnvOverrides_BadInt(t *testing.T) {
	cfg := Default()
	t.Setenv("INSTRUMENT_TICK_INTERVAL_MS", "fast")
	applyEnvOverrides(cfg)
	if cfg.Instrument.TickIntervalMS != 1 {
		t.Errorf("TickIntervalMS = %d, want default 1", cfg.Instrument.TickIntervalMS)
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if err := cfg.Validate(); err != nil {
		t.Errorf("Default().Validate() error = %v", err)
	}
	if cfg.MQTT.Broker.Port != 1883 {
		t.Errorf("Default MQTT.Broker.Port = %d, want 1883", cfg.MQTT.Broker.Port)
	}
	if cfg.MQTT.Enabled || cfg.API.Enabled || cfg.InfluxDB.Enabled || cfg.Presets.Enabled {
		t.Error("Default should leave network services and presets disabled")
	}
}
