// Package config handles loading and validating instrument host configuration.
//
// This package manages:
//   - Loading configuration from YAML files
//   - Overriding with environment variables (INSTRUMENT_*)
//   - Validation of required fields
//   - Default value handling
//
// Sensitive values (MQTT password, InfluxDB token) should be set via
// environment variables rather than the config file.
//
// Usage:
//
//	cfg, err := config.Load("configs/instrument.yaml")
//	if err != nil {
//	    return err
//	}
//	rt.Run(ctx, cfg.TickInterval())
package config
