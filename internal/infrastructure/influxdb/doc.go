// Package influxdb provides InfluxDB connectivity for instrument telemetry.
//
// It wraps the official influxdb-client-go v2 library with connection
// management, point builders for endpoint samples, fired events and tick
// statistics, and health monitoring.
//
// # Measurements
//
//   - endpoint: numeric endpoint values, tagged instrument/session/address
//   - endpoint_event: one point per fired bang or fresh occasional value
//   - runtime: tick count, overruns and tick durations
//
// # Usage
//
//	client, err := influxdb.Connect(cfg.InfluxDB)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	client.WriteEndpointSample("theremin", session, "mapping/level", 0.5, time.Now())
//
// Writes are non-blocking and batched (batch_size, flush_interval); batch
// failures are reported through SetOnError.
package influxdb
