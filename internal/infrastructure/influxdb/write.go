package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// Measurement names.
const (
	MeasurementEndpoint = "endpoint"
	MeasurementEvent    = "endpoint_event"
	MeasurementRuntime  = "runtime"
)

// EndpointSample builds a point for one numeric endpoint value.
func EndpointSample(instrument, session, address string, value float64, ts time.Time) *write.Point {
	return write.NewPoint(
		MeasurementEndpoint,
		map[string]string{
			"instrument": instrument,
			"session":    session,
			"address":    address,
		},
		map[string]interface{}{
			"value": value,
		},
		ts,
	)
}

// EndpointEvent builds a point recording that a bang or occasional value fired.
func EndpointEvent(instrument, session, address, kind string, ts time.Time) *write.Point {
	return write.NewPoint(
		MeasurementEvent,
		map[string]string{
			"instrument": instrument,
			"session":    session,
			"address":    address,
			"kind":       kind,
		},
		map[string]interface{}{
			"count": int64(1),
		},
		ts,
	)
}

// RuntimeSample builds a point with tick statistics.
func RuntimeSample(instrument, session string, ticks, overruns uint64, lastTick, maxTick time.Duration, ts time.Time) *write.Point {
	return write.NewPoint(
		MeasurementRuntime,
		map[string]string{
			"instrument": instrument,
			"session":    session,
		},
		map[string]interface{}{
			"ticks":        ticks,
			"overruns":     overruns,
			"last_tick_us": lastTick.Microseconds(),
			"max_tick_us":  maxTick.Microseconds(),
		},
		ts,
	)
}

// WritePoint queues p for the next batch. Dropped silently when disconnected.
func (c *Client) WritePoint(p *write.Point) {
	if !c.IsConnected() {
		return
	}
	c.writeAPI.WritePoint(p)
}

// WriteEndpointSample records a numeric endpoint value.
func (c *Client) WriteEndpointSample(instrument, session, address string, value float64, ts time.Time) {
	c.WritePoint(EndpointSample(instrument, session, address, value, ts))
}

// WriteEndpointEvent records a fired bang or occasional value.
func (c *Client) WriteEndpointEvent(instrument, session, address, kind string, ts time.Time) {
	c.WritePoint(EndpointEvent(instrument, session, address, kind, ts))
}
