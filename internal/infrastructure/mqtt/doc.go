// Package mqtt provides MQTT client connectivity for an instrument host.
//
// This package manages:
//   - Connection to the broker with auto-reconnect
//   - Publishing with QoS and optional retention
//   - Topic subscriptions with wildcard support
//   - Last Will and Testament for offline detection
//
// # Topics
//
// Every topic lives under dmi/{instrument}. Endpoint values are published
// on state/{address}; remote writes arrive on set/{address}; status holds
// the retained online/offline document.
//
// # Usage
//
//	topics := mqtt.Topics{Instrument: cfg.Instrument.Name}
//	client, err := mqtt.Connect(cfg.MQTT, topics)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	err = client.Subscribe(topics.AllSets(), 1,
//	    func(topic string, payload []byte) error {
//	        addr, _ := topics.SetAddress(topic)
//	        return exchange.Post(binding.Write{Address: addr, Value: string(payload)})
//	    })
//
// Credentials come from configuration or INSTRUMENT_MQTT_* environment
// variables and are never logged.
package mqtt
