//go:build integration

package mqtt

import (
	"sync"
	"testing"
	"time"

	"github.com/nerrad567/instrument-core/internal/infrastructure/config"
)

// These tests require a running MQTT broker at 127.0.0.1:1883.
//
//   go test -tags=integration -count=1 ./internal/infrastructure/mqtt/...

func integrationConfig(clientID string) config.MQTTConfig {
	return config.MQTTConfig{
		Broker: config.MQTTBrokerConfig{
			Host:     "127.0.0.1",
			Port:     1883,
			ClientID: clientID,
		},
		QoS: 1,
		Reconnect: config.MQTTReconnectConfig{
			InitialDelay: 1,
			MaxDelay:     5,
		},
	}
}

func TestIntegration_SubscriptionTracking(t *testing.T) {
	topics := Topics{Instrument: "int-tracking"}
	client, err := Connect(integrationConfig("instrument-int-track"), topics)
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer client.Close()

	subs := []string{topics.AllSets(), topics.Set("gate"), topics.Status()}
	handler := func(string, []byte) error { return nil }
	for _, topic := range subs {
		if err := client.Subscribe(topic, 1, handler); err != nil {
			t.Fatalf("Subscribe(%s) error = %v", topic, err)
		}
	}
	if client.SubscriptionCount() != len(subs) {
		t.Errorf("SubscriptionCount() = %d, want %d", client.SubscriptionCount(), len(subs))
	}

	if err := client.Unsubscribe(subs[0]); err != nil {
		t.Fatalf("Unsubscribe() error = %v", err)
	}
	if client.HasSubscription(subs[0]) {
		t.Errorf("HasSubscription(%s) = true after unsubscribe", subs[0])
	}
}

func TestIntegration_SetRoundtrip(t *testing.T) {
	topics := Topics{Instrument: "int-roundtrip"}

	sub, err := Connect(integrationConfig("instrument-int-sub"), topics)
	if err != nil {
		t.Fatalf("Connect() subscriber error = %v", err)
	}
	defer sub.Close()

	pub, err := Connect(integrationConfig("instrument-int-pub"), topics)
	if err != nil {
		t.Fatalf("Connect() publisher error = %v", err)
	}
	defer pub.Close()

	type write struct{ addr, value string }
	received := make(chan write, 1)
	var once sync.Once
	err = sub.Subscribe(topics.AllSets(), 1, func(topic string, payload []byte) error {
		addr, _ := topics.SetAddress(topic)
		once.Do(func() { received <- write{addr, string(payload)} })
		return nil
	})
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	time.Sleep(100 * time.Millisecond)

	if err := pub.PublishString(topics.Set("mapping/in-max"), "2.5", 1, false); err != nil {
		t.Fatalf("PublishString() error = %v", err)
	}

	select {
	case got := <-received:
		if got.addr != "mapping/in-max" || got.value != "2.5" {
			t.Errorf("received %+v, want mapping/in-max=2.5", got)
		}
	case <-time.After(5 * time.Second):
		t.Error("timeout waiting for set message")
	}
}
