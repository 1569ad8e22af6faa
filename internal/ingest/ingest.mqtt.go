package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/agrotech/fieldwatch/internal/config"
	mqtt "github.com/eclipse/paho.mqtt.golang"
	nuts "github.com/vaudience/go-nuts"
)

const mqttHandleTimeout = 10 * time.Second

// MQTTSubscriber receives readings published by field gateways.
type MQTTSubscriber struct {
	client   mqtt.Client
	topic    string
	qos      byte
	recorder Recorder
}

func NewMQTTSubscriber(cfg config.MQTTConfig, recorder Recorder) (*MQTTSubscriber, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}
	opts.SetAutoReconnect(true)
	opts.SetCleanSession(true)
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		nuts.L.Warnf("[Ingest] MQTT connection lost: %v", err)
	})

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker %s: %w", cfg.Broker, token.Error())
	}
	nuts.L.Infof("[Ingest] Connected to MQTT broker %s as %s", cfg.Broker, cfg.ClientID)

	return &MQTTSubscriber{
		client:   client,
		topic:    cfg.Topic,
		qos:      cfg.QoS,
		recorder: recorder,
	}, nil
}

// Start subscribes to the configured topic. Messages are recorded with a
// context derived from ctx.
func (s *MQTTSubscriber) Start(ctx context.Context) error {
	callback := func(_ mqtt.Client, msg mqtt.Message) {
		hctx, cancel := context.WithTimeout(ctx, mqttHandleTimeout)
		defer cancel()
		if err := handle(hctx, s.recorder, SourceMQTT, SensorIDFromTopic(msg.Topic()), msg.Payload()); err != nil {
			nuts.L.Warnf("[Ingest] Dropping MQTT message on %s: %v", msg.Topic(), err)
		}
	}
	if token := s.client.Subscribe(s.topic, s.qos, callback); token.Wait() && token.Error() != nil {
		return fmt.Errorf("failed to subscribe to topic %s: %w", s.topic, token.Error())
	}
	nuts.L.Infof("[Ingest] Subscribed to MQTT topic %s (qos %d)", s.topic, s.qos)
	return nil
}

func (s *MQTTSubscriber) Close() {
	if token := s.client.Unsubscribe(s.topic); token.Wait() && token.Error() != nil {
		nuts.L.Warnf("[Ingest] MQTT unsubscribe failed: %v", token.Error())
	}
	s.client.Disconnect(250)
}
