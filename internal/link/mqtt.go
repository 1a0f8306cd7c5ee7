package link

import (
	"fmt"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
)

// Broadcast topic layout under one channel, standing in for the single
// ESP-NOW broadcast partner.
const (
	TelemetryTopic = "telemetry"
	CommandTopic   = "command"
)

// Topic builds the full broadcast topic for a channel and direction.
func Topic(channel, direction string) string {
	return fmt.Sprintf("rocketlink/%s/%s", channel, direction)
}

// MQTTTransport implements Transport over an MQTT broker with QoS 0
// publishes, preserving the fire-and-forget semantics of the radio link.
type MQTTTransport struct {
	broker    string
	clientID  string
	subscribe string

	mu        sync.Mutex
	client    paho.Client
	onReceive ReceiveFunc
	onResult  SendResultFunc
}

// connectTimeout bounds the one-shot connect at startup and on Reinit.
const connectTimeout = 10 * time.Second

// NewMQTTTransport connects to broker and subscribes to the given inbound
// topic. clientID must be unique per unit on the broker.
func NewMQTTTransport(broker, clientID, subscribe string) (*MQTTTransport, error) {
	t := &MQTTTransport{broker: broker, clientID: clientID, subscribe: subscribe}
	if err := t.connect(); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *MQTTTransport) connect() error {
	opts := paho.NewClientOptions().
		AddBroker(t.broker).
		SetClientID(t.clientID).
		SetAutoReconnect(true).
		SetCleanSession(true)

	client := paho.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return fmt.Errorf("%w: connect to %s timed out", ErrNotInitialized, t.broker)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: %v", ErrNotInitialized, err)
	}

	sub := client.Subscribe(t.subscribe, 0, func(_ paho.Client, msg paho.Message) {
		t.mu.Lock()
		fn := t.onReceive
		t.mu.Unlock()
		if fn != nil {
			fn(msg.Payload())
		}
	})
	sub.Wait()
	if err := sub.Error(); err != nil {
		client.Disconnect(0)
		return fmt.Errorf("subscribe %s: %w", t.subscribe, err)
	}

	t.mu.Lock()
	t.client = client
	t.mu.Unlock()
	return nil
}

// Send publishes payload to dest at QoS 0. The outcome is reported through
// the send-result callback once the publish token resolves.
func (t *MQTTTransport) Send(dest string, payload []byte) error {
	if dest == "" {
		return ErrInvalidArgument
	}
	t.mu.Lock()
	client := t.client
	onResult := t.onResult
	t.mu.Unlock()
	if client == nil || !client.IsConnected() {
		return ErrNotInitialized
	}

	token := client.Publish(dest, 0, false, payload)
	go func() {
		token.Wait()
		if onResult != nil {
			onResult(token.Error())
		}
	}()
	return nil
}

func (t *MQTTTransport) HandleReceive(fn ReceiveFunc) {
	t.mu.Lock()
	t.onReceive = fn
	t.mu.Unlock()
}

func (t *MQTTTransport) HandleSendResult(fn SendResultFunc) {
	t.mu.Lock()
	t.onResult = fn
	t.mu.Unlock()
}

// Reinit drops the connection and dials the broker again, once.
func (t *MQTTTransport) Reinit() error {
	t.mu.Lock()
	if t.client != nil {
		t.client.Disconnect(250)
		t.client = nil
	}
	t.mu.Unlock()
	return t.connect()
}

func (t *MQTTTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.client != nil {
		t.client.Disconnect(250)
		t.client = nil
	}
	return nil
}
