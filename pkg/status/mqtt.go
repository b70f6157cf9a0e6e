package status

import (
	"errors"
	"fmt"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
)

const (
	defaultTimeout           = 5 * time.Second
	defaultDisconnectQuiesce = 250 // milliseconds
	maxQoS                   = 2
)

// Errors.
var (
	ErrConnectionFailed = errors.New("mqtt connection failed")
	ErrPublishFailed    = errors.New("mqtt publish failed")
	ErrInvalidTopic     = errors.New("invalid mqtt topic")
	ErrInvalidQoS       = errors.New("invalid mqtt qos")
)

// Transport publishes raw payloads.
type Transport interface {
	Publish(topic string, payload []byte, qos byte, retained bool) error
	Close() error
}

// MQTTConfig configures the broker connection.
type MQTTConfig struct {
	// Broker is the broker URL, e.g. tcp://localhost:1883.
	Broker   string
	ClientID string
	Username string
	Password string
	QoS      byte

	// Timeout bounds connect and publish. Defaults to 5s.
	Timeout time.Duration

	// WillTopic and WillPayload form the last will. Empty topic disables it.
	WillTopic   string
	WillPayload []byte
}

// MQTTTransport is a Transport backed by paho.
type MQTTTransport struct {
	client  pahomqtt.Client
	timeout time.Duration
}

// ConnectMQTT connects to the broker.
func ConnectMQTT(cfg MQTTConfig) (*MQTTTransport, error) {
	opts := clientOptions(cfg)
	client := pahomqtt.NewClient(opts)

	token := client.Connect()
	if !token.WaitTimeout(opts.ConnectTimeout) {
		return nil, fmt.Errorf("%w: timeout after %v", ErrConnectionFailed, opts.ConnectTimeout)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}
	return &MQTTTransport{client: client, timeout: opts.ConnectTimeout}, nil
}

func clientOptions(cfg MQTTConfig) *pahomqtt.ClientOptions {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	opts := pahomqtt.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetCleanSession(true).
		SetAutoReconnect(true).
		SetConnectRetry(false).
		SetConnectTimeout(timeout).
		SetMaxReconnectInterval(time.Minute)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}
	if cfg.WillTopic != "" {
		opts.SetBinaryWill(cfg.WillTopic, cfg.WillPayload, cfg.QoS, true)
	}
	return opts
}

// Publish sends payload and waits for the broker acknowledgement.
func (t *MQTTTransport) Publish(topic string, payload []byte, qos byte, retained bool) error {
	if topic == "" {
		return ErrInvalidTopic
	}
	if qos > maxQoS {
		return ErrInvalidQoS
	}
	token := t.client.Publish(topic, qos, retained, payload)
	if !token.WaitTimeout(t.timeout) {
		return fmt.Errorf("%w: timeout after %v", ErrPublishFailed, t.timeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrPublishFailed, err)
	}
	return nil
}

// Close disconnects from the broker.
func (t *MQTTTransport) Close() error {
	t.client.Disconnect(defaultDisconnectQuiesce)
	return nil
}

var _ Transport = (*MQTTTransport)(nil)
