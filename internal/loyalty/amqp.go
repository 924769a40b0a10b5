package loyalty

import (
	"context"
	"fmt"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/streadway/amqp"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// AMQPConfig describes where credits are published.
type AMQPConfig struct {
	URL        string
	Exchange   string
	RoutingKey string
}

// DefaultAMQPConfig returns the standard exchange and routing key.
func DefaultAMQPConfig(url string) AMQPConfig {
	return AMQPConfig{
		URL:        url,
		Exchange:   "breadcrush.loyalty",
		RoutingKey: "credit",
	}
}

// AMQPSink publishes credits as persistent JSON messages on a direct exchange.
type AMQPSink struct {
	config AMQPConfig

	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

// DialAMQP connects and declares the exchange.
func DialAMQP(cfg AMQPConfig) (*AMQPSink, error) {
	s := &AMQPSink{config: cfg}
	if err := s.connect(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *AMQPSink) connect() error {
	conn, err := amqp.Dial(s.config.URL)
	if err != nil {
		return fmt.Errorf("loyalty: cannot connect to broker: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("loyalty: cannot open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		s.config.Exchange,
		"direct",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return fmt.Errorf("loyalty: cannot declare exchange %s: %w", s.config.Exchange, err)
	}

	s.conn, s.ch = conn, ch
	return nil
}

// Credit implements Sink. A closed connection is redialled once.
func (s *AMQPSink) Credit(ctx context.Context, c Credit) error {
	if c.At.IsZero() {
		c.At = time.Now()
	}
	body, err := EncodeCredit(c)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	if s.conn == nil || s.conn.IsClosed() {
		if err := s.connect(); err != nil {
			return err
		}
	}

	err = s.ch.Publish(
		s.config.Exchange,
		s.config.RoutingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    c.At,
			MessageId:    fmt.Sprintf("%s-%d", c.SessionID, c.At.UnixNano()),
		},
	)
	if err != nil {
		return fmt.Errorf("loyalty: cannot publish credit: %w", err)
	}
	return nil
}

// Close shuts the channel and connection.
func (s *AMQPSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ch != nil {
		s.ch.Close()
	}
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}

// EncodeCredit renders the wire payload for a credit.
func EncodeCredit(c Credit) ([]byte, error) {
	if c.At.IsZero() {
		c.At = time.Now()
	}
	body, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("loyalty: cannot encode credit: %w", err)
	}
	return body, nil
}

// DecodeCredit parses a payload written by EncodeCredit.
func DecodeCredit(body []byte) (Credit, error) {
	var c Credit
	if err := json.Unmarshal(body, &c); err != nil {
		return c, fmt.Errorf("loyalty: cannot decode credit: %w", err)
	}
	return c, nil
}
