package hermes

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

type Client interface {
	Publish(subject string, data interface{}) error
	Close()
}

// flushTimeout bounds how long Close waits for buffered publishes.
const flushTimeout = 5 * time.Second

type NATSClient struct {
	conn   *nats.Conn
	js     jetstream.JetStream
	logger *slog.Logger
	closed chan struct{}
}

func NewNATSClient(ctx context.Context, url, prefix string, logger *slog.Logger) (*NATSClient, error) {
	closed := make(chan struct{})
	nc, err := nats.Connect(url,
		nats.Name("topsis"),
		nats.ClosedHandler(func(*nats.Conn) { close(closed) }),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(60),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("jetstream: %w", err)
	}

	c := &NATSClient{conn: nc, js: js, logger: logger, closed: closed}
	if err := c.ensureStream(ctx, prefix); err != nil {
		logger.Warn("failed to ensure stream", "error", err)
	}
	return c, nil
}

func (c *NATSClient) ensureStream(ctx context.Context, prefix string) error {
	maxAge, _ := time.ParseDuration(StreamMaxAge)
	_, err := c.js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     StreamName,
		Subjects: []string{StreamSubjects(prefix)},
		MaxAge:   maxAge,
	})
	return err
}

func (c *NATSClient) Publish(subject string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return c.conn.Publish(subject, payload)
}

// Close flushes pending publishes, drains the connection and waits for it to
// close.
func (c *NATSClient) Close() {
	if c.conn.IsConnected() {
		if err := c.conn.FlushTimeout(flushTimeout); err != nil {
			c.logger.Warn("nats flush failed", "error", err)
		}
	}
	if err := c.conn.Drain(); err != nil {
		c.logger.Warn("nats drain failed", "error", err)
		c.conn.Close()
	}

	select {
	case <-c.closed:
	case <-time.After(flushTimeout):
		c.logger.Warn("nats connection did not close in time")
		c.conn.Close()
	}
}
