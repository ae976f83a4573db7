package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// NATSPublisher publishes events as JSON on NATS subjects.
type NATSPublisher struct {
	conn   *nats.Conn
	js     jetstream.JetStream
	subs   []*nats.Subscription
	logger *slog.Logger
}

// connectTimeout bounds the initial dial and the stream setup so an
// unreachable server fails fast instead of stalling short-lived commands.
const connectTimeout = 2 * time.Second

// NewNATSPublisher connects to url and fails if the server is unreachable.
// Once connected, dropped connections are retried in the background. A
// JetStream stream retaining the events is created when the server supports
// it.
func NewNATSPublisher(ctx context.Context, url string, logger *slog.Logger) (*NATSPublisher, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	nc, err := nats.Connect(url,
		nats.Name("deliberate"),
		nats.Timeout(connectTimeout),
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

	p := &NATSPublisher{conn: nc, js: js, logger: logger}
	if err := p.ensureStream(ctx); err != nil {
		logger.Warn("failed to ensure stream", "error", err)
	}
	return p, nil
}

func (p *NATSPublisher) ensureStream(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	maxAge, _ := time.ParseDuration(StreamMaxAge)
	_, err := p.js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     StreamName,
		Subjects: []string{SubjectAll},
		MaxAge:   maxAge,
	})
	return err
}

func (p *NATSPublisher) Publish(ctx context.Context, e Event) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return p.conn.Publish(e.Subject(), payload)
}

// Subscribe delivers decoded events matching subject until Close.
func (p *NATSPublisher) Subscribe(subject string, handler func(Event)) error {
	sub, err := p.conn.Subscribe(subject, func(msg *nats.Msg) {
		var e Event
		if err := json.Unmarshal(msg.Data, &e); err != nil {
			p.logger.Warn("dropping malformed event", "subject", msg.Subject, "error", err)
			return
		}
		handler(e)
	})
	if err != nil {
		return err
	}
	p.subs = append(p.subs, sub)
	return nil
}

func (p *NATSPublisher) Close() {
	for _, sub := range p.subs {
		_ = sub.Unsubscribe()
	}
	p.conn.Close()
}
