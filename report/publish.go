package report

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go/jetstream"
)

// DefaultSubject is the subject reports are published on.
const DefaultSubject = "nidmcheck.report"

// Publisher delivers finished reports.
type Publisher interface {
	Publish(ctx context.Context, r *Report) error
}

// StreamPublisher is the part of jetstream.JetStream the NATS publisher uses.
type StreamPublisher interface {
	Publish(ctx context.Context, subject string, payload []byte, opts ...jetstream.PublishOpt) (*jetstream.PubAck, error)
}

// NATSPublisher publishes reports as JSON over JetStream.
type NATSPublisher struct {
	js      StreamPublisher
	subject string
	logger  *slog.Logger
}

// NewNATSPublisher creates a publisher. An empty subject uses DefaultSubject.
func NewNATSPublisher(js StreamPublisher, subject string, logger *slog.Logger) *NATSPublisher {
	if subject == "" {
		subject = DefaultSubject
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &NATSPublisher{js: js, subject: subject, logger: logger}
}

// Subject returns the subject reports are published on.
func (p *NATSPublisher) Subject() string { return p.subject }

// Publish sends r to the report subject. The run ID doubles as the message
// ID so that JetStream drops duplicate deliveries.
func (p *NATSPublisher) Publish(ctx context.Context, r *Report) error {
	data, err := RenderJSON(r)
	if err != nil {
		return err
	}

	ack, err := p.js.Publish(ctx, p.subject, data, jetstream.WithMsgID(r.RunID))
	if err != nil {
		return fmt.Errorf("publish report %s: %w", r.RunID, err)
	}

	p.logger.Debug("Published report",
		"run_id", r.RunID,
		"subject", p.subject,
		"stream", ack.Stream,
		"sequence", ack.Sequence,
		"bytes", len(data))
	return nil
}
