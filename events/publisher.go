// Package events publishes audit decision records to NATS so other
// tooling can react to freshness decisions. Publishing is optional: a nil
// publisher degrades gracefully.
package events

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/c360studio/docfresh/audit"
)

// DecisionSubject is the subject decision records are published on.
const DecisionSubject = "docfresh.audit.decision"

// decisionEvent is the wire format for a published decision.
type decisionEvent struct {
	Decision  audit.Decision `json:"decision"`
	Scanned   int            `json:"scanned"`
	EmittedAt time.Time      `json:"emitted_at"`
}

// Publisher sends decision events to a NATS server.
type Publisher struct {
	nc     *nats.Conn
	logger *slog.Logger
}

// Connect establishes a NATS connection for event publishing.
func Connect(url string, logger *slog.Logger) (*Publisher, error) {
	if logger == nil {
		logger = slog.Default()
	}

	nc, err := nats.Connect(url,
		nats.Name("docfresh"),
		nats.Timeout(5*time.Second))
	if err != nil {
		return nil, fmt.Errorf("connect to NATS at %s: %w", url, err)
	}

	logger.Debug("Connected to NATS", "url", url)
	return &Publisher{nc: nc, logger: logger}, nil
}

// PublishDecision publishes one audit result. Skips silently on a nil
// publisher so callers need no events-enabled branch.
func (p *Publisher) PublishDecision(result *audit.Result) error {
	if p == nil || p.nc == nil {
		return nil
	}

	event := decisionEvent{
		Decision:  result.Decision,
		Scanned:   result.Stats.Scanned,
		EmittedAt: time.Now().UTC(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal decision event: %w", err)
	}

	if err := p.nc.Publish(DecisionSubject, data); err != nil {
		return fmt.Errorf("publish decision event: %w", err)
	}

	p.logger.Debug("Published decision event",
		"subject", DecisionSubject,
		"needs_review", result.Decision.NeedsReview)
	return nil
}

// Close drains and closes the connection.
func (p *Publisher) Close() {
	if p == nil || p.nc == nil {
		return
	}
	_ = p.nc.Drain()
	p.nc.Close()
}
