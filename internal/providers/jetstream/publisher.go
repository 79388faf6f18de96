package jetstream

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/feral-file/ff-events/internal/adapter"
	"github.com/feral-file/ff-events/internal/domain"
	"github.com/feral-file/ff-events/internal/logger"
	"github.com/feral-file/ff-events/internal/messaging"
)

// Config holds the configuration for NATS JetStream connection
type Config struct {
	URL            string
	StreamName     string
	SubjectPrefix  string
	MaxReconnects  int
	ReconnectWait  time.Duration
	ConnectionName string
}

type publisher struct {
	nc            adapter.NatsConn
	js            adapter.JetStream
	subjectPrefix string
	codec         adapter.Codec
}

// NewPublisher connects to NATS and, when a stream name is configured, makes sure the
// stream captures every subject under the prefix
func NewPublisher(ctx context.Context, cfg Config, natsJS adapter.NatsJetStream, codec adapter.Codec) (messaging.Publisher, error) {
	opts := []nats.Option{
		nats.Name(cfg.ConnectionName),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil {
				logger.Error(err, zap.String("message", "Disconnected from NATS"))
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("Reconnected to NATS", zap.String("url", nc.ConnectedUrl()))
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			logger.Info("NATS connection closed")
		}),
	}

	nc, js, err := natsJS.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS and create JetStream: %w", err)
	}

	prefix := strings.Trim(cfg.SubjectPrefix, ".")
	if prefix == "" {
		prefix = "consistency"
	}

	if cfg.StreamName != "" {
		if err := js.EnsureStream(ctx, cfg.StreamName, []string{prefix + ".>"}); err != nil {
			nc.Close()
			return nil, fmt.Errorf("failed to ensure stream %s: %w", cfg.StreamName, err)
		}
	}

	logger.InfoCtx(ctx, "Publishing consistency alerts",
		zap.String("url", nc.ConnectedUrl()),
		zap.String("stream", cfg.StreamName),
		zap.String("subjects", prefix+".>"))

	return &publisher{
		nc:            nc,
		js:            js,
		subjectPrefix: prefix,
		codec:         codec,
	}, nil
}

// PublishDivergence publishes a divergence record to NATS JetStream
func (p *publisher) PublishDivergence(ctx context.Context, runID string, record domain.DivergenceRecord) error {
	logger.DebugCtx(ctx, "Publishing divergence",
		zap.String("run_id", runID),
		zap.String("event_id", record.EventID),
		zap.String("field", record.Field))

	data, err := p.codec.Marshal(messaging.DivergenceMessage{RunID: runID, DivergenceRecord: record})
	if err != nil {
		return fmt.Errorf("failed to marshal divergence: %w", err)
	}

	// Format: {prefix}.divergence.{field}, e.g. consistency.divergence.ticket_price
	subject := fmt.Sprintf("%s.divergence.%s", p.subjectPrefix, record.Field)
	if _, err := p.js.Publish(ctx, subject, data); err != nil {
		return fmt.Errorf("failed to publish divergence: %w", err)
	}

	return nil
}

// PublishRun publishes a run summary to NATS JetStream
func (p *publisher) PublishRun(ctx context.Context, run domain.ReconciliationRun) error {
	data, err := p.codec.Marshal(messaging.RunMessage{
		ID:          run.ID,
		Kind:        run.Kind,
		Divergences: run.Divergences,
		Repaired:    run.Repaired,
		Skipped:     run.Skipped,
		Failed:      run.Failed,
		StartedAt:   run.StartedAt.UTC().Format(time.RFC3339),
		FinishedAt:  run.FinishedAt.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal run: %w", err)
	}

	// Format: {prefix}.run.{kind}, e.g. consistency.run.data_sync
	subject := fmt.Sprintf("%s.run.%s", p.subjectPrefix, run.Kind)
	if _, err := p.js.Publish(ctx, subject, data); err != nil {
		return fmt.Errorf("failed to publish run: %w", err)
	}

	return nil
}

// Close drains pending alerts, falling back to a hard close
func (p *publisher) Close() {
	if p.nc == nil {
		return
	}

	if err := p.nc.Drain(); err != nil {
		logger.Warn("Failed to drain NATS connection", zap.Error(err))
		p.nc.Close()
	}
}
