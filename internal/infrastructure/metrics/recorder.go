// Package metrics records deal desk business counters through an OpenTelemetry
// meter.
package metrics

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Recorder implements port.Metrics.
type Recorder struct {
	scores      metric.Int64Counter
	approvals   metric.Int64Counter
	autoRoutes  metric.Int64Counter
	escalations metric.Int64Counter
}

// NewRecorder registers the counters on meter.
func NewRecorder(meter metric.Meter) (*Recorder, error) {
	scores, err := meter.Int64Counter("dealdesk_scores_recorded",
		metric.WithDescription("Attribute scores recorded on deals"))
	if err != nil {
		return nil, fmt.Errorf("scores counter: %w", err)
	}
	approvals, err := meter.Int64Counter("dealdesk_approvals_resolved",
		metric.WithDescription("Approvals resolved, by outcome"))
	if err != nil {
		return nil, fmt.Errorf("approvals counter: %w", err)
	}
	autoRoutes, err := meter.Int64Counter("dealdesk_auto_routes",
		metric.WithDescription("Auto-route attempts, by result"))
	if err != nil {
		return nil, fmt.Errorf("auto-route counter: %w", err)
	}
	escalations, err := meter.Int64Counter("dealdesk_escalations",
		metric.WithDescription("Approval escalations"))
	if err != nil {
		return nil, fmt.Errorf("escalations counter: %w", err)
	}
	return &Recorder{scores: scores, approvals: approvals, autoRoutes: autoRoutes, escalations: escalations}, nil
}

func (r *Recorder) ScoreRecorded(ctx context.Context) {
	r.scores.Add(ctx, 1)
}

func (r *Recorder) ApprovalResolved(ctx context.Context, outcome string) {
	r.approvals.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

func (r *Recorder) AutoRouted(ctx context.Context, result string) {
	r.autoRoutes.Add(ctx, 1, metric.WithAttributes(attribute.String("result", result)))
}

func (r *Recorder) Escalated(ctx context.Context) {
	r.escalations.Add(ctx, 1)
}
