// Package metrics pushes per-invocation scan counters to a Prometheus
// Pushgateway. The audit is a short-lived batch job, so push is the only
// viable delivery; a nil pusher disables metrics entirely.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"

	"github.com/c360studio/docfresh/audit"
)

const jobName = "docfresh_audit"

// Pusher accumulates scan counters and pushes them as one job group.
type Pusher struct {
	gateway string

	scanned        prometheus.Counter
	fresh          prometheus.Counter
	duplicateSkips prometheus.Counter
	staleFound     prometheus.Counter
}

// NewPusher creates a pusher targeting the given Pushgateway URL.
func NewPusher(gateway string) *Pusher {
	return &Pusher{
		gateway: gateway,
		scanned: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "docfresh_documents_scanned_total",
			Help: "Documents examined during the scan.",
		}),
		fresh: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "docfresh_documents_fresh_total",
			Help: "Documents skipped because their review date is current.",
		}),
		duplicateSkips: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "docfresh_duplicate_skips_total",
			Help: "Stale documents skipped because a proposal is already open.",
		}),
		staleFound: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "docfresh_stale_found_total",
			Help: "Stale documents that triggered a change proposal.",
		}),
	}
}

// Record folds one scan's counters into the pending push.
func (p *Pusher) Record(stats audit.Stats) {
	if p == nil {
		return
	}
	p.scanned.Add(float64(stats.Scanned))
	p.fresh.Add(float64(stats.Fresh))
	p.duplicateSkips.Add(float64(stats.DuplicateSkips))
	p.staleFound.Add(float64(stats.StaleFound))
}

// Push delivers the recorded counters to the gateway. Nil-safe.
func (p *Pusher) Push() error {
	if p == nil {
		return nil
	}

	err := push.New(p.gateway, jobName).
		Collector(p.scanned).
		Collector(p.fresh).
		Collector(p.duplicateSkips).
		Collector(p.staleFound).
		Push()
	if err != nil {
		return fmt.Errorf("push metrics to %s: %w", p.gateway, err)
	}
	return nil
}
