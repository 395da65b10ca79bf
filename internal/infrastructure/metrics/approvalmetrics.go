package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"

	"github.com/ledgerline/depositd/internal/application/deposit/approval"
)

// ApprovalMetrics exports approval outcomes, oracle latency and the USD value
// credited to balances.
type ApprovalMetrics struct {
	approvals   *prometheus.CounterVec
	priceLookup prometheus.Histogram
	credited    prometheus.Counter
}

var _ approval.Metrics = (*ApprovalMetrics)(nil)

func NewApprovalMetrics(reg prometheus.Registerer, namespace string) *ApprovalMetrics {
	factory := promauto.With(reg)

	return &ApprovalMetrics{
		approvals: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "approvals_total",
				Help:      "Total number of deposit approvals by outcome.",
			},
			[]string{"outcome"},
		),
		priceLookup: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "price_lookup_seconds",
				Help:      "Latency of price oracle lookups made during approval.",
				Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
		),
		credited: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "usd_credited_total",
				Help:      "Total USD value credited to investment balances.",
			},
		),
	}
}

func (m *ApprovalMetrics) ObserveApproval(outcome string) {
	m.approvals.WithLabelValues(outcome).Inc()
}

func (m *ApprovalMetrics) ObservePriceLookup(elapsed time.Duration) {
	m.priceLookup.Observe(elapsed.Seconds())
}

func (m *ApprovalMetrics) AddCredited(usd decimal.Decimal) {
	if !usd.IsPositive() {
		return
	}
	m.credited.Add(usd.InexactFloat64())
}
