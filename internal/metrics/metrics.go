// Package metrics exposes treasury and RPC activity as Prometheus collectors.
package metrics

import (
	"context"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/mmynk/boardfund/internal/treasury"
)

const namespace = "boardfund"

var _ treasury.Observer = (*Metrics)(nil)

// Metrics holds the collectors of one server.
type Metrics struct {
	reg        prometheus.Registerer
	events     *prometheus.CounterVec
	executions *prometheus.CounterVec
	rpcs       *prometheus.CounterVec
	rpcLatency *prometheus.HistogramVec
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		reg: reg,
		events: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "treasury",
			Name:      "events_total",
			Help:      "Committed treasury state changes by kind.",
		}, []string{"event"}),
		executions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "treasury",
			Name:      "executed_transactions_total",
			Help:      "Transactions whose funds were released, by fund.",
		}, []string{"fund_id"}),
		rpcs: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "rpc",
			Name:      "requests_total",
			Help:      "Handled RPCs by procedure and result code.",
		}, []string{"procedure", "code"}),
		rpcLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "rpc",
			Name:      "request_duration_seconds",
			Help:      "RPC handling time.",
			Buckets:   []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 10},
		}, []string{"procedure"}),
	}
}

// Observe counts a committed treasury event.
func (m *Metrics) Observe(_ context.Context, ev treasury.Event) {
	m.events.WithLabelValues(ev.Kind.String()).Inc()
	if ev.Kind == treasury.TransactionExecuted {
		m.executions.WithLabelValues(ev.FundID).Inc()
	}
}

// WatchDeployedFunds exports count as the number of deployed funds.
func (m *Metrics) WatchDeployedFunds(count func() int) error {
	return m.reg.Register(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "deployed_funds",
		Help:      "Funds held by the registry.",
	}, func() float64 {
		return float64(count())
	}))
}

// Interceptor records the outcome and latency of every unary RPC.
func (m *Metrics) Interceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			procedure := req.Spec().Procedure
			start := time.Now()

			resp, err := next(ctx, req)

			m.rpcLatency.WithLabelValues(procedure).Observe(time.Since(start).Seconds())
			code := "ok"
			if err != nil {
				code = connect.CodeOf(err).String()
			}
			m.rpcs.WithLabelValues(procedure, code).Inc()
			return resp, err
		}
	}
}
