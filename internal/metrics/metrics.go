package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kainpos_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "kainpos_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// Sales metrics
	TransactionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "kainpos_transactions_total",
			Help: "Total number of committed sales transactions",
		},
	)

	RefundsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "kainpos_refunds_total",
			Help: "Total number of committed refunds",
		},
	)

	InsufficientStockTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "kainpos_insufficient_stock_total",
			Help: "Total number of sales rejected for insufficient stock",
		},
	)

	DowngradeSweepCustomers = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "kainpos_downgrade_sweep_customers_total",
			Help: "Total number of customers downgraded by the inactivity sweep",
		},
	)
)
