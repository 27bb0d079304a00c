package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "edueats_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "edueats_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	OrdersSubmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "edueats_orders_submitted_total",
			Help: "Total number of orders saved",
		},
		[]string{"source"}, // wizard | batch
	)

	AICalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "edueats_ai_calls_total",
			Help: "Total number of generative AI calls by outcome",
		},
		[]string{"kind", "outcome"},
	)

	EmailsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "edueats_emails_sent_total",
			Help: "Total number of emails sent",
		},
		[]string{"driver", "outcome"},
	)
)
