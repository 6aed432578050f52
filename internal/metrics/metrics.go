// Package metrics holds the prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	GateOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "access_gate",
		Name:      "outcomes_total",
		Help:      "Layout gate decisions by app, scope and outcome.",
	}, []string{"app", "scope", "outcome"})

	LookupFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "access_gate",
		Name:      "lookup_failures_total",
		Help:      "Status record lookups that failed for reasons other than a missing row.",
	}, []string{"record"})

	LayoutDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "access_gate",
		Name:      "layout_duration_seconds",
		Help:      "Time spent resolving a protected layout.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"app", "scope"})

	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "access_gate",
		Name:      "http_requests_total",
		Help:      "HTTP requests by route pattern, method and status code.",
	}, []string{"route", "method", "code"})

	PushPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "access_gate",
		Name:      "push_published_total",
		Help:      "Push notifications handed to the broker, by result.",
	}, []string{"result"})
)
