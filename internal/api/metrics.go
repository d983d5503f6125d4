package api

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ytweb_api_requests_total",
		Help: "API requests issued by the client, by operation and result",
	}, []string{
		"op",     // info|download|status|file|health
		"result", // ok|remote_error|transport_error|decode_error
	})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ytweb_api_request_duration_seconds",
		Help:    "Latency of API requests until the response headers arrive",
		Buckets: prometheus.DefBuckets,
	}, []string{"op"})
)

const (
	resultOK             = "ok"
	resultRemoteError    = "remote_error"
	resultTransportError = "transport_error"
	resultDecodeError    = "decode_error"
)

func observeRequest(op, result string, started time.Time) {
	requestsTotal.WithLabelValues(op, result).Inc()
	requestDuration.WithLabelValues(op).Observe(time.Since(started).Seconds())
}
