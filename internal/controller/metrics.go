package controller

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ytget/yt-web-client/internal/api"
)

var (
	pollTicksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ytweb_controller_poll_ticks_total",
		Help: "Status poll ticks by outcome",
	}, []string{"result"}) // ok|transport_error|stale

	flowsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ytweb_controller_flows_total",
		Help: "Controller flows by step and outcome",
	}, []string{
		"flow",   // info|submit|job
		"result", // ok|validation_error|remote_error|network_error|job_failed|superseded
	})
)

func flowResult(err error) string {
	var (
		validation *ValidationError
		remote     *api.RemoteError
		failed     *JobFailedError
	)
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrSuperseded):
		return "superseded"
	case errors.As(err, &validation):
		return "validation_error"
	case errors.As(err, &remote):
		return "remote_error"
	case errors.As(err, &failed):
		return "job_failed"
	default:
		return "network_error"
	}
}
