package middleware

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/bassbeaver/gdispatch/pipeline"
	"github.com/bassbeaver/gdispatch/web/response"
)

const unmatchedRouteLabel = "unmatched"

// Metrics records request counts and durations per route, method and status. It runs
// in the Exited phase, when the response is final.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func (m *Metrics) Process(ctx *ExitedContext, next pipeline.Handler[*ExitedContext, response.Response]) response.Response {
	routeName := unmatchedRouteLabel
	if nil != ctx.Route {
		routeName = ctx.Route.Name()
	}
	status := "0"
	if nil != ctx.Response {
		status = strconv.Itoa(ctx.Response.GetHttpStatus())
	}

	m.requests.WithLabelValues(routeName, ctx.Request.Method, status).Inc()
	if !ctx.Started.IsZero() {
		m.duration.WithLabelValues(routeName, ctx.Request.Method).Observe(time.Since(ctx.Started).Seconds())
	}

	return next.Handle(ctx)
}

//--------------------

// NewMetrics creates the collectors and registers them with registerer.
func NewMetrics(registerer prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gdispatch_http_requests_total",
				Help: "Handled HTTP requests.",
			},
			[]string{"route", "method", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gdispatch_http_request_duration_seconds",
				Help:    "Time from receiving a request to the end of its response.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route", "method"},
		),
	}

	for _, collector := range []prometheus.Collector{m.requests, m.duration} {
		if registerError := registerer.Register(collector); nil != registerError {
			return nil, registerError
		}
	}

	return m, nil
}
