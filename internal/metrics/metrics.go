// Package metrics records client call counts and latencies with Prometheus.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/inventra-io/apiclient-go/internal/apierrors"
	"github.com/inventra-io/apiclient-go/internal/transport"
)

// Outcome label values.
const (
	OutcomeSuccess = "success"
	OutcomeTimeout = "timeout"
	OutcomeNetwork = "network_error"
	OutcomeRequest = "request_error"
)

// Collector implements transport.Observer.
type Collector struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

var _ transport.Observer = (*Collector)(nil)

// NewCollector creates the client collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "apiclient",
				Name:      "requests_total",
				Help:      "Total number of API client requests by outcome.",
			},
			[]string{"mode", "method", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "apiclient",
				Name:      "request_duration_seconds",
				Help:      "Duration of API client requests.",
				Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12), // 5ms to ~10s
			},
			[]string{"mode", "method"},
		),
	}

	if reg != nil {
		for _, col := range []prometheus.Collector{c.requests, c.duration} {
			if err := reg.Register(col); err != nil {
				return nil, err
			}
		}
	}
	return c, nil
}

// ObserveRequest records one finished call.
func (c *Collector) ObserveRequest(mode transport.Mode, method string, statusCode int, code string, elapsed time.Duration) {
	c.requests.WithLabelValues(string(mode), method, Outcome(statusCode, code)).Inc()
	c.duration.WithLabelValues(string(mode), method).Observe(elapsed.Seconds())
}

// Outcome maps a call result to its label value: "success" for 2xx, the
// status class ("4xx", "5xx") for other responses, and the failure kind when
// no response arrived.
func Outcome(statusCode int, code string) string {
	switch {
	case statusCode >= 200 && statusCode <= 299 && code == "":
		return OutcomeSuccess
	case statusCode != 0:
		return strconv.Itoa(statusCode/100) + "xx"
	}
	switch code {
	case apierrors.CodeTimeoutError:
		return OutcomeTimeout
	case apierrors.CodeRequestError:
		return OutcomeRequest
	default:
		return OutcomeNetwork
	}
}
