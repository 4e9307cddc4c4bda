package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hrygo/traveltime/plugin/travel/departure"
	"github.com/hrygo/traveltime/plugin/travel/intent"
)

const namespace = "traveltime"

// Metrics exposes Prometheus collectors for the travel API.
type Metrics struct {
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	intents         *prometheus.CounterVec
	estimates       *prometheus.CounterVec
	plans           *prometheus.CounterVec
	rateLimited     prometheus.Counter
	suspicious      prometheus.Counter
}

var (
	defaultMetricsOnce sync.Once
	sharedMetrics      *Metrics
)

// DefaultMetrics returns the metrics registered with the global Prometheus registry.
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		sharedMetrics = MustNewMetrics(prometheus.DefaultRegisterer)
	})
	return sharedMetrics
}

// MustNewMetrics registers the collectors with reg. Tests pass a fresh registry.
// Registration errors other than AlreadyRegistered panic.
func MustNewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"path", "code"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"path"}),
		intents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "intents_total",
			Help:      "Classified travel intents.",
		}, []string{"intent"}),
		estimates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "routing",
			Name:      "estimates_total",
			Help:      "Travel estimates by outcome.",
		}, []string{"result"}),
		plans: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "departure_plans_total",
			Help:      "Departure plans by status, or by error for invalid plans.",
		}, []string{"status"}),
		rateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the rate limiter.",
		}),
		suspicious: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "suspicious_requests_total",
			Help:      "Requests whose path looks like a vulnerability scan.",
		}),
	}

	m.requests = register(reg, m.requests)
	m.requestDuration = register(reg, m.requestDuration)
	m.intents = register(reg, m.intents)
	m.estimates = register(reg, m.estimates)
	m.plans = register(reg, m.plans)
	m.rateLimited = register(reg, m.rateLimited)
	m.suspicious = register(reg, m.suspicious)
	return m
}

// register reuses an existing collector of the same description.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	if err := reg.Register(c); err != nil {
		if already, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := already.ExistingCollector.(C); ok {
				return existing
			}
		}
		panic(err)
	}
	return c
}

// ObserveRequest records a finished HTTP request.
func (m *Metrics) ObserveRequest(path string, code int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(path, strconv.Itoa(code)).Inc()
	m.requestDuration.WithLabelValues(path).Observe(duration.Seconds())
}

// IncRateLimited counts a rejected request.
func (m *Metrics) IncRateLimited() {
	if m == nil {
		return
	}
	m.rateLimited.Inc()
}

// IncSuspicious counts a scanner-like request.
func (m *Metrics) IncSuspicious() {
	if m == nil {
		return
	}
	m.suspicious.Inc()
}

// ObserveIntent counts a classification.
func (m *Metrics) ObserveIntent(i intent.Intent) {
	if m == nil {
		return
	}
	m.intents.WithLabelValues(i.String()).Inc()
}

// ObserveEstimate counts a routing outcome.
func (m *Metrics) ObserveEstimate(result string) {
	if m == nil {
		return
	}
	m.estimates.WithLabelValues(result).Inc()
}

// ObservePlan counts a departure plan.
func (m *Metrics) ObservePlan(p departure.Plan) {
	if m == nil {
		return
	}
	label := string(p.Status)
	if !p.Valid {
		label = string(p.Error)
	}
	m.plans.WithLabelValues(label).Inc()
}
