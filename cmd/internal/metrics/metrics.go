// Package metrics defines the gateway's Prometheus instruments.
//
// A single Metrics value is constructed at startup and injected into the
// session manager, refresh coordinator, and route guard. All recording
// methods are nil-safe so tests can pass a nil *Metrics.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics bundles the gateway-level instruments.
type Metrics struct {
	logins    *prometheus.CounterVec
	refreshes *prometheus.CounterVec
	guard     *prometheus.CounterVec
	requests  *prometheus.CounterVec
}

// Refresh outcomes.
const (
	RefreshIssued = "issued" // a real HTTP refresh call was made and succeeded
	RefreshJoined = "joined" // caller attached to an in-flight refresh
	RefreshFailed = "failed"
)

// Guard decisions.
const (
	GuardAllow         = "allow"
	GuardRedirectRole  = "redirect_role"
	GuardRedirectLogin = "redirect_login"
)

// New registers the gateway instruments on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "handicapp_logins_total",
			Help: "Login attempts by result.",
		}, []string{"result"}),
		refreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "handicapp_token_refreshes_total",
			Help: "Token refresh attempts by outcome (issued, joined, failed).",
		}, []string{"outcome"}),
		guard: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "handicapp_guard_decisions_total",
			Help: "Route guard decisions.",
		}, []string{"decision"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "handicapp_http_requests_total",
			Help: "Gateway HTTP requests by method and status class.",
		}, []string{"method", "class"}),
	}
	reg.MustRegister(m.logins, m.refreshes, m.guard, m.requests)
	return m
}

// Login records a login attempt.
func (m *Metrics) Login(ok bool) {
	if m == nil {
		return
	}
	result := "ok"
	if !ok {
		result = "fail"
	}
	m.logins.WithLabelValues(result).Inc()
}

// Refresh records a refresh outcome (RefreshIssued, RefreshJoined, RefreshFailed).
func (m *Metrics) Refresh(outcome string) {
	if m == nil {
		return
	}
	m.refreshes.WithLabelValues(outcome).Inc()
}

// Guard records a guard decision.
func (m *Metrics) Guard(decision string) {
	if m == nil {
		return
	}
	m.guard.WithLabelValues(decision).Inc()
}

// Request records a served gateway request.
func (m *Metrics) Request(method, statusClass string) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, statusClass).Inc()
}
