package apiclient

import "github.com/prometheus/client_golang/prometheus"

// Refresh triggers.
const (
	TriggerProactive    = "proactive"
	TriggerUnauthorized = "unauthorized"
)

// LogoutCause says why a session ended.
type LogoutCause string

const (
	CauseRefreshFailed       LogoutCause = "refresh_failed"
	CauseRefreshEndpointAuth LogoutCause = "refresh_endpoint_auth"
	CauseNoRefreshToken      LogoutCause = "no_refresh_token"
	CauseUnrecoverableAuth   LogoutCause = "unrecoverable_auth"
	CauseIdle                LogoutCause = "idle"
	CauseUser                LogoutCause = "user"
)

// Metrics counts session client outcomes. A nil *Metrics records nothing.
type Metrics struct {
	requests  *prometheus.CounterVec
	refreshes *prometheus.CounterVec
	logouts   *prometheus.CounterVec
}

// NewMetrics registers the session client counters with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "console_backend_requests_total",
			Help: "Backend calls made through the session client, by outcome.",
		}, []string{"method", "outcome"}),
		refreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "console_token_refresh_total",
			Help: "Access token refresh calls, by trigger and result.",
		}, []string{"trigger", "result"}),
		logouts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "console_logouts_total",
			Help: "Sessions ended, by cause.",
		}, []string{"cause"}),
	}
	if reg != nil {
		reg.MustRegister(m.requests, m.refreshes, m.logouts)
	}
	return m
}

func (m *Metrics) request(method, outcome string) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, outcome).Inc()
}

func (m *Metrics) refresh(trigger string, ok bool) {
	if m == nil {
		return
	}
	result := "success"
	if !ok {
		result = "failure"
	}
	m.refreshes.WithLabelValues(trigger, result).Inc()
}

func (m *Metrics) logout(cause LogoutCause) {
	if m == nil {
		return
	}
	m.logouts.WithLabelValues(string(cause)).Inc()
}
