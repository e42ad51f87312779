// Package metrics exposes Prometheus counters for page activity.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is what page controllers report to.
type Recorder interface {
	RecordLogin(signUp bool)
	RecordLogout()
	RecordMessageSent()
	RecordStubAction(action string)
	RecordGuardRedirect(path string)
	RecordAvatarUpdate()
}

type Collector struct {
	logins         *prometheus.CounterVec
	logouts        prometheus.Counter
	messagesSent   prometheus.Counter
	stubActions    *prometheus.CounterVec
	guardRedirects *prometheus.CounterVec
	avatarUpdates  prometheus.Counter
}

func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "catalyst_logins_total",
			Help: "Successful stub logins by kind.",
		}, []string{"kind"}),
		logouts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "catalyst_logouts_total",
			Help: "Logouts.",
		}),
		messagesSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "catalyst_messages_sent_total",
			Help: "Messages appended to room logs.",
		}),
		stubActions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "catalyst_stub_actions_total",
			Help: "Notification-only actions by name.",
		}, []string{"action"}),
		guardRedirects: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "catalyst_guard_redirects_total",
			Help: "Protected page visits redirected to login for lack of a session.",
		}, []string{"path"}),
		avatarUpdates: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "catalyst_avatar_updates_total",
			Help: "Applied avatar changes.",
		}),
	}

	reg.MustRegister(
		c.logins,
		c.logouts,
		c.messagesSent,
		c.stubActions,
		c.guardRedirects,
		c.avatarUpdates,
	)

	return c
}

func (c *Collector) RecordLogin(signUp bool) {
	kind := "login"
	if signUp {
		kind = "signup"
	}
	c.logins.WithLabelValues(kind).Inc()
}

func (c *Collector) RecordLogout() {
	c.logouts.Inc()
}

func (c *Collector) RecordMessageSent() {
	c.messagesSent.Inc()
}

func (c *Collector) RecordStubAction(action string) {
	c.stubActions.WithLabelValues(action).Inc()
}

func (c *Collector) RecordGuardRedirect(path string) {
	c.guardRedirects.WithLabelValues(path).Inc()
}

func (c *Collector) RecordAvatarUpdate() {
	c.avatarUpdates.Inc()
}

// Handler serves the registry in the Prometheus text format.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Nop discards everything.
type Nop struct{}

func (Nop) RecordLogin(bool)           {}
func (Nop) RecordLogout()              {}
func (Nop) RecordMessageSent()         {}
func (Nop) RecordStubAction(string)    {}
func (Nop) RecordGuardRedirect(string) {}
func (Nop) RecordAvatarUpdate()        {}
