package web

import (
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	metricLoginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "drawdex",
		Name:      "login_attempts_total",
		Help:      "Login attempts by outcome.",
	}, []string{"outcome"})

	metricSearchRequests = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "drawdex",
		Name:      "search_requests_total",
		Help:      "Drawing search requests served.",
	})

	metricActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "drawdex",
		Name:      "sessions_active_total",
		Help:      "Number of unexpired login sessions.",
	})
)

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if !s.cfg.Server.PublicMetrics && sessionFromContext(r.Context()) == nil {
		respondError(w, http.StatusUnauthorized, errors.New("authentication required"))
		return
	}
	promhttp.Handler().ServeHTTP(w, r)
}

func (s *Server) refreshSessionGauge() {
	count, err := s.sessions.CountActiveSessions(s.clock().Add(-s.sessionTTL()))
	if err != nil {
		return
	}
	metricActiveSessions.Set(float64(count))
}
