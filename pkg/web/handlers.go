package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/marambaia/drawdex/pkg/drawing"
	derrors "github.com/marambaia/drawdex/pkg/errors"
	"github.com/marambaia/drawdex/pkg/logging"
	"github.com/marambaia/drawdex/pkg/session"
	"github.com/marambaia/drawdex/pkg/whitelist"
)

// Generic load-failure line shown to end users; detail goes to the logs.
const sourceUnavailableMsg = "data source is temporarily unavailable, try again shortly"

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReadyz reports ready once the whitelist snapshot can be served.
func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	if _, err := s.whitelistCch.Get(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"reason": "whitelist not loaded",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// LoginRequest is the request body for /api/v1/login.
type LoginRequest struct {
	Identifier string `json:"identifier"`
}

// LoginResponse echoes who just logged in.
type LoginResponse struct {
	Identifier  string    `json:"identifier"`
	DisplayName string    `json:"displayName"`
	Role        string    `json:"role"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if !s.loginLimiter.Allow() {
		metricLoginAttempts.WithLabelValues("rate_limited").Inc()
		respondError(w, http.StatusTooManyRequests, errors.New("too many login attempts"))
		return
	}

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, errors.New("invalid request body"))
		return
	}

	snap, err := s.whitelistCch.Get(r.Context())
	if err != nil {
		s.logger.Error(logging.CategorySource, "whitelist_load_failed", "", map[string]any{
			"error": err.Error(),
		})
		respondError(w, http.StatusServiceUnavailable,
			errors.New(derrors.UserMessageOf(err, sourceUnavailableMsg)))
		return
	}

	entry, err := whitelist.Authenticate(req.Identifier, snap)
	switch {
	case errors.Is(err, whitelist.ErrInvalidIdentifier):
		metricLoginAttempts.WithLabelValues("invalid").Inc()
		respondError(w, http.StatusBadRequest,
			errors.New("identifier must be 1 to 5 digits"))
		return
	case errors.Is(err, whitelist.ErrNotFound):
		metricLoginAttempts.WithLabelValues("not_found").Inc()
		s.logger.Warn(logging.CategoryAuth, "login_rejected", "", map[string]any{
			"identifier": req.Identifier,
		})
		respondError(w, http.StatusUnauthorized,
			errors.New("identifier not found in the whitelist"))
		return
	case err != nil:
		respondError(w, http.StatusInternalServerError, errors.New("internal error"))
		return
	}

	now := s.clock()
	sess := session.Session{
		ID:          session.NewID(),
		Identifier:  entry.Identifier,
		DisplayName: entry.DisplayName,
		Role:        entry.Role,
		IssuedAt:    now,
	}
	if err := s.sessions.CreateSession(sess); err != nil {
		s.logger.Error(logging.CategorySession, "create_failed", "", map[string]any{
			"error": err.Error(),
		})
		respondError(w, http.StatusInternalServerError, errors.New("could not start session"))
		return
	}

	metricLoginAttempts.WithLabelValues("ok").Inc()
	s.refreshSessionGauge()
	s.logger.Info(logging.CategoryAuth, "login_ok", "", map[string]any{
		"identifier": string(entry.Identifier),
		"role":       entry.Role,
	})

	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName(),
		Value:    sess.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(s.sessionTTL() / time.Second),
	})
	writeJSON(w, http.StatusOK, LoginResponse{
		Identifier:  string(entry.Identifier),
		DisplayName: entry.DisplayName,
		Role:        entry.Role,
		ExpiresAt:   sess.ExpiresAt(s.sessionTTL()).UTC(),
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(s.cookieName()); err == nil && cookie.Value != "" {
		if err := s.sessions.DeleteSession(cookie.Value); err != nil {
			s.logger.Warn(logging.CategorySession, "delete_failed", "", map[string]any{
				"error": err.Error(),
			})
		}
		s.refreshSessionGauge()
	}

	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName(),
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
	writeJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

// MeResponse describes the current session.
type MeResponse struct {
	Identifier  string    `json:"identifier"`
	DisplayName string    `json:"displayName"`
	Role        string    `json:"role"`
	IssuedAt    time.Time `json:"issuedAt"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	writeJSON(w, http.StatusOK, MeResponse{
		Identifier:  string(sess.Identifier),
		DisplayName: sess.DisplayName,
		Role:        sess.Role,
		IssuedAt:    sess.IssuedAt.UTC(),
		ExpiresAt:   sess.ExpiresAt(s.sessionTTL()).UTC(),
	})
}

// SearchResponse lists matched drawings with their ordered revisions.
type SearchResponse struct {
	Query   string           `json:"query"`
	Count   int              `json:"count"`
	Results []drawing.Result `json:"results"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	term := strings.TrimSpace(r.URL.Query().Get("q"))
	if term == "" {
		respondError(w, http.StatusBadRequest, errors.New("query parameter q is required"))
		return
	}

	rows, err := s.drawingsCch.Get(r.Context())
	if err != nil {
		s.logger.Error(logging.CategorySource, "drawings_load_failed", "", map[string]any{
			"error": err.Error(),
		})
		respondError(w, http.StatusServiceUnavailable,
			errors.New(derrors.UserMessageOf(err, sourceUnavailableMsg)))
		return
	}

	results := drawing.Lookup(rows, term)
	metricSearchRequests.Inc()
	s.logger.Info(logging.CategorySearch, "search", "", map[string]any{
		"term":    term,
		"matches": len(results),
	})

	if results == nil {
		results = []drawing.Result{}
	}
	writeJSON(w, http.StatusOK, SearchResponse{
		Query:   term,
		Count:   len(results),
		Results: results,
	})
}
