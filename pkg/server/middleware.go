package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/chainsight-io/chainsight/pkg/graph"
	"github.com/chainsight-io/chainsight/pkg/metrics"
	"github.com/chainsight-io/chainsight/pkg/pipeline"
	"github.com/chainsight-io/chainsight/pkg/session"
	"github.com/chainsight-io/chainsight/pkg/simulation"
)

const sessionCookie = "chainsight_session"

// statusRecorder captures the response code for metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// instrument records request count and latency per route pattern.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		metrics.HTTPRequestsTotal.WithLabelValues(route, strconv.Itoa(rec.status)).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

// withSession resolves the caller's session from the cookie.
func (s *Server) withSession(next func(http.ResponseWriter, *http.Request, *session.Session)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessionCookie)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "missing session cookie")
			return
		}
		sess, err := s.sessions.Get(cookie.Value)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "session expired or unknown")
			return
		}
		next(w, r, sess)
	}
}

// withRun additionally requires a completed analysis in the session.
func (s *Server) withRun(next func(http.ResponseWriter, *http.Request, *pipeline.Run)) http.HandlerFunc {
	return s.withSession(func(w http.ResponseWriter, r *http.Request, sess *session.Session) {
		run, err := s.sessions.Run(sess.ID)
		if err != nil {
			writeError(w, http.StatusConflict, "no analysis uploaded yet")
			return
		}
		next(w, r, run)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeDomainError maps pipeline error types to HTTP status codes.
func writeDomainError(w http.ResponseWriter, err error) {
	var verr *graph.ValidationError
	var perr *simulation.ParamError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error": verr.Error(),
			"kind":  verr.Kind.Error(),
			"id":    verr.ID,
			"field": verr.Field,
		})
	case errors.Is(err, simulation.ErrTargetNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &perr):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, graph.ErrNodeNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, session.ErrNotFound):
		writeError(w, http.StatusUnauthorized, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
