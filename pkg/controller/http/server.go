package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/petpal/pkg/service/stream"
	"github.com/secmon-lab/petpal/pkg/usecase"
	"github.com/secmon-lab/petpal/pkg/utils/errutil"
	"github.com/secmon-lab/petpal/pkg/utils/logging"
	"github.com/secmon-lab/petpal/pkg/utils/safe"
)

type Server struct {
	router       *chi.Mux
	uc           *usecase.UseCases
	tasks        stream.Reader
	follow       stream.FollowConfig
	secureCookie bool
}

type Options func(*Server)

// WithTaskReader enables the background task routes
func WithTaskReader(r stream.Reader) Options {
	return func(s *Server) {
		s.tasks = r
	}
}

func WithFollowConfig(cfg stream.FollowConfig) Options {
	return func(s *Server) {
		s.follow = cfg
	}
}

// WithSecureCookie marks the session cookie Secure, for deployments behind TLS
func WithSecureCookie(secure bool) Options {
	return func(s *Server) {
		s.secureCookie = secure
	}
}

func New(uc *usecase.UseCases, opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router: r,
		uc:     uc,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", healthHandler)

	r.Route("/api/agent", func(r chi.Router) {
		r.Use(sessionMiddleware(s.secureCookie))
		r.Post("/message", messageHandler(s.uc.Agent))
		r.Post("/resume", resumeHandler(s.uc.Agent))

		if s.uc.Task != nil && s.tasks != nil {
			r.Post("/tasks", startTaskHandler(s.uc.Task))
			r.Get("/tasks/{taskID}/stream", streamHandler(s.tasks, s.follow))
		}
	})

	r.Post("/api/labels", labelHandler(s.uc.Label))

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			logging.Default().Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "failed to marshal response"), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	safe.Write(r.Context(), w, data)
}

// maxBodyBytes bounds JSON request bodies
const maxBodyBytes = 1 << 20

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return goerr.Wrap(err, "invalid request body")
	}
	return nil
}
