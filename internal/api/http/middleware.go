package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"locadora-erp-backend/internal/config"
	"locadora-erp-backend/internal/domain"
	"locadora-erp-backend/internal/identity"
	"locadora-erp-backend/internal/logger"
	"locadora-erp-backend/internal/security"
	"locadora-erp-backend/internal/service"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

const requestIDHeader = "X-Request-ID"

func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(logger.WithRequestID(r.Context(), id)))
	})
}

func timeoutMiddleware(timeout time.Duration) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if timeout <= 0 {
				next.ServeHTTP(w, r)
				return
			}
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// authMiddleware turns a bearer token into the request principal.
func authMiddleware(tm security.TokenManager) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token := strings.TrimSpace(header)
			if len(token) > 7 && strings.EqualFold(token[:7], "bearer ") {
				token = strings.TrimSpace(token[7:])
			}
			if token == "" {
				writeJSON(w, http.StatusUnauthorized, errorBody{Error: errorDetail{Code: "UNAUTHENTICATED", Message: "authorization token is not provided"}})
				return
			}
			principal, err := tm.Authenticate(token)
			if err != nil {
				writeJSON(w, http.StatusUnauthorized, errorBody{Error: errorDetail{Code: "UNAUTHENTICATED", Message: err.Error()}})
				return
			}
			next.ServeHTTP(w, r.WithContext(identity.WithPrincipal(r.Context(), principal)))
		})
	}
}

// permissionMiddleware enforces the permission mapped to the matched route.
func permissionMiddleware(perms service.PermissionService) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			route := mux.CurrentRoute(r)
			if route == nil {
				next.ServeHTTP(w, r)
				return
			}
			slug, ok := config.PermissionFor(route.GetName())
			if !ok {
				next.ServeHTTP(w, r)
				return
			}
			principal, ok := identity.FromContext(r.Context())
			if !ok {
				writeError(w, r, domain.NewError(domain.KindPermissionDenied, "authentication required"))
				return
			}
			allowed, err := perms.CheckPermission(r.Context(), principal.UserID, slug)
			if err != nil {
				writeError(w, r, err)
				return
			}
			if !allowed {
				writeError(w, r, domain.NewError(domain.KindPermissionDenied, "missing permission %s", slug))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func accessLogMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.InfoContext(r.Context(), "HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}
