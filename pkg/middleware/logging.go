package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/atlas/pkg/configuration"
	"github.com/iota-uz/atlas/pkg/constants"
)

type statusWriter struct {
	http.ResponseWriter
	statusCode    int
	statusWritten bool
}

func (w *statusWriter) WriteHeader(code int) {
	if !w.statusWritten {
		w.statusCode = code
		w.statusWritten = true
		w.ResponseWriter.WriteHeader(code)
	}
}

// Status returns the HTTP status code
func (w *statusWriter) Status() int {
	if w.statusCode == 0 {
		return http.StatusOK
	}
	return w.statusCode
}

// WithLogger installs a per-request logrus entry in the context and logs
// each request with its duration, status, request id and client ip.
func WithLogger(logger *logrus.Logger) mux.MiddlewareFunc {
	conf := configuration.Use()
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := r.Header.Get(conf.RequestIDHeader)
			if requestID == "" {
				requestID = uuid.NewString()
			}
			realIP := r.Header.Get(conf.RealIPHeader)
			if realIP == "" {
				realIP = r.RemoteAddr
			}

			entry := logger.WithFields(logrus.Fields{
				"request-id": requestID,
				"path":       r.URL.Path,
				"method":     r.Method,
				"ip":         realIP,
			})

			ctx := context.WithValue(r.Context(), constants.LoggerKey, entry)
			ctx = context.WithValue(ctx, constants.RequestStart, start)

			sw := &statusWriter{ResponseWriter: w}
			next.ServeHTTP(sw, r.WithContext(ctx))

			entry.WithFields(logrus.Fields{
				"duration": time.Since(start).String(),
				"status":   sw.Status(),
			}).Info("request completed")
		})
	}
}
