package httpserver

import (
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/momohthinQ/meyone-secure-vault/internal/metrics"
)

// corsHeaders mirror the public verification contract: results are
// checkable from any origin, like a certificate.
var corsAllowHeaders = "authorization, x-client-info, apikey, content-type"

// statusWriter captures the response code for logging and metrics.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// Recover returns middleware that recovers from handler panics.
func Recover(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					log.Error("panic",
						zap.Any("reason", rec),
						zap.ByteString("stack", debug.Stack()),
						zap.String("path", r.URL.Path),
					)
					writeJSON(w, http.StatusInternalServerError, errorBody{Error: "Verification failed"})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// Logging returns middleware for structured request logging and latency
// metrics. route resolves the matched route pattern; raw URLs carry
// secrets in path segments and stay out of labels and log fields.
func Logging(log *zap.Logger, met *metrics.Metrics, route func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r)

			dur := time.Since(start)
			pattern := route(r)
			met.RequestDuration.WithLabelValues(pattern, strconv.Itoa(sw.status)).Observe(dur.Seconds())

			// no payloads, metadata only
			log.Info("http",
				zap.String("method", r.Method),
				zap.String("route", pattern),
				zap.Int("status", sw.status),
				zap.Duration("dur", dur),
				zap.String("remote", r.RemoteAddr),
			)
		})
	}
}

// CORS returns middleware that opens the API to any origin and answers
// preflight requests.
func CORS() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Headers", corsAllowHeaders)
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
