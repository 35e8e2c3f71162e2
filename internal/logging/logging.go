// Package logging builds the process logger and the per-request logging
// middleware.
package logging

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

type ctxKeyLog struct{}

// New returns a logrus logger writing to out. Format is "json" or "text".
func New(out io.Writer, level, format string) (*logrus.Logger, error) {
	log := logrus.New()
	log.SetOutput(out)

	parsed, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return nil, err
	}
	log.SetLevel(parsed)

	if strings.EqualFold(strings.TrimSpace(format), "json") {
		log.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339Nano,
		})
	} else {
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}
	return log, nil
}

// RequestLogger logs one line per request and stores a request-scoped entry
// in the context for handlers to pick up with FromContext.
func RequestLogger(log logrus.FieldLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			entry := log.WithFields(logrus.Fields{
				"http.req.path":   r.URL.Path,
				"http.req.method": r.Method,
				"http.req.id":     middleware.GetReqID(r.Context()),
			})
			defer func() {
				entry.WithFields(logrus.Fields{
					"http.resp.took_ms": time.Since(start).Milliseconds(),
					"http.resp.status":  ww.Status(),
					"http.resp.bytes":   ww.BytesWritten(),
				}).Info("request complete")
			}()

			ctx := context.WithValue(r.Context(), ctxKeyLog{}, entry)
			next.ServeHTTP(ww, r.WithContext(ctx))
		})
	}
}

// FromContext returns the request entry, or fallback when the request did
// not pass through RequestLogger.
func FromContext(ctx context.Context, fallback logrus.FieldLogger) logrus.FieldLogger {
	if entry, ok := ctx.Value(ctxKeyLog{}).(logrus.FieldLogger); ok {
		return entry
	}
	return fallback
}
