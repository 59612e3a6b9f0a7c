package middleware

import (
	"bufio"
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const RequestIdHeader = "X-Request-Id"

type loggingWriter struct {
	http.ResponseWriter
	statusCode int
	hijacked   bool
}

func (w *loggingWriter) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *loggingWriter) Write(b []byte) (int, error) {
	if w.statusCode == 0 {
		w.statusCode = http.StatusOK
	}
	return w.ResponseWriter.Write(b)
}

func (w *loggingWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("hijack not supported")
	}
	w.hijacked = true
	return h.Hijack()
}

func Logging(logger *logrus.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestId := r.Header.Get(RequestIdHeader)
			if _, err := uuid.Parse(requestId); err != nil {
				requestId = uuid.NewString()
			}
			w.Header().Set(RequestIdHeader, requestId)

			entry := logger.WithField("request_id", requestId)
			entry.Debug(r.Method + " " + r.URL.RequestURI())

			wrapped := &loggingWriter{ResponseWriter: w}
			ctx := context.WithValue(r.Context(), CtxRequestId, entry)
			next.ServeHTTP(wrapped, r.WithContext(ctx))

			if wrapped.statusCode == 0 && !wrapped.hijacked {
				wrapped.statusCode = http.StatusOK
			}
			entry.WithFields(logrus.Fields{
				"status":      wrapped.statusCode,
				"hijacked":    wrapped.hijacked,
				"remote_addr": r.RemoteAddr,
				"xff":         r.Header.Get("X-Forwarded-For"),
				"method":      r.Method,
				"uri":         r.URL.RequestURI(),
				"duration_ms": time.Since(start).Milliseconds(),
			}).Info("handled request")
		})
	}
}

// Entry returns the request-scoped log entry set by Logging, or one built
// from fallback when the request did not pass through it.
func Entry(ctx context.Context, fallback *logrus.Logger) *logrus.Entry {
	if e, ok := ctx.Value(CtxRequestId).(*logrus.Entry); ok {
		return e
	}
	return logrus.NewEntry(fallback)
}
