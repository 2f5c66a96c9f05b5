package main

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/fpang/public-file-server/internal/fileserver"
	"github.com/fpang/public-file-server/internal/metrics"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const requestIDHeader = "X-Request-Id"

// statusRecorder wraps http.ResponseWriter to capture the status code and
// body size, and to drop a second WriteHeader once headers are out.
type statusRecorder struct {
	http.ResponseWriter
	statusCode  int
	wroteHeader bool
	bytes       int
}

func newStatusRecorder(w http.ResponseWriter) *statusRecorder {
	return &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
}

func (sr *statusRecorder) WriteHeader(code int) {
	if sr.wroteHeader {
		return
	}
	sr.statusCode = code
	sr.wroteHeader = true
	sr.ResponseWriter.WriteHeader(code)
}

func (sr *statusRecorder) Write(b []byte) (int, error) {
	if !sr.wroteHeader {
		sr.WriteHeader(http.StatusOK)
	}
	n, err := sr.ResponseWriter.Write(b)
	sr.bytes += n
	return n, err
}

func (sr *statusRecorder) Unwrap() http.ResponseWriter {
	return sr.ResponseWriter
}

// withRequestID tags each request with an ID, echoed in the X-Request-Id
// response header and attached to the request-scoped logger. A well-formed
// UUID supplied by the client is reused.
func withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)

		logger := zerolog.Ctx(r.Context()).With().Str("requestId", id).Logger()
		next.ServeHTTP(w, r.WithContext(logger.WithContext(r.Context())))
	})
}

// withRecovery is the outermost error boundary: a panic anywhere below is
// logged and answered with 500, unless a response has already started.
func withRecovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sr := newStatusRecorder(w)
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			zerolog.Ctx(r.Context()).Error().
				Str("error", fmt.Sprint(rec)).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Bool("headersSent", sr.wroteHeader).
				Str("stack", string(debug.Stack())).
				Msg("Unhandled request error")
			if !sr.wroteHeader {
				fileserver.WriteError(sr, http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(sr, r)
	})
}

func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sr := newStatusRecorder(w)
		next.ServeHTTP(sr, r)
		zerolog.Ctx(r.Context()).Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", sr.statusCode).
			Int("bytes", sr.bytes).
			Dur("duration", time.Since(start)).
			Msg("Request")
	})
}

// withMetrics emits one EMF document per request: RequestLatencyMs,
// ResponseBytes and RequestCount, dimensioned by status class.
func withMetrics(sink *metrics.Sink, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sr := newStatusRecorder(w)

		next.ServeHTTP(sr, r)

		metrics.New(sink, metrics.Namespace).
			Dimension("StatusClass", statusClass(sr.statusCode)).
			Metric("RequestLatencyMs", float64(time.Since(start).Milliseconds()), metrics.UnitMilliseconds).
			Metric("ResponseBytes", float64(sr.bytes), metrics.UnitBytes).
			Count("RequestCount").
			Property("method", r.Method).
			Property("statusCode", sr.statusCode).
			Property("path", r.URL.Path).
			Flush()
	})
}

// statusClass collapses a status code to a low-cardinality dimension value.
func statusClass(code int) string {
	return fmt.Sprintf("%dxx", code/100)
}
