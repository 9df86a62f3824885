package petstore

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// DefaultMaxLoggedBodyBytes caps how much of a body is written to the log.
const DefaultMaxLoggedBodyBytes = 64 << 10

// LoggingOption configures the logging interceptors.
type LoggingOption func(*callLogger)

// WithMaxBodyBytes sets the body truncation limit; n <= 0 keeps the default.
func WithMaxBodyBytes(n int) LoggingOption {
	return func(l *callLogger) {
		if n > 0 {
			l.maxBody = n
		}
	}
}

type callLogger struct {
	logger  *slog.Logger
	maxBody int
}

func newCallLogger(logger *slog.Logger, opts []LoggingOption) *callLogger {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	l := &callLogger{logger: logger, maxBody: DefaultMaxLoggedBodyBytes}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}
	return l
}

// LoggingInterceptor emits one "request" record before the call and one
// "response" record after it, correlated by call_id. A transport error is
// logged at error level and returned unchanged.
func LoggingInterceptor(logger *slog.Logger, opts ...LoggingOption) Interceptor {
	l := newCallLogger(logger, opts)
	return func(ctx context.Context, req *Request, next Handler) (*Response, error) {
		id := uuid.NewString()
		l.request(ctx, slog.LevelInfo, id, req)
		resp, err := next(ctx, req)
		l.response(ctx, slog.LevelInfo, id, req, resp, err)
		return resp, err
	}
}

// FailureLoggingInterceptor logs the request and response at warn level only
// when the call fails: a transport error or a status of 400 or above.
func FailureLoggingInterceptor(logger *slog.Logger, opts ...LoggingOption) Interceptor {
	l := newCallLogger(logger, opts)
	return func(ctx context.Context, req *Request, next Handler) (*Response, error) {
		resp, err := next(ctx, req)
		if err == nil && resp != nil && resp.StatusCode < http.StatusBadRequest {
			return resp, err
		}
		id := uuid.NewString()
		l.request(ctx, slog.LevelWarn, id, req)
		l.response(ctx, slog.LevelWarn, id, req, resp, err)
		return resp, err
	}
}

func (l *callLogger) request(ctx context.Context, level slog.Level, id string, req *Request) {
	attrs := []slog.Attr{
		slog.String("call_id", id),
		slog.String("method", req.Method),
		slog.String("url", req.URL.String()),
		headerAttr(req.Header),
	}
	if len(req.Body) > 0 {
		attrs = append(attrs, slog.String("body", l.body(req.Body)))
	}
	l.logger.LogAttrs(ctx, level, "request", attrs...)
}

func (l *callLogger) response(ctx context.Context, level slog.Level, id string, req *Request, resp *Response, err error) {
	attrs := []slog.Attr{
		slog.String("call_id", id),
		slog.String("method", req.Method),
		slog.String("url", req.URL.String()),
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
		l.logger.LogAttrs(ctx, slog.LevelError, "response", attrs...)
		return
	}
	if resp == nil {
		l.logger.LogAttrs(ctx, slog.LevelError, "response", append(attrs, slog.String("error", "no response"))...)
		return
	}
	attrs = append(attrs,
		slog.Int("status", resp.StatusCode),
		headerAttr(resp.Header),
		slog.String("body", l.body(resp.Body)),
		slog.Int64("latency_ms", resp.LatencyMillis()),
	)
	l.logger.LogAttrs(ctx, level, "response", attrs...)
}

func (l *callLogger) body(b []byte) string {
	if len(b) <= l.maxBody {
		return string(b)
	}
	return fmt.Sprintf("%s...(truncated %d bytes)", b[:l.maxBody], len(b)-l.maxBody)
}

func headerAttr(h http.Header) slog.Attr {
	names := make([]string, 0, len(h))
	for name := range h {
		names = append(names, name)
	}
	sort.Strings(names)
	args := make([]any, 0, len(names))
	for _, name := range names {
		args = append(args, slog.String(name, strings.Join(h[name], ", ")))
	}
	return slog.Group("headers", args...)
}
