package petstore

import (
	"context"
	"fmt"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"
)

// TracingInterceptor opens one client span per call and records a call
// counter by status class plus a latency histogram.
func TracingInterceptor(tracer trace.Tracer, meter metric.Meter) Interceptor {
	if tracer == nil {
		tracer = nooptrace.NewTracerProvider().Tracer(instrumentationName)
	}
	m := newCallMetrics(meter)
	return func(ctx context.Context, req *Request, next Handler) (*Response, error) {
		ctx, span := tracer.Start(ctx, "petstore "+req.Method+" "+req.URL.Path,
			trace.WithSpanKind(trace.SpanKindClient),
			trace.WithAttributes(
				attribute.String("http.request.method", req.Method),
				attribute.String("url.full", req.URL.String()),
			),
		)
		defer span.End()

		resp, err := next(ctx, req)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			m.record(ctx, req.Method, "transport_error", nil)
			return resp, err
		}
		if resp == nil {
			span.SetStatus(codes.Error, "no response")
			m.record(ctx, req.Method, "no_response", nil)
			return nil, nil
		}
		span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
		if resp.StatusCode >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, resp.Status)
		}
		m.record(ctx, req.Method, statusClass(resp.StatusCode), resp)
		return resp, nil
	}
}

func statusClass(code int) string {
	return fmt.Sprintf("%dxx", code/100)
}

type callMetrics struct {
	calls   metric.Int64Counter
	latency metric.Float64Histogram
}

func newCallMetrics(m metric.Meter) callMetrics {
	if m == nil {
		return callMetrics{}
	}
	calls, _ := m.Int64Counter("petstore.client.calls", metric.WithDescription("Number of Petstore API calls"))
	latency, _ := m.Float64Histogram("petstore.client.latency",
		metric.WithDescription("Petstore API call latency"),
		metric.WithUnit("ms"),
	)
	return callMetrics{calls: calls, latency: latency}
}

func (m callMetrics) record(ctx context.Context, method, class string, resp *Response) {
	attrs := metric.WithAttributes(
		attribute.String("http.request.method", method),
		attribute.String("status_class", class),
	)
	if m.calls != nil {
		m.calls.Add(ctx, 1, attrs)
	}
	if m.latency != nil && resp != nil {
		m.latency.Record(ctx, float64(resp.Latency.Microseconds())/1000, attrs)
	}
}
