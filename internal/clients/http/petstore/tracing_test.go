package petstore

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/launchdarkly/go-test-helpers/v2/httphelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestTracingInterceptor_SpanAndMetrics(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	httphelpers.WithServer(httphelpers.HandlerWithStatus(http.StatusInternalServerError), func(server *httptest.Server) {
		f := newTestFactory(t, server.URL, WithTracerProvider(tp), WithMeterProvider(mp))
		store, err := NewStoreClient(f)
		require.NoError(t, err)
		resp, err := store.GetOrderByID(context.Background(), 7)
		require.NoError(t, err)
		require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	})

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	span := spans[0]
	assert.Equal(t, "petstore GET /store/order/7", span.Name())
	assert.Equal(t, codes.Error, span.Status().Code)
	assert.Contains(t, span.Attributes(), attribute.Int("http.response.status_code", http.StatusInternalServerError))

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	var calls int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "petstore.client.calls" {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			for _, dp := range sum.DataPoints {
				class, _ := dp.Attributes.Value("status_class")
				assert.Equal(t, "5xx", class.AsString())
				calls += dp.Value
			}
		}
	}
	assert.Equal(t, int64(1), calls)
}

func TestTracingInterceptor_TransportErrorMarksSpan(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	server := httptest.NewServer(httphelpers.HandlerWithStatus(http.StatusOK))
	base := server.URL
	server.Close()

	spec, err := newTestFactory(t, base, WithTracerProvider(tp)).BuildRequestSpec()
	require.NoError(t, err)
	_, err = spec.Do(context.Background(), Call{Path: "/user/logout"})
	require.Error(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	require.NotEmpty(t, spans[0].Events(), "error recorded as span event")
}

func TestTracingInterceptor_NilResponseFromInterceptor(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	swallow := func(context.Context, *Request, Handler) (*Response, error) { return nil, nil }

	spec, err := newTestFactory(t, "http://petstore.invalid/v2", WithTracerProvider(tp), WithInterceptors(swallow)).BuildRequestSpec()
	require.NoError(t, err)
	resp, err := spec.Do(context.Background(), Call{Path: "/store/inventory"})
	require.NoError(t, err)
	assert.Nil(t, resp)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
}

func TestStatusClass(t *testing.T) {
	assert.Equal(t, "2xx", statusClass(http.StatusOK))
	assert.Equal(t, "4xx", statusClass(http.StatusNotFound))
}
