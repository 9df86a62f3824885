// Package petstore is the HTTP client layer of the harness: a factory that
// builds reusable request templates, the interceptor chain and the typed
// endpoint clients for the pet, store and user resources.
package petstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/metric"
	noopmetric "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"
)

const instrumentationName = "github.com/Apurer/petstore-api-harness/internal/clients/http/petstore"

// ErrNoDefaultSpec is returned by Do before ApplyGlobalDefaults has run.
var ErrNoDefaultSpec = errors.New("petstore: global default request spec not applied")

// Settings is the read-only view of the harness configuration the factory needs.
type Settings interface {
	BaseURL() string
	Timeout() time.Duration
	LogEnabled() bool
}

// Factory builds RequestSpecs from the current settings.
type Factory struct {
	settings       Settings
	logger         *slog.Logger
	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider
	httpClient     *http.Client
	extra          []Interceptor
	logOpts        []LoggingOption
}

// FactoryOption customises a Factory.
type FactoryOption func(*Factory)

// WithLogger sets the logger used by the logging interceptors.
func WithLogger(logger *slog.Logger) FactoryOption {
	return func(f *Factory) {
		f.logger = logger
	}
}

// WithTracerProvider sets the provider for call spans and the otelhttp transport.
func WithTracerProvider(tp trace.TracerProvider) FactoryOption {
	return func(f *Factory) {
		f.tracerProvider = tp
	}
}

// WithMeterProvider sets the provider for call metrics.
func WithMeterProvider(mp metric.MeterProvider) FactoryOption {
	return func(f *Factory) {
		f.meterProvider = mp
	}
}

// WithHTTPClient replaces the default instrumented client. The caller owns its
// timeout and transport.
func WithHTTPClient(client *http.Client) FactoryOption {
	return func(f *Factory) {
		f.httpClient = client
	}
}

// WithInterceptors appends interceptors inside the built-in ones.
func WithInterceptors(interceptors ...Interceptor) FactoryOption {
	return func(f *Factory) {
		f.extra = append(f.extra, interceptors...)
	}
}

// WithLoggingOptions forwards options to the logging interceptors.
func WithLoggingOptions(opts ...LoggingOption) FactoryOption {
	return func(f *Factory) {
		f.logOpts = append(f.logOpts, opts...)
	}
}

// NewFactory wires a factory around settings.
func NewFactory(settings Settings, opts ...FactoryOption) *Factory {
	f := &Factory{settings: settings}
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}
	if f.logger == nil {
		f.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if f.tracerProvider == nil {
		f.tracerProvider = nooptrace.NewTracerProvider()
	}
	if f.meterProvider == nil {
		f.meterProvider = noopmetric.NewMeterProvider()
	}
	return f
}

// RequestSpec is an immutable request template: base URL, default headers,
// HTTP client and the composed interceptor chain. It is safe for concurrent use.
type RequestSpec struct {
	baseURL *url.URL
	header  http.Header
	client  *http.Client
	handler Handler
}

// BuildRequestSpec reads the settings and returns a fresh template. Logging is
// installed only when the settings enable it.
func (f *Factory) BuildRequestSpec() (*RequestSpec, error) {
	if err := f.check(); err != nil {
		return nil, err
	}
	var logging Interceptor
	if f.settings.LogEnabled() {
		logging = LoggingInterceptor(f.logger, f.logOpts...)
	}
	return f.build(logging)
}

// ApplyGlobalDefaults installs the process-wide template used by Do: the
// configured base URL with request and response logged only when a call fails.
func (f *Factory) ApplyGlobalDefaults() error {
	if err := f.check(); err != nil {
		return err
	}
	spec, err := f.build(FailureLoggingInterceptor(f.logger, f.logOpts...))
	if err != nil {
		return err
	}
	defaultSpec.Store(spec)
	return nil
}

// ErrNoSettings is returned when a factory was built without settings.
var ErrNoSettings = errors.New("petstore: factory has no settings")

func (f *Factory) check() error {
	if f == nil || f.settings == nil {
		return ErrNoSettings
	}
	return nil
}

func (f *Factory) build(logging Interceptor) (*RequestSpec, error) {
	raw := strings.TrimSpace(f.settings.BaseURL())
	base, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse base URL %q: %w", raw, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("base URL %q must be absolute", raw)
	}

	client := f.httpClient
	if client == nil {
		client = &http.Client{
			Timeout:   f.settings.Timeout(),
			Transport: otelhttp.NewTransport(http.DefaultTransport, otelhttp.WithTracerProvider(f.tracerProvider)),
		}
	}

	interceptors := make([]Interceptor, 0, len(f.extra)+2)
	interceptors = append(interceptors,
		TracingInterceptor(f.tracerProvider.Tracer(instrumentationName), f.meterProvider.Meter(instrumentationName)),
		logging,
	)
	interceptors = append(interceptors, f.extra...)

	header := http.Header{}
	header.Set("Content-Type", ContentTypeJSON)
	header.Set("Accept", ContentTypeJSON)

	return &RequestSpec{
		baseURL: base,
		header:  header,
		client:  client,
		handler: Chain(transport(client), interceptors...),
	}, nil
}

// BaseURL returns the root endpoint paths are resolved against.
func (s *RequestSpec) BaseURL() string { return s.baseURL.String() }

// Header returns a copy of the default headers.
func (s *RequestSpec) Header() http.Header { return s.header.Clone() }

// Timeout returns the client timeout handed to the transport.
func (s *RequestSpec) Timeout() time.Duration { return s.client.Timeout }

// Do renders call against the template and runs it through the chain. A
// rendering problem is returned before any I/O.
func (s *RequestSpec) Do(ctx context.Context, call Call) (*Response, error) {
	if s == nil {
		return nil, errors.New("petstore: nil request spec")
	}
	req, err := call.render(s.baseURL, s.header)
	if err != nil {
		return nil, err
	}
	return s.handler(ctx, req)
}

var defaultSpec atomic.Pointer[RequestSpec]

// DefaultSpec returns the template installed by ApplyGlobalDefaults, or nil.
func DefaultSpec() *RequestSpec {
	return defaultSpec.Load()
}

// Do issues an ad-hoc call through the global default template.
func Do(ctx context.Context, call Call) (*Response, error) {
	spec := DefaultSpec()
	if spec == nil {
		return nil, ErrNoDefaultSpec
	}
	return spec.Do(ctx, call)
}
