package harness

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/Apurer/petstore-api-harness/internal/clients/http/petstore"
	"github.com/Apurer/petstore-api-harness/internal/platform/observability"
	"github.com/Apurer/petstore-api-harness/internal/scenarios"
)

const serviceName = "petstore-harness"

// Run executes the scenario catalogue against the configured service and
// prints the report. A non-nil error means the run could not start; scenario
// failures are reported through Results.
func Run(ctx context.Context, cfg Config) (scenarios.Results, error) {
	settings, err := cfg.LoadSettings()
	if err != nil {
		return scenarios.Results{}, err
	}

	instruments, shutdown, err := observability.Init(ctx, serviceName,
		observability.WithLogOutput(cfg.logOut()),
		observability.WithLevel(cfg.LogLevel),
	)
	if err != nil {
		return scenarios.Results{}, fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	factory := petstore.NewFactory(settings,
		petstore.WithLogger(logger),
		petstore.WithTracerProvider(instruments.TracerProvider),
		petstore.WithMeterProvider(instruments.MeterProvider),
	)
	if err := factory.ApplyGlobalDefaults(); err != nil {
		return scenarios.Results{}, err
	}
	clients, err := scenarios.NewClients(factory)
	if err != nil {
		return scenarios.Results{}, err
	}

	logger.Info("running scenario catalogue",
		slog.String("base_url", settings.BaseURL()),
		slog.Duration("timeout", settings.Timeout()),
		slog.Bool("log_enabled", settings.LogEnabled()),
	)
	checkReachable(ctx, logger)
	report := NewReport(cfg.out(), cfg.NoColor)
	report.Filters(cfg.Filters)

	runner := scenarios.NewRunner(clients,
		scenarios.WithFilter(cfg.Filters.AsFilter),
		scenarios.WithLogger(logger),
	)
	results := runner.Run(ctx, scenarios.Catalogue())
	report.Results(results)
	return results, nil
}

// checkReachable issues one ad-hoc inventory call through the global default
// spec. An unreachable service is logged and the run continues, so every
// scenario still reports its own transport failure.
func checkReachable(ctx context.Context, logger *slog.Logger) {
	resp, err := petstore.Do(ctx, petstore.Call{Method: http.MethodGet, Path: "/store/inventory"})
	if err != nil {
		logger.WarnContext(ctx, "service unreachable", slog.String("error", err.Error()))
		return
	}
	logger.InfoContext(ctx, "service reachable",
		slog.Int("status", resp.StatusCode),
		slog.Int64("latency_ms", resp.LatencyMillis()),
	)
}
