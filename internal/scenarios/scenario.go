// Package scenarios holds the end-to-end catalogue the harness runs against a
// Petstore deployment, and a sequential runner for it.
package scenarios

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/Apurer/petstore-api-harness/internal/clients/http/petstore"
)

// Severity ranks how much a failing scenario matters.
type Severity string

const (
	SeverityBlocker  Severity = "blocker"
	SeverityCritical Severity = "critical"
	SeverityNormal   Severity = "normal"
	SeverityMinor    Severity = "minor"
)

// Epic groups every scenario in the catalogue.
const Epic = "Pet Store API"

// Features.
const (
	FeaturePets  = "Pet Management"
	FeatureStore = "Store Management"
	FeatureUsers = "User Management"
)

// Scenario is one end-to-end check. Epic, Feature, Story and Severity are
// descriptive only and never change how the scenario runs.
type Scenario struct {
	Name        string
	Epic        string
	Feature     string
	Story       string
	Severity    Severity
	Description string
	Run         func(ctx context.Context, env *Env) error
}

// Clients bundles the three endpoint clients a scenario may use.
type Clients struct {
	Pets  *petstore.PetClient
	Store *petstore.StoreClient
	Users *petstore.UserClient
}

// NewClients builds every endpoint client from f.
func NewClients(f *petstore.Factory) (Clients, error) {
	pets, err := petstore.NewPetClient(f)
	if err != nil {
		return Clients{}, fmt.Errorf("build pet client: %w", err)
	}
	store, err := petstore.NewStoreClient(f)
	if err != nil {
		return Clients{}, fmt.Errorf("build store client: %w", err)
	}
	users, err := petstore.NewUserClient(f)
	if err != nil {
		return Clients{}, fmt.Errorf("build user client: %w", err)
	}
	return Clients{Pets: pets, Store: store, Users: users}, nil
}

// CleanupFunc removes data a scenario created.
type CleanupFunc func(ctx context.Context) (*petstore.Response, error)

type cleanup struct {
	what string
	fn   CleanupFunc
}

// Env is the per-scenario context: shared clients plus a private cleanup stack.
type Env struct {
	Clients
	Logger *slog.Logger

	cleanups []cleanup
}

// NewEnv returns an Env with an empty cleanup stack.
func NewEnv(clients Clients, logger *slog.Logger) *Env {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Env{Clients: clients, Logger: logger}
}

// Defer registers a cleanup. Cleanups run last-in first-out once the scenario
// returns, whatever its outcome.
func (e *Env) Defer(what string, fn CleanupFunc) {
	e.cleanups = append(e.cleanups, cleanup{what: what, fn: fn})
}

// Cleanup runs and clears the registered cleanups. Failures are logged at
// warn level and swallowed, panics included, so they never mask the
// scenario outcome.
func (e *Env) Cleanup(ctx context.Context) {
	for i := len(e.cleanups) - 1; i >= 0; i-- {
		e.runCleanup(ctx, e.cleanups[i])
	}
	e.cleanups = nil
}

func (e *Env) runCleanup(ctx context.Context, c cleanup) {
	defer func() {
		if p := recover(); p != nil {
			e.Logger.WarnContext(ctx, "failed to cleanup test data", slog.String("cleanup", c.what), slog.String("panic", fmt.Sprint(p)))
		}
	}()
	resp, err := c.fn(ctx)
	switch {
	case err != nil:
		e.Logger.WarnContext(ctx, "failed to cleanup test data", slog.String("cleanup", c.what), slog.String("error", err.Error()))
	case resp != nil && (resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices):
		e.Logger.WarnContext(ctx, "failed to cleanup test data", slog.String("cleanup", c.what), slog.Int("status", resp.StatusCode))
	}
}

// errPrecondition marks a failure in a scenario's arrange step.
var errPrecondition = errors.New("precondition failed")
