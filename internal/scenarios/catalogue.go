package scenarios

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Apurer/petstore-api-harness/internal/clients/http/petstore"
	"github.com/Apurer/petstore-api-harness/internal/validator"
)

// Identifiers the public Petstore does not hold.
const (
	NonExistentID       int64 = 99999999
	InvalidID           int64 = -1
	NonExistentUsername       = "nonexistentuser999"
)

// Catalogue returns every scenario: pets, then store, then users.
func Catalogue() []Scenario {
	var all []Scenario
	all = append(all, PetScenarios()...)
	all = append(all, StoreScenarios()...)
	all = append(all, UserScenarios()...)
	return all
}

// expect turns a call outcome into a scenario error: a transport error as-is,
// otherwise every failed check joined.
func expect(resp *petstore.Response, err error, checks ...validator.Check) error {
	if err != nil {
		return err
	}
	return validator.All(resp, checks...)
}

// arrange checks a setup call succeeded with 200.
func arrange(what string, resp *petstore.Response, err error) error {
	if err != nil {
		return fmt.Errorf("%w: %s: %w", errPrecondition, what, err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s: status %d: %s", errPrecondition, what, resp.StatusCode, resp.String())
	}
	return nil
}

// decode reads a 200 body into v, reporting a mismatch as a scenario error.
func decode(what string, resp *petstore.Response, v any) error {
	if err := resp.Decode(v); err != nil {
		return fmt.Errorf("%s: %w", what, err)
	}
	return nil
}

func scenario(feature, name, story string, severity Severity, description string, run func(context.Context, *Env) error) Scenario {
	return Scenario{
		Name:        name,
		Epic:        Epic,
		Feature:     feature,
		Story:       story,
		Severity:    severity,
		Description: description,
		Run:         run,
	}
}
