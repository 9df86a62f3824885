package validator

import (
	"errors"
	"time"

	"github.com/Apurer/petstore-api-harness/internal/clients/http/petstore"
)

// Check is a deferred assertion for use with All.
type Check func(resp *petstore.Response) error

// All runs every check and joins the failures, so one call reports every
// mismatch at once.
func All(resp *petstore.Response, checks ...Check) error {
	var errs []error
	for _, check := range checks {
		if check == nil {
			continue
		}
		if err := check(resp); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Status defers StatusCode.
func Status(code int) Check {
	return func(resp *petstore.Response) error { return StatusCode(resp, code) }
}

// Within defers ResponseTime.
func Within(limit time.Duration) Check {
	return func(resp *petstore.Response) error { return ResponseTime(resp, limit) }
}

// IsJSON defers ContentTypeJSON.
func IsJSON() Check {
	return ContentTypeJSON
}

// Has defers FieldExists.
func Has(path string) Check {
	return func(resp *petstore.Response) error { return FieldExists(resp, path) }
}

// Equals defers FieldEquals.
func Equals(path string, expected any) Check {
	return func(resp *petstore.Response) error { return FieldEquals(resp, path, expected) }
}

// MessageContains defers ErrorMessageContains.
func MessageContains(substr string) Check {
	return func(resp *petstore.Response) error { return ErrorMessageContains(resp, substr) }
}
