// Package validator holds stateless response assertions. Each returns nil on
// success or an *AssertionError describing the mismatch, with the actual body
// embedded so failures are diagnosable from the error alone.
package validator

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"mime"
	"strings"
	"time"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"

	"github.com/Apurer/petstore-api-harness/internal/clients/http/petstore"
)

// ErrAssertion matches every *AssertionError via errors.Is.
var ErrAssertion = errors.New("assertion failed")

const maxBodyInMessage = 4 << 10

// AssertionError reports a response that does not satisfy a check.
type AssertionError struct {
	Check    string
	Expected string
	Actual   string
	Body     string
}

func (e *AssertionError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: expected %s, got %s", e.Check, e.Expected, e.Actual)
	if e.Body != "" {
		fmt.Fprintf(&b, "; body: %s", e.Body)
	}
	return b.String()
}

// Is makes errors.Is(err, ErrAssertion) true for assertion failures.
func (e *AssertionError) Is(target error) bool { return target == ErrAssertion }

func fail(resp *petstore.Response, check, expected, actual string) error {
	body := resp.String()
	if len(body) > maxBodyInMessage {
		body = body[:maxBodyInMessage] + "..."
	}
	return &AssertionError{Check: check, Expected: expected, Actual: actual, Body: body}
}

func noResponse(check string) error {
	return &AssertionError{Check: check, Expected: "a response", Actual: "none"}
}

// StatusCode checks the HTTP status.
func StatusCode(resp *petstore.Response, expected int) error {
	if resp == nil {
		return noResponse("status code")
	}
	if resp.StatusCode != expected {
		return fail(resp, "status code", fmt.Sprint(expected), fmt.Sprint(resp.StatusCode))
	}
	return nil
}

// ResponseTime checks latency is strictly below limit.
func ResponseTime(resp *petstore.Response, limit time.Duration) error {
	if resp == nil {
		return noResponse("response time")
	}
	if resp.Latency >= limit {
		return fail(resp, "response time", "< "+limit.String(), resp.Latency.String())
	}
	return nil
}

// ContentTypeJSON checks the media type is application/json; parameters such
// as charset are ignored.
func ContentTypeJSON(resp *petstore.Response) error {
	if resp == nil {
		return noResponse("content type")
	}
	raw := resp.ContentType()
	mediaType, _, err := mime.ParseMediaType(raw)
	if err != nil || mediaType != petstore.ContentTypeJSON {
		return fail(resp, "content type", petstore.ContentTypeJSON, fmt.Sprintf("%q", raw))
	}
	return nil
}

// Field returns the value at path. Paths are dot separated keys with optional
// indexes: "name", "category.name", "tags[0].name", "[0].status". A leading
// "$." is accepted. An empty path addresses the whole body.
func Field(resp *petstore.Response, path string) (ldvalue.Value, error) {
	if resp == nil {
		return ldvalue.Null(), noResponse("field " + path)
	}
	if !json.Valid(resp.Body) {
		return ldvalue.Null(), fail(resp, "field "+path, "a JSON body", "non-JSON content")
	}
	v, found, err := lookup(ldvalue.Parse(resp.Body), path)
	if err != nil {
		return ldvalue.Null(), err
	}
	if !found {
		return ldvalue.Null(), fail(resp, "field "+path, "present", "missing")
	}
	return v, nil
}

// FieldExists checks path is present and not null.
func FieldExists(resp *petstore.Response, path string) error {
	v, err := Field(resp, path)
	if err != nil {
		return err
	}
	if v.IsNull() {
		return fail(resp, "field "+path, "non-null", "null")
	}
	return nil
}

// FieldEquals checks the value at path equals expected after JSON
// normalisation, so 5, int64(5) and 5.0 compare equal and a named string type
// compares by its literal. Numbers compare exactly, so ids beyond 2^53 are
// told apart.
func FieldEquals(resp *petstore.Response, path string, expected any) error {
	if _, err := Field(resp, path); err != nil {
		return err
	}
	actualRaw, _, err := lookupRaw(resp.Body, path)
	if err != nil {
		return err
	}
	wantRaw, err := normalise(expected)
	if err != nil {
		return fmt.Errorf("field %s: %w", path, err)
	}
	actual, err := decodeExact(actualRaw)
	if err != nil {
		return fail(resp, "field "+path, "a JSON value", "undecodable content")
	}
	want, err := decodeExact(wantRaw)
	if err != nil {
		return fmt.Errorf("field %s: %w", path, err)
	}
	if !jsonEqual(actual, want) {
		return fail(resp, "field "+path, compact(wantRaw), compact(actualRaw))
	}
	return nil
}

// ErrorMessageContains checks the top-level "message" field is a string
// containing substr.
func ErrorMessageContains(resp *petstore.Response, substr string) error {
	v, err := Field(resp, "message")
	if err != nil {
		return err
	}
	if v.Type() != ldvalue.StringType {
		return fail(resp, "error message", "a string containing "+fmt.Sprintf("%q", substr), v.JSONString())
	}
	if !strings.Contains(v.StringValue(), substr) {
		return fail(resp, "error message", "to contain "+fmt.Sprintf("%q", substr), fmt.Sprintf("%q", v.StringValue()))
	}
	return nil
}

func normalise(expected any) ([]byte, error) {
	if v, ok := expected.(ldvalue.Value); ok {
		return []byte(v.JSONString()), nil
	}
	raw, err := json.Marshal(expected)
	if err != nil {
		return nil, fmt.Errorf("encode expected value: %w", err)
	}
	return raw, nil
}

func decodeExact(raw []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

func jsonEqual(a, b any) bool {
	switch x := a.(type) {
	case json.Number:
		y, ok := b.(json.Number)
		return ok && numbersEqual(x, y)
	case map[string]any:
		y, ok := b.(map[string]any)
		if !ok || len(x) != len(y) {
			return false
		}
		for k, xv := range x {
			yv, ok := y[k]
			if !ok || !jsonEqual(xv, yv) {
				return false
			}
		}
		return true
	case []any:
		y, ok := b.([]any)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if !jsonEqual(x[i], y[i]) {
				return false
			}
		}
		return true
	default:
		return a == b
	}
}

func numbersEqual(x, y json.Number) bool {
	if x == y {
		return true
	}
	rx, okx := new(big.Rat).SetString(x.String())
	ry, oky := new(big.Rat).SetString(y.String())
	return okx && oky && rx.Cmp(ry) == 0
}

func compact(raw []byte) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(bytes.TrimSpace(raw))
	}
	return buf.String()
}
