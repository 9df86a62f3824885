package validator

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"

	"github.com/Apurer/petstore-api-harness/internal/clients/http/petstore"
	"github.com/Apurer/petstore-api-harness/internal/domains/pets/domain"
)

func jsonResponse(status int, body string) *petstore.Response {
	return &petstore.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": {"application/json"}},
		Body:       []byte(body),
		Latency:    100 * time.Millisecond,
	}
}

const petBody = `{"id":123456,"category":{"id":1,"name":"Dogs"},"name":"Max","photoUrls":["a"],"tags":[{"id":2,"name":"friendly"}],"status":"available","extra":null}`

func requireAssertion(t *testing.T, err error) *AssertionError {
	t.Helper()
	require.Error(t, err)
	require.ErrorIs(t, err, ErrAssertion)
	var ae *AssertionError
	require.ErrorAs(t, err, &ae)
	return ae
}

func TestStatusCode(t *testing.T) {
	resp := jsonResponse(http.StatusNotFound, `{"code":1,"type":"error","message":"Pet not found"}`)
	require.NoError(t, StatusCode(resp, http.StatusNotFound))

	ae := requireAssertion(t, StatusCode(resp, http.StatusOK))
	assert.Equal(t, "200", ae.Expected)
	assert.Equal(t, "404", ae.Actual)
	assert.Contains(t, ae.Error(), "Pet not found", "actual body is embedded")

	requireAssertion(t, StatusCode(nil, http.StatusOK))
}

func TestResponseTime_StrictBound(t *testing.T) {
	resp := jsonResponse(http.StatusOK, `{}`)
	require.NoError(t, ResponseTime(resp, 101*time.Millisecond))
	requireAssertion(t, ResponseTime(resp, 100*time.Millisecond))
	requireAssertion(t, ResponseTime(resp, 50*time.Millisecond))
}

func TestContentTypeJSON(t *testing.T) {
	cases := map[string]bool{
		"application/json":                true,
		"application/json; charset=utf-8": true,
		"Application/JSON":                true,
		"application/problem+json":        false,
		"text/html":                       false,
		"":                                false,
	}
	for ct, ok := range cases {
		resp := jsonResponse(http.StatusOK, `{}`)
		resp.Header.Set("Content-Type", ct)
		err := ContentTypeJSON(resp)
		if ok {
			assert.NoError(t, err, ct)
		} else {
			assert.ErrorIs(t, err, ErrAssertion, ct)
		}
	}
}

func TestField_Paths(t *testing.T) {
	resp := jsonResponse(http.StatusOK, petBody)

	v, err := Field(resp, "category.name")
	require.NoError(t, err)
	assert.Equal(t, "Dogs", v.StringValue())

	v, err = Field(resp, "$.tags[0].name")
	require.NoError(t, err)
	assert.Equal(t, "friendly", v.StringValue())

	v, err = Field(resp, "")
	require.NoError(t, err)
	assert.Equal(t, ldvalue.ObjectType, v.Type())

	_, err = Field(resp, "tags[3].name")
	requireAssertion(t, err)

	_, err = Field(resp, "tags[x]")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrAssertion, "malformed paths are caller errors")

	list := jsonResponse(http.StatusOK, `[{"status":"available"},{"status":"available"}]`)
	v, err = Field(list, "[1].status")
	require.NoError(t, err)
	assert.Equal(t, "available", v.StringValue())
}

func TestFieldExists(t *testing.T) {
	resp := jsonResponse(http.StatusOK, petBody)
	require.NoError(t, FieldExists(resp, "id"))
	require.NoError(t, FieldExists(resp, "photoUrls"))

	ae := requireAssertion(t, FieldExists(resp, "extra"))
	assert.Equal(t, "null", ae.Actual)
	ae = requireAssertion(t, FieldExists(resp, "missing"))
	assert.Equal(t, "missing", ae.Actual)

	html := &petstore.Response{StatusCode: http.StatusOK, Body: []byte("<html>oops</html>")}
	ae = requireAssertion(t, FieldExists(html, "id"))
	assert.Contains(t, ae.Error(), "<html>oops</html>")
}

func TestFieldEquals_Normalisation(t *testing.T) {
	resp := jsonResponse(http.StatusOK, petBody)

	require.NoError(t, FieldEquals(resp, "id", 123456))
	require.NoError(t, FieldEquals(resp, "id", int64(123456)))
	require.NoError(t, FieldEquals(resp, "id", 123456.0))
	require.NoError(t, FieldEquals(resp, "status", domain.StatusAvailable))
	require.NoError(t, FieldEquals(resp, "photoUrls", []string{"a"}))
	require.NoError(t, FieldEquals(resp, "extra", nil))
	require.NoError(t, FieldEquals(resp, "name", ldvalue.String("Max")))

	ae := requireAssertion(t, FieldEquals(resp, "name", "Bella"))
	assert.Equal(t, `"Bella"`, ae.Expected)
	assert.Equal(t, `"Max"`, ae.Actual)

	requireAssertion(t, FieldEquals(resp, "id", "123456"))
	requireAssertion(t, FieldEquals(resp, "nope", 1))

	err := FieldEquals(resp, "id", make(chan int))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrAssertion)
}

func TestFieldEquals_LargeIntegersCompareExactly(t *testing.T) {
	resp := jsonResponse(http.StatusOK, `{"id":9223372036854775807,"order":{"petId":9007199254740993},"ratio":2.50}`)

	require.NoError(t, FieldEquals(resp, "id", int64(9223372036854775807)))
	require.NoError(t, FieldEquals(resp, "order.petId", int64(9007199254740993)))
	require.NoError(t, FieldEquals(resp, "order", map[string]int64{"petId": 9007199254740993}))
	require.NoError(t, FieldEquals(resp, "ratio", 2.5))

	ae := requireAssertion(t, FieldEquals(resp, "id", int64(9223372036854775806)))
	assert.Equal(t, "9223372036854775806", ae.Expected)
	assert.Equal(t, "9223372036854775807", ae.Actual)
	requireAssertion(t, FieldEquals(resp, "order.petId", int64(9007199254740992)))
	requireAssertion(t, FieldEquals(resp, "order", map[string]int64{"petId": 9007199254740992}))
}

func TestErrorMessageContains(t *testing.T) {
	resp := jsonResponse(http.StatusNotFound, `{"code":1,"type":"error","message":"Pet not found"}`)
	require.NoError(t, ErrorMessageContains(resp, "Pet not found"))
	require.NoError(t, ErrorMessageContains(resp, "not found"))
	requireAssertion(t, ErrorMessageContains(resp, "Order"))

	requireAssertion(t, ErrorMessageContains(jsonResponse(http.StatusNotFound, `{"code":1}`), "x"))
	requireAssertion(t, ErrorMessageContains(jsonResponse(http.StatusNotFound, `{"message":42}`), "42"))
}

func TestAll_JoinsEveryFailure(t *testing.T) {
	resp := jsonResponse(http.StatusOK, petBody)
	require.NoError(t, All(resp, Status(http.StatusOK), IsJSON(), Has("id"), Equals("name", "Max"), Within(time.Second), nil))

	err := All(resp, Status(http.StatusNotFound), Equals("name", "Bella"), MessageContains("x"))
	require.ErrorIs(t, err, ErrAssertion)
	var joined interface{ Unwrap() []error }
	require.True(t, errors.As(err, &joined))
	assert.Len(t, joined.Unwrap(), 3)
}

func TestAssertionErrorIsNotTransportError(t *testing.T) {
	err := StatusCode(jsonResponse(http.StatusBadRequest, `{}`), http.StatusOK)
	var transportErr *petstore.TransportError
	assert.False(t, errors.As(err, &transportErr))
}
