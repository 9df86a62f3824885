package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInit_WritesJSONLogsAndShutsDown(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	t.Setenv("PETSTORE_TRACE_STDOUT", "")

	var buf bytes.Buffer
	instruments, shutdown, err := Init(context.Background(), "petstore-harness-test", WithLogOutput(&buf))
	require.NoError(t, err)
	require.NotNil(t, instruments.Logger)

	instruments.Logger.Info("hello", "component", "observability")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	require.Equal(t, "hello", record["msg"])
	require.Equal(t, "observability", record["component"])

	_, span := instruments.Tracer("test").Start(context.Background(), "span")
	span.End()
	require.NotNil(t, instruments.Meter("test"))

	require.NoError(t, shutdown(context.Background()))
}

func TestInstruments_NilFallbacks(t *testing.T) {
	var instruments *Instruments
	require.NotNil(t, instruments.Tracer("nil"))
	require.NotNil(t, instruments.Meter("nil"))
	require.NotNil(t, DiscardLogger())
}
