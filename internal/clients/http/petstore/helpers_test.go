package petstore

import (
	"bufio"
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type testSettings struct {
	baseURL    string
	timeout    time.Duration
	logEnabled bool
}

func (s testSettings) BaseURL() string        { return s.baseURL }
func (s testSettings) Timeout() time.Duration { return s.timeout }
func (s testSettings) LogEnabled() bool       { return s.logEnabled }

func settingsFor(baseURL string) testSettings {
	return testSettings{baseURL: baseURL, timeout: 5 * time.Second, logEnabled: true}
}

// logBuffer collects JSON log records written by slog.
type logBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *logBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *logBuffer) logger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(b, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func (b *logBuffer) records(t *testing.T) []map[string]any {
	t.Helper()
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []map[string]any
	sc := bufio.NewScanner(bytes.NewReader(b.buf.Bytes()))
	sc.Buffer(make([]byte, 0, 1<<20), 1<<22)
	for sc.Scan() {
		var rec map[string]any
		require.NoError(t, json.Unmarshal(sc.Bytes(), &rec))
		out = append(out, rec)
	}
	return out
}

func newTestFactory(t *testing.T, baseURL string, opts ...FactoryOption) *Factory {
	t.Helper()
	return NewFactory(settingsFor(baseURL), append([]FactoryOption{WithHTTPClient(&http.Client{Timeout: 5 * time.Second})}, opts...)...)
}
