package harness

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/Apurer/petstore-api-harness/internal/platform/config"
	"github.com/Apurer/petstore-api-harness/internal/scenarios"
)

// Config carries the command-line settings for a harness run.
type Config struct {
	ConfigFile string
	BaseURL    string
	Filters    scenarios.RegexFilters
	LogLevel   slog.Level
	NoColor    bool

	// Out receives the human-readable report; LogOut the JSON log stream.
	Out    io.Writer
	LogOut io.Writer
}

// LoadSettings reads the configuration source, applying the --config and
// --base-url overrides when set.
func (c Config) LoadSettings() (*config.Provider, error) {
	var opts []config.Option
	if file := strings.TrimSpace(c.ConfigFile); file != "" {
		opts = append(opts, config.WithFile(file))
	}
	if baseURL := strings.TrimSpace(c.BaseURL); baseURL != "" {
		opts = append(opts, config.WithOverride(config.KeyBaseURL, baseURL))
	}
	return config.Load(opts...)
}

func (c Config) out() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c Config) logOut() io.Writer {
	if c.LogOut == nil {
		return os.Stderr
	}
	return c.LogOut
}
