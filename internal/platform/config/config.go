// Package config loads the read-only harness settings from an external
// key-value source and exposes them through typed getters.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

// Keys recognised in the configuration source.
const (
	KeyBaseURL    = "api.base.url"
	KeyTimeout    = "api.timeout"
	KeyLogEnabled = "api.log.enabled"
)

// Defaults applied when the source or a key is absent.
const (
	DefaultBaseURL       = "https://petstore.swagger.io/v2"
	DefaultTimeoutMillis = 30000
	DefaultLogEnabled    = true
	DefaultFile          = "config.properties"
)

// EnvConfigFile names the environment variable that points at the source file.
const EnvConfigFile = "PETSTORE_CONFIG"

const envPrefix = "PETSTORE"

// ErrMalformed reports a configuration source that exists but cannot be used.
var ErrMalformed = errors.New("malformed configuration")

// Provider is an immutable snapshot of the harness settings.
type Provider struct {
	baseURL    string
	timeout    time.Duration
	logEnabled bool
	source     string
}

// Option customises Load.
type Option func(*loadOptions)

type loadOptions struct {
	file      string
	overrides map[string]any
}

// WithFile reads settings from the given path instead of the default source.
func WithFile(path string) Option {
	return func(o *loadOptions) {
		o.file = strings.TrimSpace(path)
	}
}

// WithOverride forces a key to a value regardless of the source, e.g. from a CLI flag.
func WithOverride(key string, value any) Option {
	return func(o *loadOptions) {
		if o.overrides == nil {
			o.overrides = map[string]any{}
		}
		o.overrides[key] = value
	}
}

// Load reads the configuration source once and returns a frozen snapshot.
// A missing source yields the defaults; a present but unreadable or malformed
// source is reported as ErrMalformed.
func Load(opts ...Option) (*Provider, error) {
	o := loadOptions{file: envDefault(EnvConfigFile, DefaultFile)}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	v := viper.New()
	v.SetDefault(KeyBaseURL, DefaultBaseURL)
	v.SetDefault(KeyTimeout, DefaultTimeoutMillis)
	v.SetDefault(KeyLogEnabled, DefaultLogEnabled)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	source := ""
	if o.file != "" {
		v.SetConfigFile(o.file)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.Is(err, fs.ErrNotExist) && !errors.As(err, &notFound) {
				return nil, fmt.Errorf("%w: read %s: %v", ErrMalformed, o.file, err)
			}
		} else {
			source = v.ConfigFileUsed()
		}
	}
	for key, value := range o.overrides {
		v.Set(key, value)
	}

	baseURL := strings.TrimSpace(cast.ToString(v.Get(KeyBaseURL)))
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	millis, err := cast.ToIntE(v.Get(KeyTimeout))
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be an integer number of milliseconds: %v", ErrMalformed, KeyTimeout, err)
	}
	if millis <= 0 {
		return nil, fmt.Errorf("%w: %s must be positive, got %d", ErrMalformed, KeyTimeout, millis)
	}
	logEnabled, err := cast.ToBoolE(v.Get(KeyLogEnabled))
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be a boolean: %v", ErrMalformed, KeyLogEnabled, err)
	}

	return &Provider{
		baseURL:    baseURL,
		timeout:    time.Duration(millis) * time.Millisecond,
		logEnabled: logEnabled,
		source:     source,
	}, nil
}

// BaseURL is the root every endpoint path is resolved against.
func (p *Provider) BaseURL() string { return p.baseURL }

// Timeout is the advisory per-request timeout handed to the transport.
func (p *Provider) Timeout() time.Duration { return p.timeout }

// TimeoutMillis returns Timeout in milliseconds.
func (p *Provider) TimeoutMillis() int { return int(p.timeout / time.Millisecond) }

// LogEnabled reports whether request/response logging is installed.
func (p *Provider) LogEnabled() bool { return p.logEnabled }

// Source is the file the snapshot was read from, or empty when defaults were used.
func (p *Provider) Source() string { return p.source }

var (
	sharedOnce     sync.Once
	sharedProvider *Provider
)

// Shared returns the process-wide snapshot, loading it on first use. A
// malformed source is fatal.
func Shared() *Provider {
	sharedOnce.Do(func() {
		p, err := Load()
		if err != nil {
			panic(fmt.Sprintf("load configuration: %v", err))
		}
		sharedProvider = p
	})
	return sharedProvider
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}
