package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/adaptyteam/adapty-sdk-go/pkg/codec"
	"github.com/adaptyteam/adapty-sdk-go/pkg/model"
)

// Config holds all settings required to connect to a native host and
// activate the SDK. Use Validate to fill implicit defaults and to check for
// required fields.
type Config struct {
	// APIKey is the public SDK key of the app (required).
	APIKey string `json:"api_key" yaml:"api_key"`
	// Platform is the native platform behind the bridge. Default: ios.
	Platform codec.Platform `json:"platform" yaml:"platform"`
	// Endpoint selects the transport by scheme:
	//
	//	mock:// or empty    in-memory mock host
	//	ws:// or wss://     WebSocket bridge
	//	anything else       gRPC bridge (grpcs:// and https:// use TLS)
	Endpoint string `json:"endpoint" yaml:"endpoint"`
	// Debug enables verbose SDK logging regardless of LogLevel.
	Debug bool `json:"debug" yaml:"debug"`
	// LogLevel is forwarded to the native SDK and sets the local logger
	// level. Default: error.
	LogLevel model.LogLevel `json:"log_level" yaml:"log_level"`
	// Timeouts configures per-operation timeouts. See Timeouts.WithDefaults for defaults.
	Timeouts Timeouts `json:"timeouts" yaml:"timeouts"`
}

// TransportKind names the bridge transport an endpoint resolves to.
type TransportKind string

const (
	TransportMock      TransportKind = "mock"
	TransportWebSocket TransportKind = "websocket"
	TransportGRPC      TransportKind = "grpc"
)

// Transport returns the transport kind selected by Endpoint.
func (c *Config) Transport() TransportKind {
	switch e := strings.ToLower(c.Endpoint); {
	case e == "" || strings.HasPrefix(e, "mock://"):
		return TransportMock
	case strings.HasPrefix(e, "ws://") || strings.HasPrefix(e, "wss://"):
		return TransportWebSocket
	}
	return TransportGRPC
}

// Timeouts controls SDK operation deadlines.
// Zero values will be replaced by sane defaults in WithDefaults.
type Timeouts struct {
	Dial        time.Duration `json:"dial" yaml:"dial"`                 // connect to the native host
	Request     time.Duration `json:"request" yaml:"request"`           // single bridge call
	Activation  time.Duration `json:"activation" yaml:"activation"`     // activate round trip
	PaywallLoad time.Duration `json:"paywall_load" yaml:"paywall_load"` // load_timeout sent with get_paywall
}

var validLogLevels = map[model.LogLevel]bool{
	model.LogLevelError:   true,
	model.LogLevelWarn:    true,
	model.LogLevelInfo:    true,
	model.LogLevelVerbose: true,
	model.LogLevelDebug:   true,
}

// Validate normalizes the configuration by applying implicit defaults for
// Platform (ios) and LogLevel (error) and verifies that APIKey is provided
// and that Platform and LogLevel are known values.
func (c *Config) Validate() error {
	if c.Platform == "" {
		c.Platform = codec.PlatformIOS
	}
	if !c.Platform.Valid() {
		return fmt.Errorf("unknown platform %q", c.Platform)
	}

	if c.LogLevel == "" {
		c.LogLevel = model.LogLevelError
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("unknown log level %q", c.LogLevel)
	}

	if strings.TrimSpace(c.APIKey) == "" {
		return errors.New("API key is required")
	}

	return nil
}

// WithDefaults returns a copy of t with zero values replaced by defaults:
//
//	Dial:        5s
//	Request:     30s
//	Activation:  60s
//	PaywallLoad: 5s
func (t Timeouts) WithDefaults() Timeouts {
	tt := t
	if tt.Dial == 0 {
		tt.Dial = 5 * time.Second
	}
	if tt.Request == 0 {
		tt.Request = 30 * time.Second
	}
	if tt.Activation == 0 {
		tt.Activation = 60 * time.Second
	}
	if tt.PaywallLoad == 0 {
		tt.PaywallLoad = 5 * time.Second
	}
	return tt
}

// Environment variables read by LoadEnv.
const (
	EnvAPIKey             = "ADAPTY_API_KEY"
	EnvPlatform           = "ADAPTY_PLATFORM"
	EnvEndpoint           = "ADAPTY_ENDPOINT"
	EnvDebug              = "ADAPTY_DEBUG"
	EnvLogLevel           = "ADAPTY_LOG_LEVEL"
	EnvDialTimeout        = "ADAPTY_DIAL_TIMEOUT"
	EnvRequestTimeout     = "ADAPTY_REQUEST_TIMEOUT"
	EnvActivationTimeout  = "ADAPTY_ACTIVATION_TIMEOUT"
	EnvPaywallLoadTimeout = "ADAPTY_PAYWALL_LOAD_TIMEOUT"
)

// LoadEnv builds a validated Config from ADAPTY_* environment variables.
// The given dotenv files (".env" when none) are loaded first; a missing file
// is not an error and variables already set in the environment win.
func LoadEnv(files ...string) (*Config, error) {
	_ = godotenv.Load(files...)

	cfg := &Config{
		APIKey:   strings.TrimSpace(os.Getenv(EnvAPIKey)),
		Platform: codec.Platform(strings.ToLower(strings.TrimSpace(os.Getenv(EnvPlatform)))),
		Endpoint: strings.TrimSpace(os.Getenv(EnvEndpoint)),
		LogLevel: model.LogLevel(strings.ToLower(strings.TrimSpace(os.Getenv(EnvLogLevel)))),
	}

	if raw := strings.TrimSpace(os.Getenv(EnvDebug)); raw != "" {
		debug, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", EnvDebug, err)
		}
		cfg.Debug = debug
	}

	durations := []struct {
		env string
		dst *time.Duration
	}{
		{EnvDialTimeout, &cfg.Timeouts.Dial},
		{EnvRequestTimeout, &cfg.Timeouts.Request},
		{EnvActivationTimeout, &cfg.Timeouts.Activation},
		{EnvPaywallLoadTimeout, &cfg.Timeouts.PaywallLoad},
	}
	for _, d := range durations {
		raw := strings.TrimSpace(os.Getenv(d.env))
		if raw == "" {
			continue
		}
		v, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", d.env, err)
		}
		*d.dst = v
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.Timeouts = cfg.Timeouts.WithDefaults()
	return cfg, nil
}

// LoadFile builds a validated Config from a YAML file. Durations use Go
// syntax ("5s", "1m"). ADAPTY_API_KEY, when set, overrides the file's key so
// secrets can stay out of it.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if key := strings.TrimSpace(os.Getenv(EnvAPIKey)); key != "" {
		cfg.APIKey = key
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.Timeouts = cfg.Timeouts.WithDefaults()
	return cfg, nil
}
