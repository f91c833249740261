// Package config provides configuration management for the Adapty SDK.
//
// # Basic Configuration
//
// The minimum configuration is an API key. The endpoint decides which native
// host the SDK talks to:
//
//	cfg := &config.Config{
//		APIKey:   "public_live_xxxx",
//		Platform: codec.PlatformAndroid,
//		Endpoint: "localhost:50051", // gRPC bridge
//	}
//	if err := cfg.Validate(); err != nil {
//		return err
//	}
//
// Endpoint schemes:
//
//	mock:// (or empty)   in-memory mock host, useful for tests and demos
//	ws://, wss://        JSON over WebSocket
//	host:port, grpcs://  gRPC bridge service
//
// # Environment
//
// LoadEnv reads ADAPTY_API_KEY, ADAPTY_PLATFORM, ADAPTY_ENDPOINT,
// ADAPTY_DEBUG, ADAPTY_LOG_LEVEL and the ADAPTY_*_TIMEOUT durations, after
// loading a .env file when one exists:
//
//	cfg, err := config.LoadEnv()
//
// # Files
//
// LoadFile reads the same settings from YAML. ADAPTY_API_KEY overrides the
// key in the file:
//
//	api_key: public_live_xxxx
//	platform: ios
//	endpoint: ws://localhost:8787/bridge
//	timeouts:
//	  request: 10s
//
// # Timeouts
//
// Zero timeouts are replaced by Timeouts.WithDefaults:
//
//	Dial:        5s   connecting to the native host
//	Request:     30s  one bridge call
//	Activation:  60s  activate round trip
//	PaywallLoad: 5s   load_timeout sent with get_paywall
package config
