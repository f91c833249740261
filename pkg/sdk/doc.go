// Package sdk provides the high-level entry point for the Adapty paywall SDK
// running behind a native host.
//
// The SDK hides the bridge protocol: requests are encoded into the native
// wire shape, results are decoded into camelCase model objects
// (codec.Object) and native failures are returned as *errors.AdaptyError.
//
// # Quick Start
//
// Create an SDK instance with configuration, activate it, then load a
// placement:
//
//	import (
//		"github.com/adaptyteam/adapty-sdk-go/pkg/config"
//		"github.com/adaptyteam/adapty-sdk-go/pkg/model"
//		"github.com/adaptyteam/adapty-sdk-go/pkg/sdk"
//	)
//
//	func main() {
//		ctx := context.Background()
//		cfg := &config.Config{
//			APIKey:   "public_live_...",
//			Platform: codec.PlatformIOS,
//			Endpoint: "ws://127.0.0.1:8787/bridge",
//		}
//
//		adapty, err := sdk.NewSDK(ctx, cfg)
//		if err != nil {
//			log.Fatal(err)
//		}
//		defer adapty.Close()
//
//		if err := adapty.Activate(ctx, "", model.ActivateParams{}); err != nil {
//			log.Fatal(err)
//		}
//
//		paywall, err := adapty.GetPaywall(ctx, "main", "en", sdk.PlacementParams{})
//		if err != nil {
//			log.Fatal(err)
//		}
//		products, err := adapty.GetPaywallProducts(ctx, paywall)
//		...
//	}
//
// # Transports
//
// The endpoint scheme selects the host connection (see config.Config):
//
//   - empty or mock://: the in-memory mock host from package mock
//   - ws:// or wss://: a WebSocket bridge (package ws)
//   - anything else: a gRPC bridge (package grpc); NewSDK waits up to
//     Timeouts.Dial for the host to become ready
//
// NewWithTransport accepts any transport.Transport, which is how tests and
// embedders plug in their own host.
//
// # Activation
//
// Every call except Activate, IsActivated and GetPaywallForDefaultAudience
// waits for a pending activation. IsActivated waits as well but never
// triggers a held activation.
//
// With ActivateParams.DeferActivation the activate call is held until the
// first waiting call and Activate returns only once it has run. With
// ActivateParams.SkipIfActivated, Activate returns early when an activation
// is pending or the host already reports itself activated; if the check
// fails, activation proceeds.
//
// A failed activation stays pending: waiting calls fail with it until the
// next successful Activate.
//
// # Events
//
// AddEventListener supports only onLatestProfileLoad, delivered with the
// decoded profile. Paywall and onboarding view events are handled through
// the controllers returned by NewPaywallView and NewOnboardingView (package
// ui).
//
// # Platform differences
//
// PresentCodeRedemptionSheet, UpdateCollectingRefundDataConsent and
// UpdateRefundPreference are iOS only and return nil on android without
// calling the host. Android purchase parameters are dropped on iOS.
//
// # Logging
//
// The package installs a console zap logger as the global logger. Its level
// follows the configured log level (verbose maps to debug) and SetLogLevel;
// Config.Debug forces debug output. Replace it with zap.ReplaceGlobals for
// custom logging.
package sdk
