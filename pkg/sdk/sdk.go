// Package sdk exposes the high-level Adapty SDK entry points. It wires the
// configured transport (mock, WebSocket or gRPC host) to the typed bridge,
// gates calls on activation and builds the paywall and onboarding view
// controllers.
package sdk

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/adaptyteam/adapty-sdk-go/pkg/bridge"
	"github.com/adaptyteam/adapty-sdk-go/pkg/codec"
	"github.com/adaptyteam/adapty-sdk-go/pkg/config"
	"github.com/adaptyteam/adapty-sdk-go/pkg/grpc"
	"github.com/adaptyteam/adapty-sdk-go/pkg/mock"
	"github.com/adaptyteam/adapty-sdk-go/pkg/model"
	"github.com/adaptyteam/adapty-sdk-go/pkg/parse"
	"github.com/adaptyteam/adapty-sdk-go/pkg/transport"
	"github.com/adaptyteam/adapty-sdk-go/pkg/ui"
	"github.com/adaptyteam/adapty-sdk-go/pkg/ws"
)

// Adapty is the public interface of the SDK. Every call that talks to the
// native host takes a context; calls other than Activate, IsActivated and
// GetPaywallForDefaultAudience wait for a pending activation first.
type Adapty interface {
	// Activate configures the native SDK. An empty apiKey falls back to the
	// configured one.
	Activate(ctx context.Context, apiKey string, params model.ActivateParams) error
	IsActivated(ctx context.Context) (bool, error)

	GetPaywall(ctx context.Context, placementID, locale string, params PlacementParams) (codec.Object, error)
	GetPaywallForDefaultAudience(ctx context.Context, placementID, locale string, params PlacementParams) (codec.Object, error)
	GetPaywallProducts(ctx context.Context, paywall codec.Object) ([]codec.Object, error)
	GetOnboarding(ctx context.Context, placementID, locale string, params PlacementParams) (codec.Object, error)
	GetOnboardingForDefaultAudience(ctx context.Context, placementID, locale string, params PlacementParams) (codec.Object, error)

	GetProfile(ctx context.Context) (codec.Object, error)
	Identify(ctx context.Context, customerUserID string, params *model.IdentifyParams) error
	Logout(ctx context.Context) error
	UpdateProfile(ctx context.Context, params codec.Object) error

	LogShowPaywall(ctx context.Context, paywall codec.Object) error
	LogShowOnboarding(ctx context.Context, screenOrder int, onboardingName, screenName string) error

	MakePurchase(ctx context.Context, product codec.Object, params *model.MakePurchaseParams) (codec.Object, error)
	OpenWebPaywall(ctx context.Context, paywallOrProduct codec.Object) error
	CreateWebPaywallURL(ctx context.Context, paywallOrProduct codec.Object) (string, error)
	PresentCodeRedemptionSheet(ctx context.Context) error
	ReportTransaction(ctx context.Context, transactionID, variationID string) error
	RestorePurchases(ctx context.Context) (codec.Object, error)

	SetFallback(ctx context.Context, location FallbackLocation) error
	SetIntegrationIdentifier(ctx context.Context, key, value string) error
	SetLogLevel(ctx context.Context, level model.LogLevel) error
	UpdateAttributionData(ctx context.Context, attribution map[string]any, source string) error
	UpdateCollectingRefundDataConsent(ctx context.Context, consent bool) error
	UpdateRefundPreference(ctx context.Context, preference RefundPreference) error
	GetCurrentInstallationStatus(ctx context.Context) (codec.Object, error)

	// AddEventListener registers a listener for onLatestProfileLoad, the
	// only SDK level event.
	AddEventListener(event string, cb func(profile codec.Object)) (bridge.Subscription, error)
	RemoveAllListeners()

	NewPaywallView(ctx context.Context, paywall codec.Object, params model.CreatePaywallViewParams) (*ui.ViewController, error)
	NewOnboardingView(ctx context.Context, onboarding codec.Object, params model.CreateOnboardingViewParams) (*ui.OnboardingViewController, error)

	// Close releases the transport.
	Close() error
}

// EventLatestProfileLoad is the SDK event fired when the native side loads a
// newer profile.
const EventLatestProfileLoad = "onLatestProfileLoad"

// logLevel is the level of the global logger installed by init.
var logLevel = zap.NewAtomicLevelAt(zap.ErrorLevel)

// init configures a default global zap logger for the SDK. Applications may
// replace it with zap.ReplaceGlobals(...) if they need custom logging.
func init() {
	c := zap.Config{
		Level:            logLevel,
		Development:      false,
		Encoding:         "console",
		EncoderConfig:    zap.NewDevelopmentEncoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	logger, err := c.Build()
	if err != nil {
		panic(err)
	}
	zap.ReplaceGlobals(logger)
}

func zapLevel(l model.LogLevel) zapcore.Level {
	switch l {
	case model.LogLevelWarn:
		return zap.WarnLevel
	case model.LogLevelInfo:
		return zap.InfoLevel
	case model.LogLevelVerbose, model.LogLevelDebug:
		return zap.DebugLevel
	}
	return zap.ErrorLevel
}

// nonWaiting lists the methods that never wait for activation.
var nonWaiting = map[string]bool{
	"activate":                         true,
	"is_activated":                     true,
	"get_paywall_for_default_audience": true,
}

// activation is one activate round trip. done is closed when it finishes.
type activation struct {
	done chan struct{}
	err  error
}

// heldActivation is a deferred activate call waiting for its trigger.
type heldActivation struct {
	body   codec.Object
	result chan error
}

// Core is the concrete SDK implementation. It embeds the validated runtime
// configuration.
type Core struct {
	*config.Config
	bridge *bridge.Bridge

	mu         sync.Mutex
	activating *activation
	held       *heldActivation
}

var _ Adapty = (*Core)(nil)

// NewSDK validates cfg, connects the transport selected by cfg.Endpoint and
// returns the SDK. The native platform of the codec layer is set from
// cfg.Platform.
func NewSDK(ctx context.Context, cfg *config.Config) (*Core, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	cfg.Timeouts = cfg.Timeouts.WithDefaults()

	t, err := dialTransport(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return NewWithTransport(cfg, t), nil
}

// NewWithTransport returns the SDK over an already connected transport. cfg
// must be validated.
func NewWithTransport(cfg *config.Config, t transport.Transport) *Core {
	cfg.Timeouts = cfg.Timeouts.WithDefaults()
	codec.SetPlatform(cfg.Platform)
	applyLogLevel(cfg.LogLevel, cfg.Debug)

	if cfg.Debug {
		zap.L().Debug("sdk initialized",
			zap.String("platform", string(cfg.Platform)),
			zap.String("transport", string(cfg.Transport())))
	}

	return &Core{Config: cfg, bridge: bridge.New(t)}
}

func dialTransport(ctx context.Context, cfg *config.Config) (transport.Transport, error) {
	switch cfg.Transport() {
	case config.TransportMock:
		return mock.New(mock.Config{}), nil

	case config.TransportWebSocket:
		dctx, cancel := context.WithTimeout(ctx, cfg.Timeouts.Dial)
		defer cancel()
		header := http.Header{}
		header.Set("X-Adapty-Platform", string(cfg.Platform))
		c, err := ws.Dial(dctx, cfg.Endpoint, header)
		if err != nil {
			return nil, fmt.Errorf("dial websocket host: %w", err)
		}
		return c, nil
	}

	conn, err := grpc.DialEndpoint(ctx, cfg.Endpoint, cfg.Timeouts.Dial)
	if err != nil {
		return nil, fmt.Errorf("connect grpc host: %w", err)
	}
	c, err := grpc.NewClientFromConn(conn,
		grpc.WithPlatform(string(cfg.Platform)),
		grpc.WithSDKVersion(model.SDKVersion),
	)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	return c, nil
}

func applyLogLevel(level model.LogLevel, debug bool) {
	if debug {
		logLevel.SetLevel(zap.DebugLevel)
		return
	}
	logLevel.SetLevel(zapLevel(level))
}

// Bridge returns the typed bridge for calls the facade does not cover.
func (c *Core) Bridge() *bridge.Bridge { return c.bridge }

// Close releases the transport.
func (c *Core) Close() error {
	c.bridge.RemoveAllEventListeners()
	return c.bridge.Transport().Close()
}

// Activate sends the activate call. With DeferActivation it returns only
// once the held call has run, triggered by the first call that waits for
// activation, or when ctx ends. With SkipIfActivated it returns early when
// an activation is pending or the native side already reports itself
// activated.
func (c *Core) Activate(ctx context.Context, apiKey string, params model.ActivateParams) error {
	if apiKey == "" {
		apiKey = c.APIKey
	}
	if params.LogLevel == "" {
		params.LogLevel = c.LogLevel
	}
	applyLogLevel(params.LogLevel, c.Debug)
	log := zap.L().With(zap.String("method", "activate"))

	if params.SkipIfActivated {
		c.mu.Lock()
		pending := c.activating != nil || c.held != nil
		c.mu.Unlock()

		activated, err := c.IsActivated(ctx)
		switch {
		case err != nil:
			log.Warn("failed to check activation status, proceeding with activation", zap.Error(err))
		case pending || activated:
			log.Info("sdk already activated, skipping activation")
			return nil
		}
	}

	configuration, err := model.EncodeConfiguration(apiKey, params)
	if err != nil {
		return err
	}
	body := codec.Object{"configuration": configuration}

	if !params.DeferActivation {
		return c.activate(ctx, body)
	}

	held := &heldActivation{body: body, result: make(chan error, 1)}
	c.mu.Lock()
	c.held = held
	c.mu.Unlock()
	log.Debug("activation held until first call")

	select {
	case err := <-held.result:
		return err
	case <-ctx.Done():
		c.mu.Lock()
		if c.held == held {
			c.held = nil
		}
		c.mu.Unlock()
		return ctx.Err()
	}
}

// activate runs one activate round trip and publishes it as the pending
// activation while it is in flight.
func (c *Core) activate(ctx context.Context, body codec.Object) error {
	a := &activation{done: make(chan struct{})}
	c.mu.Lock()
	c.activating = a
	c.mu.Unlock()
	return c.runActivation(ctx, a, body)
}

func (c *Core) runActivation(ctx context.Context, a *activation, body codec.Object) error {
	ctx, cancel := context.WithTimeout(ctx, c.Timeouts.Activation)
	defer cancel()
	_, a.err = c.bridge.Request(ctx, "activate", body, parse.TypeVoid)
	close(a.done)
	return a.err
}

// claimHeld takes the held activation, if any, and publishes its activation
// in the same critical section so no caller sees neither.
func (c *Core) claimHeld() (*heldActivation, *activation) {
	c.mu.Lock()
	defer c.mu.Unlock()
	held := c.held
	if held == nil {
		return nil, nil
	}
	c.held = nil
	a := &activation{done: make(chan struct{})}
	c.activating = a
	return held, a
}

// releaseHeld runs a held deferred activation, if any.
func (c *Core) releaseHeld(ctx context.Context) error {
	held, a := c.claimHeld()
	if held == nil {
		return nil
	}

	zap.L().Debug("running held activation")
	err := c.runActivation(ctx, a, held.body)
	held.result <- err
	return err
}

// awaitActivation blocks until the pending activation finishes. A failed
// activation stays pending so later calls fail with the same error.
func (c *Core) awaitActivation(ctx context.Context) error {
	c.mu.Lock()
	a := c.activating
	c.mu.Unlock()
	if a == nil {
		return nil
	}

	select {
	case <-a.done:
	case <-ctx.Done():
		return ctx.Err()
	}
	if a.err != nil {
		return fmt.Errorf("activation failed: %w", a.err)
	}

	c.mu.Lock()
	if c.activating == a {
		c.activating = nil
	}
	c.mu.Unlock()
	return nil
}

// handle gates method on activation and sends it with the request timeout.
func (c *Core) handle(ctx context.Context, method string, body codec.Object, resultType parse.Type) (any, error) {
	waits := !nonWaiting[method]
	if waits {
		if err := c.releaseHeld(ctx); err != nil {
			return nil, err
		}
	}
	if waits || method == "is_activated" {
		if err := c.awaitActivation(ctx); err != nil {
			return nil, err
		}
	}

	ctx, cancel := context.WithTimeout(ctx, c.Timeouts.Request)
	defer cancel()
	return c.bridge.Request(ctx, method, body, resultType)
}

// IsActivated reports whether the native SDK is activated.
func (c *Core) IsActivated(ctx context.Context) (bool, error) {
	v, err := c.handle(ctx, "is_activated", nil, parse.TypeBoolean)
	if err != nil {
		return false, err
	}
	activated, _ := v.(bool)
	return activated, nil
}

// AddEventListener registers cb for onLatestProfileLoad. Any other event is
// an error.
func (c *Core) AddEventListener(event string, cb func(profile codec.Object)) (bridge.Subscription, error) {
	if event != EventLatestProfileLoad {
		return nil, fmt.Errorf("unsupported event %q: only %s is supported", event, EventLatestProfileLoad)
	}
	return c.bridge.AddEventListener(parse.EventDidLoadLatestProfile, func(ev bridge.Event) {
		profile, ok := ev.Parsed.(codec.Object)
		if !ok {
			zap.L().Error("unexpected profile event payload", zap.String("event", ev.Name))
			return
		}
		cb(profile)
	}), nil
}

// RemoveAllListeners removes every listener registered through the SDK,
// including view event handlers.
func (c *Core) RemoveAllListeners() {
	c.bridge.RemoveAllEventListeners()
}

// NewPaywallView creates a native paywall view for a decoded paywall.
func (c *Core) NewPaywallView(ctx context.Context, paywall codec.Object, params model.CreatePaywallViewParams) (*ui.ViewController, error) {
	if err := c.gate(ctx); err != nil {
		return nil, err
	}
	return ui.CreatePaywallView(ctx, c.bridge, paywall, params)
}

// NewOnboardingView creates a native onboarding view for a decoded
// onboarding.
func (c *Core) NewOnboardingView(ctx context.Context, onboarding codec.Object, params model.CreateOnboardingViewParams) (*ui.OnboardingViewController, error) {
	if err := c.gate(ctx); err != nil {
		return nil, err
	}
	return ui.CreateOnboardingView(ctx, c.bridge, onboarding, params)
}

// gate applies the activation rules of a waiting method to calls made
// outside handle.
func (c *Core) gate(ctx context.Context) error {
	if err := c.releaseHeld(ctx); err != nil {
		return err
	}
	return c.awaitActivation(ctx)
}
