package sdk

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/adaptyteam/adapty-sdk-go/internal/jsonutil"
	"github.com/adaptyteam/adapty-sdk-go/pkg/codec"
	"github.com/adaptyteam/adapty-sdk-go/pkg/config"
	aerr "github.com/adaptyteam/adapty-sdk-go/pkg/errors"
	"github.com/adaptyteam/adapty-sdk-go/pkg/mock"
	"github.com/adaptyteam/adapty-sdk-go/pkg/model"
)

type call struct {
	method string
	body   codec.Object
}

// recorder wraps the mock host, recording every request. Activation can be
// held open with gate and any method can be failed with an error envelope.
type recorder struct {
	*mock.Transport

	mu    sync.Mutex
	calls []call
	gate  chan struct{}
	fail  map[string]string
}

func newRecorder() *recorder {
	return &recorder{Transport: mock.New(mock.Config{EventDelay: 10 * time.Millisecond}), fail: map[string]string{}}
}

func (r *recorder) Request(ctx context.Context, method, params, resultType string) (string, error) {
	var body codec.Object
	_ = jsonutil.Unmarshal([]byte(params), &body)

	r.mu.Lock()
	r.calls = append(r.calls, call{method: method, body: body})
	gate := r.gate
	envelope, failed := r.fail[method]
	r.mu.Unlock()

	if method == "activate" && gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if failed {
		return envelope, nil
	}
	return r.Transport.Request(ctx, method, params, resultType)
}

func (r *recorder) methods() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.calls))
	for _, c := range r.calls {
		out = append(out, c.method)
	}
	return out
}

func (r *recorder) lastCall(method string) (call, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.calls) - 1; i >= 0; i-- {
		if r.calls[i].method == method {
			return r.calls[i], true
		}
	}
	return call{}, false
}

func (r *recorder) setFail(method, envelope string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if envelope == "" {
		delete(r.fail, method)
		return
	}
	r.fail[method] = envelope
}

func newCore(t *testing.T, platform codec.Platform) (*Core, *recorder) {
	t.Helper()
	rec := newRecorder()
	cfg := &config.Config{APIKey: "public_live_key", Platform: platform}
	require.NoError(t, cfg.Validate())

	c := NewWithTransport(cfg, rec)
	t.Cleanup(func() {
		_ = c.Close()
		codec.SetPlatform(codec.PlatformIOS)
	})
	return c, rec
}

func (c *Core) hasHeld() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.held != nil
}

// TestNewSDK verifies an empty endpoint selects the mock host and an
// invalid config is rejected.
func TestNewSDK(t *testing.T) {
	ctx := context.Background()

	_, err := NewSDK(ctx, &config.Config{})
	require.Error(t, err)

	c, err := NewSDK(ctx, &config.Config{APIKey: "k"})
	require.NoError(t, err)
	defer c.Close()

	assert.IsType(t, &mock.Transport{}, c.Bridge().Transport())
	assert.Equal(t, 30*time.Second, c.Timeouts.Request)

	require.NoError(t, c.Activate(ctx, "", model.ActivateParams{}))
	activated, err := c.IsActivated(ctx)
	require.NoError(t, err)
	assert.True(t, activated)
}

// TestActivate_Configuration verifies the configuration body and the api
// key fallback.
func TestActivate_Configuration(t *testing.T) {
	c, rec := newCore(t, codec.PlatformIOS)
	require.NoError(t, c.Activate(context.Background(), "", model.ActivateParams{CustomerUserID: "user-1"}))

	got, ok := rec.lastCall("activate")
	require.True(t, ok)
	configuration, _ := got.body["configuration"].(codec.Object)
	assert.Equal(t, "public_live_key", configuration["api_key"])
	assert.Equal(t, model.SDKName, configuration["cross_platform_sdk_name"])
	assert.Equal(t, "user-1", configuration["customer_user_id"])
	assert.Equal(t, "error", configuration["log_level"])
}

// TestActivation_Gating verifies waiting calls are held behind a pending
// activation while non-waiting calls go through.
func TestActivation_Gating(t *testing.T) {
	c, rec := newCore(t, codec.PlatformIOS)
	ctx := context.Background()

	rec.gate = make(chan struct{})
	activated := make(chan error, 1)
	go func() { activated <- c.Activate(ctx, "", model.ActivateParams{}) }()
	require.Eventually(t, func() bool { _, ok := rec.lastCall("activate"); return ok }, time.Second, 5*time.Millisecond)

	profile := make(chan error, 1)
	go func() {
		_, err := c.GetProfile(ctx)
		profile <- err
	}()

	_, err := c.GetPaywallForDefaultAudience(ctx, "main", "", PlacementParams{})
	require.NoError(t, err)

	time.Sleep(30 * time.Millisecond)
	assert.NotContains(t, rec.methods(), "get_profile")

	close(rec.gate)
	require.NoError(t, <-activated)
	require.NoError(t, <-profile)
	assert.Equal(t, []string{"activate", "get_paywall_for_default_audience", "get_profile"}, rec.methods())
}

// TestActivation_ClaimHeld verifies a claimed held activation is already
// pending, so a concurrent call waits for it instead of running first.
func TestActivation_ClaimHeld(t *testing.T) {
	c, rec := newCore(t, codec.PlatformIOS)
	ctx := context.Background()

	configuration, err := model.EncodeConfiguration(c.APIKey, model.ActivateParams{})
	require.NoError(t, err)
	c.mu.Lock()
	c.held = &heldActivation{body: codec.Object{"configuration": configuration}, result: make(chan error, 1)}
	c.mu.Unlock()

	held, a := c.claimHeld()
	require.NotNil(t, held)
	require.NotNil(t, a)
	assert.False(t, c.hasHeld())
	c.mu.Lock()
	assert.Same(t, a, c.activating)
	c.mu.Unlock()

	fetched := make(chan error, 1)
	go func() {
		_, err := c.GetProfile(ctx)
		fetched <- err
	}()

	select {
	case <-fetched:
		t.Fatal("call ran before the claimed activation")
	case <-time.After(50 * time.Millisecond):
	}
	assert.NotContains(t, rec.methods(), "get_profile")

	require.NoError(t, c.runActivation(ctx, a, held.body))
	select {
	case err := <-fetched:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("call did not resume after activation")
	}
	assert.Equal(t, []string{"activate", "get_profile"}, rec.methods())
}

// TestActivation_Deferred verifies a deferred activation runs on the first
// waiting call and only then returns.
func TestActivation_Deferred(t *testing.T) {
	c, rec := newCore(t, codec.PlatformIOS)
	ctx := context.Background()

	activated := make(chan error, 1)
	go func() {
		activated <- c.Activate(ctx, "", model.ActivateParams{DeferActivation: true})
	}()
	require.Eventually(t, c.hasHeld, time.Second, 5*time.Millisecond)

	_, err := c.GetPaywallForDefaultAudience(ctx, "main", "", PlacementParams{})
	require.NoError(t, err)
	ok, err := c.IsActivated(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NotContains(t, rec.methods(), "activate")

	select {
	case <-activated:
		t.Fatal("deferred Activate returned before activation ran")
	default:
	}

	_, err = c.GetProfile(ctx)
	require.NoError(t, err)

	select {
	case err := <-activated:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("deferred Activate did not return")
	}
	assert.Equal(t, []string{"get_paywall_for_default_audience", "is_activated", "activate", "get_profile"}, rec.methods())
}

// TestActivation_DeferredCancel verifies a cancelled deferred activation is
// dropped.
func TestActivation_DeferredCancel(t *testing.T) {
	c, rec := newCore(t, codec.PlatformIOS)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := c.Activate(ctx, "", model.ActivateParams{DeferActivation: true})
	require.ErrorIs(t, err, context.DeadlineExceeded)

	_, err = c.GetProfile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"get_profile"}, rec.methods())
}

// TestActivation_SkipIfActivated verifies the skip check against the host
// state and its failure path.
func TestActivation_SkipIfActivated(t *testing.T) {
	ctx := context.Background()
	skip := model.ActivateParams{SkipIfActivated: true}

	t.Run("activated", func(t *testing.T) {
		c, rec := newCore(t, codec.PlatformIOS)
		rec.Store().SetActivated(true)

		require.NoError(t, c.Activate(ctx, "", skip))
		assert.Equal(t, []string{"is_activated"}, rec.methods())
	})

	t.Run("not activated", func(t *testing.T) {
		c, rec := newCore(t, codec.PlatformIOS)

		require.NoError(t, c.Activate(ctx, "", skip))
		assert.Equal(t, []string{"is_activated", "activate"}, rec.methods())
	})

	t.Run("check fails", func(t *testing.T) {
		c, rec := newCore(t, codec.PlatformIOS)
		rec.setFail("is_activated", `{"error": {"adapty_code": 2005, "message": "offline"}}`)

		require.NoError(t, c.Activate(ctx, "", skip))
		assert.Equal(t, []string{"is_activated", "activate"}, rec.methods())
	})
}

// TestActivation_Failure verifies a failed activation fails waiting calls
// until a later activation succeeds.
func TestActivation_Failure(t *testing.T) {
	c, rec := newCore(t, codec.PlatformIOS)
	ctx := context.Background()

	rec.setFail("activate", `{"error": {"adapty_code": 2003, "message": "bad key"}}`)
	err := c.Activate(ctx, "", model.ActivateParams{})
	ae, ok := aerr.AsAdaptyError(err)
	require.True(t, ok)
	assert.Equal(t, aerr.CodeBadRequest, ae.Code)

	_, err = c.GetProfile(ctx)
	ae, ok = aerr.AsAdaptyError(err)
	require.True(t, ok)
	assert.Equal(t, aerr.CodeBadRequest, ae.Code)
	assert.NotContains(t, rec.methods(), "get_profile")

	rec.setFail("activate", "")
	require.NoError(t, c.Activate(ctx, "", model.ActivateParams{}))
	_, err = c.GetProfile(ctx)
	require.NoError(t, err)
}

// TestGetPaywall_Body verifies placement request bodies for each fetch
// policy.
func TestGetPaywall_Body(t *testing.T) {
	tests := []struct {
		name    string
		call    func(c *Core) error
		method  string
		want    codec.Object
		timeout any
	}{
		{
			name: "defaults",
			call: func(c *Core) error {
				_, err := c.GetPaywall(context.Background(), "main", "", PlacementParams{})
				return err
			},
			method:  "get_paywall",
			want:    codec.Object{"type": "reload_revalidating_cache_data"},
			timeout: json.Number("5"),
		},
		{
			name: "max age",
			call: func(c *Core) error {
				_, err := c.GetPaywall(context.Background(), "main", "fr", PlacementParams{
					FetchPolicy: FetchReturnCacheDataIfNotExpiredElseLoad,
					MaxAge:      time.Minute,
					LoadTimeout: 1500 * time.Millisecond,
				})
				return err
			},
			method:  "get_paywall",
			want:    codec.Object{"type": "return_cache_data_if_not_expired_else_load", "max_age": json.Number("60")},
			timeout: json.Number("1.5"),
		},
		{
			name: "default audience",
			call: func(c *Core) error {
				_, err := c.GetPaywallForDefaultAudience(context.Background(), "main", "", PlacementParams{
					FetchPolicy: FetchReturnCacheDataElseLoad,
					LoadTimeout: time.Second,
				})
				return err
			},
			method: "get_paywall_for_default_audience",
			want:   codec.Object{"type": "return_cache_data_else_load"},
		},
		{
			name: "onboarding",
			call: func(c *Core) error {
				_, err := c.GetOnboarding(context.Background(), "welcome", "", PlacementParams{})
				return err
			},
			method:  "get_onboarding",
			want:    codec.Object{"type": "reload_revalidating_cache_data"},
			timeout: json.Number("5"),
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newCore(t, codec.PlatformIOS)
			require.NoError(t, tt.call(c))

			got, ok := rec.lastCall(tt.method)
			require.True(t, ok)
			assert.Equal(t, tt.want, got.body["fetch_policy"])
			if tt.timeout == nil {
				assert.NotContains(t, got.body, "load_timeout")
			} else {
				assert.Equal(t, tt.timeout, got.body["load_timeout"])
			}
		})
	}
}

// TestPurchaseFlow runs paywall, products and purchase against the mock
// host and checks the latest profile event.
func TestPurchaseFlow(t *testing.T) {
	c, _ := newCore(t, codec.PlatformIOS)
	ctx := context.Background()
	require.NoError(t, c.Activate(ctx, "", model.ActivateParams{}))

	profiles := make(chan codec.Object, 1)
	_, err := c.AddEventListener(EventLatestProfileLoad, func(p codec.Object) { profiles <- p })
	require.NoError(t, err)

	paywall, err := c.GetPaywall(ctx, "main", "en", PlacementParams{})
	require.NoError(t, err)
	assert.Equal(t, mock.VariationID, paywall["variationId"])

	products, err := c.GetPaywallProducts(ctx, paywall)
	require.NoError(t, err)
	require.NotEmpty(t, products)

	result, err := c.MakePurchase(ctx, products[0], nil)
	require.NoError(t, err)
	assert.Equal(t, model.PurchaseSuccess, result["type"])
	profile, _ := result["profile"].(codec.Object)
	assert.True(t, model.HasActiveAccessLevel(profile, mock.AccessLevelPremium))

	select {
	case p := <-profiles:
		assert.True(t, model.HasActiveAccessLevel(p, mock.AccessLevelPremium))
	case <-time.After(time.Second):
		t.Fatal("latest profile event not delivered")
	}

	restored, err := c.RestorePurchases(ctx)
	require.NoError(t, err)
	assert.Equal(t, mock.ProfileID, restored["profileId"])
}

// TestAddEventListener verifies only the latest profile event is accepted
// and RemoveAllListeners drops it.
func TestAddEventListener(t *testing.T) {
	c, rec := newCore(t, codec.PlatformIOS)

	_, err := c.AddEventListener("onPaywallShown", func(codec.Object) {})
	require.Error(t, err)

	calls := 0
	_, err = c.AddEventListener(EventLatestProfileLoad, func(codec.Object) { calls++ })
	require.NoError(t, err)

	c.RemoveAllListeners()
	rec.Emit("did_load_latest_profile", `{"profile": {"profile_id": "p", "segment_hash": "s", "is_test_user": false, "timestamp": 1}}`)
	assert.Equal(t, 0, calls)
}

// TestAndroid_NoOps verifies iOS-only calls do not reach the host on android
// and android fallback asset ids carry their kind suffix.
func TestAndroid_NoOps(t *testing.T) {
	c, rec := newCore(t, codec.PlatformAndroid)
	ctx := context.Background()

	require.NoError(t, c.PresentCodeRedemptionSheet(ctx))
	require.NoError(t, c.UpdateCollectingRefundDataConsent(ctx, true))
	require.NoError(t, c.UpdateRefundPreference(ctx, RefundGrant))
	assert.Empty(t, rec.methods())

	var loc FallbackLocation
	loc.IOS.FileName = "fallback.json"
	loc.Android.RawResName = "fallback"
	require.NoError(t, c.SetFallback(ctx, loc))
	got, _ := rec.lastCall("set_fallback")
	assert.Equal(t, "fallbackr", got.body["asset_id"])

	loc.Android.RelativeAssetPath = "data/fallback.json"
	require.NoError(t, c.SetFallback(ctx, loc))
	got, _ = rec.lastCall("set_fallback")
	assert.Equal(t, "data/fallback.jsona", got.body["asset_id"])
}

// TestRequestBodies verifies the bodies of simple calls.
func TestRequestBodies(t *testing.T) {
	var fallback FallbackLocation
	fallback.IOS.FileName = "fallback.json"

	tests := []struct {
		name   string
		call   func(ctx context.Context, c *Core) error
		method string
		want   codec.Object
	}{
		{
			name:   "identify",
			call:   func(ctx context.Context, c *Core) error { return c.Identify(ctx, "user-1", nil) },
			method: "identify",
			want:   codec.Object{"method": "identify", "customer_user_id": "user-1"},
		},
		{
			name:   "report transaction",
			call:   func(ctx context.Context, c *Core) error { return c.ReportTransaction(ctx, "tx-1", "") },
			method: "report_transaction",
			want:   codec.Object{"method": "report_transaction", "transaction_id": "tx-1"},
		},
		{
			name: "integration identifier",
			call: func(ctx context.Context, c *Core) error {
				return c.SetIntegrationIdentifier(ctx, "one_signal_player_id", "abc")
			},
			method: "set_integration_identifiers",
			want: codec.Object{
				"method":     "set_integration_identifiers",
				"key_values": codec.Object{"one_signal_player_id": "abc"},
			},
		},
		{
			name: "attribution",
			call: func(ctx context.Context, c *Core) error {
				return c.UpdateAttributionData(ctx, map[string]any{"campaign": "spring"}, "appsflyer")
			},
			method: "update_attribution_data",
			want: codec.Object{
				"method":      "update_attribution_data",
				"attribution": `{"campaign":"spring"}`,
				"source":      "appsflyer",
			},
		},
		{
			name:   "log show onboarding",
			call:   func(ctx context.Context, c *Core) error { return c.LogShowOnboarding(ctx, 1, "intro", "") },
			method: "log_show_onboarding",
			want: codec.Object{
				"method": "log_show_onboarding",
				"params": codec.Object{"onboarding_screen_order": json.Number("1"), "onboarding_name": "intro"},
			},
		},
		{
			name:   "refund preference",
			call:   func(ctx context.Context, c *Core) error { return c.UpdateRefundPreference(ctx, RefundDecline) },
			method: "update_refund_preference",
			want:   codec.Object{"method": "update_refund_preference", "refund_preference": "decline"},
		},
		{
			name:   "fallback",
			call:   func(ctx context.Context, c *Core) error { return c.SetFallback(ctx, fallback) },
			method: "set_fallback",
			want:   codec.Object{"method": "set_fallback", "asset_id": "fallback.json"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newCore(t, codec.PlatformIOS)
			require.NoError(t, tt.call(context.Background(), c))

			got, ok := rec.lastCall(tt.method)
			require.True(t, ok)
			assert.Equal(t, tt.want, got.body)
		})
	}
}

// TestWebPaywall verifies paywalls and products are told apart.
func TestWebPaywall(t *testing.T) {
	c, rec := newCore(t, codec.PlatformIOS)
	ctx := context.Background()

	paywall, err := c.GetPaywall(ctx, "main", "", PlacementParams{})
	require.NoError(t, err)
	url, err := c.CreateWebPaywallURL(ctx, paywall)
	require.NoError(t, err)
	assert.Equal(t, mock.WebPaywallURL, url)
	got, _ := rec.lastCall("create_web_paywall_url")
	assert.Contains(t, got.body, "paywall")

	products, err := c.GetPaywallProducts(ctx, paywall)
	require.NoError(t, err)
	require.NoError(t, c.OpenWebPaywall(ctx, products[0]))
	got, _ = rec.lastCall("open_web_paywall")
	product, _ := got.body["product"].(codec.Object)
	assert.Equal(t, products[0]["vendorProductId"], product["vendor_product_id"])
}

// TestSetLogLevel verifies the logger level follows the SDK level and
// unknown levels are rejected locally.
func TestSetLogLevel(t *testing.T) {
	c, rec := newCore(t, codec.PlatformIOS)
	ctx := context.Background()
	t.Cleanup(func() { logLevel.SetLevel(zap.ErrorLevel) })

	require.NoError(t, c.SetLogLevel(ctx, model.LogLevelVerbose))
	assert.Equal(t, zap.DebugLevel, logLevel.Level())
	got, _ := rec.lastCall("set_log_level")
	assert.Equal(t, "verbose", got.body["value"])

	require.NoError(t, c.SetLogLevel(ctx, model.LogLevelWarn))
	assert.Equal(t, zap.WarnLevel, logLevel.Level())

	require.Error(t, c.SetLogLevel(ctx, "trace"))
}

// TestViews verifies view controllers are created over the SDK bridge.
func TestViews(t *testing.T) {
	c, _ := newCore(t, codec.PlatformIOS)
	ctx := context.Background()

	paywall, err := c.GetPaywall(ctx, "main", "", PlacementParams{})
	require.NoError(t, err)
	view, err := c.NewPaywallView(ctx, paywall, model.CreatePaywallViewParams{})
	require.NoError(t, err)
	assert.Contains(t, view.ID(), "mock-paywall-")
	require.NoError(t, view.Present(ctx))
	require.NoError(t, view.Dismiss(ctx))

	onboarding, err := c.GetOnboarding(ctx, "welcome", "", PlacementParams{})
	require.NoError(t, err)
	ov, err := c.NewOnboardingView(ctx, onboarding, model.CreateOnboardingViewParams{})
	require.NoError(t, err)
	assert.Contains(t, ov.ID(), "mock-onboarding-")

	status, err := c.GetCurrentInstallationStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.InstallationDetermined, status["status"])
}
