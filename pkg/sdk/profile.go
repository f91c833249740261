package sdk

import (
	"context"
	"fmt"

	"github.com/adaptyteam/adapty-sdk-go/internal/jsonutil"
	"github.com/adaptyteam/adapty-sdk-go/pkg/codec"
	"github.com/adaptyteam/adapty-sdk-go/pkg/model"
	"github.com/adaptyteam/adapty-sdk-go/pkg/parse"
)

// RefundPreference tells the App Store how to treat refund requests.
type RefundPreference string

const (
	RefundNoPreference RefundPreference = "no_preference"
	RefundGrant        RefundPreference = "grant"
	RefundDecline      RefundPreference = "decline"
)

// FallbackLocation points the native SDK at a bundled fallback file. Path
// takes precedence over the per-platform asset ids.
type FallbackLocation struct {
	Path string

	IOS struct {
		FileName string
	}
	Android struct {
		// RelativeAssetPath is a path under the app assets directory.
		RelativeAssetPath string
		// RawResName is a raw resource name, used when RelativeAssetPath is
		// empty.
		RawResName string
	}
}

// body resolves the location for the running platform. Android asset ids
// carry a one letter suffix naming the resource kind.
func (l FallbackLocation) body() codec.Object {
	if l.Path != "" {
		return codec.Object{"path": l.Path}
	}
	android := l.Android.RawResName + "r"
	if l.Android.RelativeAssetPath != "" {
		android = l.Android.RelativeAssetPath + "a"
	}
	return codec.Object{"asset_id": codec.Select(l.IOS.FileName, android)}
}

// GetProfile returns the current profile.
func (c *Core) GetProfile(ctx context.Context) (codec.Object, error) {
	return c.requestObject(ctx, "get_profile", nil, parse.TypeAdaptyProfile)
}

// Identify switches the SDK to the given customer user id.
func (c *Core) Identify(ctx context.Context, customerUserID string, params *model.IdentifyParams) error {
	body := codec.Object{"customer_user_id": customerUserID}
	if p := model.EncodeIdentifyParams(params); p != nil {
		body["params"] = p
	}
	_, err := c.handle(ctx, "identify", body, parse.TypeVoid)
	return err
}

// Logout resets the profile to a new anonymous one.
func (c *Core) Logout(ctx context.Context) error {
	_, err := c.handle(ctx, "logout", nil, parse.TypeVoid)
	return err
}

// UpdateProfile sends profile parameters in the decoded (camelCase) shape.
func (c *Core) UpdateProfile(ctx context.Context, params codec.Object) error {
	wire, err := model.ProfileParameters().EncodeObject(params)
	if err != nil {
		return err
	}
	_, err = c.handle(ctx, "update_profile", codec.Object{"params": wire}, parse.TypeVoid)
	return err
}

// MakePurchase buys a paywall product and returns the purchase result.
func (c *Core) MakePurchase(ctx context.Context, product codec.Object, params *model.MakePurchaseParams) (codec.Object, error) {
	input, err := model.ProductInput(product)
	if err != nil {
		return nil, err
	}
	body := model.EncodePurchaseParams(params)
	body["product"] = input
	return c.requestObject(ctx, "make_purchase", body, parse.TypeAdaptyPurchaseResult)
}

// webPaywallBody encodes either a product or a paywall. Products are told
// apart by their vendorProductId.
func webPaywallBody(paywallOrProduct codec.Object) (codec.Object, error) {
	if _, ok := paywallOrProduct["vendorProductId"]; ok {
		input, err := model.ProductInput(paywallOrProduct)
		if err != nil {
			return nil, err
		}
		return codec.Object{"product": input}, nil
	}
	wire, err := model.Paywall().EncodeObject(paywallOrProduct)
	if err != nil {
		return nil, err
	}
	return codec.Object{"paywall": wire}, nil
}

// OpenWebPaywall opens the web paywall of a paywall or a product in the
// browser.
func (c *Core) OpenWebPaywall(ctx context.Context, paywallOrProduct codec.Object) error {
	body, err := webPaywallBody(paywallOrProduct)
	if err != nil {
		return err
	}
	_, err = c.handle(ctx, "open_web_paywall", body, parse.TypeVoid)
	return err
}

// CreateWebPaywallURL returns the web paywall url of a paywall or a product.
func (c *Core) CreateWebPaywallURL(ctx context.Context, paywallOrProduct codec.Object) (string, error) {
	body, err := webPaywallBody(paywallOrProduct)
	if err != nil {
		return "", err
	}
	v, err := c.handle(ctx, "create_web_paywall_url", body, parse.TypeString)
	if err != nil {
		return "", err
	}
	url, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("create_web_paywall_url: unexpected result %T", v)
	}
	return url, nil
}

// PresentCodeRedemptionSheet shows the offer code sheet. No-op on android.
func (c *Core) PresentCodeRedemptionSheet(ctx context.Context) error {
	if codec.CurrentPlatform() == codec.PlatformAndroid {
		return nil
	}
	_, err := c.handle(ctx, "present_code_redemption_sheet", nil, parse.TypeVoid)
	return err
}

// ReportTransaction links a transaction made outside the SDK to a paywall
// variation. variationID may be empty.
func (c *Core) ReportTransaction(ctx context.Context, transactionID, variationID string) error {
	body := codec.Object{"transaction_id": transactionID}
	if variationID != "" {
		body["variation_id"] = variationID
	}
	_, err := c.handle(ctx, "report_transaction", body, parse.TypeVoid)
	return err
}

// RestorePurchases restores purchases and returns the updated profile.
func (c *Core) RestorePurchases(ctx context.Context) (codec.Object, error) {
	return c.requestObject(ctx, "restore_purchases", nil, parse.TypeAdaptyProfile)
}

// SetFallback registers the bundled fallback file.
func (c *Core) SetFallback(ctx context.Context, location FallbackLocation) error {
	_, err := c.handle(ctx, "set_fallback", location.body(), parse.TypeVoid)
	return err
}

// SetIntegrationIdentifier sets one third-party integration identifier.
func (c *Core) SetIntegrationIdentifier(ctx context.Context, key, value string) error {
	body := codec.Object{"key_values": codec.Object{key: value}}
	_, err := c.handle(ctx, "set_integration_identifiers", body, parse.TypeVoid)
	return err
}

// SetLogLevel sets the native log level and the SDK logger level.
func (c *Core) SetLogLevel(ctx context.Context, level model.LogLevel) error {
	if !validLogLevel(level) {
		return fmt.Errorf("unknown log level %q", level)
	}
	applyLogLevel(level, c.Debug)
	_, err := c.handle(ctx, "set_log_level", codec.Object{"value": string(level)}, parse.TypeVoid)
	return err
}

func validLogLevel(level model.LogLevel) bool {
	switch level {
	case model.LogLevelError, model.LogLevelWarn, model.LogLevelInfo, model.LogLevelVerbose, model.LogLevelDebug:
		return true
	}
	return false
}

// UpdateAttributionData sends attribution data from source. The data is
// sent as a JSON string.
func (c *Core) UpdateAttributionData(ctx context.Context, attribution map[string]any, source string) error {
	encoded, err := jsonutil.MarshalString(attribution)
	if err != nil {
		return fmt.Errorf("encode attribution: %w", err)
	}
	body := codec.Object{"attribution": encoded, "source": source}
	_, err = c.handle(ctx, "update_attribution_data", body, parse.TypeVoid)
	return err
}

// UpdateCollectingRefundDataConsent sets the refund data consent. No-op on
// android.
func (c *Core) UpdateCollectingRefundDataConsent(ctx context.Context, consent bool) error {
	if codec.CurrentPlatform() == codec.PlatformAndroid {
		return nil
	}
	_, err := c.handle(ctx, "update_collecting_refund_data_consent", codec.Object{"consent": consent}, parse.TypeVoid)
	return err
}

// UpdateRefundPreference sets the refund preference. No-op on android.
func (c *Core) UpdateRefundPreference(ctx context.Context, preference RefundPreference) error {
	if codec.CurrentPlatform() == codec.PlatformAndroid {
		return nil
	}
	body := codec.Object{"refund_preference": string(preference)}
	_, err := c.handle(ctx, "update_refund_preference", body, parse.TypeVoid)
	return err
}

// GetCurrentInstallationStatus returns the install attribution status.
func (c *Core) GetCurrentInstallationStatus(ctx context.Context) (codec.Object, error) {
	return c.requestObject(ctx, "get_current_installation_status", nil, parse.TypeAdaptyInstallationStatus)
}
