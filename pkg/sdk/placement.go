package sdk

import (
	"context"
	"fmt"
	"time"

	"github.com/adaptyteam/adapty-sdk-go/pkg/codec"
	"github.com/adaptyteam/adapty-sdk-go/pkg/model"
	"github.com/adaptyteam/adapty-sdk-go/pkg/parse"
)

// FetchPolicy selects how the native SDK uses its placement cache.
type FetchPolicy string

const (
	// FetchReloadRevalidatingCacheData loads from the server and falls back
	// to cached data on failure. It is the default.
	FetchReloadRevalidatingCacheData FetchPolicy = "reload_revalidating_cache_data"
	// FetchReturnCacheDataElseLoad returns cached data when present.
	FetchReturnCacheDataElseLoad FetchPolicy = "return_cache_data_else_load"
	// FetchReturnCacheDataIfNotExpiredElseLoad returns cached data younger
	// than PlacementParams.MaxAge.
	FetchReturnCacheDataIfNotExpiredElseLoad FetchPolicy = "return_cache_data_if_not_expired_else_load"
)

// PlacementParams are the optional parameters of paywall and onboarding
// requests.
type PlacementParams struct {
	FetchPolicy FetchPolicy
	// MaxAge is only sent with FetchReturnCacheDataIfNotExpiredElseLoad.
	MaxAge time.Duration
	// LoadTimeout bounds the native load. Zero uses Timeouts.PaywallLoad.
	// It is ignored by the default audience requests.
	LoadTimeout time.Duration
}

func (p PlacementParams) fetchPolicy() codec.Object {
	if p.FetchPolicy != FetchReturnCacheDataIfNotExpiredElseLoad {
		policy := p.FetchPolicy
		if policy == "" {
			policy = FetchReloadRevalidatingCacheData
		}
		return codec.Object{"type": string(policy)}
	}
	return codec.Object{
		"type":    string(p.FetchPolicy),
		"max_age": p.MaxAge.Seconds(),
	}
}

func (c *Core) placementBody(placementID, locale string, p PlacementParams, withTimeout bool) codec.Object {
	body := codec.Object{
		"placement_id": placementID,
		"fetch_policy": p.fetchPolicy(),
	}
	if locale != "" {
		body["locale"] = locale
	}
	if withTimeout {
		timeout := p.LoadTimeout
		if timeout == 0 {
			timeout = c.Timeouts.PaywallLoad
		}
		body["load_timeout"] = timeout.Seconds()
	}
	return body
}

func (c *Core) requestObject(ctx context.Context, method string, body codec.Object, resultType parse.Type) (codec.Object, error) {
	v, err := c.handle(ctx, method, body, resultType)
	if err != nil {
		return nil, err
	}
	obj, ok := v.(codec.Object)
	if !ok {
		return nil, fmt.Errorf("%s: unexpected result %T", method, v)
	}
	return obj, nil
}

// GetPaywall fetches the paywall of a placement for the current audience.
func (c *Core) GetPaywall(ctx context.Context, placementID, locale string, params PlacementParams) (codec.Object, error) {
	return c.requestObject(ctx, "get_paywall", c.placementBody(placementID, locale, params, true), parse.TypeAdaptyPaywall)
}

// GetPaywallForDefaultAudience fetches the paywall of a placement for the
// default audience. It does not wait for activation.
func (c *Core) GetPaywallForDefaultAudience(ctx context.Context, placementID, locale string, params PlacementParams) (codec.Object, error) {
	return c.requestObject(ctx, "get_paywall_for_default_audience", c.placementBody(placementID, locale, params, false), parse.TypeAdaptyPaywall)
}

// GetPaywallProducts fetches the store products of a paywall.
func (c *Core) GetPaywallProducts(ctx context.Context, paywall codec.Object) ([]codec.Object, error) {
	wire, err := model.Paywall().EncodeObject(paywall)
	if err != nil {
		return nil, err
	}
	v, err := c.handle(ctx, "get_paywall_products", codec.Object{"paywall": wire}, parse.TypeArrayOfPaywallProduct)
	if err != nil {
		return nil, err
	}
	items, _ := v.([]any)
	products := make([]codec.Object, 0, len(items))
	for _, item := range items {
		if p, ok := item.(codec.Object); ok {
			products = append(products, p)
		}
	}
	return products, nil
}

// GetOnboarding fetches the onboarding of a placement.
func (c *Core) GetOnboarding(ctx context.Context, placementID, locale string, params PlacementParams) (codec.Object, error) {
	return c.requestObject(ctx, "get_onboarding", c.placementBody(placementID, locale, params, true), parse.TypeAdaptyOnboarding)
}

// GetOnboardingForDefaultAudience fetches the onboarding of a placement for
// the default audience.
func (c *Core) GetOnboardingForDefaultAudience(ctx context.Context, placementID, locale string, params PlacementParams) (codec.Object, error) {
	return c.requestObject(ctx, "get_onboarding_for_default_audience", c.placementBody(placementID, locale, params, false), parse.TypeAdaptyOnboarding)
}

// LogShowPaywall records a paywall impression for paywalls rendered without
// the view controllers.
func (c *Core) LogShowPaywall(ctx context.Context, paywall codec.Object) error {
	wire, err := model.Paywall().EncodeObject(paywall)
	if err != nil {
		return err
	}
	_, err = c.handle(ctx, "log_show_paywall", codec.Object{"paywall": wire}, parse.TypeVoid)
	return err
}

// LogShowOnboarding records an onboarding screen impression.
func (c *Core) LogShowOnboarding(ctx context.Context, screenOrder int, onboardingName, screenName string) error {
	params := codec.Object{"onboarding_screen_order": screenOrder}
	if onboardingName != "" {
		params["onboarding_name"] = onboardingName
	}
	if screenName != "" {
		params["onboarding_screen_name"] = screenName
	}
	_, err := c.handle(ctx, "log_show_onboarding", codec.Object{"params": params}, parse.TypeVoid)
	return err
}
