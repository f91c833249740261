// Package mock is an in-memory stand-in for the native SDK. It implements
// transport.Transport on top of a stateful Store, so the whole SDK stack
// (bridge, coders, view controllers) runs unchanged without a device.
//
// Results are produced as model objects and encoded with the same coders
// the SDK decodes with, so everything the mock returns is valid wire data.
package mock

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/adaptyteam/adapty-sdk-go/internal/jsonutil"
	"github.com/adaptyteam/adapty-sdk-go/pkg/codec"
	aerr "github.com/adaptyteam/adapty-sdk-go/pkg/errors"
	"github.com/adaptyteam/adapty-sdk-go/pkg/model"
	"github.com/adaptyteam/adapty-sdk-go/pkg/parse"
	"github.com/adaptyteam/adapty-sdk-go/pkg/transport"
)

// Transport answers SDK calls from a Store.
type Transport struct {
	store *Store
	hub   transport.Hub

	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
}

// New returns a mock transport configured by cfg.
func New(cfg Config) *Transport {
	ctx, cancel := context.WithCancel(context.Background())
	return &Transport{store: NewStore(cfg), ctx: ctx, cancel: cancel}
}

// Store exposes the backing store for inspection.
func (t *Transport) Store() *Store { return t.store }

// Emit delivers a native event to listeners, as the native side would.
func (t *Transport) Emit(event, payload string) {
	t.hub.Emit(event, payload)
}

// Request handles one SDK method. Unknown methods succeed with a null
// result.
func (t *Transport) Request(ctx context.Context, method, params, _ string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	log := zap.L().With(zap.String("method", "mock/"+method))
	log.Debug("start", zap.String("params", params))

	result, err := t.handle(method, params)
	if err != nil {
		log.Debug("failed", zap.Error(err))
		return errorEnvelope(err)
	}
	out, err := jsonutil.MarshalString(codec.Object{"success": result})
	if err != nil {
		return "", err
	}
	log.Debug("success", zap.String("result", out))
	return out, nil
}

func (t *Transport) handle(method, params string) (any, error) {
	var p codec.Object
	if params != "" {
		if err := jsonutil.Unmarshal([]byte(params), &p); err != nil {
			return nil, aerr.InvalidJSON(err, "failed to parse mock request params")
		}
	}
	s := t.store

	switch method {
	case "activate":
		s.SetActivated(true)
		return nil, nil

	case "is_activated":
		return s.IsActivated(), nil

	case "get_profile", "restore_purchases":
		return model.Profile().Encode(s.Profile())

	case "get_paywall", "get_paywall_for_default_audience":
		placementID, _ := p["placement_id"].(string)
		return model.Paywall().Encode(s.Paywall(placementID))

	case "get_paywall_products":
		placementID, variationID := "default", VariationID
		if pw, ok := p["paywall"].(codec.Object); ok {
			if v, ok := codec.GetNested(pw, "placement.developer_id"); ok {
				if id, _ := v.(string); id != "" {
					placementID = id
				}
			}
			if id, _ := pw["variation_id"].(string); id != "" {
				variationID = id
			}
		}
		return model.PaywallProducts().Encode(s.PaywallProducts(placementID, variationID))

	case "get_onboarding", "get_onboarding_for_default_audience":
		placementID, _ := p["placement_id"].(string)
		return model.Onboarding().Encode(s.Onboarding(placementID))

	case "make_purchase":
		var accessLevelID string
		if product, ok := p["product"].(codec.Object); ok {
			accessLevelID, _ = product["access_level_id"].(string)
		}
		profile := s.MakePurchase(accessLevelID)
		result, err := model.PurchaseResult().Encode(codec.Object{
			"type":    model.PurchaseSuccess,
			"profile": profile,
		})
		if err != nil {
			return nil, err
		}
		t.emitLatestProfile(result.(codec.Object)["profile"])
		return result, nil

	case "identify":
		id, _ := p["customer_user_id"].(string)
		s.Identify(id)
		return nil, nil

	case "logout":
		s.Logout()
		return nil, nil

	case "update_profile":
		decoded, err := model.ProfileParameters().DecodeObject(p["params"])
		if err != nil {
			return nil, err
		}
		s.UpdateProfile(decoded)
		return nil, nil

	case "create_web_paywall_url":
		return WebPaywallURL, nil

	case "get_current_installation_status":
		return model.InstallationStatus().Encode(codec.Object{
			"status": model.InstallationDetermined,
			"details": codec.Object{
				"installTime":    t.store.cfg.Now(),
				"appLaunchCount": 1,
			},
		})

	case "adapty_ui_create_paywall_view":
		return codec.Object{"id": "mock-paywall-" + uuid.NewString()}, nil

	case "adapty_ui_create_onboarding_view":
		return codec.Object{"id": "mock-onboarding-" + uuid.NewString()}, nil

	case "adapty_ui_show_dialog":
		return "primary", nil

	case "log_show_paywall", "log_show_onboarding", "set_log_level", "update_attribution_data",
		"set_fallback", "set_integration_identifiers", "report_transaction",
		"present_code_redemption_sheet", "update_collecting_refund_data_consent",
		"update_refund_preference", "open_web_paywall",
		"adapty_ui_activate", "adapty_ui_present_paywall_view", "adapty_ui_present_onboarding_view",
		"adapty_ui_dismiss_paywall_view", "adapty_ui_dismiss_onboarding_view":
		return nil, nil
	}

	zap.L().Debug("mock: unhandled method", zap.String("method", method))
	return nil, nil
}

// emitLatestProfile pushes did_load_latest_profile after the configured
// delay, the way the native SDK reports a profile refreshed by a purchase.
func (t *Transport) emitLatestProfile(wireProfile any) {
	payload, err := jsonutil.MarshalString(codec.Object{"profile": wireProfile})
	if err != nil {
		zap.L().Error("mock: failed to encode profile event", zap.Error(err))
		return
	}
	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		select {
		case <-t.ctx.Done():
		case <-time.After(t.store.cfg.EventDelay):
			t.hub.Emit(parse.EventDidLoadLatestProfile, payload)
		}
	}()
}

func errorEnvelope(err error) (string, error) {
	code := aerr.CodeUnknown
	if e, ok := aerr.As(err); ok {
		code = e.Code()
	}
	return jsonutil.MarshalString(codec.Object{"error": codec.Object{
		"adapty_code": int(code),
		"message":     err.Error(),
	}})
}

// AddEventListener registers cb for event.
func (t *Transport) AddEventListener(event string, cb func(payload string)) transport.Subscription {
	return t.hub.Add(event, cb)
}

// RemoveAllEventListeners drops every listener.
func (t *Transport) RemoveAllEventListeners() {
	t.hub.RemoveAll()
}

// Close cancels pending events.
func (t *Transport) Close() error {
	t.cancel()
	t.wg.Wait()
	return nil
}

var _ transport.Transport = (*Transport)(nil)
