package parse

import (
	"strings"

	"github.com/adaptyteam/adapty-sdk-go/pkg/codec"
	aerr "github.com/adaptyteam/adapty-sdk-go/pkg/errors"
	"github.com/adaptyteam/adapty-sdk-go/pkg/model"
)

// EventDidLoadLatestProfile is the only common (non-view) native event.
const EventDidLoadLatestProfile = "did_load_latest_profile"

const eventContext = "failed to decode event"

// ParseCommonEvent decodes the payload of a common native event. Unknown
// events yield nil without error.
func ParseCommonEvent(event, input string) (any, error) {
	obj, err := parseObject(input, eventContext)
	if err != nil {
		return nil, err
	}
	return parseCommon(event, obj)
}

func parseCommon(event string, obj codec.Object) (any, error) {
	switch event {
	case EventDidLoadLatestProfile:
		return model.Profile().Decode(obj["profile"])
	}
	return nil, nil
}

// ParsePaywallEvent decodes a paywall view event payload. Known model
// fields (profile, product, purchased_result) are decoded; error becomes an
// *errors.AdaptyError; id, action, view and product_id are copied as is.
func ParsePaywallEvent(input string) (codec.Object, error) {
	obj, err := parseObject(input, eventContext)
	if err != nil {
		return nil, err
	}
	return parsePaywall(obj)
}

func parsePaywall(obj codec.Object) (codec.Object, error) {
	result := codec.Object{}

	for _, key := range []string{"id", "action", "view", "product_id"} {
		if v, ok := obj[key]; ok {
			result[key] = v
		}
	}

	decoders := []struct {
		key   string
		coder codec.Converter
	}{
		{"profile", model.Profile()},
		{"product", model.PaywallProduct()},
		{"purchased_result", model.PurchaseResult()},
	}
	for _, d := range decoders {
		v, ok := obj[d.key]
		if !ok {
			continue
		}
		decoded, err := d.coder.Decode(v)
		if err != nil {
			return nil, withPath(err, d.key)
		}
		result[d.key] = decoded
	}

	if v, ok := obj["error"]; ok {
		ec := model.NativeError()
		decoded, err := ec.Decode(v)
		if err != nil {
			return nil, withPath(err, "error")
		}
		result["error"] = ec.GetError(decoded)
	}

	return result, nil
}

// Onboarding event ids.
const (
	OnboardingClose           = "onboarding_on_close_action"
	OnboardingCustom          = "onboarding_on_custom_action"
	OnboardingPaywall         = "onboarding_on_paywall_action"
	OnboardingStateUpdated    = "onboarding_on_state_updated_action"
	OnboardingFinishedLoading = "onboarding_did_finish_loading"
	OnboardingAnalytics       = "onboarding_on_analytics_action"
	OnboardingError           = "onboarding_did_fail_with_error"

	onboardingPrefix = "onboarding_"
)

// OnboardingView identifies the view an onboarding event came from.
type OnboardingView struct {
	ID          string
	PlacementID string
	VariationID string
}

// OnboardingAnalyticsEvent is the analytics payload of an onboarding.
type OnboardingAnalyticsEvent struct {
	Name      string
	ElementID string
	Reply     string
}

// OnboardingEvent is a decoded onboarding view event. Which fields are set
// depends on ID:
//
//	close, custom, paywall   ActionID, Meta
//	state updated            Action, Meta
//	finished loading         Meta
//	analytics                Event, Meta
//	error                    Error
type OnboardingEvent struct {
	ID       string
	View     OnboardingView
	ActionID string
	Action   codec.Object
	Meta     codec.Object
	Event    OnboardingAnalyticsEvent
	Error    error
}

// ParseOnboardingEvent decodes an onboarding event. Payloads whose id does
// not start with "onboarding_" are not onboarding events and yield nil. An
// id with the prefix that names no known event is a decode error.
func ParseOnboardingEvent(input string) (*OnboardingEvent, error) {
	obj, err := parseObject(input, eventContext)
	if err != nil {
		return nil, err
	}
	return parseOnboarding(obj)
}

func parseOnboarding(obj codec.Object) (*OnboardingEvent, error) {
	id, _ := obj["id"].(string)
	if !strings.HasPrefix(id, onboardingPrefix) {
		return nil, nil
	}

	viewObj, _ := obj["view"].(codec.Object)
	ev := &OnboardingEvent{ID: id, View: OnboardingView{
		ID:          stringField(viewObj, "id"),
		PlacementID: stringField(viewObj, "placement_id"),
		VariationID: stringField(viewObj, "variation_id"),
	}}

	decodeMeta := func() error {
		meta, err := model.UiOnboardingMeta().DecodeObject(obj["meta"])
		if err != nil {
			return withPath(err, "meta")
		}
		ev.Meta = meta
		return nil
	}

	switch id {
	case OnboardingClose, OnboardingCustom, OnboardingPaywall:
		ev.ActionID = stringField(obj, "action_id")
		if err := decodeMeta(); err != nil {
			return nil, err
		}
	case OnboardingStateUpdated:
		action, err := model.UiOnboardingStateUpdatedAction().Decode(obj["action"])
		if err != nil {
			return nil, withPath(err, "action")
		}
		ev.Action = action.(codec.Object)
		if err := decodeMeta(); err != nil {
			return nil, err
		}
	case OnboardingFinishedLoading:
		if err := decodeMeta(); err != nil {
			return nil, err
		}
	case OnboardingAnalytics:
		eventObj, _ := obj["event"].(codec.Object)
		ev.Event = OnboardingAnalyticsEvent{
			Name:      stringField(eventObj, "name"),
			ElementID: stringField(eventObj, "element_id"),
			Reply:     stringField(eventObj, "reply"),
		}
		if err := decodeMeta(); err != nil {
			return nil, err
		}
	case OnboardingError:
		ec := model.NativeError()
		decoded, err := ec.Decode(obj["error"])
		if err != nil {
			return nil, withPath(err, "error")
		}
		ev.Error = ec.GetError(decoded)
	default:
		return nil, aerr.New(aerr.PhaseDecode, aerr.KindUnexpectedType).
			Path("id").
			Value(id).
			Detail("unknown onboarding event: %s", id).
			Build()
	}
	return ev, nil
}

// ParseEvent decodes any native event payload. Common events are tried
// first, then onboarding events (by id prefix), then paywall view events.
// The raw JSON object is returned alongside for routing by view id.
func ParseEvent(event, input string) (parsed any, raw codec.Object, err error) {
	raw, err = parseObject(input, eventContext)
	if err != nil {
		return nil, nil, err
	}

	if event == EventDidLoadLatestProfile {
		parsed, err = parseCommon(event, raw)
		return parsed, raw, err
	}

	if ob, err := parseOnboarding(raw); err != nil || ob != nil {
		if err != nil {
			return nil, raw, err
		}
		return ob, raw, nil
	}

	pw, err := parsePaywall(raw)
	if err != nil {
		return nil, raw, err
	}
	return pw, raw, nil
}

func stringField(obj codec.Object, key string) string {
	s, _ := obj[key].(string)
	return s
}

func withPath(err error, segment string) error {
	e, ok := aerr.As(err)
	if !ok {
		return err
	}
	cp := *e
	cp.Path = append([]string{segment}, e.Path...)
	return &cp
}
