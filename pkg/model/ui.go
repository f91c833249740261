package model

import (
	"github.com/adaptyteam/adapty-sdk-go/pkg/codec"
	aerr "github.com/adaptyteam/adapty-sdk-go/pkg/errors"
)

var (
	uiMediaCacheCoder = codec.NewCoder("AdaptyUiMediaCache", codec.Properties{
		Fields: []codec.Field{
			codec.Optional("memoryStorageTotalCostLimit", "memory_storage_total_cost_limit", codec.TypeNumber),
			codec.Optional("memoryStorageCountLimit", "memory_storage_count_limit", codec.TypeNumber),
			codec.Optional("diskStorageSizeLimit", "disk_storage_size_limit", codec.TypeNumber),
		},
	})

	uiDialogConfigCoder = codec.NewCoder("AdaptyUI.DialogConfiguration", codec.Properties{
		Fields: []codec.Field{
			codec.Required("primaryActionTitle", "default_action_title", codec.TypeString),
			codec.Optional("secondaryActionTitle", "secondary_action_title", codec.TypeString),
			codec.Optional("title", "title", codec.TypeString),
			codec.Optional("content", "content", codec.TypeString),
		},
	})

	uiOnboardingMetaCoder = codec.NewCoder("AdaptyUI.OnboardingMeta", codec.Properties{
		Fields: []codec.Field{
			codec.Required("onboardingId", "onboarding_id", codec.TypeString),
			codec.Required("screenClientId", "screen_cid", codec.TypeString),
			codec.Required("screenIndex", "screen_index", codec.TypeNumber),
			codec.Required("totalScreens", "total_screens", codec.TypeNumber),
		},
	})

	uiOnboardingStateParamsCoder = codec.NewCoder("AdaptyUI.OnboardingsStateParams", codec.Properties{
		Fields: []codec.Field{
			codec.Required("id", "id", codec.TypeString),
			codec.Required("value", "value", codec.TypeString),
			codec.Required("label", "label", codec.TypeString),
		},
	})

	stateUpdatedActionBaseCoder = codec.NewCoder("OnboardingStateUpdatedAction", codec.Properties{
		Fields: []codec.Field{
			codec.Required("elementId", "element_id", codec.TypeString),
			codec.Required("elementType", "element_type", codec.TypeString),
		},
	})
)

// UiMediaCache encodes the view media cache limits.
func UiMediaCache() *codec.Coder { return uiMediaCacheCoder }

// UiDialogConfig encodes a dialog shown over a view.
func UiDialogConfig() *codec.Coder { return uiDialogConfigCoder }

// UiOnboardingMeta decodes the screen metadata sent with onboarding events.
func UiOnboardingMeta() *codec.Coder { return uiOnboardingMetaCoder }

// UiOnboardingStateParams decodes the parameters of an onboarding input.
func UiOnboardingStateParams() *codec.Coder { return uiOnboardingStateParamsCoder }

// Onboarding input element types.
const (
	ElementSelect      = "select"
	ElementMultiSelect = "multi_select"
	ElementInput       = "input"
	ElementDatePicker  = "date_picker"
)

// StateUpdatedActionCoder converts the action of an onboarding state update.
// The shape of value depends on element_type.
type StateUpdatedActionCoder struct{}

// UiOnboardingStateUpdatedAction returns the state-updated action converter.
func UiOnboardingStateUpdatedAction() StateUpdatedActionCoder { return StateUpdatedActionCoder{} }

// Decode decodes the element id, meta and the value typed by element type.
func (StateUpdatedActionCoder) Decode(v any) (any, error) {
	base, err := stateUpdatedActionBaseCoder.DecodeObject(v)
	if err != nil {
		return nil, err
	}
	wire, _ := v.(codec.Object)
	value := wire["value"]

	switch t := base["elementType"]; t {
	case ElementSelect:
		decoded, err := uiOnboardingStateParamsCoder.Decode(value)
		if err != nil {
			return nil, withPath(err, "value")
		}
		base["value"] = decoded
	case ElementMultiSelect:
		items, ok := value.([]any)
		if !ok {
			base["value"] = []any{}
			break
		}
		decoded, err := codec.NewArrayCoder(uiOnboardingStateParamsCoder).Decode(items)
		if err != nil {
			return nil, withPath(err, "value")
		}
		base["value"] = decoded
	case ElementInput, ElementDatePicker:
		base["value"] = value
	default:
		return nil, aerr.New(aerr.PhaseDecode, aerr.KindInvalidData).
			Path("elementType").
			Value(t).
			Detail("unknown element_type: %v", t).
			Build()
	}
	return base, nil
}

// Encode is the inverse of Decode.
func (StateUpdatedActionCoder) Encode(v any) (any, error) {
	m, ok := v.(codec.Object)
	if !ok {
		return nil, aerr.FailedToEncode("state updated action must be an object, got %s", codec.TypeName(v))
	}
	base, err := stateUpdatedActionBaseCoder.EncodeObject(codec.Object{
		"elementId":   m["elementId"],
		"elementType": m["elementType"],
	})
	if err != nil {
		return nil, err
	}

	switch t := m["elementType"]; t {
	case ElementSelect:
		encoded, err := uiOnboardingStateParamsCoder.Encode(m["value"])
		if err != nil {
			return nil, err
		}
		base["value"] = encoded
	case ElementMultiSelect:
		encoded, err := codec.NewArrayCoder(uiOnboardingStateParamsCoder).Encode(m["value"])
		if err != nil {
			return nil, err
		}
		base["value"] = encoded
	case ElementInput, ElementDatePicker:
		base["value"] = m["value"]
	default:
		return nil, aerr.FailedToEncode("unknown elementType: %v", t)
	}
	return base, nil
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
