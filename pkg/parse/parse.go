package parse

import (
	"github.com/adaptyteam/adapty-sdk-go/internal/jsonutil"
	"github.com/adaptyteam/adapty-sdk-go/pkg/codec"
	aerr "github.com/adaptyteam/adapty-sdk-go/pkg/errors"
	"github.com/adaptyteam/adapty-sdk-go/pkg/model"
)

// Type is the logical result type a native method declares. It selects the
// coder used to decode the success payload.
type Type string

const (
	TypeAdaptyError                          Type = "AdaptyError"
	TypeAdaptyProfile                        Type = "AdaptyProfile"
	TypeAdaptyPurchaseResult                 Type = "AdaptyPurchaseResult"
	TypeAdaptyPaywall                        Type = "AdaptyPaywall"
	TypeAdaptyPaywallProduct                 Type = "AdaptyPaywallProduct"
	TypeAdaptyOnboarding                     Type = "AdaptyOnboarding"
	TypeAdaptyRemoteConfig                   Type = "AdaptyRemoteConfig"
	TypeAdaptyPaywallBuilder                 Type = "AdaptyPaywallBuilder"
	TypeAdaptyUiView                         Type = "AdaptyUiView"
	TypeAdaptyUiDialogActionType             Type = "AdaptyUiDialogActionType"
	TypeAdaptyUiOnboardingMeta               Type = "AdaptyUiOnboardingMeta"
	TypeAdaptyUiOnboardingStateParams        Type = "AdaptyUiOnboardingStateParams"
	TypeAdaptyUiOnboardingStateUpdatedAction Type = "AdaptyUiOnboardingStateUpdatedAction"
	TypeAdaptyInstallationStatus             Type = "AdaptyInstallationStatus"
	TypeArrayOfPaywallProduct                Type = "Array<AdaptyPaywallProduct>"
	TypeBridgeError                          Type = "BridgeError"
	TypeString                               Type = "String"
	TypeBoolean                              Type = "Boolean"
	TypeVoid                                 Type = "Void"
)

// Passthrough reports whether values of type t are returned without coding.
func (t Type) Passthrough() bool {
	switch t {
	case TypeString, TypeBoolean, TypeVoid, TypeAdaptyUiView, TypeAdaptyUiDialogActionType:
		return true
	}
	return false
}

// GetCoder returns the converter bound to t. Passthrough types have no
// coder and are reported as unexpected.
func GetCoder(t Type) (codec.Converter, error) {
	switch t {
	case TypeAdaptyError:
		return model.NativeError(), nil
	case TypeAdaptyProfile:
		return model.Profile(), nil
	case TypeAdaptyPaywall:
		return model.Paywall(), nil
	case TypeAdaptyPaywallProduct:
		return model.PaywallProduct(), nil
	case TypeAdaptyRemoteConfig:
		return model.RemoteConfig(), nil
	case TypeAdaptyPaywallBuilder:
		return model.PaywallBuilder(), nil
	case TypeAdaptyOnboarding:
		return model.Onboarding(), nil
	case TypeAdaptyPurchaseResult:
		return model.PurchaseResult(), nil
	case TypeAdaptyUiOnboardingMeta:
		return model.UiOnboardingMeta(), nil
	case TypeAdaptyUiOnboardingStateParams:
		return model.UiOnboardingStateParams(), nil
	case TypeAdaptyUiOnboardingStateUpdatedAction:
		return model.UiOnboardingStateUpdatedAction(), nil
	case TypeAdaptyInstallationStatus:
		return model.InstallationStatus(), nil
	case TypeBridgeError:
		return model.BridgeError(), nil
	case TypeArrayOfPaywallProduct:
		return model.PaywallProducts(), nil
	}
	return nil, aerr.New(aerr.PhaseDecode, aerr.KindUnexpectedType).
		Value(string(t)).
		Detail("failed to decode native response, because it has unexpected type: %s", t).
		Build()
}

// ParseMethodResult decodes a native response envelope. The envelope holds
// either a success payload, decoded according to resultType, or an error
// payload, which is returned as an *errors.AdaptyError regardless of
// resultType.
func ParseMethodResult(input string, resultType Type) (any, error) {
	envelope, err := parseObject(input, "failed to decode native response. JSON.parse raised an error")
	if err != nil {
		return nil, err
	}

	if success, ok := envelope["success"]; ok {
		if resultType.Passthrough() {
			return success, nil
		}
		c, err := GetCoder(resultType)
		if err != nil {
			return nil, err
		}
		return c.Decode(success)
	}

	if nativeErr, ok := envelope["error"]; ok {
		ec := model.NativeError()
		decoded, err := ec.Decode(nativeErr)
		if err != nil {
			return nil, err
		}
		return nil, ec.GetError(decoded)
	}

	return nil, aerr.FailedToDecode(`failed to decode native response. Response does not have expected "success" or "error" property`)
}

func parseObject(input, context string) (codec.Object, error) {
	v, err := jsonutil.UnmarshalString(input)
	if err != nil {
		return nil, aerr.InvalidJSON(err, context)
	}
	obj, ok := v.(codec.Object)
	if !ok {
		return nil, aerr.New(aerr.PhaseDecode, aerr.KindTypeMismatch).
			Types(string(codec.TypeObject), codec.TypeName(v)).
			Detail("%s", context).
			Build()
	}
	return obj, nil
}
