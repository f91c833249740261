package model

import (
	"github.com/adaptyteam/adapty-sdk-go/pkg/codec"
	aerr "github.com/adaptyteam/adapty-sdk-go/pkg/errors"
)

// Purchase result types reported by make_purchase.
const (
	PurchaseSuccess       = "success"
	PurchasePending       = "pending"
	PurchaseUserCancelled = "user_cancelled"
)

var purchaseResultTypeCoder = codec.NewCoder("AdaptyPurchaseResult", codec.Properties{
	Fields: []codec.Field{
		codec.Required("type", "type", codec.TypeString),
	},
})

// PurchaseResultCoder converts make_purchase results. A successful result
// must carry the updated profile.
type PurchaseResultCoder struct{}

// PurchaseResult returns the purchase result converter.
func PurchaseResult() PurchaseResultCoder { return PurchaseResultCoder{} }

// Decode decodes a purchase result; a success carries the profile.
func (PurchaseResultCoder) Decode(v any) (any, error) {
	base, err := purchaseResultTypeCoder.DecodeObject(v)
	if err != nil {
		return nil, err
	}
	if base["type"] != PurchaseSuccess {
		return base, nil
	}

	wire, _ := v.(codec.Object)
	raw, ok := wire["profile"]
	if !ok || raw == nil {
		return nil, aerr.New(aerr.PhaseDecode, aerr.KindFieldMissing).
			Path("profile").
			Detail("profile is required for success type of purchase result").
			Build()
	}
	profile, err := profileCoder.Decode(raw)
	if err != nil {
		return nil, err
	}
	base["profile"] = profile
	return base, nil
}

// Encode is the inverse of Decode.
func (PurchaseResultCoder) Encode(v any) (any, error) {
	m, ok := v.(codec.Object)
	if !ok {
		return nil, aerr.FailedToEncode("purchase result must be an object, got %s", codec.TypeName(v))
	}
	if m["type"] != PurchaseSuccess {
		return purchaseResultTypeCoder.Encode(codec.Object{"type": m["type"]})
	}

	profile, ok := m["profile"]
	if !ok || profile == nil {
		return nil, aerr.New(aerr.PhaseEncode, aerr.KindFieldMissing).
			Path("profile").
			Detail("profile is required for success type of purchase result").
			Build()
	}
	encoded, err := profileCoder.Encode(profile)
	if err != nil {
		return nil, err
	}
	return codec.Object{"type": PurchaseSuccess, "profile": encoded}, nil
}

// ReplacementMode controls how an android subscription change is prorated.
type ReplacementMode string

const (
	ReplacementChargeFullPrice     ReplacementMode = "charge_full_price"
	ReplacementDeferred            ReplacementMode = "deferred"
	ReplacementWithoutProration    ReplacementMode = "without_proration"
	ReplacementChargeProratedPrice ReplacementMode = "charge_prorated_price"
	ReplacementWithTimeProration   ReplacementMode = "with_time_proration"
)

// SubscriptionUpdateParams replaces an existing android subscription.
type SubscriptionUpdateParams struct {
	OldSubVendorProductID string
	ProrationMode         ReplacementMode
}

// AndroidPurchaseParams holds Play Store specific purchase options.
type AndroidPurchaseParams struct {
	SubscriptionUpdateParams *SubscriptionUpdateParams
	IsOfferPersonalized      *bool
	ObfuscatedAccountID      string
	ObfuscatedProfileID      string

	// Deprecated: use SubscriptionUpdateParams.
	OldSubVendorProductID string
	// Deprecated: use SubscriptionUpdateParams.
	ProrationMode ReplacementMode
}

// MakePurchaseParams are optional purchase options. They only have effect on
// android.
type MakePurchaseParams struct {
	Android *AndroidPurchaseParams
}

func (p *AndroidPurchaseParams) deprecatedShape() bool {
	return p.OldSubVendorProductID != "" && p.ProrationMode != ""
}

// EncodePurchaseParams renders purchase options for the native side. The
// result is always empty on iOS.
func EncodePurchaseParams(p *MakePurchaseParams) codec.Object {
	out := codec.Object{}
	if codec.CurrentPlatform() != codec.PlatformAndroid || p == nil || p.Android == nil {
		return out
	}
	a := p.Android

	if a.deprecatedShape() {
		out["subscription_update_params"] = codec.Object{
			"replacement_mode":          string(a.ProrationMode),
			"old_sub_vendor_product_id": a.OldSubVendorProductID,
		}
		if a.IsOfferPersonalized != nil && *a.IsOfferPersonalized {
			out["is_offer_personalized"] = true
		}
		return out
	}

	if u := a.SubscriptionUpdateParams; u != nil {
		out["subscription_update_params"] = codec.Object{
			"replacement_mode":          string(u.ProrationMode),
			"old_sub_vendor_product_id": u.OldSubVendorProductID,
		}
	}
	if a.IsOfferPersonalized != nil {
		out["is_offer_personalized"] = *a.IsOfferPersonalized
	}
	if a.ObfuscatedAccountID != "" {
		out["obfuscated_account_id"] = a.ObfuscatedAccountID
	}
	if a.ObfuscatedProfileID != "" {
		out["obfuscated_profile_id"] = a.ObfuscatedProfileID
	}
	return out
}

// IdentifyParams carry per-platform customer identity values sent with
// identify.
type IdentifyParams struct {
	IOS struct {
		AppAccountToken string
	}
	Android struct {
		ObfuscatedAccountID string
	}
}

// EncodeIdentifyParams returns the wire params for the running platform, or
// nil when nothing applies.
func EncodeIdentifyParams(p *IdentifyParams) codec.Object {
	if p == nil {
		return nil
	}
	out := codec.Object{}
	switch codec.CurrentPlatform() {
	case codec.PlatformIOS:
		if p.IOS.AppAccountToken != "" {
			out["app_account_token"] = p.IOS.AppAccountToken
		}
	case codec.PlatformAndroid:
		if p.Android.ObfuscatedAccountID != "" {
			out["obfuscated_account_id"] = p.Android.ObfuscatedAccountID
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
