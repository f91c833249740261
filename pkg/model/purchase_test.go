package model

import (
	"testing"

	"github.com/adaptyteam/adapty-sdk-go/pkg/codec"
	aerr "github.com/adaptyteam/adapty-sdk-go/pkg/errors"
)

// TestPurchaseResult verifies the success, pending and cancelled shapes.
func TestPurchaseResult(t *testing.T) {
	profile := `{"profile_id":"p-1"}`

	t.Run("success round trip", func(t *testing.T) {
		decoded := assertRoundTrip(t, PurchaseResult(), mustWire(t, `{"type":"success","profile":`+profile+`}`)).(codec.Object)
		if decoded["profile"].(codec.Object)["profileId"] != "p-1" {
			t.Fatalf("profile not decoded: %#v", decoded)
		}
	})

	t.Run("success without profile", func(t *testing.T) {
		_, err := PurchaseResult().Decode(codec.Object{"type": "success"})
		if !aerr.IsDecodeError(err) {
			t.Fatalf("expected decode error, got %v", err)
		}
		if _, err := PurchaseResult().Encode(codec.Object{"type": "success"}); !aerr.IsEncodeError(err) {
			t.Fatalf("expected encode error, got %v", err)
		}
	})

	for _, typ := range []string{PurchasePending, PurchaseUserCancelled} {
		typ := typ
		t.Run(typ, func(t *testing.T) {
			decoded := assertRoundTrip(t, PurchaseResult(), codec.Object{"type": typ}).(codec.Object)
			if _, ok := decoded["profile"]; ok {
				t.Fatalf("unexpected profile in %#v", decoded)
			}
		})
	}
}

// TestEncodePurchaseParams covers the platform gate and both android shapes.
func TestEncodePurchaseParams(t *testing.T) {
	yes := true
	no := false

	tests := []struct {
		name     string
		platform codec.Platform
		params   *MakePurchaseParams
		want     string
	}{
		{
			name:     "ios ignores params",
			platform: codec.PlatformIOS,
			params:   &MakePurchaseParams{Android: &AndroidPurchaseParams{ObfuscatedAccountID: "acc"}},
			want:     `{}`,
		},
		{
			name:     "android nil",
			platform: codec.PlatformAndroid,
			want:     `{}`,
		},
		{
			name:     "android full",
			platform: codec.PlatformAndroid,
			params: &MakePurchaseParams{Android: &AndroidPurchaseParams{
				SubscriptionUpdateParams: &SubscriptionUpdateParams{
					OldSubVendorProductID: "old",
					ProrationMode:         ReplacementChargeProratedPrice,
				},
				IsOfferPersonalized: &no,
				ObfuscatedAccountID: "acc",
				ObfuscatedProfileID: "prof",
			}},
			want: `{"is_offer_personalized":false,"obfuscated_account_id":"acc","obfuscated_profile_id":"prof",` +
				`"subscription_update_params":{"old_sub_vendor_product_id":"old","replacement_mode":"charge_prorated_price"}}`,
		},
		{
			name:     "android deprecated",
			platform: codec.PlatformAndroid,
			params: &MakePurchaseParams{Android: &AndroidPurchaseParams{
				OldSubVendorProductID: "old",
				ProrationMode:         ReplacementDeferred,
				IsOfferPersonalized:   &yes,
				ObfuscatedAccountID:   "ignored",
			}},
			want: `{"is_offer_personalized":true,"subscription_update_params":{"old_sub_vendor_product_id":"old","replacement_mode":"deferred"}}`,
		},
		{
			name:     "android deprecated not personalized",
			platform: codec.PlatformAndroid,
			params: &MakePurchaseParams{Android: &AndroidPurchaseParams{
				OldSubVendorProductID: "old",
				ProrationMode:         ReplacementDeferred,
				IsOfferPersonalized:   &no,
			}},
			want: `{"subscription_update_params":{"old_sub_vendor_product_id":"old","replacement_mode":"deferred"}}`,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			usePlatform(t, tt.platform)
			if got := canonical(t, EncodePurchaseParams(tt.params)); got != tt.want {
				t.Fatalf("got  %s\nwant %s", got, tt.want)
			}
		})
	}
}

// TestEncodeIdentifyParams verifies per-platform selection and the nil
// result for empty params.
func TestEncodeIdentifyParams(t *testing.T) {
	p := &IdentifyParams{}
	p.IOS.AppAccountToken = "token"
	p.Android.ObfuscatedAccountID = "acc"

	usePlatform(t, codec.PlatformIOS)
	if got := canonical(t, EncodeIdentifyParams(p)); got != `{"app_account_token":"token"}` {
		t.Fatalf("ios: %s", got)
	}

	codec.SetPlatform(codec.PlatformAndroid)
	if got := canonical(t, EncodeIdentifyParams(p)); got != `{"obfuscated_account_id":"acc"}` {
		t.Fatalf("android: %s", got)
	}

	if EncodeIdentifyParams(nil) != nil {
		t.Fatal("nil params must encode to nil")
	}
	if EncodeIdentifyParams(&IdentifyParams{}) != nil {
		t.Fatal("empty params must encode to nil")
	}
}

// TestNativeError verifies the error branch converter.
func TestNativeError(t *testing.T) {
	c := NativeError()
	decoded, err := c.Decode(mustWire(t, `{"adapty_code":1003,"message":"Product purchase failed","detail":"StoreKit"}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	got := c.GetError(decoded)
	ae, ok := aerr.AsAdaptyError(got)
	if !ok {
		t.Fatalf("expected AdaptyError, got %T", got)
	}
	if ae.Code != 1003 || ae.Message != "Product purchase failed" || ae.Detail != "StoreKit" {
		t.Fatalf("unexpected error %+v", ae)
	}

	if _, err := c.Decode(codec.Object{"message": "no code"}); err == nil {
		t.Fatal("expected error without adapty_code")
	}
}

// TestBridgeError verifies the bridge error table.
func TestBridgeError(t *testing.T) {
	decoded := assertRoundTrip(t, BridgeError(), mustWire(t,
		`{"error_type":"typeMismatch","name":"params","type":"String","parent_error":"x","description":"bad"}`)).(codec.Object)
	if decoded["underlyingError"] != "x" {
		t.Fatalf("unexpected decode %#v", decoded)
	}
}
