package model

import (
	"testing"
	"time"

	"github.com/adaptyteam/adapty-sdk-go/pkg/codec"
)

const profileFixture = `{
  "profile_id": "57739865-5a1b-4a88-8b32-3bcbe1d7a47c",
  "customer_user_id": "user-42",
  "custom_attributes": {"plan": "gold", "score": 10},
  "paid_access_levels": {
    "premium": {
      "id": "premium",
      "is_active": true,
      "is_lifetime": false,
      "is_refund": false,
      "will_renew": true,
      "is_in_grace_period": false,
      "vendor_product_id": "monthly.premium",
      "store": "app_store",
      "activated_at": "2023-08-01T10:00:00.000Z",
      "expires_at": "2023-09-01T10:00:00.000Z",
      "offer_id": "android-offer"
    }
  },
  "subscriptions": {
    "monthly.premium": {
      "is_active": true,
      "is_lifetime": false,
      "vendor_product_id": "monthly.premium",
      "store": "app_store",
      "vendor_transaction_id": "tx-1",
      "vendor_original_transaction_id": "tx-0",
      "activated_at": "2023-08-01T10:00:00.000Z",
      "will_renew": true,
      "is_in_grace_period": false,
      "is_refund": false,
      "is_sandbox": true,
      "renewed_at": "2023-08-15T10:00:00.000Z"
    }
  },
  "non_subscriptions": {
    "coins.100": [
      {
        "purchase_id": "p-1",
        "store": "play_store",
        "vendor_product_id": "coins.100",
        "purchased_at": "2023-07-01T09:30:00.123Z",
        "is_consumable": true,
        "is_refund": false,
        "is_sandbox": false
      }
    ]
  }
}`

// TestProfile_RoundTrip verifies a full profile decodes and encodes back to
// the same wire object.
func TestProfile_RoundTrip(t *testing.T) {
	usePlatform(t, codec.PlatformIOS)

	decoded := assertRoundTrip(t, Profile(), mustWire(t, profileFixture)).(codec.Object)

	if decoded["profileId"] != "57739865-5a1b-4a88-8b32-3bcbe1d7a47c" {
		t.Fatalf("unexpected profileId %v", decoded["profileId"])
	}
	premium := decoded["accessLevels"].(codec.Object)["premium"].(codec.Object)
	expires, ok := premium["expiresAt"].(time.Time)
	if !ok || !expires.Equal(time.Date(2023, 9, 1, 10, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected expiresAt %#v", premium["expiresAt"])
	}
	if premium["android"].(codec.Object)["offerId"] != "android-offer" {
		t.Fatalf("android bucket not decoded: %#v", premium["android"])
	}

	purchases := decoded["nonSubscriptions"].(codec.Object)["coins.100"].([]any)
	if len(purchases) != 1 {
		t.Fatalf("expected one purchase, got %d", len(purchases))
	}
}

// TestProfile_MissingProfileID verifies the only required profile field is
// enforced.
func TestProfile_MissingProfileID(t *testing.T) {
	if _, err := Profile().Decode(codec.Object{"customer_user_id": "x"}); err == nil {
		t.Fatal("expected error for missing profile_id")
	}
}

// TestHasActiveAccessLevel verifies access level lookup on decoded profiles.
func TestHasActiveAccessLevel(t *testing.T) {
	decoded, err := Profile().DecodeObject(mustWire(t, profileFixture))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !HasActiveAccessLevel(decoded, "premium") {
		t.Fatal("premium should be active")
	}
	if HasActiveAccessLevel(decoded, "vip") {
		t.Fatal("vip does not exist")
	}
	if HasActiveAccessLevel(codec.Object{}, "premium") {
		t.Fatal("empty profile has no access levels")
	}
}

// TestProfileParameters_Encode verifies logical names map to wire keys.
func TestProfileParameters_Encode(t *testing.T) {
	wire, err := ProfileParameters().EncodeObject(codec.Object{
		"firstName":                     "Ada",
		"appTrackingTransparencyStatus": 3,
		"codableCustomAttributes":       codec.Object{"k": "v"},
		"analyticsDisabled":             true,
	})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	want := `{"analytics_disabled":true,"att_status":3,"custom_attributes":{"k":"v"},"first_name":"Ada"}`
	if got := canonical(t, wire); got != want {
		t.Fatalf("got %s, want %s", got, want)
	}

	if _, err := ProfileParameters().Encode(codec.Object{"nickname": "x"}); err == nil {
		t.Fatal("expected error for unknown parameter")
	}
}
