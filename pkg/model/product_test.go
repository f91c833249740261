package model

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/adaptyteam/adapty-sdk-go/pkg/codec"
)

const androidProductFixture = `{
  "is_family_shareable": false,
  "localized_description": "Get premium features with this plan",
  "localized_title": "Yearly Premium Plan",
  "paywall_ab_test_name": "abTest1",
  "paywall_name": "Premium Subscription",
  "paywall_variation_id": "variation1",
  "region_code": "US",
  "payload_data": "examplePayloadData",
  "vendor_product_id": "yearly.premium.6999",
  "adapty_product_id": "adapty_product_id",
  "paywall_product_index": 0,
  "web_purchase_url": "https://example.com/purchase",
  "price": {"amount": 69.99, "currency_code": "USD", "currency_symbol": "$", "localized_string": "$69.99"},
  "subscription": {
    "base_plan_id": "androidPlan1",
    "renewal_type": "autorenewable",
    "period": {"unit": "year", "number_of_units": 1},
    "localized_period": "1 year",
    "offer": {
      "offer_identifier": {"type": "introductory", "id": "test_intro_offer"},
      "phases": [{
        "price": {"amount": 49.99, "currency_code": "USD", "currency_symbol": "$", "localized_string": "$49.99"},
        "number_of_periods": 2,
        "payment_mode": "pay_as_you_go",
        "subscription_period": {"unit": "month", "number_of_units": 3},
        "localized_subscription_period": "3 months",
        "localized_number_of_periods": "2"
      }],
      "offer_tags": ["tag1", "tag2"]
    }
  }
}`

const iosProductFixture = `{
  "is_family_shareable": true,
  "localized_description": "Lifetime access",
  "localized_title": "Lifetime",
  "paywall_ab_test_name": "abTest1",
  "paywall_name": "Premium Subscription",
  "paywall_variation_id": "variation1",
  "vendor_product_id": "lifetime",
  "adapty_product_id": "adapty_lifetime",
  "paywall_product_index": 1,
  "price": {"amount": 149, "currency_code": "EUR"},
  "subscription": {
    "group_identifier": "group-1",
    "period": {"unit": "month", "number_of_units": 1},
    "offer": {
      "offer_identifier": {"type": "promotional", "id": "promo"},
      "phases": []
    }
  }
}`

// TestPaywallProduct_RoundTrip verifies both store shapes survive a decode
// and encode cycle.
func TestPaywallProduct_RoundTrip(t *testing.T) {
	usePlatform(t, codec.PlatformIOS)

	for name, fixture := range map[string]string{
		"android subscription": androidProductFixture,
		"ios subscription":     iosProductFixture,
	} {
		fixture := fixture
		t.Run(name, func(t *testing.T) {
			assertRoundTrip(t, PaywallProduct(), mustWire(t, fixture))
		})
	}
}

// TestPaywallProduct_PriceIsDecimal verifies prices decode to exact
// decimals.
func TestPaywallProduct_PriceIsDecimal(t *testing.T) {
	product, err := PaywallProduct().DecodeObject(mustWire(t, androidProductFixture))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	amount := product["price"].(codec.Object)["amount"].(decimal.Decimal)
	if !amount.Equal(decimal.RequireFromString("69.99")) {
		t.Fatalf("unexpected amount %s", amount)
	}
}

// TestPaywallProduct_FamilyShareableRequiredOnIOS verifies the ios-only
// required field is enforced only on iOS.
func TestPaywallProduct_FamilyShareableRequiredOnIOS(t *testing.T) {
	wire := mustWire(t, androidProductFixture)
	delete(wire, "is_family_shareable")

	usePlatform(t, codec.PlatformAndroid)
	if _, err := PaywallProduct().Decode(wire); err != nil {
		t.Fatalf("android should accept product without is_family_shareable: %v", err)
	}

	codec.SetPlatform(codec.PlatformIOS)
	if _, err := PaywallProduct().Decode(wire); err == nil {
		t.Fatal("ios should require is_family_shareable")
	}
}

// TestSubscriptionDetails_KeepsOneBucket verifies the platform bucket
// selection driven by base_plan_id.
func TestSubscriptionDetails_KeepsOneBucket(t *testing.T) {
	tests := []struct {
		name    string
		wire    string
		keep    string
		dropped string
	}{
		{
			name:    "play store",
			wire:    `{"base_plan_id":"plan","period":{"unit":"week","number_of_units":1}}`,
			keep:    "android",
			dropped: "ios",
		},
		{
			name:    "app store",
			wire:    `{"group_identifier":"g","period":{"unit":"week","number_of_units":1}}`,
			keep:    "ios",
			dropped: "android",
		},
	}

	usePlatform(t, codec.PlatformIOS)
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got, err := SubscriptionDetails().DecodeObject(mustWire(t, tt.wire))
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if _, ok := got[tt.keep]; !ok {
				t.Fatalf("expected %s bucket in %#v", tt.keep, got)
			}
			if _, ok := got[tt.dropped]; ok {
				t.Fatalf("unexpected %s bucket in %#v", tt.dropped, got)
			}
		})
	}
}

// TestSubscriptionOffer_AndroidBucketNeedsTags verifies the android bucket
// only exists when offer tags were sent.
func TestSubscriptionOffer_AndroidBucketNeedsTags(t *testing.T) {
	without, err := SubscriptionOffer().DecodeObject(mustWire(t, `{"offer_identifier":{"type":"introductory"},"phases":[]}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, ok := without["android"]; ok {
		t.Fatalf("android bucket should be dropped: %#v", without)
	}

	with, err := SubscriptionOffer().DecodeObject(mustWire(t, `{"offer_identifier":{"type":"introductory"},"phases":[],"offer_tags":["a"]}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	tags := with["android"].(codec.Object)["offerTags"].([]any)
	if len(tags) != 1 || tags[0] != "a" {
		t.Fatalf("unexpected tags %#v", tags)
	}
}

// TestProductInput verifies the purchase projection of a product.
func TestProductInput(t *testing.T) {
	usePlatform(t, codec.PlatformAndroid)

	product, err := PaywallProduct().DecodeObject(mustWire(t, androidProductFixture))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	input, err := ProductInput(product)
	if err != nil {
		t.Fatalf("input: %v", err)
	}

	want := `{"adapty_product_id":"adapty_product_id","payload_data":"examplePayloadData",` +
		`"paywall_ab_test_name":"abTest1","paywall_name":"Premium Subscription",` +
		`"paywall_product_index":0,"paywall_variation_id":"variation1",` +
		`"subscription_offer_identifier":{"id":"test_intro_offer","type":"introductory"},` +
		`"vendor_product_id":"yearly.premium.6999"}`
	if got := canonical(t, input); got != want {
		t.Fatalf("got  %s\nwant %s", got, want)
	}
}
