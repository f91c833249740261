package mock

import (
	"maps"
	"time"

	"github.com/shopspring/decimal"

	"github.com/adaptyteam/adapty-sdk-go/pkg/codec"
)

// Fixed identifiers used by the generated data.
const (
	ProfileID              = "mock_profile_id"
	CustomerUserID         = "mock_customer_user_id"
	VariationID            = "mock_variation_id"
	OnboardingVariationID  = "mock_onboarding_variation_id"
	AccessLevelPremium     = "premium"
	VendorProductMonthly   = "mock_product_monthly"
	VendorProductAnnual    = "mock_product_annual"
	WebPaywallURL          = "https://mock-web-paywall-url.adapty.io"
	premiumVendorProductID = "mock_premium_product"
)

func merge(base, overrides codec.Object) codec.Object {
	maps.Copy(base, overrides)
	return base
}

func newProfile(overrides codec.Object) codec.Object {
	return merge(codec.Object{
		"profileId":        ProfileID,
		"customerUserId":   CustomerUserID,
		"accessLevels":     codec.Object{},
		"subscriptions":    codec.Object{},
		"nonSubscriptions": codec.Object{},
		"customAttributes": codec.Object{},
	}, overrides)
}

func newPremiumAccessLevel(id string, now time.Time) codec.Object {
	return codec.Object{
		"id":              id,
		"isActive":        true,
		"vendorProductId": premiumVendorProductID,
		"store":           "adapty",
		"activatedAt":     now,
		"renewedAt":       now,
		"startsAt":        now,
		"expiresAt":       now.AddDate(1, 0, 0),
		"isLifetime":      false,
		"isInGracePeriod": false,
		"isRefund":        false,
		"willRenew":       true,
	}
}

func newSubscription(now time.Time) codec.Object {
	return codec.Object{
		"isActive":                    true,
		"isLifetime":                  false,
		"vendorProductId":             VendorProductAnnual,
		"store":                       "adapty",
		"vendorTransactionId":         "2000001082537697",
		"vendorOriginalTransactionId": "2000000971279249",
		"activatedAt":                 now,
		"renewedAt":                   now,
		"expiresAt":                   now.AddDate(1, 0, 0),
		"unsubscribedAt":              now.AddDate(1, 0, 0),
		"willRenew":                   false,
		"isInGracePeriod":             false,
		"isRefund":                    false,
		"isSandbox":                   true,
	}
}

func newPlacement(placementID, abTest, audienceVersion string) codec.Object {
	return codec.Object{
		"id":                  placementID,
		"abTestName":          abTest,
		"audienceName":        "All Users",
		"revision":            1,
		"audienceVersionId":   audienceVersion,
		"isTrackingPurchases": true,
	}
}

func newPaywall(placementID string, overrides codec.Object) codec.Object {
	return merge(codec.Object{
		"id":          "mock_paywall_" + placementID,
		"placement":   newPlacement(placementID, "Mock A/B Test", "mock_audience_v1"),
		"name":        "Mock Paywall for " + placementID,
		"variationId": VariationID,
		"products": []any{
			codec.Object{"vendorId": VendorProductMonthly, "adaptyId": "mock_adapty_monthly"},
			codec.Object{"vendorId": VendorProductAnnual, "adaptyId": "mock_adapty_annual"},
		},
		"remoteConfig": codec.Object{
			"lang": "en",
			"data": codec.Object{"title": "Get Premium Access", "features": []any{"Feature 1", "Feature 2"}},
		},
		"paywallBuilder": codec.Object{"id": "mock_builder_" + placementID, "lang": "en"},
		"version":        1,
	}, overrides)
}

func newProduct(paywall codec.Object, vendorID, adaptyID, title, description, amount, unit string, index int) codec.Object {
	placement, _ := paywall["placement"].(codec.Object)

	subscription := codec.Object{
		"subscriptionPeriod":          codec.Object{"numberOfUnits": 1, "unit": unit},
		"localizedSubscriptionPeriod": "1 " + unit,
	}
	// Play Store subscriptions are identified by their base plan.
	if codec.CurrentPlatform() == codec.PlatformAndroid {
		subscription["android"] = codec.Object{"basePlanId": unit + "-autorenew", "renewalType": "autorenewable"}
	} else {
		subscription["ios"] = codec.Object{"subscriptionGroupIdentifier": "mock_group"}
	}

	return codec.Object{
		"vendorProductId":      vendorID,
		"adaptyId":             adaptyID,
		"localizedTitle":       title,
		"localizedDescription": description,
		"paywallName":          paywall["name"],
		"paywallABTestName":    placement["abTestName"],
		"variationId":          paywall["variationId"],
		"paywallProductIndex":  index,
		"price": codec.Object{
			"amount":          decimal.RequireFromString(amount),
			"currencyCode":    "USD",
			"currencySymbol":  "$",
			"localizedString": "$" + amount,
		},
		"subscription": subscription,
		"ios":          codec.Object{"isFamilyShareable": false},
	}
}

func newProducts(paywall codec.Object) []any {
	return []any{
		newProduct(paywall, VendorProductMonthly, "mock_adapty_monthly",
			"Premium Monthly", "Get premium access for 1 month", "9.99", "month", 0),
		newProduct(paywall, VendorProductAnnual, "mock_adapty_annual",
			"Premium Annual", "Get premium access for 1 year", "99.99", "year", 1),
	}
}

func newOnboarding(placementID string, overrides codec.Object) codec.Object {
	return merge(codec.Object{
		"id":          "mock_onboarding_" + placementID,
		"placement":   newPlacement(placementID, "Mock Onboarding A/B Test", "mock_onboarding_audience_v1"),
		"name":        "Mock Onboarding for " + placementID,
		"variationId": OnboardingVariationID,
		"version":     1,
		"remoteConfig": codec.Object{
			"lang": "en",
			"data": codec.Object{"screens": []any{"Welcome", "Features", "Pricing"}},
		},
		"onboardingBuilder": codec.Object{"url": "https://mock-onboarding.adapty.io/" + placementID, "lang": "en"},
	}, overrides)
}
