package model

import (
	"github.com/adaptyteam/adapty-sdk-go/internal/jsonutil"
	"github.com/adaptyteam/adapty-sdk-go/pkg/codec"
)

var (
	placementCoder = codec.NewCoder("AdaptyPlacement", codec.Properties{
		Fields: []codec.Field{
			codec.Required("abTestName", "ab_test_name", codec.TypeString),
			codec.Required("audienceName", "audience_name", codec.TypeString),
			codec.Required("id", "developer_id", codec.TypeString),
			codec.Required("revision", "revision", codec.TypeNumber),
			codec.Required("audienceVersionId", "placement_audience_version_id", codec.TypeString),
			codec.Optional("isTrackingPurchases", "is_tracking_purchases", codec.TypeBoolean),
		},
	})

	productReferenceCoder = codec.NewCoder("AdaptyPaywall.ProductReference", codec.Properties{
		Fields: []codec.Field{
			codec.Required("vendorId", "vendor_product_id", codec.TypeString),
			codec.Required("adaptyId", "adapty_product_id", codec.TypeString),
		},
		IOS: []codec.Field{
			codec.Optional("promotionalOfferId", "promotional_offer_id", codec.TypeString),
			codec.Optional("winBackOfferId", "win_back_offer_id", codec.TypeString),
		},
		Android: []codec.Field{
			codec.Optional("basePlanId", "base_plan_id", codec.TypeString),
			codec.Optional("offerId", "offer_id", codec.TypeString),
		},
	})

	// remote_config.data is a JSON document serialized into a string. The
	// decoded model also carries it re-serialized as dataString.
	remoteConfigCoder = codec.NewCoder("AdaptyRemoteConfig", codec.Properties{
		Fields: []codec.Field{
			codec.Required("data", "data", codec.TypeString, codec.JSONCoder{}),
			codec.Required("lang", "lang", codec.TypeString),
		},
	},
		codec.WithAfterDecode(func(_, m codec.Object) (codec.Object, error) {
			s, err := jsonutil.MarshalString(m["data"])
			if err != nil {
				return nil, err
			}
			if len(s) < 4 {
				s = ""
			}
			m["dataString"] = s
			return m, nil
		}),
		codec.WithoutFields("dataString"),
	)

	paywallBuilderCoder = codec.NewCoder("AdaptyPaywallBuilder", codec.Properties{
		Fields: []codec.Field{
			codec.Required("id", "paywall_builder_id", codec.TypeString),
			codec.Required("lang", "lang", codec.TypeString),
		},
	})

	onboardingBuilderCoder = codec.NewCoder("AdaptyOnboardingBuilder", codec.Properties{
		Fields: []codec.Field{
			codec.Required("url", "config_url", codec.TypeString),
			codec.Required("lang", "lang", codec.TypeString),
		},
	})

	paywallCoder = codec.NewCoder("AdaptyPaywall", codec.Properties{
		Fields: []codec.Field{
			codec.Required("placement", "placement", codec.TypeObject, placementCoder),
			codec.Required("id", "paywall_id", codec.TypeString),
			codec.Required("name", "paywall_name", codec.TypeString),
			codec.Required("products", "products", codec.TypeArray, codec.NewArrayCoder(productReferenceCoder)),
			codec.Optional("remoteConfig", "remote_config", codec.TypeObject, remoteConfigCoder),
			codec.Required("variationId", "variation_id", codec.TypeString),
			codec.Optional("version", "response_created_at", codec.TypeNumber),
			codec.Optional("paywallBuilder", "paywall_builder", codec.TypeObject, paywallBuilderCoder),
			codec.Optional("webPurchaseUrl", "web_purchase_url", codec.TypeString),
			codec.Optional("payloadData", "payload_data", codec.TypeString),
		},
	},
		codec.WithAfterDecode(hasViewConfiguration("paywallBuilder")),
		codec.WithoutFields("hasViewConfiguration"),
	)

	onboardingCoder = codec.NewCoder("AdaptyOnboarding", codec.Properties{
		Fields: []codec.Field{
			codec.Required("placement", "placement", codec.TypeObject, placementCoder),
			codec.Required("id", "onboarding_id", codec.TypeString),
			codec.Required("name", "onboarding_name", codec.TypeString),
			codec.Optional("remoteConfig", "remote_config", codec.TypeObject, remoteConfigCoder),
			codec.Required("variationId", "variation_id", codec.TypeString),
			codec.Optional("version", "response_created_at", codec.TypeNumber),
			codec.Optional("onboardingBuilder", "onboarding_builder", codec.TypeObject, onboardingBuilderCoder),
			codec.Optional("payloadData", "payload_data", codec.TypeString),
		},
	},
		codec.WithAfterDecode(hasViewConfiguration("onboardingBuilder")),
		codec.WithoutFields("hasViewConfiguration"),
	)
)

func hasViewConfiguration(builderField string) func(_, m codec.Object) (codec.Object, error) {
	return func(_, m codec.Object) (codec.Object, error) {
		_, ok := m[builderField]
		m["hasViewConfiguration"] = ok
		return m, nil
	}
}

// Placement decodes the placement a paywall or onboarding was fetched for.
func Placement() *codec.Coder { return placementCoder }

// ProductReference decodes a paywall's reference to one of its products.
func ProductReference() *codec.Coder { return productReferenceCoder }

// PaywallBuilder decodes the paywall builder reference.
func PaywallBuilder() *codec.Coder { return paywallBuilderCoder }

// OnboardingBuilder decodes the no-code onboarding configuration.
func OnboardingBuilder() *codec.Coder { return onboardingBuilderCoder }

// RemoteConfig decodes a remote config, adding the derived dataString.
func RemoteConfig() *codec.Coder { return remoteConfigCoder }

// Paywall decodes a paywall. hasViewConfiguration is derived from the
// presence of a paywall builder and is never sent back to the native side.
func Paywall() *codec.Coder { return paywallCoder }

// Onboarding decodes an onboarding, deriving hasViewConfiguration like
// Paywall does.
func Onboarding() *codec.Coder { return onboardingCoder }
