package model

import "github.com/adaptyteam/adapty-sdk-go/pkg/codec"

var (
	priceCoder = codec.NewCoder("AdaptyPrice", codec.Properties{
		Fields: []codec.Field{
			codec.Required("amount", "amount", codec.TypeNumber, codec.DecimalConverter{}),
			codec.Optional("currencyCode", "currency_code", codec.TypeString),
			codec.Optional("currencySymbol", "currency_symbol", codec.TypeString),
			codec.Optional("localizedString", "localized_string", codec.TypeString),
		},
	})

	subscriptionPeriodCoder = codec.NewCoder("AdaptySubscriptionPeriod", codec.Properties{
		Fields: []codec.Field{
			codec.Required("unit", "unit", codec.TypeString),
			codec.Required("numberOfUnits", "number_of_units", codec.TypeNumber),
		},
	})

	discountPhaseCoder = codec.NewCoder("AdaptyDiscountPhase", codec.Properties{
		Fields: []codec.Field{
			codec.Optional("localizedNumberOfPeriods", "localized_number_of_periods", codec.TypeString),
			codec.Optional("localizedSubscriptionPeriod", "localized_subscription_period", codec.TypeString),
			codec.Required("numberOfPeriods", "number_of_periods", codec.TypeNumber),
			codec.Required("paymentMode", "payment_mode", codec.TypeString),
			codec.Required("price", "price", codec.TypeObject, priceCoder),
			codec.Required("subscriptionPeriod", "subscription_period", codec.TypeObject, subscriptionPeriodCoder),
		},
	})

	subscriptionOfferIDCoder = codec.NewCoder("AdaptySubscriptionOffer.Identifier", codec.Properties{
		Fields: []codec.Field{
			codec.Required("type", "type", codec.TypeString),
			codec.Optional("id", "id", codec.TypeString),
		},
	})

	// The android bucket only exists when the store reported offer tags.
	subscriptionOfferCoder = codec.NewCoder("AdaptySubscriptionOffer", codec.Properties{
		Fields: []codec.Field{
			codec.Required("identifier", "offer_identifier", codec.TypeObject, subscriptionOfferIDCoder),
			codec.Required("phases", "phases", codec.TypeArray, codec.NewArrayCoder(discountPhaseCoder)),
		},
		Android: []codec.Field{
			codec.Optional("offerTags", "offer_tags", codec.TypeArray),
		},
	}, codec.WithAfterDecode(func(wire, m codec.Object) (codec.Object, error) {
		if wire["offer_tags"] == nil {
			delete(m, "android")
		}
		return m, nil
	}))

	// A base plan id marks a Play Store subscription; otherwise the product
	// comes from the App Store and only the ios bucket is kept.
	subscriptionDetailsCoder = codec.NewCoder("AdaptySubscriptionDetails", codec.Properties{
		Fields: []codec.Field{
			codec.Required("subscriptionPeriod", "period", codec.TypeObject, subscriptionPeriodCoder),
			codec.Optional("localizedSubscriptionPeriod", "localized_period", codec.TypeString),
			codec.Optional("offer", "offer", codec.TypeObject, subscriptionOfferCoder),
		},
		IOS: []codec.Field{
			codec.Optional("subscriptionGroupIdentifier", "group_identifier", codec.TypeString),
		},
		Android: []codec.Field{
			codec.Required("basePlanId", "base_plan_id", codec.TypeString),
			codec.Optional("renewalType", "renewal_type", codec.TypeString),
		},
	}, codec.WithAfterDecode(func(wire, m codec.Object) (codec.Object, error) {
		if basePlan, _ := wire["base_plan_id"].(string); basePlan != "" {
			delete(m, "ios")
		} else {
			delete(m, "android")
		}
		return m, nil
	}))

	paywallProductCoder = codec.NewCoder("AdaptyPaywallProduct", codec.Properties{
		Fields: []codec.Field{
			codec.Required("vendorProductId", "vendor_product_id", codec.TypeString),
			codec.Required("adaptyId", "adapty_product_id", codec.TypeString),
			codec.Required("paywallProductIndex", "paywall_product_index", codec.TypeNumber),
			codec.Required("localizedDescription", "localized_description", codec.TypeString),
			codec.Required("localizedTitle", "localized_title", codec.TypeString),
			codec.Optional("regionCode", "region_code", codec.TypeString),
			codec.Required("variationId", "paywall_variation_id", codec.TypeString),
			codec.Required("paywallABTestName", "paywall_ab_test_name", codec.TypeString),
			codec.Required("paywallName", "paywall_name", codec.TypeString),
			// Native SDKs always send a price, but products without one are
			// still usable for purchase.
			codec.Optional("price", "price", codec.TypeObject, priceCoder),
			codec.Optional("webPurchaseUrl", "web_purchase_url", codec.TypeString),
			codec.Optional("payloadData", "payload_data", codec.TypeString),
			codec.Optional("subscription", "subscription", codec.TypeObject, subscriptionDetailsCoder),
		},
		IOS: []codec.Field{
			codec.Required("isFamilyShareable", "is_family_shareable", codec.TypeBoolean),
		},
	})

	paywallProductsCoder = codec.NewArrayCoder(paywallProductCoder)
)

// Price decodes a price; the amount becomes a decimal.Decimal.
func Price() *codec.Coder { return priceCoder }

// SubscriptionPeriod decodes a unit and number of units.
func SubscriptionPeriod() *codec.Coder { return subscriptionPeriodCoder }

// DiscountPhase decodes one phase of a subscription offer.
func DiscountPhase() *codec.Coder { return discountPhaseCoder }

// SubscriptionOfferID decodes the identifier and type of an offer.
func SubscriptionOfferID() *codec.Coder { return subscriptionOfferIDCoder }

// SubscriptionOffer decodes an offer. The android bucket is dropped when
// the offer carries no tags.
func SubscriptionOffer() *codec.Coder { return subscriptionOfferCoder }

// SubscriptionDetails decodes the subscription part of a product. Exactly
// one platform bucket survives decoding.
func SubscriptionDetails() *codec.Coder { return subscriptionDetailsCoder }

// PaywallProduct decodes a product returned by get_paywall_products.
func PaywallProduct() *codec.Coder { return paywallProductCoder }

// PaywallProducts decodes an array of paywall products.
func PaywallProducts() *codec.ArrayCoder { return paywallProductsCoder }

// productInputKeys are the wire fields a purchase request needs to identify
// a product.
var productInputKeys = []string{
	"adapty_product_id",
	"paywall_product_index",
	"paywall_ab_test_name",
	"payload_data",
	"paywall_name",
	"paywall_variation_id",
	"vendor_product_id",
}

// ProductInput projects a decoded product onto the reduced request shape
// sent with make_purchase, open_web_paywall and create_web_paywall_url.
func ProductInput(product codec.Object) (codec.Object, error) {
	wire, err := paywallProductCoder.EncodeObject(product)
	if err != nil {
		return nil, err
	}

	input := codec.Object{}
	for _, key := range productInputKeys {
		if v, ok := wire[key]; ok && v != nil {
			input[key] = v
		}
	}
	if id, ok := codec.GetNested(wire, "subscription.offer.offer_identifier"); ok && id != nil {
		input["subscription_offer_identifier"] = id
	}
	return input, nil
}
