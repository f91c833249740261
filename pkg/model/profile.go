package model

import "github.com/adaptyteam/adapty-sdk-go/pkg/codec"

var (
	accessLevelCoder = codec.NewCoder("AdaptyAccessLevel", codec.Properties{
		Fields: []codec.Field{
			codec.Required("activatedAt", "activated_at", codec.TypeString, codec.DateCoder{}),
			codec.Optional("activeIntroductoryOfferType", "active_introductory_offer_type", codec.TypeString),
			codec.Optional("activePromotionalOfferId", "active_promotional_offer_id", codec.TypeString),
			codec.Optional("activePromotionalOfferType", "active_promotional_offer_type", codec.TypeString),
			codec.Optional("billingIssueDetectedAt", "billing_issue_detected_at", codec.TypeString, codec.DateCoder{}),
			codec.Optional("cancellationReason", "cancellation_reason", codec.TypeString),
			codec.Optional("expiresAt", "expires_at", codec.TypeString, codec.DateCoder{}),
			codec.Required("id", "id", codec.TypeString),
			codec.Required("isActive", "is_active", codec.TypeBoolean),
			codec.Required("isInGracePeriod", "is_in_grace_period", codec.TypeBoolean),
			codec.Required("isLifetime", "is_lifetime", codec.TypeBoolean),
			codec.Required("isRefund", "is_refund", codec.TypeBoolean),
			codec.Optional("renewedAt", "renewed_at", codec.TypeString, codec.DateCoder{}),
			codec.Optional("startsAt", "starts_at", codec.TypeString, codec.DateCoder{}),
			codec.Required("store", "store", codec.TypeString),
			codec.Optional("unsubscribedAt", "unsubscribed_at", codec.TypeString, codec.DateCoder{}),
			codec.Required("vendorProductId", "vendor_product_id", codec.TypeString),
			codec.Required("willRenew", "will_renew", codec.TypeBoolean),
		},
		Android: []codec.Field{
			codec.Optional("offerId", "offer_id", codec.TypeString),
		},
	})

	subscriptionCoder = codec.NewCoder("AdaptySubscription", codec.Properties{
		Fields: []codec.Field{
			codec.Required("isActive", "is_active", codec.TypeBoolean),
			codec.Required("isLifetime", "is_lifetime", codec.TypeBoolean),
			codec.Required("vendorProductId", "vendor_product_id", codec.TypeString),
			codec.Required("store", "store", codec.TypeString),
			codec.Required("vendorTransactionId", "vendor_transaction_id", codec.TypeString),
			codec.Required("vendorOriginalTransactionId", "vendor_original_transaction_id", codec.TypeString),
			codec.Required("activatedAt", "activated_at", codec.TypeString, codec.DateCoder{}),
			codec.Required("willRenew", "will_renew", codec.TypeBoolean),
			codec.Required("isInGracePeriod", "is_in_grace_period", codec.TypeBoolean),
			codec.Required("isRefund", "is_refund", codec.TypeBoolean),
			codec.Required("isSandbox", "is_sandbox", codec.TypeBoolean),
			codec.Optional("renewedAt", "renewed_at", codec.TypeString, codec.DateCoder{}),
			codec.Optional("expiresAt", "expires_at", codec.TypeString, codec.DateCoder{}),
			codec.Optional("startsAt", "starts_at", codec.TypeString, codec.DateCoder{}),
			codec.Optional("unsubscribedAt", "unsubscribed_at", codec.TypeString, codec.DateCoder{}),
			codec.Optional("billingIssueDetectedAt", "billing_issue_detected_at", codec.TypeString, codec.DateCoder{}),
			codec.Optional("activeIntroductoryOfferType", "active_introductory_offer_type", codec.TypeString),
			codec.Optional("activePromotionalOfferType", "active_promotional_offer_type", codec.TypeString),
			codec.Optional("activePromotionalOfferId", "active_promotional_offer_id", codec.TypeString),
			codec.Optional("cancellationReason", "cancellation_reason", codec.TypeString),
		},
	})

	nonSubscriptionCoder = codec.NewCoder("AdaptyNonSubscription", codec.Properties{
		Fields: []codec.Field{
			codec.Required("isConsumable", "is_consumable", codec.TypeBoolean),
			codec.Required("isRefund", "is_refund", codec.TypeBoolean),
			codec.Required("isSandbox", "is_sandbox", codec.TypeBoolean),
			codec.Required("purchasedAt", "purchased_at", codec.TypeString, codec.DateCoder{}),
			codec.Required("purchaseId", "purchase_id", codec.TypeString),
			codec.Required("store", "store", codec.TypeString),
			codec.Required("vendorProductId", "vendor_product_id", codec.TypeString),
			codec.Optional("vendorTransactionId", "vendor_transaction_id", codec.TypeString),
		},
	})

	profileCoder = codec.NewCoder("AdaptyProfile", codec.Properties{
		Fields: []codec.Field{
			codec.Optional("accessLevels", "paid_access_levels", codec.TypeObject,
				codec.NewHashmapCoder(accessLevelCoder)),
			codec.Optional("customAttributes", "custom_attributes", codec.TypeObject),
			codec.Optional("customerUserId", "customer_user_id", codec.TypeString),
			codec.Optional("nonSubscriptions", "non_subscriptions", codec.TypeObject,
				codec.NewHashmapCoder(codec.NewArrayCoder(nonSubscriptionCoder))),
			codec.Required("profileId", "profile_id", codec.TypeString),
			codec.Optional("subscriptions", "subscriptions", codec.TypeObject,
				codec.NewHashmapCoder(subscriptionCoder)),
		},
	})

	profileParametersCoder = codec.NewCoder("AdaptyProfileParameters", codec.Properties{
		Fields: []codec.Field{
			codec.Optional("firstName", "first_name", codec.TypeString),
			codec.Optional("lastName", "last_name", codec.TypeString),
			codec.Optional("gender", "gender", codec.TypeString),
			codec.Optional("birthday", "birthday", codec.TypeString),
			codec.Optional("email", "email", codec.TypeString),
			codec.Optional("phoneNumber", "phone_number", codec.TypeString),
			codec.Optional("appTrackingTransparencyStatus", "att_status", codec.TypeNumber),
			codec.Optional("codableCustomAttributes", "custom_attributes", codec.TypeObject),
			codec.Optional("analyticsDisabled", "analytics_disabled", codec.TypeBoolean),
		},
	})
)

// AccessLevel decodes one entry of a profile's paid access levels.
func AccessLevel() *codec.Coder { return accessLevelCoder }

// Subscription decodes one entry of a profile's subscriptions map.
func Subscription() *codec.Coder { return subscriptionCoder }

// NonSubscription decodes a single non-subscription purchase.
func NonSubscription() *codec.Coder { return nonSubscriptionCoder }

// Profile decodes the user profile including access levels, subscriptions
// and non-subscription purchases.
func Profile() *codec.Coder { return profileCoder }

// ProfileParameters encodes profile updates sent with update_profile.
func ProfileParameters() *codec.Coder { return profileParametersCoder }

// HasActiveAccessLevel reports whether the decoded profile carries an active
// access level with the given id.
func HasActiveAccessLevel(profile codec.Object, id string) bool {
	levels, _ := profile["accessLevels"].(codec.Object)
	level, _ := levels[id].(codec.Object)
	active, _ := level["isActive"].(bool)
	return active
}
