// Package model holds the coders for every object that crosses the native
// bridge: profiles and their access levels, paywalls, onboardings, products,
// purchase results, native errors and UI payloads.
//
// Decoded models are codec.Object values keyed by the SDK's camelCase field
// names. Platform specific fields live under "ios" and "android" buckets:
//
//	product, err := model.PaywallProduct().Decode(wire)
//	shareable := product.(codec.Object)["ios"].(codec.Object)["isFamilyShareable"]
//
// A few coders do more than map fields:
//
//   - Paywall and Onboarding derive hasViewConfiguration from the presence of
//     a builder and strip it again on encode.
//   - RemoteConfig parses the JSON string in data and keeps a normalized
//     dataString next to it.
//   - SubscriptionDetails keeps only the bucket of the store that sold the
//     product; SubscriptionOffer drops android when no offer tags were sent.
//   - PurchaseResult requires a profile on success.
//   - UiOnboardingStateUpdatedAction shapes value by element type.
//
// Request parameters (activation, purchase, identify and view creation) are
// typed Go structs with Encode functions producing the wire object directly.
package model
