// Package parse decodes what the native side sends back: method result
// envelopes and event payloads.
//
// A method result is a JSON object with exactly one of "success" or "error":
//
//	{"success": {...}}                           decoded by the coder for the declared Type
//	{"error": {"adapty_code": 2002, "message": ""}}  returned as *errors.AdaptyError
//
// Events are routed by name and id. Common events ("did_load_latest_profile")
// decode to a profile model; ids starting with "onboarding_" decode to an
// *OnboardingEvent; everything else is a paywall view event.
package parse
