package parse

import (
	"errors"
	"testing"

	"github.com/adaptyteam/adapty-sdk-go/pkg/codec"
	aerr "github.com/adaptyteam/adapty-sdk-go/pkg/errors"
)

// TestParseMethodResult_Passthrough verifies untyped results are returned as
// the raw success value.
func TestParseMethodResult_Passthrough(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		resultType Type
		want       any
	}{
		{"void", `{"success": true}`, TypeVoid, true},
		{"boolean", `{"success": false}`, TypeBoolean, false},
		{"string", `{"success": "view-1"}`, TypeString, "view-1"},
		{"dialog action", `{"success": "primary"}`, TypeAdaptyUiDialogActionType, "primary"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseMethodResult(tt.input, tt.resultType)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("got %#v, want %#v", got, tt.want)
			}
		})
	}
}

// TestParseMethodResult_Decoded verifies typed success payloads go through
// their coder.
func TestParseMethodResult_Decoded(t *testing.T) {
	got, err := ParseMethodResult(`{"success": {"profile_id": "p-1", "customer_user_id": "u"}}`, TypeAdaptyProfile)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	profile, ok := got.(codec.Object)
	if !ok {
		t.Fatalf("got %T, want object", got)
	}
	if profile["profileId"] != "p-1" || profile["customerUserId"] != "u" {
		t.Fatalf("unexpected profile: %#v", profile)
	}
}

// TestParseMethodResult_ArrayOfProducts verifies the array result type is
// bound to an array coder.
func TestParseMethodResult_ArrayOfProducts(t *testing.T) {
	got, err := ParseMethodResult(`{"success": []}`, TypeArrayOfPaywallProduct)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	products, ok := got.([]any)
	if !ok || len(products) != 0 {
		t.Fatalf("got %#v, want empty slice", got)
	}
}

// TestParseMethodResult_ErrorBranch verifies the error branch yields an
// AdaptyError whatever the declared result type.
func TestParseMethodResult_ErrorBranch(t *testing.T) {
	for _, rt := range []Type{TypeVoid, TypeAdaptyProfile, TypeAdaptyPaywall} {
		rt := rt
		t.Run(string(rt), func(t *testing.T) {
			_, err := ParseMethodResult(`{"error": {"adapty_code": 400, "message": "m", "detail": "d"}}`, rt)
			ae, ok := aerr.AsAdaptyError(err)
			if !ok {
				t.Fatalf("expected AdaptyError, got %v", err)
			}
			if ae.Code != 400 || ae.Message != "m" || ae.Detail != "d" {
				t.Fatalf("unexpected error: %+v", ae)
			}
		})
	}
}

// TestParseMethodResult_Failures covers malformed envelopes.
func TestParseMethodResult_Failures(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		resultType Type
		kind       aerr.Kind
	}{
		{"invalid json", `{"success":`, TypeVoid, aerr.KindInvalidJSON},
		{"not an object", `[1,2]`, TypeVoid, aerr.KindTypeMismatch},
		{"neither branch", `{"result": 1}`, TypeVoid, aerr.KindInvalidData},
		{"unknown type", `{"success": {}}`, Type("Nope"), aerr.KindUnexpectedType},
		{"bad payload", `{"success": {"customer_user_id": "u"}}`, TypeAdaptyProfile, aerr.KindFieldMissing},
		{"bad native error", `{"error": {"message": "m"}}`, TypeVoid, aerr.KindFieldMissing},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseMethodResult(tt.input, tt.resultType)
			e, ok := aerr.As(err)
			if !ok {
				t.Fatalf("expected *errors.Error, got %v", err)
			}
			if !aerr.IsDecodeError(err) {
				t.Fatalf("expected decode phase, got %s", e.Phase)
			}
			if e.Kind != tt.kind {
				t.Fatalf("kind = %s, want %s", e.Kind, tt.kind)
			}
		})
	}
}

// TestParseMethodResult_NotObjectDetail verifies the context message is kept
// verbatim on a non-object envelope.
func TestParseMethodResult_NotObjectDetail(t *testing.T) {
	_, err := ParseMethodResult(`"100%s"`, TypeVoid)
	e, ok := aerr.As(err)
	if !ok {
		t.Fatalf("expected *errors.Error, got %v", err)
	}
	want := "failed to decode native response. JSON.parse raised an error"
	if e.Detail != want {
		t.Fatalf("detail = %q, want %q", e.Detail, want)
	}
	if e.Actual != "string" {
		t.Fatalf("actual type = %q, want string", e.Actual)
	}
}

// TestGetCoder verifies every coded type resolves and passthrough types do not.
func TestGetCoder(t *testing.T) {
	coded := []Type{
		TypeAdaptyError, TypeAdaptyProfile, TypeAdaptyPurchaseResult, TypeAdaptyPaywall,
		TypeAdaptyPaywallProduct, TypeAdaptyOnboarding, TypeAdaptyRemoteConfig,
		TypeAdaptyPaywallBuilder, TypeAdaptyUiOnboardingMeta, TypeAdaptyUiOnboardingStateParams,
		TypeAdaptyUiOnboardingStateUpdatedAction, TypeAdaptyInstallationStatus,
		TypeArrayOfPaywallProduct, TypeBridgeError,
	}
	for _, ct := range coded {
		if c, err := GetCoder(ct); err != nil || c == nil {
			t.Fatalf("GetCoder(%s) = %v, %v", ct, c, err)
		}
	}
	for _, pt := range []Type{TypeString, TypeBoolean, TypeVoid, TypeAdaptyUiView} {
		if !pt.Passthrough() {
			t.Fatalf("%s should be passthrough", pt)
		}
		if _, err := GetCoder(pt); err == nil {
			t.Fatalf("GetCoder(%s) should fail", pt)
		}
	}
}

// TestParseMethodResult_DecodeErrorsAreNotAdaptyErrors keeps the two error
// families apart.
func TestParseMethodResult_DecodeErrorsAreNotAdaptyErrors(t *testing.T) {
	_, err := ParseMethodResult(`nope`, TypeVoid)
	var ae *aerr.AdaptyError
	if errors.As(err, &ae) {
		t.Fatalf("decode failure must not be an AdaptyError: %v", err)
	}
}
