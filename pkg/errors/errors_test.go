package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "type mismatch with detail",
			err: New(PhaseDecode, KindTypeMismatch).
				Path("paywall", "products").
				Types("array", "string").
				Detail("bad list").
				Build(),
			want: "[decode] type_mismatch at paywall.products: expected type array, received type string - bad list",
		},
		{
			name: "missing field",
			err:  FieldMissing([]string{"profile"}, "profile_id"),
			want: `[decode] field_missing at profile: missing required property "profile_id"`,
		},
		{
			name: "minimal",
			err:  New(PhaseView, KindNotFound).Build(),
			want: "[view] not_found",
		},
		{
			name: "with cause",
			err:  InvalidJSON(errors.New("unexpected EOF"), "bad envelope"),
			want: "[decode] invalid_json: bad envelope (caused by: unexpected EOF)",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Fatalf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestError_IsAndUnwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := New(PhaseEncode, KindInvalidData).Cause(cause).Build()
	wrapped := fmt.Errorf("request: %w", err)

	if !errors.Is(wrapped, cause) {
		t.Fatalf("expected cause in chain")
	}
	if !errors.Is(wrapped, &Error{Phase: PhaseEncode, Kind: KindInvalidData}) {
		t.Fatalf("expected phase+kind match")
	}
	if errors.Is(wrapped, &Error{Phase: PhaseDecode, Kind: KindInvalidData}) {
		t.Fatalf("unexpected match on different phase")
	}
	if !IsEncodeError(wrapped) || IsDecodeError(wrapped) {
		t.Fatalf("phase helpers disagree for %v", wrapped)
	}
	if IsDecodeError(cause) {
		t.Fatalf("plain error reported as decode error")
	}
}

func TestError_Code(t *testing.T) {
	tests := []struct {
		phase Phase
		want  ErrorCode
	}{
		{PhaseDecode, CodeDecodingFailed},
		{PhaseEncode, CodeEncodingFailed},
		{PhaseConfig, CodeWrongParam},
		{PhaseTransport, CodeUnknown},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(string(tt.phase), func(t *testing.T) {
			if got := New(tt.phase, KindInvalidData).Build().Code(); got != tt.want {
				t.Fatalf("Code() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAdaptyError(t *testing.T) {
	err := &AdaptyError{Code: CodeNoPurchasesToRestore, Message: "nothing to restore"}
	if got := err.Error(); got != "#1004 (noPurchasesToRestore): nothing to restore" {
		t.Fatalf("Error() = %q", got)
	}

	wrapped := fmt.Errorf("restore: %w", err)
	found, ok := AsAdaptyError(wrapped)
	if !ok || found != err {
		t.Fatalf("AsAdaptyError did not find the native error")
	}
	if !errors.Is(wrapped, &AdaptyError{Code: CodeNoPurchasesToRestore}) {
		t.Fatalf("expected code match")
	}
	if _, ok := AsAdaptyError(errors.New("plain")); ok {
		t.Fatalf("unexpected native error in plain chain")
	}
}

func TestErrorCode_Names(t *testing.T) {
	if got := CodeBadRequest.String(); got != "badRequest" {
		t.Fatalf("String() = %q", got)
	}
	if got := ErrorCode(-42).String(); !strings.HasPrefix(got, "Unknown code") {
		t.Fatalf("String() = %q", got)
	}
	code, ok := CodeByName("networkFailed")
	if !ok || code != CodeNetworkFailed {
		t.Fatalf("CodeByName = %v, %v", code, ok)
	}
	if _, ok := CodeByName("nope"); ok {
		t.Fatalf("unexpected code for unknown name")
	}
}
