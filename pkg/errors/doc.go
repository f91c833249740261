// Package errors provides the error types of the SDK.
//
// Two families exist. Local failures are *Error values categorized by Phase
// (where it happened) and Kind (what went wrong); they are raised by the
// codec when wire data is malformed, missing or mistyped (PhaseDecode) and
// when a model carries a field the coder does not know (PhaseEncode).
// Native failures are *AdaptyError values decoded from the wire error branch
// and carry the numeric ErrorCode reported by the platform SDK.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseDecode, errors.KindTypeMismatch).
//		Path("paywall", "placement").
//		Types("object", "string").
//		Build()
//
// Branch on the family with IsDecodeError, IsEncodeError or AsAdaptyError:
//
//	if aerr, ok := errors.AsAdaptyError(err); ok && aerr.Code == errors.CodeNoPurchasesToRestore {
//		...
//	}
//
// Transport failures (network, closed connection) are passed through
// unchanged and belong to neither family.
package errors
