package model

import (
	"github.com/adaptyteam/adapty-sdk-go/pkg/codec"
	aerr "github.com/adaptyteam/adapty-sdk-go/pkg/errors"
)

// NativeErrorCoder decodes the error branch of a native response and turns
// it into an *errors.AdaptyError.
type NativeErrorCoder struct {
	*codec.Coder
}

var nativeErrorCoder = &NativeErrorCoder{
	Coder: codec.NewCoder("AdaptyError", codec.Properties{
		Fields: []codec.Field{
			codec.Required("adaptyCode", "adapty_code", codec.TypeNumber),
			codec.Required("message", "message", codec.TypeString),
			codec.Optional("detail", "detail", codec.TypeString),
		},
	}),
}

// NativeError returns the shared native error coder.
func NativeError() *NativeErrorCoder { return nativeErrorCoder }

// GetError builds the SDK error from a decoded native error model.
func (c *NativeErrorCoder) GetError(decoded any) error {
	m, ok := decoded.(codec.Object)
	if !ok {
		return aerr.FailedToDecode("native error has unexpected shape %T", decoded)
	}
	code, _ := codec.ToInt64(m["adaptyCode"])
	message, _ := m["message"].(string)
	detail, _ := m["detail"].(string)
	return &aerr.AdaptyError{
		Code:    aerr.ErrorCode(code),
		Message: message,
		Detail:  detail,
	}
}

var _ codec.ErrorConverter = (*NativeErrorCoder)(nil)

var bridgeErrorCoder = codec.NewCoder("BridgeError", codec.Properties{
	Fields: []codec.Field{
		codec.Required("errorType", "error_type", codec.TypeString),
		codec.Optional("name", "name", codec.TypeString),
		codec.Optional("type", "type", codec.TypeString),
		codec.Optional("underlyingError", "parent_error", codec.TypeString),
		codec.Optional("description", "description", codec.TypeString),
	},
})

// BridgeError decodes failures raised by the bridge layer itself rather than
// by the native SDK (for instance a request whose arguments could not be
// parsed).
func BridgeError() *codec.Coder { return bridgeErrorCoder }
