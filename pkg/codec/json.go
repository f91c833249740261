package codec

import (
	"github.com/adaptyteam/adapty-sdk-go/internal/jsonutil"
	aerr "github.com/adaptyteam/adapty-sdk-go/pkg/errors"
)

// JSONCoder carries a free-form value serialized as a JSON string on the
// wire, such as remote config payloads.
type JSONCoder struct{}

// Decode parses the string. An empty string decodes to an empty object.
func (JSONCoder) Decode(v any) (any, error) {
	s, ok := v.(string)
	if !ok {
		return nil, aerr.TypeMismatch(nil, string(TypeString), TypeName(v))
	}
	if s == "" {
		return Object{}, nil
	}
	parsed, err := jsonutil.UnmarshalString(s)
	if err != nil {
		return nil, aerr.InvalidJSON(err, "failed to parse JSON string")
	}
	return parsed, nil
}

// Encode serializes v. Output shorter than four characters ("{}", "[]",
// "1") carries no configuration and is sent as "".
func (JSONCoder) Encode(v any) (any, error) {
	s, err := jsonutil.MarshalString(v)
	if err != nil {
		return nil, aerr.New(aerr.PhaseEncode, aerr.KindInvalidData).
			Cause(err).
			Detail("failed to serialize JSON value").
			Build()
	}
	if len(s) < 4 {
		return "", nil
	}
	return s, nil
}
