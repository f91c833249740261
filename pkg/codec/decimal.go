package codec

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"

	aerr "github.com/adaptyteam/adapty-sdk-go/pkg/errors"
)

// DecimalConverter maps a wire number to decimal.Decimal so prices keep
// their exact textual value.
type DecimalConverter struct{}

// Decode converts a wire number to a decimal.Decimal.
func (DecimalConverter) Decode(v any) (any, error) {
	d, err := ToDecimal(v)
	if err != nil {
		return nil, aerr.New(aerr.PhaseDecode, aerr.KindInvalidData).
			Value(v).
			Cause(err).
			Build()
	}
	return d, nil
}

// Encode renders a decimal or any number as a json.Number.
func (DecimalConverter) Encode(v any) (any, error) {
	d, err := ToDecimal(v)
	if err != nil {
		return nil, aerr.New(aerr.PhaseEncode, aerr.KindInvalidData).
			Value(v).
			Cause(err).
			Build()
	}
	return json.Number(d.String()), nil
}

// ToDecimal converts any numeric value accepted by TypeNumber.
func ToDecimal(v any) (decimal.Decimal, error) {
	switch n := v.(type) {
	case decimal.Decimal:
		return n, nil
	case json.Number:
		return decimal.NewFromString(n.String())
	case string:
		return decimal.NewFromString(n)
	case float64:
		return decimal.NewFromFloat(n), nil
	case float32:
		return decimal.NewFromFloat32(n), nil
	case int:
		return decimal.NewFromInt(int64(n)), nil
	case int32:
		return decimal.NewFromInt32(n), nil
	case int64:
		return decimal.NewFromInt(n), nil
	case uint32:
		return decimal.NewFromInt(int64(n)), nil
	case uint64:
		return decimal.NewFromString(strconv.FormatUint(n, 10))
	}
	return decimal.Zero, fmt.Errorf("not a number: %T", v)
}

// ToInt64 converts a numeric value to int64, truncating fractions.
func ToInt64(v any) (int64, bool) {
	d, err := ToDecimal(v)
	if err != nil {
		return 0, false
	}
	return d.IntPart(), true
}
