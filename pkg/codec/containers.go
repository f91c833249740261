package codec

import (
	"strconv"

	aerr "github.com/adaptyteam/adapty-sdk-go/pkg/errors"
)

// ArrayCoder lifts an element converter over a sequence.
type ArrayCoder struct {
	Elem Converter
}

// NewArrayCoder returns an ArrayCoder over elem.
func NewArrayCoder(elem Converter) *ArrayCoder {
	return &ArrayCoder{Elem: elem}
}

// Decode decodes every element with Elem.
func (a *ArrayCoder) Decode(v any) (any, error) {
	return a.apply(v, aerr.PhaseDecode, a.Elem.Decode)
}

// Encode encodes every element with Elem.
func (a *ArrayCoder) Encode(v any) (any, error) {
	return a.apply(v, aerr.PhaseEncode, a.Elem.Encode)
}

func (a *ArrayCoder) apply(v any, phase aerr.Phase, fn func(any) (any, error)) (any, error) {
	items, ok := toSlice(v)
	if !ok {
		return nil, aerr.New(phase, aerr.KindTypeMismatch).
			Types(string(TypeArray), TypeName(v)).
			Build()
	}
	out := make([]any, len(items))
	for i, item := range items {
		converted, err := fn(item)
		if err != nil {
			return nil, prependPath(err, strconv.Itoa(i))
		}
		out[i] = converted
	}
	return out, nil
}

// HashmapCoder applies Elem to every value of a string-keyed object. A nil
// Elem is the identity.
type HashmapCoder struct {
	Elem Converter
}

// NewHashmapCoder returns a HashmapCoder over elem (may be nil).
func NewHashmapCoder(elem Converter) *HashmapCoder {
	return &HashmapCoder{Elem: elem}
}

// Decode decodes every value with Elem, or copies the map when Elem is nil.
func (h *HashmapCoder) Decode(v any) (any, error) {
	var fn func(any) (any, error)
	if h.Elem != nil {
		fn = h.Elem.Decode
	}
	return h.apply(v, aerr.PhaseDecode, fn)
}

// Encode is the inverse of Decode.
func (h *HashmapCoder) Encode(v any) (any, error) {
	var fn func(any) (any, error)
	if h.Elem != nil {
		fn = h.Elem.Encode
	}
	return h.apply(v, aerr.PhaseEncode, fn)
}

func (h *HashmapCoder) apply(v any, phase aerr.Phase, fn func(any) (any, error)) (any, error) {
	obj, ok := v.(Object)
	if !ok {
		return nil, aerr.New(phase, aerr.KindTypeMismatch).
			Types(string(TypeObject), TypeName(v)).
			Build()
	}
	out := make(Object, len(obj))
	for key, value := range obj {
		if fn == nil {
			out[key] = value
			continue
		}
		converted, err := fn(value)
		if err != nil {
			return nil, prependPath(err, key)
		}
		out[key] = converted
	}
	return out, nil
}
