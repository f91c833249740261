package codec

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/shopspring/decimal"
)

// Object is both the wire shape (snake_case keys) and the in-memory model
// shape (camelCase keys) handled by coders.
type Object = map[string]any

// Type is the primitive type tag a field's raw wire value must satisfy.
type Type string

const (
	TypeString  Type = "string"
	TypeBoolean Type = "boolean"
	TypeNumber  Type = "number"
	TypeObject  Type = "object"
	TypeArray   Type = "array"
)

// Converter transforms a single value between its wire and model forms.
type Converter interface {
	Decode(v any) (any, error)
	Encode(v any) (any, error)
}

// ErrorConverter is a Converter that terminates the wire error branch:
// GetError turns the decoded model into an error value to return.
type ErrorConverter interface {
	Converter
	GetError(decoded any) error
}

// PropertyMeta describes how one logical field maps to the wire.
type PropertyMeta struct {
	// Key is the wire field name. A dotted key ("a.b.c") addresses a nested
	// wire path.
	Key string
	// Required fields must be present (non-null) on decode. Required fields
	// in a platform bucket are only enforced on that platform.
	Required bool
	// Type is checked against the raw wire value before conversion.
	Type Type
	// Converter, when set, is applied to the value in both directions.
	Converter Converter
}

// Field pairs a logical (model) field name with its PropertyMeta.
type Field struct {
	Name string
	Meta PropertyMeta
}

// Properties is the ordered field table of a coder. IOS and Android are the
// platform buckets; a nil bucket means the model has no such bucket.
type Properties struct {
	Fields  []Field
	IOS     []Field
	Android []Field
}

// Required declares a required field.
func Required(name, key string, t Type, conv ...Converter) Field {
	return field(name, key, t, true, conv)
}

// Optional declares an optional field.
func Optional(name, key string, t Type, conv ...Converter) Field {
	return field(name, key, t, false, conv)
}

func field(name, key string, t Type, required bool, conv []Converter) Field {
	f := Field{Name: name, Meta: PropertyMeta{Key: key, Required: required, Type: t}}
	if len(conv) > 0 {
		f.Meta.Converter = conv[0]
	}
	return f
}

// IsType reports whether v satisfies the type tag t.
func IsType(v any, t Type) bool {
	switch t {
	case TypeString:
		_, ok := v.(string)
		return ok
	case TypeBoolean:
		_, ok := v.(bool)
		return ok
	case TypeNumber:
		return isNumber(v)
	case TypeObject:
		_, ok := v.(Object)
		return ok
	case TypeArray:
		return isArray(v)
	}
	return false
}

// TypeName names the runtime type of v using the same vocabulary as Type.
func TypeName(v any) string {
	switch {
	case v == nil:
		return "null"
	case IsType(v, TypeString):
		return string(TypeString)
	case IsType(v, TypeBoolean):
		return string(TypeBoolean)
	case IsType(v, TypeNumber):
		return string(TypeNumber)
	case IsType(v, TypeObject):
		return string(TypeObject)
	case IsType(v, TypeArray):
		return string(TypeArray)
	}
	return fmt.Sprintf("%T", v)
}

func isNumber(v any) bool {
	switch v.(type) {
	case json.Number, decimal.Decimal,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return true
	}
	return false
}

func isArray(v any) bool {
	switch v.(type) {
	case []any, []Object:
		return true
	}
	if v == nil {
		return false
	}
	return reflect.TypeOf(v).Kind() == reflect.Slice
}

// toSlice normalizes any slice into []any.
func toSlice(v any) ([]any, bool) {
	switch s := v.(type) {
	case []any:
		return s, true
	case []Object:
		out := make([]any, len(s))
		for i, o := range s {
			out[i] = o
		}
		return out, true
	}
	if v == nil {
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}
