package codec

import (
	"github.com/adaptyteam/adapty-sdk-go/internal/jsonutil"
	aerr "github.com/adaptyteam/adapty-sdk-go/pkg/errors"
)

const (
	bucketIOS     = "ios"
	bucketAndroid = "android"
)

// Coder is a bidirectional converter driven entirely by a Properties table.
// Decode turns a wire Object into a model Object keyed by logical names;
// Encode does the reverse. Coders are immutable after construction and safe
// for concurrent use.
type Coder struct {
	name  string
	props Properties

	common  map[string]*PropertyMeta
	ios     map[string]*PropertyMeta
	android map[string]*PropertyMeta

	afterDecode  func(wire, model Object) (Object, error)
	beforeEncode func(model Object) (Object, error)
}

// Option customizes a Coder.
type Option func(*Coder)

// WithAfterDecode installs a hook that runs on the decoded model. It receives
// the raw wire object so it can inspect discriminating fields, and may add
// derived fields or drop a platform bucket.
func WithAfterDecode(fn func(wire, model Object) (Object, error)) Option {
	return func(c *Coder) { c.afterDecode = fn }
}

// WithBeforeEncode installs a hook that runs on a copy of the model before
// encoding, typically to strip derived-only fields.
func WithBeforeEncode(fn func(model Object) (Object, error)) Option {
	return func(c *Coder) { c.beforeEncode = fn }
}

// WithoutFields is a BeforeEncode hook stripping the given derived fields.
func WithoutFields(names ...string) Option {
	return WithBeforeEncode(func(model Object) (Object, error) {
		for _, n := range names {
			delete(model, n)
		}
		return model, nil
	})
}

// NewCoder builds a coder named name (used in error paths) over props.
func NewCoder(name string, props Properties, opts ...Option) *Coder {
	c := &Coder{
		name:    name,
		props:   props,
		common:  index(props.Fields),
		ios:     index(props.IOS),
		android: index(props.Android),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func index(fields []Field) map[string]*PropertyMeta {
	if fields == nil {
		return nil
	}
	m := make(map[string]*PropertyMeta, len(fields))
	for i := range fields {
		m[fields[i].Name] = &fields[i].Meta
	}
	return m
}

// Name returns the coder's name.
func (c *Coder) Name() string { return c.name }

// Properties returns the coder's field table.
func (c *Coder) Properties() Properties { return c.props }

// Decode converts a wire object into a model object. A JSON string is
// accepted and parsed first.
func (c *Coder) Decode(v any) (any, error) {
	return c.DecodeObject(v)
}

// DecodeObject is Decode with a typed result.
func (c *Coder) DecodeObject(v any) (Object, error) {
	wire, err := asWireObject(v)
	if err != nil {
		return nil, err
	}

	model, err := decodeFields(wire, c.props.Fields, "")
	if err != nil {
		return nil, err
	}
	if c.props.IOS != nil {
		bucket, err := decodeFields(wire, c.props.IOS, PlatformIOS)
		if err != nil {
			return nil, prependPath(err, bucketIOS)
		}
		model[bucketIOS] = bucket
	}
	if c.props.Android != nil {
		bucket, err := decodeFields(wire, c.props.Android, PlatformAndroid)
		if err != nil {
			return nil, prependPath(err, bucketAndroid)
		}
		model[bucketAndroid] = bucket
	}

	if c.afterDecode != nil {
		return c.afterDecode(wire, model)
	}
	return model, nil
}

// Encode converts a model object into a wire object.
func (c *Coder) Encode(v any) (any, error) {
	return c.EncodeObject(v)
}

// EncodeObject is Encode with a typed result.
func (c *Coder) EncodeObject(v any) (Object, error) {
	model, ok := v.(Object)
	if !ok {
		return nil, aerr.New(aerr.PhaseEncode, aerr.KindTypeMismatch).
			Path(c.name).
			Types(string(TypeObject), TypeName(v)).
			Build()
	}

	if c.beforeEncode != nil {
		var err error
		if model, err = c.beforeEncode(shallowCopy(model)); err != nil {
			return nil, err
		}
	}

	return c.encodeFields(model, c.common, nil)
}

func (c *Coder) encodeFields(model Object, table map[string]*PropertyMeta, path []string) (Object, error) {
	result := Object{}

	for key, value := range model {
		if (key == bucketIOS || key == bucketAndroid) && path == nil {
			sub := c.ios
			if key == bucketAndroid {
				sub = c.android
			}
			if sub == nil {
				return nil, aerr.FieldUnknown([]string{key}, key)
			}
			if value == nil {
				continue
			}
			bucket, ok := value.(Object)
			if !ok {
				return nil, aerr.New(aerr.PhaseEncode, aerr.KindTypeMismatch).
					Path(key).
					Types(string(TypeObject), TypeName(value)).
					Build()
			}
			flat, err := c.encodeFields(bucket, sub, []string{key})
			if err != nil {
				return nil, err
			}
			for k, v := range flat {
				result[k] = v
			}
			continue
		}

		meta, ok := table[key]
		if !ok {
			return nil, aerr.FieldUnknown(append(path, key), key)
		}
		// A nil required value still goes through its converter so it
		// survives a round trip (JSONCoder renders it as "null").
		if value == nil && !(meta.Required && meta.Converter != nil) {
			continue
		}

		if meta.Converter != nil {
			encoded, err := meta.Converter.Encode(value)
			if err != nil {
				return nil, prependPath(err, append(path, key)...)
			}
			value = encoded
		}
		SetNested(result, meta.Key, value)
	}

	return result, nil
}

func decodeFields(wire Object, fields []Field, platform Platform) (Object, error) {
	result := Object{}

	for _, f := range fields {
		value, found := GetNested(wire, f.Meta.Key)
		if !found || value == nil {
			if f.Meta.Required && (platform == "" || platform == CurrentPlatform()) {
				return nil, aerr.FieldMissing([]string{f.Name}, f.Name)
			}
			continue
		}

		if !IsType(value, f.Meta.Type) {
			return nil, aerr.TypeMismatch([]string{f.Name}, string(f.Meta.Type), TypeName(value))
		}

		if f.Meta.Converter != nil {
			decoded, err := f.Meta.Converter.Decode(value)
			if err != nil {
				return nil, prependPath(err, f.Name)
			}
			value = decoded
		}
		result[f.Name] = value
	}

	return result, nil
}

func asWireObject(v any) (Object, error) {
	switch w := v.(type) {
	case Object:
		return w, nil
	case string:
		parsed, err := jsonutil.UnmarshalString(w)
		if err != nil {
			return nil, aerr.InvalidJSON(err, "failed to parse wire object")
		}
		obj, ok := parsed.(Object)
		if !ok {
			return nil, aerr.TypeMismatch(nil, string(TypeObject), TypeName(parsed))
		}
		return obj, nil
	}
	return nil, aerr.TypeMismatch(nil, string(TypeObject), TypeName(v))
}

// prependPath adds segments in front of a structured error's path so nested
// failures read as "paywall.placement.id".
func prependPath(err error, segments ...string) error {
	e, ok := err.(*aerr.Error)
	if !ok {
		return err
	}
	cp := *e
	cp.Path = append(append([]string{}, segments...), e.Path...)
	return &cp
}

func shallowCopy(m Object) Object {
	out := make(Object, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
