// Package jsonutil holds the JSON helpers shared by the codec, parser and
// transports. Numbers are kept as json.Number so integer and decimal values
// survive a decode/encode cycle without float rounding.
package jsonutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// Unmarshal decodes data into v with UseNumber enabled. Trailing data after
// the first JSON value is rejected.
func Unmarshal(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if _, err := dec.Token(); err != io.EOF {
		return fmt.Errorf("invalid character after top-level value")
	}
	return nil
}

// UnmarshalString is Unmarshal for string input.
func UnmarshalString(s string) (any, error) {
	var out any
	if err := Unmarshal([]byte(s), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// MarshalNoEscape encodes v into JSON without HTML escaping of <, > and &.
func MarshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// MarshalString is MarshalNoEscape returning a string.
func MarshalString(v any) (string, error) {
	b, err := MarshalNoEscape(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
