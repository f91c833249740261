package codec

import (
	"fmt"
	"time"

	aerr "github.com/adaptyteam/adapty-sdk-go/pkg/errors"
)

// dateLayouts are tried in order on decode. Native platforms emit RFC 3339,
// an offset without a colon, or a bare local timestamp read as UTC.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999-0700",
	"2006-01-02T15:04:05.999999999",
}

// DateCoder converts between ISO-8601 strings and time.Time.
type DateCoder struct{}

// Decode parses a date string into a UTC time.Time.
func (DateCoder) Decode(v any) (any, error) {
	s, ok := v.(string)
	if !ok {
		return nil, aerr.TypeMismatch(nil, string(TypeString), TypeName(v))
	}
	t, err := ParseDate(s)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// Encode formats a time.Time or *time.Time with FormatDateUTC.
func (DateCoder) Encode(v any) (any, error) {
	switch t := v.(type) {
	case time.Time:
		return FormatDateUTC(t), nil
	case *time.Time:
		if t != nil {
			return FormatDateUTC(*t), nil
		}
	}
	return nil, aerr.New(aerr.PhaseEncode, aerr.KindTypeMismatch).
		Types("date", TypeName(v)).
		Build()
}

// ParseDate parses an ISO-8601 timestamp into UTC.
func ParseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, aerr.New(aerr.PhaseDecode, aerr.KindInvalidData).
		Value(s).
		Detail("invalid date %q", s).
		Build()
}

// FormatDateUTC renders t as YYYY-MM-DDTHH:MM:SS.mmmZ in UTC, truncating to
// millisecond precision.
func FormatDateUTC(t time.Time) string {
	u := t.UTC()
	return fmt.Sprintf("%04d-%02d-%02dT%02d:%02d:%02d.%03dZ",
		u.Year(), int(u.Month()), u.Day(),
		u.Hour(), u.Minute(), u.Second(),
		u.Nanosecond()/int(time.Millisecond))
}
