package entity

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

type fieldKind uint8

const (
	kindAny fieldKind = iota
	kindValue
	kindAnyDay
	kindAnyWeekday
)

// Field is one position of a TimePattern: a wildcard, a concrete value,
// or (weekday only) one of the two day ranges.
// The zero value is the wildcard.
type Field struct {
	kind  fieldKind
	value int
}

var (
	// Any matches every value.
	Any = Field{kind: kindAny}
	// AnyDay is the weekday range Sunday-Saturday ("0-6").
	AnyDay = Field{kind: kindAnyDay}
	// AnyWeekday is the weekday range Monday-Friday ("1-5").
	AnyWeekday = Field{kind: kindAnyWeekday}
)

// At returns a field holding the concrete value v.
func At(v int) Field {
	return Field{kind: kindValue, value: v}
}

// IsAny reports whether f is the wildcard.
func (f Field) IsAny() bool { return f.kind == kindAny }

// IsRange reports whether f is one of the weekday ranges.
func (f Field) IsRange() bool { return f.kind == kindAnyDay || f.kind == kindAnyWeekday }

// Value returns the concrete value and true, or 0 and false for wildcards and ranges.
func (f Field) Value() (int, bool) {
	if f.kind != kindValue {
		return 0, false
	}
	return f.value, true
}

// Matches reports whether v satisfies the field. For the weekday ranges v is
// a time.Weekday number (0=Sunday).
func (f Field) Matches(v int) bool {
	switch f.kind {
	case kindAny:
		return true
	case kindValue:
		return f.value == v
	case kindAnyDay:
		return v >= 0 && v <= 6
	case kindAnyWeekday:
		return v >= 1 && v <= 5
	}
	return false
}

// String renders the field in cron notation.
func (f Field) String() string {
	switch f.kind {
	case kindValue:
		return strconv.Itoa(f.value)
	case kindAnyDay:
		return "0-6"
	case kindAnyWeekday:
		return "1-5"
	default:
		return "*"
	}
}

// ParseField parses cron notation: "*", "0-6", "1-5" or an integer
// (leading zeros allowed, e.g. "09").
func ParseField(s string) (Field, error) {
	switch s = strings.TrimSpace(s); s {
	case "*", "":
		return Any, nil
	case "0-6":
		return AnyDay, nil
	case "1-5":
		return AnyWeekday, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return Field{}, fmt.Errorf("invalid time field %q", s)
	}
	return At(v), nil
}

// MarshalJSON writes concrete values as numbers and everything else as strings.
func (f Field) MarshalJSON() ([]byte, error) {
	if f.kind == kindValue {
		return []byte(strconv.Itoa(f.value)), nil
	}
	return json.Marshal(f.String())
}

// UnmarshalJSON accepts numbers, numeric strings and the "*", "0-6", "1-5" tokens.
func (f *Field) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = Any
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		parsed, err := ParseField(s)
		if err != nil {
			return err
		}
		*f = parsed
		return nil
	}
	var v int
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("invalid time field %s: %w", data, err)
	}
	*f = At(v)
	return nil
}
