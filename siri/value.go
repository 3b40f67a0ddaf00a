package siri

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// FlexValue holds a provider field whose JSON shape varies: a scalar,
// a one-element array, or a record keyed "value" (some deployments
// capitalize it "Value"). The zero value reads as an empty string.
type FlexValue struct {
	raw json.RawMessage
}

// UnmarshalJSON keeps the raw encoding; extraction happens on read.
func (v *FlexValue) UnmarshalJSON(data []byte) error {
	v.raw = append(v.raw[:0], data...)
	return nil
}

// String extracts the underlying scalar as a string. Arrays yield
// their first element, value records their "value" (or "Value") field,
// recursively. Strings pass through, numbers keep their JSON literal
// form, booleans become "true"/"false". Null, empty arrays, and
// unknown shapes yield "".
func (v FlexValue) String() string {
	return extractScalar(v.raw)
}

// Int parses the extracted scalar as a base-10 integer. It returns -1
// when the field is absent, empty, or not an integer; provider fields
// carried as FlexValue never surface parse errors, only the sentinel.
func (v FlexValue) Int() int {
	s := v.String()
	if s == "" {
		return -1
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return -1
	}
	return n
}

func extractScalar(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return ""
		}
		return s
	case '[':
		var arr []json.RawMessage
		if err := json.Unmarshal(raw, &arr); err != nil || len(arr) == 0 {
			return ""
		}
		return extractScalar(arr[0])
	case '{':
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(raw, &obj); err != nil {
			return ""
		}
		// Empty extraction falls through to the capitalized variant.
		if s := extractScalar(obj["value"]); s != "" {
			return s
		}
		return extractScalar(obj["Value"])
	case 't':
		return "true"
	case 'f':
		return "false"
	default:
		var num json.Number
		if err := json.Unmarshal(raw, &num); err != nil {
			return ""
		}
		return num.String()
	}
}
