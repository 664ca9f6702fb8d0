package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
)

// FlexInt64 decodes from a JSON number or a numeric string. HTML selects and
// number inputs post their values as strings.
type FlexInt64 int64

func (f *FlexInt64) UnmarshalJSON(data []byte) error {
	raw, ok, err := numericText(data)
	if err != nil || !ok {
		return err
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return err
	}
	*f = FlexInt64(n)
	return nil
}

// FlexFloat64 is the float counterpart of FlexInt64.
type FlexFloat64 float64

func (f *FlexFloat64) UnmarshalJSON(data []byte) error {
	raw, ok, err := numericText(data)
	if err != nil || !ok {
		return err
	}
	n, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return err
	}
	*f = FlexFloat64(n)
	return nil
}

var errEmptyNumber = errors.New("empty numeric value")

// numericText unwraps a quoted value. ok is false for null.
func numericText(data []byte) (string, bool, error) {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return "", false, nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return "", false, err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return "", false, errEmptyNumber
		}
		return s, true, nil
	}
	return string(data), true, nil
}

func int64Ptr(v *FlexInt64) *int64 {
	if v == nil {
		return nil
	}
	n := int64(*v)
	return &n
}

func float64Ptr(v *FlexFloat64) *float64 {
	if v == nil {
		return nil
	}
	n := float64(*v)
	return &n
}
