package model

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Record is one already-deserialized upstream object.
type Record map[string]interface{}

// Number reads a numeric field. Subgraph BigInt/BigDecimal values arrive as strings.
func (r Record) Number(key string) (float64, bool) {
	v, ok := r[key]
	if !ok {
		return 0, false
	}
	return Number(v)
}

// Scaled reads a fixed-point numeric field and divides it by 10^decimals.
func (r Record) Scaled(key string, decimals int32) (float64, bool) {
	v, ok := r[key]
	if !ok {
		return 0, false
	}
	return ScaleUnits(v, decimals)
}

// String reads a string field.
func (r Record) String(key string) string {
	v, ok := r[key]
	if !ok || v == nil {
		return ""
	}
	switch typed := v.(type) {
	case string:
		return typed
	case json.Number:
		return typed.String()
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	default:
		return ""
	}
}

// Int reads an integer field such as a timestamp or id.
func (r Record) Int(key string) (int64, bool) {
	v, ok := r[key]
	if !ok || v == nil {
		return 0, false
	}
	switch typed := v.(type) {
	case int64:
		return typed, true
	case int:
		return int64(typed), true
	case float64:
		if math.IsNaN(typed) || math.IsInf(typed, 0) {
			return 0, false
		}
		return int64(typed), true
	case json.Number:
		if i, err := typed.Int64(); err == nil {
			return i, true
		}
		f, err := typed.Float64()
		if err != nil {
			return 0, false
		}
		return int64(f), true
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(typed), 10, 64)
		if err != nil {
			return 0, false
		}
		return i, true
	default:
		return 0, false
	}
}

// Number converts a decoded JSON value into a float64.
func Number(v interface{}) (float64, bool) {
	return ScaleUnits(v, 0)
}

// ScaleUnits converts a decoded JSON value to float64 after dividing by 10^decimals.
func ScaleUnits(v interface{}, decimals int32) (float64, bool) {
	var d decimal.Decimal
	switch typed := v.(type) {
	case nil:
		return 0, false
	case float64:
		if math.IsNaN(typed) || math.IsInf(typed, 0) {
			return 0, false
		}
		d = decimal.NewFromFloat(typed)
	case int64:
		d = decimal.NewFromInt(typed)
	case int:
		d = decimal.NewFromInt(int64(typed))
	case json.Number:
		parsed, err := decimal.NewFromString(typed.String())
		if err != nil {
			return 0, false
		}
		d = parsed
	case string:
		text := strings.TrimSpace(typed)
		if text == "" {
			return 0, false
		}
		parsed, err := decimal.NewFromString(text)
		if err != nil {
			return 0, false
		}
		d = parsed
	default:
		return 0, false
	}
	if decimals != 0 {
		d = d.Shift(-decimals)
	}
	return d.InexactFloat64(), true
}
