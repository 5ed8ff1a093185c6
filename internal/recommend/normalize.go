package recommend

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// minuteKeys are the object fields a backend may use for the duration, in
// lookup order.
var minuteKeys = []string{"minutes", "recommendedDuration", "recommendedMinutes", "duration"}

var insightKeys = []string{"insight", "insightText", "message"}

// Normalize converts a recommendation response of any accepted wire shape
// into a Result. Accepted shapes:
//
//	42
//	"42"
//	{"minutes": 42, "insight": "...", "method": "ai"}
//	{"recommendedDuration": "42"}
//
// raw may be a decoded Go value or undecoded JSON ([]byte,
// json.RawMessage). Values that are missing, non-numeric, non-finite or
// not positive yield ErrNoMinutes; valid values are clamped.
func Normalize(raw any) (Result, error) {
	switch v := raw.(type) {
	case json.RawMessage:
		return normalizeJSON(v)
	case []byte:
		return normalizeJSON(v)
	case map[string]any:
		return normalizeObject(v)
	}

	f, err := number(raw)
	if err != nil {
		return Result{}, err
	}
	return Result{Minutes: Clamp(f)}, nil
}

func normalizeJSON(data []byte) (Result, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return Result{}, fmt.Errorf("decode recommendation: %w", err)
	}
	return Normalize(v)
}

func normalizeObject(obj map[string]any) (Result, error) {
	var (
		f   float64
		err = ErrNoMinutes
	)
	for _, k := range minuteKeys {
		if v, ok := obj[k]; ok && v != nil {
			f, err = number(v)
			break
		}
	}
	if err != nil {
		return Result{}, err
	}

	res := Result{Minutes: Clamp(f)}
	for _, k := range insightKeys {
		if s, ok := obj[k].(string); ok && s != "" {
			res.Insight = s
			break
		}
	}
	if m, ok := obj["method"].(string); ok {
		res.Method = m
	}
	return res, nil
}

// number extracts a valid float from a scalar wire value.
func number(v any) (float64, error) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, ErrNoMinutes
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, ErrNoMinutes
		}
		f = parsed
	default:
		return 0, ErrNoMinutes
	}
	if !Valid(f) {
		return 0, ErrNoMinutes
	}
	return f, nil
}
