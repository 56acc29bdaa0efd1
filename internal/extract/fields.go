package extract

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/vvka-141/sparkify/pkg/sparkify"
)

// record is one decoded JSON object with its origin.
type record struct {
	path   string
	line   int
	fields map[string]json.RawMessage
}

func decodeRecord(path string, line int, data []byte) (*record, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, malformed(path, line, "invalid JSON: %v", err)
	}
	if fields == nil {
		return nil, malformed(path, line, "expected a JSON object")
	}
	return &record{path: path, line: line, fields: fields}, nil
}

func malformed(path string, line int, format string, args ...any) error {
	return &sparkify.MalformedRecordError{Path: path, Line: line, Reason: fmt.Sprintf(format, args...)}
}

func (r *record) fail(format string, args ...any) error {
	return malformed(r.path, r.line, format, args...)
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// require returns the raw value of key, failing when the key is absent.
func (r *record) require(key string) (json.RawMessage, error) {
	raw, ok := r.fields[key]
	if !ok {
		return nil, r.fail("missing required field %q", key)
	}
	return raw, nil
}

func (r *record) has(key string) bool {
	_, ok := r.fields[key]
	return ok
}

func (r *record) str(key string) (string, error) {
	s, err := r.optStr(key)
	if err != nil {
		return "", err
	}
	if s == nil {
		return "", r.fail("field %q must not be null", key)
	}
	return *s, nil
}

func (r *record) optStr(key string) (*string, error) {
	raw, err := r.require(key)
	if err != nil || isNull(raw) {
		return nil, err
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, r.fail("field %q must be a string", key)
	}
	return &s, nil
}

// int64 accepts a JSON number or a string holding an integer.
func (r *record) int64(key string) (int64, error) {
	raw, err := r.require(key)
	if err != nil {
		return 0, err
	}
	if isNull(raw) {
		return 0, r.fail("field %q must not be null", key)
	}

	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		text = string(bytes.TrimSpace(raw))
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, r.fail("field %q must not be empty", key)
	}

	if n, err := strconv.ParseInt(text, 10, 64); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, r.fail("field %q must be an integer, got %s", key, raw)
	}
	return int64(f), nil
}

func (r *record) int(key string) (int, error) {
	n, err := r.int64(key)
	return int(n), err
}

func (r *record) float(key string) (float64, error) {
	f, err := r.optFloat(key)
	if err != nil {
		return 0, err
	}
	if f == nil {
		return 0, r.fail("field %q must be a number", key)
	}
	return *f, nil
}

// optFloat maps null and the strings "NaN"/"nan" to nil.
func (r *record) optFloat(key string) (*float64, error) {
	raw, err := r.require(key)
	if err != nil || isNull(raw) {
		return nil, err
	}

	var text string
	if json.Unmarshal(raw, &text) == nil {
		if strings.EqualFold(strings.TrimSpace(text), "nan") {
			return nil, nil
		}
	} else {
		text = string(bytes.TrimSpace(raw))
	}

	f, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, r.fail("field %q must be a number, got %s", key, raw)
	}
	return &f, nil
}
