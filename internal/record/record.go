// Package record provides tolerant field access into nested, loosely
// structured records as returned by scraping actors. Upstream payloads
// come in more than one shape, so callers resolve each canonical field
// through an ordered list of candidate paths.
package record

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Lookup walks rec along a dot-separated path ("authorMeta.name") and
// returns the value at the end of it. The second return is false when any
// segment is missing or a non-map value is hit before the last segment.
func Lookup(rec map[string]any, path string) (any, bool) {
	current := any(rec)
	for _, key := range strings.Split(path, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = m[key]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// FirstString resolves the first path that yields a non-empty string.
// Missing paths and empty strings both fall through to the next candidate.
func FirstString(rec map[string]any, paths ...string) string {
	for _, path := range paths {
		v, ok := Lookup(rec, path)
		if !ok {
			continue
		}
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// FirstCount resolves the first path that yields a nonzero count,
// defaulting to 0. An explicit 0 falls through to the next candidate:
// upstream shapes duplicate metrics across locations and a populated
// source rarely carries a true zero for an active account. A legitimately
// zero metric is therefore indistinguishable from an absent one.
func FirstCount(rec map[string]any, paths ...string) int {
	for _, path := range paths {
		v, ok := Lookup(rec, path)
		if !ok {
			continue
		}
		if n, ok := asCount(v); ok && n != 0 {
			return n
		}
	}
	return 0
}

// asCount coerces the numeric encodings seen in actor output. Decoded
// JSON numbers arrive as float64; some actors emit counts as strings.
func asCount(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		return clamp(int(n)), true
	case int:
		return clamp(n), true
	case int64:
		return clamp(int(n)), true
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return clamp(int(i)), true
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, false
		}
		return clamp(i), true
	default:
		return 0, false
	}
}

func clamp(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
