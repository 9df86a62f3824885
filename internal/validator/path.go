package validator

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// lookup walks root along path. found is false when a key or index does not
// exist; err is reserved for a malformed path.
func lookup(root ldvalue.Value, path string) (ldvalue.Value, bool, error) {
	path = trimPath(path)
	current := root
	for _, seg := range splitPathSegments(path) {
		if seg == "" {
			continue
		}
		key, indexes, err := parseSegment(seg)
		if err != nil {
			return ldvalue.Null(), false, fmt.Errorf("path %q: %w", path, err)
		}
		if key != "" {
			if current.Type() != ldvalue.ObjectType || !hasKey(current, key) {
				return ldvalue.Null(), false, nil
			}
			current = current.GetByKey(key)
		}
		for _, idx := range indexes {
			if current.Type() != ldvalue.ArrayType || idx < 0 || idx >= current.Count() {
				return ldvalue.Null(), false, nil
			}
			current = current.GetByIndex(idx)
		}
	}
	return current, true, nil
}

// lookupRaw is lookup over the undecoded body, so number literals keep every
// digit.
func lookupRaw(body []byte, path string) (json.RawMessage, bool, error) {
	path = trimPath(path)
	current := json.RawMessage(body)
	for _, seg := range splitPathSegments(path) {
		if seg == "" {
			continue
		}
		key, indexes, err := parseSegment(seg)
		if err != nil {
			return nil, false, fmt.Errorf("path %q: %w", path, err)
		}
		if key != "" {
			var obj map[string]json.RawMessage
			if json.Unmarshal(current, &obj) != nil || obj == nil {
				return nil, false, nil
			}
			next, ok := obj[key]
			if !ok {
				return nil, false, nil
			}
			current = next
		}
		for _, idx := range indexes {
			var arr []json.RawMessage
			if json.Unmarshal(current, &arr) != nil || idx < 0 || idx >= len(arr) {
				return nil, false, nil
			}
			current = arr[idx]
		}
	}
	return current, true, nil
}

func trimPath(path string) string {
	path = strings.TrimPrefix(strings.TrimSpace(path), "$")
	return strings.TrimPrefix(path, ".")
}

// parseSegment splits "tags[0]" into its key and indexes.
func parseSegment(seg string) (string, []int, error) {
	open := strings.IndexByte(seg, '[')
	if open < 0 {
		return seg, nil, nil
	}
	indexes, err := parseIndexes(seg[open:])
	return seg[:open], indexes, err
}

func hasKey(obj ldvalue.Value, key string) bool {
	for _, k := range obj.Keys() {
		if k == key {
			return true
		}
	}
	return false
}

// parseIndexes reads one or more "[n]" groups.
func parseIndexes(s string) ([]int, error) {
	var out []int
	for s != "" {
		if s[0] != '[' {
			return nil, fmt.Errorf("unexpected %q", s)
		}
		end := strings.IndexByte(s, ']')
		if end < 0 {
			return nil, fmt.Errorf("unterminated index in %q", s)
		}
		n, err := strconv.Atoi(s[1:end])
		if err != nil {
			return nil, fmt.Errorf("invalid array index %q: %w", s[1:end], err)
		}
		out = append(out, n)
		s = s[end+1:]
	}
	return out, nil
}

// splitPathSegments splits "field.nested[0].name" on dots outside brackets.
func splitPathSegments(path string) []string {
	var segments []string
	var current strings.Builder
	depth := 0
	for _, ch := range path {
		switch ch {
		case '[':
			depth++
		case ']':
			depth--
		case '.':
			if depth == 0 {
				segments = append(segments, current.String())
				current.Reset()
				continue
			}
		}
		current.WriteRune(ch)
	}
	if current.Len() > 0 {
		segments = append(segments, current.String())
	}
	return segments
}
