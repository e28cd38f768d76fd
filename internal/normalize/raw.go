package normalize

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"question-bank/internal/domain"
)

// RawQuestion is an undecoded question record as found in an input file.
// Field values stay as raw JSON so option and explanation key order survives.
type RawQuestion map[string]json.RawMessage

// ParseCollection decodes a collection: the top-level value must be a JSON array.
// Elements that are not objects become empty records and normalize to defaults.
func ParseCollection(data []byte) ([]RawQuestion, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, fmt.Errorf("%w: JSON data is not an array", domain.ErrParse)
		}
		return nil, fmt.Errorf("%w: invalid JSON: %v", domain.ErrParse, err)
	}
	if items == nil {
		return nil, fmt.Errorf("%w: JSON data is not an array", domain.ErrParse)
	}
	raws := make([]RawQuestion, 0, len(items))
	for _, item := range items {
		var raw RawQuestion
		if err := json.Unmarshal(item, &raw); err != nil || raw == nil {
			raw = RawQuestion{}
		}
		raws = append(raws, raw)
	}
	return raws, nil
}

// lookup resolves a path such as "id" or "context.courseTitle" to a decoded
// value. Missing members and JSON null are reported as absent.
func (r RawQuestion) lookup(path string) (any, bool) {
	head, rest, nested := strings.Cut(path, ".")
	msg, ok := r[head]
	if !ok {
		return nil, false
	}
	if nested {
		var inner RawQuestion
		if err := json.Unmarshal(msg, &inner); err != nil {
			return nil, false
		}
		return inner.lookup(rest)
	}
	var v any
	dec := json.NewDecoder(bytes.NewReader(msg))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil || v == nil {
		return nil, false
	}
	return v, true
}

// raw returns the undecoded member for the first present key of chain.
// canonical reports whether r looks like a marshalled domain.Question rather
// than a generated record.
func (r RawQuestion) canonical() bool {
	for _, key := range canonicalKeys {
		if _, ok := r[key]; ok {
			return true
		}
	}
	return false
}

func (r RawQuestion) raw(chain []string) (json.RawMessage, bool) {
	for _, key := range chain {
		if _, ok := r.lookup(key); ok {
			return r[key], true
		}
	}
	return nil, false
}

// firstPresent returns the first value of chain that is present and not null.
func (r RawQuestion) firstPresent(chain []string) (any, bool) {
	for _, path := range chain {
		if v, ok := r.lookup(path); ok {
			return v, true
		}
	}
	return nil, false
}

// firstTruthy returns the first value of chain that is set to something
// other than "", 0 or false.
func (r RawQuestion) firstTruthy(chain []string) (any, bool) {
	for _, path := range chain {
		if v, ok := r.lookup(path); ok && truthy(v) {
			return v, true
		}
	}
	return nil, false
}

func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case json.Number:
		f, err := t.Float64()
		return err == nil && f != 0
	default:
		return true
	}
}

// scalarText renders strings, numbers and booleans; objects and arrays yield "".
func scalarText(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case json.Number:
		return t.String(), true
	case bool:
		return strconv.FormatBool(t), true
	default:
		return "", false
	}
}

// leadingInt parses the integer prefix of s: "12", " 7", "3.9" and "4abc"
// all succeed, "q1" does not.
func leadingInt(s string) (int, bool) {
	s = strings.TrimLeft(s, " \t\n\r")
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

func intValue(v any) (int, bool) {
	text, ok := scalarText(v)
	if !ok {
		return 0, false
	}
	return leadingInt(text)
}
