package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Entry is one key/value pair of a JSON object, kept in document order.
type Entry struct {
	Key   string
	Value string
}

// DecodeEntries walks a JSON object and returns its string-valued members in
// document order. Members with non-string values are skipped. ok is false when
// data is not a JSON object.
func DecodeEntries(data []byte) (entries []Entry, ok bool, err error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, false, err
	}
	if delim, isDelim := tok.(json.Delim); !isDelim || delim != '{' {
		return nil, false, nil
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, true, err
		}
		key, isString := keyTok.(string)
		if !isString {
			return nil, true, fmt.Errorf("unexpected object key %v", keyTok)
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, true, err
		}
		var text string
		if err := json.Unmarshal(value, &text); err != nil {
			continue
		}
		entries = append(entries, Entry{Key: key, Value: text})
	}
	if _, err := dec.Token(); err != nil {
		return nil, true, err
	}
	return entries, true, nil
}

func encodeEntries(entries []Entry) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, entry := range entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(entry.Key)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(entry.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
