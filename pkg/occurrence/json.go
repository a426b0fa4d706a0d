package occurrence

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// MarshalJSON encodes the map as a JSON object in container order.
func (m *Map[T]) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	if m != nil {
		for i, e := range m.entries {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(string(e.Key))
			if err != nil {
				return nil, err
			}
			value, err := json.Marshal(e.Value)
			if err != nil {
				return nil, fmt.Errorf("failed to encode count for %q: %w", e.Key, err)
			}
			buf.Write(key)
			buf.WriteByte(':')
			buf.Write(value)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object, keeping the order of the document.
func (m *Map[T]) UnmarshalJSON(data []byte) error {
	m.entries = nil
	m.index = make(map[Countable]int)

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("occurrence map must be a JSON object, got %v", tok)
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected key token %v", tok)
		}
		var value T
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("failed to decode count for %q: %w", key, err)
		}
		m.Add(Countable(key), value)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}
