package backendapi

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// The quiz backend is inconsistent about response shapes: objects sometimes
// arrive nested under a "data" wrapper, and list endpoints sometimes return
// a bare array instead of a keyed object. Each helper below accepts every
// shape the backend is known to produce and yields one canonical value, so
// the ambiguity never leaks past this package.

// flexibleID is an identifier the backend serializes either as a JSON number
// or as a string.
type flexibleID string

func (f *flexibleID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexibleID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("identifier is neither string nor number: %w", err)
	}
	*f = flexibleID(n.String())
	return nil
}

// unwrapData decodes body into dst, looking through an optional {"data": ...}
// envelope first.
func unwrapData(body []byte, dst interface{}) error {
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && len(envelope.Data) > 0 {
		body = envelope.Data
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("unexpected response shape: %w", err)
	}
	return nil
}

// unwrapList decodes a list that is either bare ([...]) or wrapped in an
// object under the given key ({"key": [...]}), with or without the "data"
// envelope on top.
func unwrapList(body []byte, key string, dst interface{}) error {
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && len(envelope.Data) > 0 {
		body = envelope.Data
	}

	trimmed := bytes.TrimLeft(body, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, dst); err != nil {
			return fmt.Errorf("unexpected list shape: %w", err)
		}
		return nil
	}

	var keyed map[string]json.RawMessage
	if err := json.Unmarshal(body, &keyed); err != nil {
		return fmt.Errorf("unexpected list shape: %w", err)
	}
	raw, ok := keyed[key]
	if !ok || len(raw) == 0 {
		// Keyed object without the expected key: treat as empty, the
		// configurator falls back to defaults anyway.
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("unexpected list shape under %q: %w", key, err)
	}
	return nil
}
