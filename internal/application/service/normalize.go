package service

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// DecodeList decodes raw as a JSON array, or as an object carrying the array
// under the first of keys present. Anything else yields an empty list.
func DecodeList[T any](raw json.RawMessage, keys ...string) ([]T, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return []T{}, nil
	}

	switch raw[0] {
	case '[':
		var list []T
		if err := json.Unmarshal(raw, &list); err != nil {
			return nil, fmt.Errorf("failed to decode list: %w", err)
		}
		return list, nil
	case '{':
		var wrapper map[string]json.RawMessage
		if err := json.Unmarshal(raw, &wrapper); err != nil {
			return nil, fmt.Errorf("failed to decode list wrapper: %w", err)
		}
		for _, key := range keys {
			inner, ok := wrapper[key]
			if !ok {
				continue
			}
			inner = bytes.TrimSpace(inner)
			if len(inner) == 0 || inner[0] != '[' {
				continue
			}
			return DecodeList[T](inner)
		}
	}
	return []T{}, nil
}

// DecodeListOrSingle is DecodeList that also accepts a single object as a
// one-element list. An object carrying one of keys is treated as a wrapper.
func DecodeListOrSingle[T any](raw json.RawMessage, keys ...string) ([]T, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return DecodeList[T](raw, keys...)
	}

	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(raw, &wrapper); err != nil {
		return nil, fmt.Errorf("failed to decode object: %w", err)
	}
	for _, key := range keys {
		if _, ok := wrapper[key]; ok {
			return DecodeList[T](raw, keys...)
		}
	}

	var single T
	if err := json.Unmarshal(raw, &single); err != nil {
		return nil, fmt.Errorf("failed to decode object: %w", err)
	}
	return []T{single}, nil
}
