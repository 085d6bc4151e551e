package alchemy

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// The provider's payloads are loosely typed: the same field may be a
// string, null, a number or missing depending on the endpoint version.
// These helpers decode what is usable and ignore the rest without
// failing the enclosing document.

// optString holds a JSON string. Any other JSON type leaves it invalid.
type optString struct {
	Value string
	Valid bool
}

func (s *optString) UnmarshalJSON(b []byte) error {
	if len(b) == 0 || b[0] != '"' {
		*s = optString{}
		return nil
	}
	if err := json.Unmarshal(b, &s.Value); err != nil {
		*s = optString{}
		return nil
	}
	s.Valid = true
	return nil
}

// Ptr returns nil when the value was absent or not a string.
func (s optString) Ptr() *string {
	if !s.Valid {
		return nil
	}
	v := s.Value
	return &v
}

// optText accepts strings and numbers. Numbers keep their literal text.
type optText struct {
	optString
}

func (s *optText) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && (b[0] == '-' || (b[0] >= '0' && b[0] <= '9')) {
		s.Value, s.Valid = string(b), true
		return nil
	}
	return s.optString.UnmarshalJSON(b)
}

// optInt holds a JSON integer. Anything else leaves it invalid.
type optInt struct {
	Value int
	Valid bool
}

func (n *optInt) UnmarshalJSON(b []byte) error {
	v, err := strconv.Atoi(string(bytes.TrimSpace(b)))
	if err != nil {
		*n = optInt{}
		return nil
	}
	*n = optInt{Value: v, Valid: true}
	return nil
}

// Ptr returns nil when the value was absent or not an integer.
func (n optInt) Ptr() *int {
	if !n.Valid {
		return nil
	}
	v := n.Value
	return &v
}

// objects decodes raw as a JSON array of objects. A non-array yields nil
// and non-object elements are skipped.
func objects(raw json.RawMessage) []json.RawMessage {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	out := items[:0]
	for _, it := range items {
		if it = bytes.TrimSpace(it); len(it) > 0 && it[0] == '{' {
			out = append(out, it)
		}
	}
	return out
}

// object decodes raw into v only when raw is a JSON object.
func object(raw json.RawMessage, v any) bool {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return false
	}
	return json.Unmarshal(raw, v) == nil
}
