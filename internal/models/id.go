package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ID is a record identifier. Backends send it either as a string or as a number.
type ID string

// UnmarshalJSON accepts string, number and null identifiers
func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("failed to decode id: %w", err)
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("failed to decode id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// String returns the identifier as text
func (id ID) String() string {
	return string(id)
}

// IsZero reports whether the identifier is empty
func (id ID) IsZero() bool {
	return id == ""
}

// firstID returns the first non-empty identifier
func firstID(ids ...ID) ID {
	for _, id := range ids {
		if !id.IsZero() {
			return id
		}
	}
	return ""
}

// firstString returns the first non-empty string
func firstString(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
