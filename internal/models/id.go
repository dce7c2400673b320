// Package models defines the records exchanged with the catalog backend and
// the derived shapes built from them (category trees, sessions).
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ID is an opaque backend identifier. The backend emits ids as JSON strings
// or numbers depending on the endpoint; both decode to the same text form.
type ID string

// UnmarshalJSON accepts a JSON string, number, or null.
func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("decode id: %w", err)
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("decode id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// String returns the id text.
func (id ID) String() string {
	return string(id)
}

// IsZero reports whether the id is empty.
func (id ID) IsZero() bool {
	return id == ""
}

// IDPtr returns a pointer to id, or nil for the zero id.
func IDPtr(id ID) *ID {
	if id.IsZero() {
		return nil
	}
	return &id
}
