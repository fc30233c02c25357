package formatter

import (
	"encoding/json"
	"io"
)

// WriteJSON encodes v to w without HTML escaping.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// BuildJSON serializes v, returning nil when v cannot be encoded.
func BuildJSON(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return b
}
