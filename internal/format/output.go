// Package format writes CLI output.
package format

import (
	"encoding/json"
	"fmt"
	"io"
)

// Envelope is the shape of every successful command result.
type Envelope struct {
	Data any            `json:"data"`
	Meta map[string]any `json:"meta,omitempty"`
}

// WriteData writes v wrapped in an Envelope.
func WriteData(w io.Writer, v any, pretty bool) error {
	return WriteJSON(w, Envelope{Data: v}, pretty)
}

// WriteJSON writes strict JSON followed by a newline.
//
// Output stays strict JSON only. Hints about follow-up commands go in Meta.
func WriteJSON(w io.Writer, v any, pretty bool) error {
	var b []byte
	var err error
	if pretty {
		b, err = json.MarshalIndent(v, "", "  ")
	} else {
		b, err = json.Marshal(v)
	}
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(b))
	return err
}
