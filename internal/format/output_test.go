package format

import (
	"bytes"
	"testing"
)

func TestWriteDataEnvelope(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteData(&buf, map[string]int{"n": 1}, false); err != nil {
		t.Fatalf("WriteData: %v", err)
	}
	if got, want := buf.String(), "{\"data\":{\"n\":1}}\n"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestWriteJSONPretty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, Envelope{Data: []string{}, Meta: map[string]any{"hint": "x"}}, true); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	want := "{\n  \"data\": [],\n  \"meta\": {\n    \"hint\": \"x\"\n  }\n}\n"
	if buf.String() != want {
		t.Fatalf("got %q, want %q", buf.String(), want)
	}
}

func TestWriteJSONError(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, func() {}, false); err == nil {
		t.Fatalf("expected marshal error")
	}
}
