package qrlabel

import (
	"bytes"
	"testing"
)

func TestEncode_Deterministic(t *testing.T) {
	p := Payload{ProductKey: "PFZ-CV19-001", RecordID: "rec-1"}

	first := Encode(p)
	second := Encode(p)
	if first != second {
		t.Fatalf("encode not deterministic: %q vs %q", first, second)
	}
	want := `{"product_key":"PFZ-CV19-001","record_id":"rec-1"}`
	if first != want {
		t.Fatalf("unexpected payload encoding: %s", first)
	}
}

func TestDecode_RoundTrip(t *testing.T) {
	p := Payload{ProductKey: "PFZ-CV19-001", RecordID: "rec-1"}

	out, ok := Decode(Encode(p))
	if !ok {
		t.Fatal("expected decode to succeed")
	}
	if out != p {
		t.Fatalf("round trip mismatch: %+v", out)
	}
}

func TestDecode_RejectsPlainIdentifiers(t *testing.T) {
	if _, ok := Decode("PFZ-CV19-001"); ok {
		t.Fatal("bare product key should not decode as a payload")
	}
	if _, ok := Decode("{}"); ok {
		t.Fatal("empty object should not decode as a payload")
	}
	if _, ok := Decode("{broken"); ok {
		t.Fatal("malformed JSON should not decode")
	}
}

func TestRender_ProducesPNG(t *testing.T) {
	r := NewRenderer(256)
	png, err := r.Render(Payload{ProductKey: "PFZ-CV19-001", RecordID: "rec-1"})
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Fatal("output is not a PNG")
	}
}
