package stego

import (
	"encoding/json"
	"testing"
)

func TestHeaderRoundTrip(t *testing.T) {
	in := &containerHeader{
		Flags:      FlagEncrypted | FlagRandomStart,
		NLSB:       3,
		PayloadLen: 123456,
		Checksum:   0xDEADBEEF,
		MetaLen:    210,
	}
	buf := packHeader(in)
	if len(buf) != HeaderLen {
		t.Fatalf("header length = %d, want %d", len(buf), HeaderLen)
	}
	out, err := parseHeader(buf)
	if err != nil {
		t.Fatal(err)
	}
	if *out != *in {
		t.Errorf("parsed header %+v != packed %+v", out, in)
	}
	if !out.encrypted() || !out.randomStart() {
		t.Error("flag accessors lost bits")
	}
}

func TestParseHeaderRejectsBadMagic(t *testing.T) {
	buf := packHeader(&containerHeader{NLSB: 1})
	buf[0] ^= 0xFF
	if _, err := parseHeader(buf); err == nil {
		t.Error("corrupted magic accepted")
	}
}

func TestMetadataJSONIsDeterministic(t *testing.T) {
	payload := []byte("stable serialization")
	a, err := json.Marshal(NewMetadata("doc.pdf", payload))
	if err != nil {
		t.Fatal(err)
	}
	b, err := json.Marshal(NewMetadata("doc.pdf", payload))
	if err != nil {
		t.Fatal(err)
	}
	if string(a) != string(b) {
		t.Error("metadata serialization is not reproducible")
	}
}

func TestNewMetadataCapturesAttributes(t *testing.T) {
	payload := []byte("%PDF-1.4 not really a pdf")
	meta := NewMetadata("report.pdf", payload)

	if meta.Filename != "report.pdf" {
		t.Errorf("filename = %q", meta.Filename)
	}
	if meta.Extension != ".pdf" {
		t.Errorf("extension = %q", meta.Extension)
	}
	if meta.Size != int64(len(payload)) {
		t.Errorf("size = %d, want %d", meta.Size, len(payload))
	}
	if meta.MimeType == "" {
		t.Error("mime type not captured")
	}
	if !meta.VerifyPlaintext(payload) {
		t.Error("content hash does not verify against the payload")
	}
	if meta.VerifyPlaintext([]byte("tampered")) {
		t.Error("content hash verified against different data")
	}
}
