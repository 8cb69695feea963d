package stego

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"mp3stego-backend/mp3parser"
)

func TestBitReaderHandComputed(t *testing.T) {
	// Message bits 10110011 01011010 packed 3 at a time, MSB first, into
	// the low bits of each stream byte; high bits are carrier noise.
	stream := []byte{
		0xF8 | 0b101,
		0xF8 | 0b100,
		0xF8 | 0b110,
		0xF8 | 0b101,
		0xF8 | 0b101,
		0xF8 | 0b000, // only the field's top bit (message bit 16) is consumed
	}

	br, err := NewBitReader(stream, 3, 0)
	if err != nil {
		t.Fatal(err)
	}
	got, err := br.ReadBytes(2)
	if err != nil {
		t.Fatal(err)
	}
	if want := []byte{0xB3, 0x5A}; !bytes.Equal(got, want) {
		t.Errorf("ReadBytes = %08b, want %08b", got, want)
	}
}

func TestBitReaderRoundTripAgainstWriter(t *testing.T) {
	message := []byte("group widths need not divide eight")
	for nlsb := 1; nlsb <= 4; nlsb++ {
		carrier := make([]byte, len(message)*8/nlsb+16)
		for i := range carrier {
			carrier[i] = byte(0x30 + i%97)
		}
		regions := []mp3parser.Region{{Start: 0, End: len(carrier)}}
		writeMessage(carrier, regions, message, nlsb, 0)

		br, err := NewBitReader(carrier, nlsb, 0)
		if err != nil {
			t.Fatal(err)
		}
		got, err := br.ReadBytes(len(message))
		if err != nil {
			t.Fatalf("nlsb=%d: %v", nlsb, err)
		}
		if !bytes.Equal(got, message) {
			t.Errorf("nlsb=%d: message not reproduced", nlsb)
		}
	}
}

func TestBitReaderStartOffset(t *testing.T) {
	message := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	carrier := make([]byte, 64)
	regions := []mp3parser.Region{{Start: 0, End: len(carrier)}}
	writeMessage(carrier, regions, message, 2, 10)

	br, err := NewBitReader(carrier, 2, 10)
	if err != nil {
		t.Fatal(err)
	}
	got, err := br.ReadBytes(len(message))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, message) {
		t.Errorf("offset read = %x, want %x", got, message)
	}
}

func TestBitReaderExhaustion(t *testing.T) {
	br, err := NewBitReader(make([]byte, 4), 2, 0)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := br.ReadBytes(1); err != nil {
		t.Fatalf("first byte should be available: %v", err)
	}
	if _, err := br.ReadBytes(1); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("err = %v, want io.ErrUnexpectedEOF", err)
	}
}

func TestBitReaderRejectsBadWidth(t *testing.T) {
	for _, nlsb := range []int{0, 5, -1} {
		if _, err := NewBitReader(make([]byte, 8), nlsb, 0); !errors.Is(err, ErrInvalidNLSB) {
			t.Errorf("nlsb=%d: err = %v, want ErrInvalidNLSB", nlsb, err)
		}
	}
}
