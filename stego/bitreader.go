package stego

import (
	"fmt"
	"io"
)

// BitReader reassembles the hidden bit sequence from the flat usable byte
// stream. Every stego byte contributes its low nlsb bits, most significant
// first, starting after startOffset bytes.
type BitReader struct {
	data []byte
	nlsb int
	mask byte
	pos  int // next byte index in data

	acc  uint32 // pending bits, right-aligned
	nacc int
}

func NewBitReader(data []byte, nlsb, startOffset int) (*BitReader, error) {
	if nlsb < 1 || nlsb > 4 {
		return nil, ErrInvalidNLSB
	}
	if startOffset < 0 || startOffset > len(data) {
		return nil, fmt.Errorf("start offset %d out of range", startOffset)
	}
	return &BitReader{
		data: data,
		nlsb: nlsb,
		mask: byte(1<<nlsb) - 1,
		pos:  startOffset,
	}, nil
}

// ReadBytes returns the next n bytes of the hidden sequence. It fails with
// io.ErrUnexpectedEOF once the usable stream is exhausted.
func (br *BitReader) ReadBytes(n int) ([]byte, error) {
	out := make([]byte, n)
	for i := range out {
		for br.nacc < 8 {
			if br.pos >= len(br.data) {
				return nil, io.ErrUnexpectedEOF
			}
			br.acc = br.acc<<br.nlsb | uint32(br.data[br.pos]&br.mask)
			br.nacc += br.nlsb
			br.pos++
		}
		br.nacc -= 8
		out[i] = byte(br.acc >> br.nacc)
		br.acc &= (1 << br.nacc) - 1
	}
	return out, nil
}
