package stego

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Container message layout:
//
//	magic(6) | flags(1) | nlsb(1) | payloadLen(4 BE) | crc32(4 BE) |
//	metaLen(4 BE) | reserved(2) | metadata JSON | payload
//
// The checksum covers the (possibly encrypted) payload only.
const (
	Magic     = "MP3STG"
	HeaderLen = 22

	FlagEncrypted   = 1 << 0
	FlagRandomStart = 1 << 1
)

// maxMetadataLen bounds the metadata block during blind extraction so a
// garbage header read at the wrong offset cannot demand gigabytes.
const maxMetadataLen = 1 << 20

type containerHeader struct {
	Flags      byte
	NLSB       byte
	PayloadLen uint32
	Checksum   uint32
	MetaLen    uint32
}

func (h *containerHeader) encrypted() bool {
	return h.Flags&FlagEncrypted != 0
}

func (h *containerHeader) randomStart() bool {
	return h.Flags&FlagRandomStart != 0
}

func packHeader(h *containerHeader) []byte {
	buf := make([]byte, HeaderLen)
	copy(buf[0:6], Magic)
	buf[6] = h.Flags
	buf[7] = h.NLSB
	binary.BigEndian.PutUint32(buf[8:12], h.PayloadLen)
	binary.BigEndian.PutUint32(buf[12:16], h.Checksum)
	binary.BigEndian.PutUint32(buf[16:20], h.MetaLen)
	// buf[20:22] reserved, zero
	return buf
}

func parseHeader(buf []byte) (*containerHeader, error) {
	if len(buf) < HeaderLen {
		return nil, fmt.Errorf("container header too short: %d bytes", len(buf))
	}
	if !bytes.Equal(buf[0:6], []byte(Magic)) {
		return nil, fmt.Errorf("container magic mismatch")
	}
	return &containerHeader{
		Flags:      buf[6],
		NLSB:       buf[7],
		PayloadLen: binary.BigEndian.Uint32(buf[8:12]),
		Checksum:   binary.BigEndian.Uint32(buf[12:16]),
		MetaLen:    binary.BigEndian.Uint32(buf[16:20]),
	}, nil
}
