// Package stego hides an arbitrary file in the main-data bytes of an MP3
// stream and recovers it blindly, validating candidates by checksum.
package stego

import (
	"encoding/json"
	"fmt"
	"hash/crc32"
	"os"

	"mp3stego-backend/audio"
	"mp3stego-backend/crypto"
	"mp3stego-backend/mp3parser"
)

// Options control one embed operation.
type Options struct {
	Key         string
	NLSB        int
	Encrypt     bool
	RandomStart bool
}

// EmbedResult carries the stego buffer plus diagnostics.
type EmbedResult struct {
	Stego       []byte
	PSNR        float64
	StartOffset int
	UsableBytes int
	Status      string
}

// Embed writes the container message into a copy of the cover. Only the low
// NLSB bits of consumed usable bytes differ from the cover; frame headers,
// side information and all bytes outside regions stay byte-identical.
func Embed(cover, payload []byte, meta *Metadata, opts Options) (*EmbedResult, error) {
	if opts.NLSB < 1 || opts.NLSB > 4 {
		return nil, ErrInvalidNLSB
	}
	if len(payload) == 0 {
		return nil, ErrEmptyPayload
	}
	if err := crypto.ValidateKey(opts.Key); err != nil {
		return nil, err
	}
	if meta == nil {
		meta = NewMetadata("secret.bin", payload)
	}

	var flags byte
	if opts.Encrypt {
		cipher := crypto.NewExtendedVigenere(opts.Key)
		payload = cipher.Encrypt(payload)
		flags |= FlagEncrypted
	}
	if opts.RandomStart {
		flags |= FlagRandomStart
	}

	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize metadata: %w", err)
	}

	header := packHeader(&containerHeader{
		Flags:      flags,
		NLSB:       byte(opts.NLSB),
		PayloadLen: uint32(len(payload)),
		Checksum:   crc32.ChecksumIEEE(payload),
		MetaLen:    uint32(len(metaJSON)),
	})

	message := make([]byte, 0, len(header)+len(metaJSON)+len(payload))
	message = append(message, header...)
	message = append(message, metaJSON...)
	message = append(message, payload...)

	regions, err := mp3parser.ScanRegions(cover)
	if err != nil {
		return nil, err
	}
	totalUsable := mp3parser.TotalUsableBytes(regions)

	startOffset := 0
	if opts.RandomStart {
		startOffset = crypto.NewKeyedRand(opts.Key).Intn(totalUsable)
	}

	messageBits := len(message) * 8
	availableBits := (totalUsable - startOffset) * opts.NLSB
	if messageBits > availableBits {
		return nil, &CapacityError{RequiredBits: messageBits, AvailableBits: availableBits}
	}

	stego := make([]byte, len(cover))
	copy(stego, cover)
	writeMessage(stego, regions, message, opts.NLSB, startOffset)

	placement := "sequential placement"
	if opts.RandomStart {
		placement = "random start"
	}
	encryption := "unencrypted"
	if opts.Encrypt {
		encryption = "encrypted"
	}

	return &EmbedResult{
		Stego:       stego,
		PSNR:        audio.CalculatePSNR(cover, stego),
		StartOffset: startOffset,
		UsableBytes: totalUsable,
		Status: fmt.Sprintf("embedded %d bytes (%s, %s, %d-LSB)",
			meta.Size, encryption, placement, opts.NLSB),
	}, nil
}

// writeMessage walks the regions in order, skips startOffset usable bytes
// and packs nlsb message bits into the low bits of each following byte.
// Message bits are consumed MSB-first across the message's byte boundaries;
// a short final group is left-aligned within the nlsb field.
func writeMessage(stego []byte, regions []mp3parser.Region, message []byte, nlsb, startOffset int) {
	mask := byte(1<<nlsb) - 1
	messageBits := len(message) * 8
	bitCursor := 0
	skip := startOffset

	for _, region := range regions {
		for pos := region.Start; pos < region.End; pos++ {
			if skip > 0 {
				skip--
				continue
			}
			if bitCursor >= messageBits {
				return
			}
			take := nlsb
			if rem := messageBits - bitCursor; rem < take {
				take = rem
			}
			var group byte
			for i := 0; i < take; i++ {
				bit := message[bitCursor/8] >> (7 - bitCursor%8) & 1
				group = group<<1 | bit
				bitCursor++
			}
			group <<= byte(nlsb - take)
			stego[pos] = stego[pos]&^mask | group
		}
	}
}

// EmbedFile is the file-level convenience wrapper: it captures the payload
// file's metadata, embeds, and writes the stego MP3 to outPath.
func EmbedFile(mp3Path, payloadPath, outPath string, opts Options) (*EmbedResult, error) {
	cover, err := os.ReadFile(mp3Path)
	if err != nil {
		return nil, err
	}
	payload, err := os.ReadFile(payloadPath)
	if err != nil {
		return nil, err
	}
	meta, err := CaptureMetadata(payloadPath, payload)
	if err != nil {
		return nil, err
	}

	result, err := Embed(cover, payload, meta, opts)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(outPath, result.Stego, 0o644); err != nil {
		return nil, err
	}
	return result, nil
}
