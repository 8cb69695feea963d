// Package mp3parser locates the byte ranges of an MP3 stream that are safe
// to perturb: the main data of each Layer III frame, after the 4-byte header
// and side information.
package mp3parser

import (
	"errors"
)

// ErrNoUsableFrames means the buffer contained no parsable Layer III frame
// with a non-empty main-data region. Fatal for callers.
var ErrNoUsableFrames = errors.New("no usable MP3 frames found")

// MaxMainBytesPerFrame caps how much of each frame's main data is treated
// as usable. Tunable; not part of the wire format.
const MaxMainBytesPerFrame = 512

// MinFrameLength rejects frame headers whose computed length is too small
// to be a real frame.
const MinFrameLength = 24

var bitrateTable = map[MPEGVersion][16]int{
	MPEGVersion1:  {0, 32, 40, 48, 56, 64, 80, 96, 112, 128, 160, 192, 224, 256, 320, 0},
	MPEGVersion2:  {0, 8, 16, 24, 32, 40, 48, 56, 64, 80, 96, 112, 128, 144, 160, 0},
	MPEGVersion25: {0, 8, 16, 24, 32, 40, 48, 56, 64, 80, 96, 112, 128, 144, 160, 0},
}

var sampleRateTable = map[MPEGVersion][4]int{
	MPEGVersion1:  {44100, 48000, 32000, 0},
	MPEGVersion2:  {22050, 24000, 16000, 0},
	MPEGVersion25: {11025, 12000, 8000, 0},
}

// read syncsafe int for ID3v2 size (7 usable bits per byte)
func syncSafeToInt(b []byte) int {
	return int(b[0]&0x7F)<<21 |
		int(b[1]&0x7F)<<14 |
		int(b[2]&0x7F)<<7 |
		int(b[3]&0x7F)
}

// SkipID3v2 returns the offset of the first byte after a leading ID3v2 tag,
// or 0 when the buffer does not start with one.
func SkipID3v2(mp3 []byte) int {
	if len(mp3) >= 10 && string(mp3[:3]) == "ID3" {
		total := 10 + syncSafeToInt(mp3[6:10])
		if total > len(mp3) {
			return len(mp3)
		}
		return total
	}
	return 0
}

// ParseHeaderAt decodes a Layer III frame header at the given offset.
// A nil header means no valid frame starts there.
func ParseHeaderAt(mp3 []byte, off int) *FrameHeader {
	if off+4 > len(mp3) {
		return nil
	}
	b1, b2, b3, b4 := mp3[off], mp3[off+1], mp3[off+2], mp3[off+3]

	// Sync: 11 set bits, then Layer III, version not reserved
	if b1 != 0xFF || (b2&0xE0) != 0xE0 {
		return nil
	}
	verBits := (b2 >> 3) & 0x03
	layerBits := (b2 >> 1) & 0x03
	if layerBits != 0x01 { // Layer III
		return nil
	}

	var version MPEGVersion
	switch verBits {
	case 0x03:
		version = MPEGVersion1
	case 0x02:
		version = MPEGVersion2
	case 0x00:
		version = MPEGVersion25
	default: // reserved
		return nil
	}

	bitrateIdx := (b3 >> 4) & 0x0F
	srIdx := (b3 >> 2) & 0x03
	padding := (b3>>1)&0x01 == 1
	channelMode := int((b4 >> 6) & 0x03)

	if bitrateIdx == 0 || bitrateIdx == 0x0F {
		return nil
	}
	if srIdx == 0x03 {
		return nil
	}

	bitrate := bitrateTable[version][bitrateIdx] * 1000
	sampleRate := sampleRateTable[version][srIdx]

	coef := 72
	if version == MPEGVersion1 {
		coef = 144
	}
	frameLen := coef * bitrate / sampleRate
	if padding {
		frameLen++
	}
	if frameLen < MinFrameLength {
		return nil
	}

	sideInfoLen := sideInfoLength(version, channelMode == 3)

	return &FrameHeader{
		Version:     version,
		Bitrate:     bitrate,
		SampleRate:  sampleRate,
		Padding:     padding,
		ChannelMode: channelMode,
		FrameLength: frameLen,
		SideInfoLen: sideInfoLen,
	}
}

func sideInfoLength(version MPEGVersion, mono bool) int {
	if version == MPEGVersion1 {
		if mono {
			return 17
		}
		return 32
	}
	if mono {
		return 9
	}
	return 17
}

// ScanRegions walks the buffer and returns the ordered main-data regions of
// every parsable frame, capped per frame at MaxMainBytesPerFrame.
func ScanRegions(mp3 []byte) ([]Region, error) {
	return ScanRegionsLimit(mp3, MaxMainBytesPerFrame)
}

// ScanRegionsLimit is ScanRegions with a caller-chosen per-frame cap.
func ScanRegionsLimit(mp3 []byte, maxMainBytes int) ([]Region, error) {
	var regions []Region

	off := SkipID3v2(mp3)
	for off+4 <= len(mp3) {
		hdr := ParseHeaderAt(mp3, off)
		if hdr == nil {
			// Not a frame boundary; resynchronize one byte at a time.
			off++
			continue
		}
		if off+hdr.FrameLength > len(mp3) {
			// Truncated final frame
			break
		}
		start := off + 4 + hdr.SideInfoLen
		end := off + hdr.FrameLength
		if end > start+maxMainBytes {
			end = start + maxMainBytes
		}
		if start < end {
			regions = append(regions, Region{Start: start, End: end})
		}
		off += hdr.FrameLength
	}

	if len(regions) == 0 {
		return nil, ErrNoUsableFrames
	}
	return regions, nil
}

// CountFrames reports how many parsable frames ScanRegions would visit,
// including frames whose main data is empty.
func CountFrames(mp3 []byte) int {
	count := 0
	off := SkipID3v2(mp3)
	for off+4 <= len(mp3) {
		hdr := ParseHeaderAt(mp3, off)
		if hdr == nil {
			off++
			continue
		}
		if off+hdr.FrameLength > len(mp3) {
			break
		}
		count++
		off += hdr.FrameLength
	}
	return count
}
