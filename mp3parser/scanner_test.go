package mp3parser

import (
	"errors"
	"testing"
)

// MPEG-1 Layer III, 128 kbps, 44100 Hz, no padding, mono:
// frame length = 144*128000/44100 = 417 bytes, side info = 17 bytes.
const (
	testFrameLen    = 417
	testSideInfoLen = 17
)

func testFrame() []byte {
	frame := make([]byte, testFrameLen)
	frame[0], frame[1], frame[2], frame[3] = 0xFF, 0xFB, 0x90, 0xC0
	seed := uint32(0x2F6E2B1)
	for i := 4; i < testFrameLen; i++ {
		seed = seed*1664525 + 1013904223
		frame[i] = byte(seed >> 24)
	}
	return frame
}

func testCover(frames int) []byte {
	buf := make([]byte, 0, frames*testFrameLen)
	for i := 0; i < frames; i++ {
		buf = append(buf, testFrame()...)
	}
	return buf
}

func TestParseHeaderAt(t *testing.T) {
	mp3 := testFrame()
	hdr := ParseHeaderAt(mp3, 0)
	if hdr == nil {
		t.Fatal("valid frame header not recognized")
	}
	if hdr.Version != MPEGVersion1 {
		t.Errorf("version = %v, want 1", hdr.Version)
	}
	if hdr.Bitrate != 128000 {
		t.Errorf("bitrate = %d, want 128000", hdr.Bitrate)
	}
	if hdr.SampleRate != 44100 {
		t.Errorf("sample rate = %d, want 44100", hdr.SampleRate)
	}
	if !hdr.Mono() {
		t.Error("channel mode should be mono")
	}
	if hdr.FrameLength != testFrameLen {
		t.Errorf("frame length = %d, want %d", hdr.FrameLength, testFrameLen)
	}
	if hdr.SideInfoLen != testSideInfoLen {
		t.Errorf("side info length = %d, want %d", hdr.SideInfoLen, testSideInfoLen)
	}
}

func TestParseHeaderAtRejectsInvalid(t *testing.T) {
	valid := testFrame()
	tests := []struct {
		name   string
		mutate func(b []byte)
	}{
		{"bad sync first byte", func(b []byte) { b[0] = 0xFE }},
		{"bad sync second byte", func(b []byte) { b[1] = 0x7B }},
		{"layer I", func(b []byte) { b[1] = 0xFF }},            // layer bits 11
		{"layer II", func(b []byte) { b[1] = 0xFD }},           // layer bits 10
		{"reserved version", func(b []byte) { b[1] = 0xEB }},   // version bits 01
		{"free bitrate", func(b []byte) { b[2] = 0x00 }},       // index 0
		{"bad bitrate index", func(b []byte) { b[2] = 0xF0 }},  // index 15
		{"reserved sample rate", func(b []byte) { b[2] = 0x9C }}, // index 3
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mp3 := append([]byte(nil), valid...)
			tt.mutate(mp3)
			if hdr := ParseHeaderAt(mp3, 0); hdr != nil {
				t.Errorf("header accepted: %+v", hdr)
			}
		})
	}
}

func TestParseHeaderMPEG2(t *testing.T) {
	// MPEG-2, Layer III, 80 kbps (index 9), 22050 Hz, stereo:
	// frame length = 72*80000/22050 = 261, side info 17 bytes.
	mp3 := []byte{0xFF, 0xF3, 0x90, 0x00}
	hdr := ParseHeaderAt(mp3, 0)
	if hdr == nil {
		t.Fatal("valid MPEG-2 header not recognized")
	}
	if hdr.Version != MPEGVersion2 {
		t.Errorf("version = %v, want 2", hdr.Version)
	}
	if hdr.FrameLength != 261 {
		t.Errorf("frame length = %d, want 261", hdr.FrameLength)
	}
	if hdr.SideInfoLen != 17 {
		t.Errorf("side info length = %d, want 17", hdr.SideInfoLen)
	}
}

func TestSideInfoLengths(t *testing.T) {
	tests := []struct {
		version MPEGVersion
		mono    bool
		want    int
	}{
		{MPEGVersion1, false, 32},
		{MPEGVersion1, true, 17},
		{MPEGVersion2, false, 17},
		{MPEGVersion2, true, 9},
		{MPEGVersion25, false, 17},
		{MPEGVersion25, true, 9},
	}
	for _, tt := range tests {
		if got := sideInfoLength(tt.version, tt.mono); got != tt.want {
			t.Errorf("sideInfoLength(%v, mono=%v) = %d, want %d",
				tt.version, tt.mono, got, tt.want)
		}
	}
}

func TestScanRegions(t *testing.T) {
	mp3 := testCover(3)
	regions, err := ScanRegions(mp3)
	if err != nil {
		t.Fatalf("ScanRegions failed: %v", err)
	}
	if len(regions) != 3 {
		t.Fatalf("got %d regions, want 3", len(regions))
	}
	for i, r := range regions {
		wantStart := i*testFrameLen + 4 + testSideInfoLen
		wantEnd := (i + 1) * testFrameLen
		if r.Start != wantStart || r.End != wantEnd {
			t.Errorf("region %d = [%d, %d), want [%d, %d)", i, r.Start, r.End, wantStart, wantEnd)
		}
	}
	if total := TotalUsableBytes(regions); total != 3*(testFrameLen-4-testSideInfoLen) {
		t.Errorf("total usable = %d", total)
	}
}

func TestScanRegionsLimitCapsPerFrame(t *testing.T) {
	mp3 := testCover(2)
	regions, err := ScanRegionsLimit(mp3, 100)
	if err != nil {
		t.Fatalf("ScanRegionsLimit failed: %v", err)
	}
	for i, r := range regions {
		if r.Len() != 100 {
			t.Errorf("region %d length = %d, want 100", i, r.Len())
		}
	}
}

func TestScanRegionsSkipsID3v2(t *testing.T) {
	// 10-byte ID3v2 header plus 200 tag bytes, synch-safe encoded size.
	tag := append([]byte("ID3"), 0x04, 0x00, 0x00, 0x00, 0x00, 0x01, 0x48)
	tag = append(tag, make([]byte, 200)...)
	mp3 := append(tag, testCover(2)...)

	if off := SkipID3v2(mp3); off != 210 {
		t.Fatalf("SkipID3v2 = %d, want 210", off)
	}

	regions, err := ScanRegions(mp3)
	if err != nil {
		t.Fatalf("ScanRegions failed: %v", err)
	}
	if len(regions) != 2 {
		t.Fatalf("got %d regions, want 2", len(regions))
	}
	if want := 210 + 4 + testSideInfoLen; regions[0].Start != want {
		t.Errorf("first region starts at %d, want %d", regions[0].Start, want)
	}
}

func TestScanRegionsResynchronizes(t *testing.T) {
	garbage := []byte{0x01, 0x02, 0xFF, 0x03, 0x42, 0x99, 0x00}
	mp3 := append(garbage, testCover(2)...)

	regions, err := ScanRegions(mp3)
	if err != nil {
		t.Fatalf("ScanRegions failed: %v", err)
	}
	if len(regions) != 2 {
		t.Fatalf("got %d regions, want 2", len(regions))
	}
	if want := len(garbage) + 4 + testSideInfoLen; regions[0].Start != want {
		t.Errorf("first region starts at %d, want %d", regions[0].Start, want)
	}
}

func TestScanRegionsNoFrames(t *testing.T) {
	_, err := ScanRegions(make([]byte, 1024))
	if !errors.Is(err, ErrNoUsableFrames) {
		t.Errorf("err = %v, want ErrNoUsableFrames", err)
	}
}

func TestScanRegionsTruncatedFinalFrame(t *testing.T) {
	mp3 := append(testCover(2), testFrame()[:100]...)
	regions, err := ScanRegions(mp3)
	if err != nil {
		t.Fatalf("ScanRegions failed: %v", err)
	}
	if len(regions) != 2 {
		t.Errorf("got %d regions, want 2 (truncated frame must be dropped)", len(regions))
	}
}

func TestCountFrames(t *testing.T) {
	if got := CountFrames(testCover(5)); got != 5 {
		t.Errorf("CountFrames = %d, want 5", got)
	}
}
