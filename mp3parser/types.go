package mp3parser

// MPEGVersion identifies the audio version encoded in a frame header.
type MPEGVersion int

const (
	MPEGVersion1 MPEGVersion = iota
	MPEGVersion2
	MPEGVersion25
)

func (v MPEGVersion) String() string {
	switch v {
	case MPEGVersion1:
		return "1"
	case MPEGVersion2:
		return "2"
	default:
		return "2.5"
	}
}

// FrameHeader holds the decoded fields of one MPEG Layer III frame header.
type FrameHeader struct {
	Version     MPEGVersion
	Bitrate     int // bits per second
	SampleRate  int // Hz
	Padding     bool
	ChannelMode int
	FrameLength int // total bytes including the 4-byte header
	SideInfoLen int
}

// Mono reports whether the channel mode is single channel.
func (h *FrameHeader) Mono() bool {
	return h.ChannelMode == 3
}

// Region is a half-open byte range [Start, End) of main data inside the
// MP3 buffer. Frame headers and side information never fall inside a region.
type Region struct {
	Start int
	End   int
}

func (r Region) Len() int {
	return r.End - r.Start
}

// TotalUsableBytes sums the lengths of all regions, i.e. the length of the
// virtual flat usable byte stream.
func TotalUsableBytes(regions []Region) int {
	total := 0
	for _, r := range regions {
		total += r.Len()
	}
	return total
}
