package audio

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"mp3stego-backend/models"

	"github.com/bogem/id3v2"
	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/tosone/minimp3"
)

// Inspector decodes covers for reporting and playback preview. This is the
// collaborator path around the codec: the codec itself never decodes audio.
type Inspector struct{}

func NewInspector() *Inspector {
	return &Inspector{}
}

// DecodeMP3 fully decodes the cover to 16-bit PCM and reports its audio
// properties.
func (in *Inspector) DecodeMP3(mp3Data []byte) ([]byte, *models.AudioMetadata, error) {
	decoder, data, err := minimp3.DecodeFull(mp3Data)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode MP3: %v", err)
	}
	defer decoder.Close()

	totalBytes := len(data)
	samplesPerChannel := totalBytes / 2 / decoder.Channels // 2 bytes per 16-bit sample
	duration := float64(samplesPerChannel) / float64(decoder.SampleRate)

	metadata := &models.AudioMetadata{
		SampleRate: decoder.SampleRate,
		Channels:   decoder.Channels,
		BitDepth:   16,
		Duration:   duration,
		TotalBytes: totalBytes,
	}

	return data, metadata, nil
}

// ReadTags summarizes the cover's ID3v2 tags. Covers without a tag return
// an empty summary, not an error.
func (in *Inspector) ReadTags(mp3Data []byte) *models.TagSummary {
	tag, err := id3v2.ParseReader(bytes.NewReader(mp3Data), id3v2.Options{Parse: true})
	if err != nil || tag == nil {
		return &models.TagSummary{}
	}
	return &models.TagSummary{
		Title:  tag.Title(),
		Artist: tag.Artist(),
		Album:  tag.Album(),
		Year:   tag.Year(),
		Genre:  tag.Genre(),
	}
}

// EncodePCMToWAV renders decoded PCM as a WAV buffer for browser playback.
func (in *Inspector) EncodePCMToWAV(pcmData []byte, metadata *models.AudioMetadata) ([]byte, error) {
	if len(pcmData)%2 != 0 {
		return nil, fmt.Errorf("PCM data length must be even for 16-bit samples")
	}

	sampleCount := len(pcmData) / 2
	samples := make([]int, sampleCount)

	for i := range sampleCount {
		// Little-endian 16-bit sample
		low := int16(pcmData[i*2])
		high := int16(pcmData[i*2+1])
		samples[i] = int(low | (high << 8))
	}

	format := &goaudio.Format{
		NumChannels: metadata.Channels,
		SampleRate:  metadata.SampleRate,
	}

	buf := &goaudio.IntBuffer{
		Format: format,
		Data:   samples,
	}

	// wav.NewEncoder needs a WriteSeeker, so go through a temp file
	tempFile, err := os.CreateTemp("", "preview_*.wav")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %v", err)
	}
	defer tempFile.Close()
	defer os.Remove(tempFile.Name())

	encoder := wav.NewEncoder(tempFile, metadata.SampleRate, metadata.BitDepth, metadata.Channels, 1)

	if err := encoder.Write(buf); err != nil {
		return nil, fmt.Errorf("failed to encode WAV: %v", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("failed to close WAV encoder: %v", err)
	}

	if _, err := tempFile.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	wavData, err := io.ReadAll(tempFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read WAV data: %v", err)
	}

	return wavData, nil
}
