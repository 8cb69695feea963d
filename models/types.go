// Package models contain needed models
package models

// StegoResponse represents the response after an embed failure (the
// success path streams the stego file directly).
type StegoResponse struct {
	Success bool    `json:"success"`
	Message string  `json:"message"`
	PSNR    float64 `json:"psnr,omitempty"`
}

// ExtractResponse represents the response after an extraction failure.
type ExtractResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// AnalyzeResponse summarizes a cover's embedding capacity and audio
// properties.
type AnalyzeResponse struct {
	Success     bool           `json:"success"`
	FrameCount  int            `json:"frame_count"`
	UsableBytes int            `json:"usable_bytes"`
	Capacities  map[string]int `json:"capacities"` // container bytes per n-LSB
	Audio       *AudioMetadata `json:"audio,omitempty"`
	Tags        *TagSummary    `json:"tags,omitempty"`
}

// AudioMetadata represents decoded properties of an audio file
type AudioMetadata struct {
	SampleRate int     `json:"sample_rate"`
	Channels   int     `json:"channels"`
	BitDepth   int     `json:"bit_depth"`
	Duration   float64 `json:"duration_seconds"`
	TotalBytes int     `json:"pcm_bytes"`
}

// TagSummary carries the common ID3v2 fields of a cover.
type TagSummary struct {
	Title  string `json:"title,omitempty"`
	Artist string `json:"artist,omitempty"`
	Album  string `json:"album,omitempty"`
	Year   string `json:"year,omitempty"`
	Genre  string `json:"genre,omitempty"`
}
