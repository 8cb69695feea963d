package stego

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gabriel-vasile/mimetype"
)

// Metadata captures the payload file's attributes at embed time. Field
// order is fixed so the serialized block is byte-reproducible.
type Metadata struct {
	Filename  string `json:"filename"`
	Extension string `json:"extension"`
	MimeType  string `json:"mime_type"`
	Size      int64  `json:"size"`
	ModTime   string `json:"mod_time,omitempty"` // RFC 3339
	Mode      uint32 `json:"mode,omitempty"`     // permission bits
	SHA256    string `json:"sha256"`
}

// CaptureMetadata records the attributes of the payload file on disk.
// The hash always covers the plaintext, regardless of encryption.
func CaptureMetadata(path string, data []byte) (*Metadata, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat payload file: %w", err)
	}
	meta := NewMetadata(filepath.Base(path), data)
	meta.Size = info.Size()
	meta.ModTime = info.ModTime().UTC().Format(time.RFC3339)
	meta.Mode = uint32(info.Mode().Perm())
	return meta, nil
}

// NewMetadata builds metadata for an in-memory payload, e.g. an upload
// where no filesystem attributes exist.
func NewMetadata(filename string, data []byte) *Metadata {
	sum := sha256.Sum256(data)
	return &Metadata{
		Filename:  filename,
		Extension: filepath.Ext(filename),
		MimeType:  mimetype.Detect(data).String(),
		Size:      int64(len(data)),
		SHA256:    hex.EncodeToString(sum[:]),
	}
}

// Apply restores the recorded permission bits and modify time onto the
// extracted file. Missing fields are skipped.
func (m *Metadata) Apply(path string) error {
	if m.Mode != 0 {
		if err := os.Chmod(path, os.FileMode(m.Mode)); err != nil {
			return fmt.Errorf("failed to restore permissions: %w", err)
		}
	}
	if m.ModTime != "" {
		t, err := time.Parse(time.RFC3339, m.ModTime)
		if err == nil {
			if err := os.Chtimes(path, t, t); err != nil {
				return fmt.Errorf("failed to restore modify time: %w", err)
			}
		}
	}
	return nil
}

// VerifyPlaintext checks the recovered plaintext against the recorded
// content hash.
func (m *Metadata) VerifyPlaintext(data []byte) bool {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]) == m.SHA256
}
