package stego

import (
	"encoding/json"
	"errors"
	"fmt"
	"hash/crc32"
	"os"
	"path/filepath"

	"mp3stego-backend/crypto"
	"mp3stego-backend/mp3parser"
)

// extractChunkSize bounds extraction memory: the payload is streamed to
// disk in chunks of this many bytes.
const extractChunkSize = 64 * 1024

// fatalError marks a failure no other (nlsb, offset) candidate can recover
// from, such as an unwritable output path. The trial loop aborts and
// surfaces the underlying error unmodified.
type fatalError struct{ err error }

func (e *fatalError) Error() string { return e.err.Error() }
func (e *fatalError) Unwrap() error { return e.err }

// ExtractResult describes a successful extraction.
type ExtractResult struct {
	OutputPath   string
	BytesWritten int
	NLSB         int
	Encrypted    bool
	RandomStart  bool
	Metadata     *Metadata
	Status       string
}

// Extract recovers the hidden file from a stego MP3 buffer. Neither the bit
// width nor the start offset is recoverable from the bytes alone, so every
// (nlsb, offset) candidate is tried until one passes checksum validation.
// outHint may be an explicit file path, an existing directory, or empty
// (current directory plus the recovered filename).
func Extract(stegoData []byte, key, outHint string, restoreMeta bool) (*ExtractResult, error) {
	if err := crypto.ValidateKey(key); err != nil {
		return nil, err
	}

	regions, err := mp3parser.ScanRegions(stegoData)
	if err != nil {
		return nil, err
	}

	// Materialize the flat usable stream; extraction reads it many times.
	stream := make([]byte, 0, mp3parser.TotalUsableBytes(regions))
	for _, r := range regions {
		stream = append(stream, stegoData[r.Start:r.End]...)
	}

	for _, nlsb := range []int{1, 2, 3, 4} {
		for _, offset := range offsetCandidates(key, len(stream)) {
			result, err := tryCandidate(stream, key, outHint, nlsb, offset)
			if err != nil {
				var fatal *fatalError
				if errors.As(err, &fatal) {
					return nil, fatal.err
				}
				// Rejected candidate; move on.
				continue
			}
			if restoreMeta {
				// The candidate is already accepted; a restore failure is
				// fatal, not grounds to try the next candidate.
				if err := finishRestore(result); err != nil {
					return nil, err
				}
			}
			return result, nil
		}
	}

	return nil, ErrNotFound
}

// offsetCandidates lists the start offsets the embedder could have used:
// zero, or the keyed generator's pick. Any new embed-side placement policy
// must be added here in lockstep.
func offsetCandidates(key string, totalUsable int) []int {
	if totalUsable == 0 {
		return []int{0}
	}
	seeded := crypto.NewKeyedRand(key).Intn(totalUsable)
	if seeded == 0 {
		return []int{0}
	}
	return []int{0, seeded}
}

func tryCandidate(stream []byte, key, outHint string, nlsb, offset int) (*ExtractResult, error) {
	br, err := NewBitReader(stream, nlsb, offset)
	if err != nil {
		return nil, err
	}

	headerBytes, err := br.ReadBytes(HeaderLen)
	if err != nil {
		return nil, err
	}
	header, err := parseHeader(headerBytes)
	if err != nil {
		return nil, err
	}
	if int(header.NLSB) != nlsb {
		return nil, fmt.Errorf("stored lsb width %d does not match candidate %d", header.NLSB, nlsb)
	}
	if header.MetaLen == 0 || header.MetaLen > maxMetadataLen {
		return nil, fmt.Errorf("implausible metadata length %d", header.MetaLen)
	}

	metaBytes, err := br.ReadBytes(int(header.MetaLen))
	if err != nil {
		return nil, err
	}
	var meta Metadata
	if err := json.Unmarshal(metaBytes, &meta); err != nil {
		return nil, fmt.Errorf("failed to parse metadata: %w", err)
	}

	outputPath, err := resolveOutputPath(outHint, meta.Filename)
	if err != nil {
		return nil, &fatalError{err}
	}

	written, err := streamPayload(br, key, outputPath, header)
	if err != nil {
		// A partial output file from a rejected candidate must not survive.
		os.Remove(outputPath)
		return nil, err
	}

	encryption := "unencrypted"
	if header.encrypted() {
		encryption = "encrypted"
	}
	placement := "sequential placement"
	if header.randomStart() {
		placement = "random start"
	}

	return &ExtractResult{
		OutputPath:   outputPath,
		BytesWritten: written,
		NLSB:         nlsb,
		Encrypted:    header.encrypted(),
		RandomStart:  header.randomStart(),
		Metadata:     &meta,
		Status: fmt.Sprintf("extracted %d bytes (%s, %s, %d-LSB)",
			written, encryption, placement, nlsb),
	}, nil
}

// streamPayload copies payloadLen bytes to the output file in bounded
// chunks. The running checksum covers the bytes as read, before decryption;
// decryption is phased by the absolute payload offset so chunk boundaries
// never shift the keystream.
func streamPayload(br *BitReader, key, outputPath string, header *containerHeader) (int, error) {
	out, err := os.Create(outputPath)
	if err != nil {
		return 0, &fatalError{err}
	}
	defer out.Close()

	cipher := crypto.NewExtendedVigenere(key)
	checksum := uint32(0)
	written := 0
	remaining := int(header.PayloadLen)

	for remaining > 0 {
		n := remaining
		if n > extractChunkSize {
			n = extractChunkSize
		}
		chunk, err := br.ReadBytes(n)
		if err != nil {
			return written, err
		}
		checksum = crc32.Update(checksum, crc32.IEEETable, chunk)
		if header.encrypted() {
			chunk = cipher.DecryptAt(chunk, written)
		}
		if _, err := out.Write(chunk); err != nil {
			return written, &fatalError{err}
		}
		written += n
		remaining -= n
	}

	if checksum != header.Checksum {
		return written, fmt.Errorf("payload checksum mismatch: got %08x, want %08x",
			checksum, header.Checksum)
	}
	return written, nil
}

// finishRestore applies the recorded attributes to the accepted output
// file. On failure the file is removed: callers must not be handed a
// recovered file whose attributes silently differ from the metadata.
func finishRestore(result *ExtractResult) error {
	if err := result.Metadata.Apply(result.OutputPath); err != nil {
		os.Remove(result.OutputPath)
		return err
	}
	return nil
}

func resolveOutputPath(outHint, recoveredName string) (string, error) {
	if recoveredName == "" {
		recoveredName = "extracted_data"
	}
	recoveredName = filepath.Base(recoveredName)

	if outHint == "" {
		return recoveredName, nil
	}
	info, err := os.Stat(outHint)
	if err == nil && info.IsDir() {
		return filepath.Join(outHint, recoveredName), nil
	}
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return "", err
	}
	return outHint, nil
}

// ExtractFile is the file-level convenience wrapper around Extract.
func ExtractFile(mp3Path, outHint, key string, restoreMeta bool) (*ExtractResult, error) {
	stegoData, err := os.ReadFile(mp3Path)
	if err != nil {
		return nil, err
	}
	return Extract(stegoData, key, outHint, restoreMeta)
}
