// Package handlers is made to handle requests
package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"mp3stego-backend/audio"
	"mp3stego-backend/crypto"
	"mp3stego-backend/models"
	"mp3stego-backend/mp3parser"
	"mp3stego-backend/stego"

	"github.com/gin-gonic/gin"
)

const maxUploadBytes = 32 << 20 // 32MB limit

type StegoHandler struct {
	inspector *audio.Inspector
}

func NewStegoHandler() *StegoHandler {
	return &StegoHandler{
		inspector: audio.NewInspector(),
	}
}

func (h *StegoHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "MP3 steganography API is running",
		"version": "1.0.0",
	})
}

func (h *StegoHandler) InsertMessage(c *gin.Context) {
	if err := c.Request.ParseMultipartForm(maxUploadBytes); err != nil {
		c.JSON(http.StatusBadRequest, models.StegoResponse{
			Success: false,
			Message: fmt.Sprintf("Failed to parse form: %v", err),
		})
		return
	}

	key := c.PostForm("key")
	if err := crypto.ValidateKey(key); err != nil {
		c.JSON(http.StatusBadRequest, models.StegoResponse{
			Success: false,
			Message: fmt.Sprintf("Invalid key: %v", err),
		})
		return
	}

	lsbBits, err := strconv.Atoi(c.PostForm("lsb_bits"))
	if err != nil || lsbBits < 1 || lsbBits > 4 {
		c.JSON(http.StatusBadRequest, models.StegoResponse{
			Success: false,
			Message: "LSB bits must be between 1 and 4",
		})
		return
	}

	opts := stego.Options{
		Key:         key,
		NLSB:        lsbBits,
		Encrypt:     c.PostForm("use_encryption") == "true",
		RandomStart: c.PostForm("use_random_start") == "true",
	}

	audioData, audioName, ok := h.readUpload(c, "audio_file", "Cover audio file is required")
	if !ok {
		return
	}
	if !isValidMP3File(audioName) {
		c.JSON(http.StatusBadRequest, models.StegoResponse{
			Success: false,
			Message: "Invalid audio file format. Only MP3 files are supported",
		})
		return
	}

	secretData, secretName, ok := h.readUpload(c, "secret_file", "Secret file is required")
	if !ok {
		return
	}

	meta := stego.NewMetadata(secretName, secretData)
	result, err := stego.Embed(audioData, secretData, meta, opts)
	if err != nil {
		status := http.StatusInternalServerError
		var capErr *stego.CapacityError
		switch {
		case errors.As(err, &capErr),
			errors.Is(err, stego.ErrInvalidNLSB),
			errors.Is(err, stego.ErrEmptyPayload):
			status = http.StatusBadRequest
		case errors.Is(err, mp3parser.ErrNoUsableFrames):
			status = http.StatusUnprocessableEntity
		}
		c.JSON(status, models.StegoResponse{
			Success: false,
			Message: fmt.Sprintf("Failed to embed secret data: %v", err),
		})
		return
	}

	baseFilename := strings.TrimSuffix(audioName, filepath.Ext(audioName))
	outputFilename := fmt.Sprintf("%s_stego.mp3", baseFilename)

	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Transfer-Encoding", "binary")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", outputFilename))
	c.Header("Content-Length", fmt.Sprintf("%d", len(result.Stego)))

	c.Header("X-Stego-Method", "MP3 Bitstream LSB")
	c.Header("X-Stego-Message", result.Status)
	c.Header("X-Stego-PSNR", fmt.Sprintf("%.2f", result.PSNR))
	c.Header("X-Stego-Quality", audio.EvaluateQuality(result.PSNR))
	c.Header("X-Stego-Capacity", fmt.Sprintf("%d", result.UsableBytes*lsbBits/8))

	c.Data(http.StatusOK, "audio/mpeg", result.Stego)
}

func (h *StegoHandler) ExtractMessage(c *gin.Context) {
	if err := c.Request.ParseMultipartForm(maxUploadBytes); err != nil {
		c.JSON(http.StatusBadRequest, models.ExtractResponse{
			Success: false,
			Message: fmt.Sprintf("Failed to parse form: %v", err),
		})
		return
	}

	key := c.PostForm("key")
	if err := crypto.ValidateKey(key); err != nil {
		c.JSON(http.StatusBadRequest, models.ExtractResponse{
			Success: false,
			Message: fmt.Sprintf("Invalid key: %v", err),
		})
		return
	}

	restoreMeta := c.PostForm("restore_meta") == "true"

	stegoData, stegoName, ok := h.readUploadExtract(c, "stego_file", "Stego audio file is required")
	if !ok {
		return
	}
	if !isValidMP3File(stegoName) {
		c.JSON(http.StatusBadRequest, models.ExtractResponse{
			Success: false,
			Message: "Invalid audio file format. Only MP3 files are supported",
		})
		return
	}

	// Extraction streams to disk; use a scratch dir and clean it up after
	// the response is written.
	tmpDir, err := os.MkdirTemp("", "stego_extract_*")
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ExtractResponse{
			Success: false,
			Message: fmt.Sprintf("Failed to create scratch directory: %v", err),
		})
		return
	}
	defer os.RemoveAll(tmpDir)

	result, err := stego.Extract(stegoData, key, tmpDir, restoreMeta)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, stego.ErrNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, models.ExtractResponse{
			Success: false,
			Message: fmt.Sprintf("Failed to extract secret data: %v", err),
		})
		return
	}

	secretData, err := os.ReadFile(result.OutputPath)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ExtractResponse{
			Success: false,
			Message: fmt.Sprintf("Failed to read extracted file: %v", err),
		})
		return
	}

	contentType := result.Metadata.MimeType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Transfer-Encoding", "binary")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", result.Metadata.Filename))
	c.Header("Content-Length", fmt.Sprintf("%d", len(secretData)))
	c.Header("X-Stego-Message", result.Status)

	c.Data(http.StatusOK, contentType, secretData)
}

// AnalyzeCover reports frame count, usable bytes, per-nlsb capacity and
// decoded audio properties for a cover.
func (h *StegoHandler) AnalyzeCover(c *gin.Context) {
	audioData, audioName, ok := h.readUpload(c, "audio_file", "Cover audio file is required")
	if !ok {
		return
	}
	if !isValidMP3File(audioName) {
		c.JSON(http.StatusBadRequest, models.StegoResponse{
			Success: false,
			Message: "Invalid audio file format. Only MP3 files are supported",
		})
		return
	}

	regions, err := mp3parser.ScanRegions(audioData)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, models.StegoResponse{
			Success: false,
			Message: fmt.Sprintf("Failed to analyze MP3 file: %v", err),
		})
		return
	}
	usable := mp3parser.TotalUsableBytes(regions)

	capacities := make(map[string]int, 4)
	for nlsb := 1; nlsb <= 4; nlsb++ {
		capacities[strconv.Itoa(nlsb)] = usable * nlsb / 8
	}

	resp := &models.AnalyzeResponse{
		Success:     true,
		FrameCount:  mp3parser.CountFrames(audioData),
		UsableBytes: usable,
		Capacities:  capacities,
		Tags:        h.inspector.ReadTags(audioData),
	}

	// Decode failure only degrades the report
	if _, audioMeta, err := h.inspector.DecodeMP3(audioData); err == nil {
		resp.Audio = audioMeta
	}

	c.JSON(http.StatusOK, resp)
}

// PreviewCover returns a WAV rendition of the decoded cover for playback.
func (h *StegoHandler) PreviewCover(c *gin.Context) {
	audioData, audioName, ok := h.readUpload(c, "audio_file", "Cover audio file is required")
	if !ok {
		return
	}
	if !isValidMP3File(audioName) {
		c.JSON(http.StatusBadRequest, models.StegoResponse{
			Success: false,
			Message: "Invalid audio file format. Only MP3 files are supported",
		})
		return
	}

	pcm, audioMeta, err := h.inspector.DecodeMP3(audioData)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, models.StegoResponse{
			Success: false,
			Message: fmt.Sprintf("Failed to decode MP3 file: %v", err),
		})
		return
	}

	wavData, err := h.inspector.EncodePCMToWAV(pcm, audioMeta)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.StegoResponse{
			Success: false,
			Message: fmt.Sprintf("Failed to encode WAV preview: %v", err),
		})
		return
	}

	baseFilename := strings.TrimSuffix(audioName, filepath.Ext(audioName))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.wav", baseFilename))
	c.Data(http.StatusOK, "audio/wav", wavData)
}

func (h *StegoHandler) readUpload(c *gin.Context, field, missingMsg string) ([]byte, string, bool) {
	file, header, err := c.Request.FormFile(field)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.StegoResponse{
			Success: false,
			Message: missingMsg,
		})
		return nil, "", false
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.StegoResponse{
			Success: false,
			Message: fmt.Sprintf("Failed to read %s: %v", field, err),
		})
		return nil, "", false
	}
	return data, header.Filename, true
}

func (h *StegoHandler) readUploadExtract(c *gin.Context, field, missingMsg string) ([]byte, string, bool) {
	file, header, err := c.Request.FormFile(field)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ExtractResponse{
			Success: false,
			Message: missingMsg,
		})
		return nil, "", false
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ExtractResponse{
			Success: false,
			Message: fmt.Sprintf("Failed to read %s: %v", field, err),
		})
		return nil, "", false
	}
	return data, header.Filename, true
}

func isValidMP3File(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return ext == ".mp3"
}
