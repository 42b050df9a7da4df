package handlers

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prajwal-kadam12/reqgen/internal/services"
	"github.com/prajwal-kadam12/reqgen/pkg/metrics"
	"go.uber.org/zap"
)

// tempFilePrefix names the per-request scratch files so stragglers are easy
// to spot in the temp directory.
const tempFilePrefix = "reqgen-audio-"

type TranscribeHandler struct {
	transcoder      services.Transcoder
	asr             *services.ASRClient
	defaultLanguage string
	logger          *zap.Logger
	metrics         *metrics.MetricsCollector
}

func NewTranscribeHandler(
	transcoder services.Transcoder,
	asr *services.ASRClient,
	defaultLanguage string,
	logger *zap.Logger,
	metrics *metrics.MetricsCollector,
) *TranscribeHandler {
	return &TranscribeHandler{
		transcoder:      transcoder,
		asr:             asr,
		defaultLanguage: defaultLanguage,
		logger:          logger.With(zap.String("handler", "transcribe")),
		metrics:         metrics,
	}
}

// Transcribe stages the uploaded audio to disk, transcodes it to mono 16kHz
// WAV, and sends it to the external ASR service. Both temp files are
// removed on every exit path; removal failures are logged, never surfaced.
func (h *TranscribeHandler) Transcribe(c *gin.Context) {
	fileHeader, err := c.FormFile("audio")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No audio file provided"})
		return
	}

	language := c.PostForm("language")
	if language == "" {
		language = h.defaultLanguage
	}

	id := uuid.New().String()
	ext := filepath.Ext(fileHeader.Filename)
	if ext == "" {
		ext = ".audio"
	}
	inputPath := filepath.Join(os.TempDir(), tempFilePrefix+id+ext)
	wavPath := filepath.Join(os.TempDir(), tempFilePrefix+id+".wav")

	defer func() {
		for _, path := range []string{inputPath, wavPath} {
			if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
				h.logger.Warn("Temp file cleanup failed",
					zap.String("path", path),
					zap.Error(err))
			}
		}
	}()

	if err := c.SaveUploadedFile(fileHeader, inputPath); err != nil {
		h.logger.Error("Failed to stage upload", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save audio file"})
		return
	}

	if err := h.transcoder.ToWAV(c.Request.Context(), inputPath, wavPath); err != nil {
		h.logger.Error("Transcoding failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	wav, err := os.ReadFile(wavPath)
	if err != nil {
		h.logger.Error("Failed to read converted audio", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read converted audio"})
		return
	}

	start := time.Now()
	transcript, err := h.asr.Transcribe(c.Request.Context(), wav, language)
	if err != nil {
		h.metrics.IncrementCounter("asr_failures", nil)
		switch {
		case errors.Is(err, services.ErrTranscriptionTimeout):
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Transcription timeout - audio processing took too long"})
		case errors.Is(err, services.ErrNoTranscription):
			c.JSON(http.StatusInternalServerError, gin.H{"error": "No transcription received"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	h.metrics.ObserveLatency("asr_transcribe", time.Since(start))

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"transcript": transcript,
		"language":   language,
	})
}
