package services

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"go.uber.org/zap"
)

// Transcoder converts an uploaded audio file into the mono 16kHz WAV the
// ASR service expects.
type Transcoder interface {
	ToWAV(ctx context.Context, inputPath, outputPath string) error
}

type FFmpegTranscoder struct {
	binPath string
	logger  *zap.Logger
}

func NewFFmpegTranscoder(binPath string, logger *zap.Logger) *FFmpegTranscoder {
	if binPath == "" {
		binPath = "ffmpeg"
	}
	return &FFmpegTranscoder{
		binPath: binPath,
		logger:  logger.With(zap.String("service", "transcoder")),
	}
}

func (t *FFmpegTranscoder) ToWAV(ctx context.Context, inputPath, outputPath string) error {
	cmd := exec.CommandContext(ctx, t.binPath,
		"-i", inputPath,
		"-y",
		"-ar", "16000",
		"-ac", "1",
		"-c:a", "pcm_s16le",
		outputPath,
	)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if len(detail) > 500 {
			detail = detail[len(detail)-500:]
		}
		t.logger.Error("ffmpeg conversion failed",
			zap.String("input", inputPath),
			zap.Error(err))
		return fmt.Errorf("audio conversion failed: %v: %s", err, detail)
	}

	t.logger.Info("Transcoded audio to 16kHz mono WAV",
		zap.String("input", inputPath),
		zap.String("output", outputPath))
	return nil
}
