package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

var (
	// ErrTranscriptionTimeout marks an ASR call that did not return within
	// the configured window, as opposed to an upstream rejection.
	ErrTranscriptionTimeout = errors.New("transcription timeout")

	// ErrNoTranscription marks a 2xx response that carried no transcript.
	ErrNoTranscription = errors.New("no transcription received")
)

type asrRequest struct {
	Config asrConfig  `json:"config"`
	Audio  []asrAudio `json:"audio"`
}

type asrConfig struct {
	Language            asrLanguage `json:"language"`
	AudioFormat         string      `json:"audioFormat"`
	TranscriptionFormat struct {
		Value string `json:"value"`
	} `json:"transcriptionFormat"`
}

type asrLanguage struct {
	SourceLanguage string `json:"sourceLanguage"`
}

type asrAudio struct {
	AudioContent string `json:"audioContent"`
}

// The transcript arrives either in output[0].source or, on some
// deployments, in a top-level transcript field.
type asrResponse struct {
	Output []struct {
		Source string `json:"source"`
	} `json:"output"`
	Transcript string `json:"transcript"`
}

// ASRClient calls the external speech recognition REST endpoint with a
// bounded timeout. One attempt per request, no retries.
type ASRClient struct {
	http   *resty.Client
	url    string
	logger *zap.Logger
}

func NewASRClient(url string, timeout time.Duration, logger *zap.Logger) *ASRClient {
	client := resty.New().
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")
	return &ASRClient{
		http:   client,
		url:    url,
		logger: logger.With(zap.String("service", "asr_client")),
	}
}

// Transcribe base64-encodes the WAV payload and extracts the transcript
// from the response. Language is passed through unvalidated; callers
// default it when unset.
func (c *ASRClient) Transcribe(ctx context.Context, wav []byte, language string) (string, error) {
	payload := asrRequest{
		Audio: []asrAudio{{AudioContent: base64.StdEncoding.EncodeToString(wav)}},
	}
	payload.Config.Language.SourceLanguage = language
	payload.Config.AudioFormat = "wav"
	payload.Config.TranscriptionFormat.Value = "transcript"

	start := time.Now()
	var result asrResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(payload).
		SetResult(&result).
		Post(c.url)
	if err != nil {
		var netErr net.Error
		if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
			c.logger.Warn("ASR call timed out", zap.Duration("elapsed", time.Since(start)))
			return "", ErrTranscriptionTimeout
		}
		return "", fmt.Errorf("transcription request failed: %w", err)
	}

	if resp.IsError() {
		return "", fmt.Errorf("transcription service returned %d: %s", resp.StatusCode(), resp.String())
	}

	transcript := result.Transcript
	if len(result.Output) > 0 && result.Output[0].Source != "" {
		transcript = result.Output[0].Source
	}
	if transcript == "" {
		return "", ErrNoTranscription
	}

	c.logger.Info("Transcription completed",
		zap.String("language", language),
		zap.Int("chars", len(transcript)),
		zap.Duration("elapsed", time.Since(start)))
	return transcript, nil
}
