package convert

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"

	apperrors "rvc-service/internal/app/errors"
)

// SynthesisRequest asks for text spoken in the voice of SpeakerWav, written to OutputPath as WAV.
type SynthesisRequest struct {
	Text       string
	SpeakerWav string
	Language   string
	OutputPath string
}

// Synthesizer is a zero-shot speech synthesis engine.
type Synthesizer interface {
	Name() string
	Synthesize(ctx context.Context, req SynthesisRequest) error
}

// API endpoints and headers of the XTTS HTTP server.
const (
	apiGenerateSpeech = "/v1/generate/speech"
	apiHealth         = "/health"
	contentTypeJSON   = "application/json"
	contentTypeWAV    = "audio/wav"
	defaultLanguage   = "en"
)

// HTTPSynthesizer calls a standalone XTTS HTTP server.
type HTTPSynthesizer struct {
	httpClient  *http.Client
	baseURL     string
	temperature float64
}

var _ Synthesizer = (*HTTPSynthesizer)(nil)

// ttsRequest is the JSON payload of the generate endpoint.
type ttsRequest struct {
	Text           string  `json:"text"`
	SpeakerRefPath string  `json:"speaker_ref_path,omitempty"`
	Language       string  `json:"language"`
	Temperature    float64 `json:"temperature"`
}

type ttsErrorResponse struct {
	Detail    string `json:"detail"`
	ErrorCode string `json:"error_code,omitempty"`
}

// NewHTTPSynthesizer creates a client for baseURL (e.g. "http://localhost:8020").
func NewHTTPSynthesizer(baseURL string, timeout time.Duration) *HTTPSynthesizer {
	return &HTTPSynthesizer{
		httpClient:  &http.Client{Timeout: timeout},
		baseURL:     strings.TrimRight(baseURL, "/"),
		temperature: 0.75,
	}
}

func (s *HTTPSynthesizer) Name() string {
	return "xtts-http"
}

func (s *HTTPSynthesizer) Synthesize(ctx context.Context, req SynthesisRequest) error {
	if req.Text == "" {
		return apperrors.ErrEmptyText
	}
	if req.Language == "" {
		req.Language = defaultLanguage
	}

	body, err := json.Marshal(ttsRequest{
		Text:           req.Text,
		SpeakerRefPath: req.SpeakerWav,
		Language:       req.Language,
		Temperature:    s.temperature,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+apiGenerateSpeech, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", contentTypeJSON)
	httpReq.Header.Set("Accept", contentTypeWAV)

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to send request to TTS service at %s: %w", s.baseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return parseErrorResponse(resp)
	}
	if ct := resp.Header.Get("Content-Type"); ct != contentTypeWAV {
		return fmt.Errorf("unexpected content type: expected audio/wav, got %s", ct)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read audio data: %w", err)
	}
	if len(audio) == 0 {
		return apperrors.ErrEmptyOutput
	}
	return os.WriteFile(req.OutputPath, audio, 0o644)
}

// HealthCheck verifies that the TTS server answers on its health endpoint.
func (s *HTTPSynthesizer) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+apiHealth, http.NoBody)
	if err != nil {
		return fmt.Errorf("failed to create health check request: %w", err)
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("health check failed for service at %s: %w", s.baseURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("TTS service unhealthy: %s", resp.Status)
	}
	return nil
}

func parseErrorResponse(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var errResp ttsErrorResponse
	if err := json.Unmarshal(raw, &errResp); err == nil && errResp.Detail != "" {
		return fmt.Errorf("TTS service error (%s): %s (code: %s)", resp.Status, errResp.Detail, errResp.ErrorCode)
	}
	return fmt.Errorf("TTS service returned non-OK status: %s, body: %s", resp.Status, strings.TrimSpace(string(raw)))
}

// CLISynthesizer runs the Coqui `tts` command line tool.
type CLISynthesizer struct {
	binary  string
	model   string
	timeout time.Duration
	logger  *zap.Logger
}

var _ Synthesizer = (*CLISynthesizer)(nil)

// NewCLISynthesizer resolves binary on PATH. It returns an error when the tool is not installed.
func NewCLISynthesizer(binary, modelName string, timeout time.Duration, logger *zap.Logger) (*CLISynthesizer, error) {
	path, err := exec.LookPath(binary)
	if err != nil {
		return nil, apperrors.Wrapf(apperrors.ErrSynthesizerUnavailable, "%s not found", binary)
	}
	return &CLISynthesizer{binary: path, model: modelName, timeout: timeout, logger: logger}, nil
}

func (s *CLISynthesizer) Name() string {
	return "xtts-cli"
}

// Args returns the command line passed to the tts binary.
func (s *CLISynthesizer) Args(req SynthesisRequest) []string {
	language := req.Language
	if language == "" {
		language = defaultLanguage
	}
	return []string{
		"--model_name", s.model,
		"--text", req.Text,
		"--speaker_wav", req.SpeakerWav,
		"--language_idx", language,
		"--out_path", req.OutputPath,
	}
}

func (s *CLISynthesizer) Synthesize(ctx context.Context, req SynthesisRequest) error {
	if req.Text == "" {
		return apperrors.ErrEmptyText
	}
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	s.logger.Info("using XTTS model", zap.String("model", s.model))

	cmd := exec.CommandContext(ctx, s.binary, s.Args(req)...)
	cmd.WaitDelay = defaultWaitDelay
	stderr := newTailBuffer(defaultStderrLimit)
	cmd.Stderr = stderr

	if err := cmd.Run(); err != nil {
		return &BackendError{Backend: BackendXTTS, Op: "synthesize", Err: err, Stderr: strings.TrimSpace(stderr.String())}
	}
	if info, err := os.Stat(req.OutputPath); err != nil || info.Size() == 0 {
		return &BackendError{Backend: BackendXTTS, Op: "synthesize", Err: apperrors.ErrEmptyOutput}
	}
	return nil
}

// IsUnavailable reports whether err means no synthesizer could be used at all.
func IsUnavailable(err error) bool {
	return errors.Is(err, apperrors.ErrSynthesizerUnavailable)
}
