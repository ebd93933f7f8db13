package convert

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "rvc-service/internal/app/errors"
)

func TestHTTPSynthesizer_Synthesize(t *testing.T) {
	requests := make(chan ttsRequest, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, apiGenerateSpeech, r.URL.Path)
		assert.Equal(t, contentTypeJSON, r.Header.Get("Content-Type"))
		var req ttsRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		requests <- req
		w.Header().Set("Content-Type", contentTypeWAV)
		w.Write([]byte("RIFF-synth"))
	}))
	defer server.Close()

	out := filepath.Join(t.TempDir(), "out.wav")
	s := NewHTTPSynthesizer(server.URL+"/", 5*time.Second)
	err := s.Synthesize(context.Background(), SynthesisRequest{
		Text:       "hello",
		SpeakerWav: "/data/ref.wav",
		OutputPath: out,
	})
	require.NoError(t, err)

	got := <-requests
	assert.Equal(t, "hello", got.Text)
	assert.Equal(t, "/data/ref.wav", got.SpeakerRefPath)
	assert.Equal(t, "en", got.Language)
	assert.InDelta(t, 0.75, got.Temperature, 0.0001)

	body, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "RIFF-synth", string(body))
}

func TestHTTPSynthesizer_Errors(t *testing.T) {
	tests := []struct {
		name        string
		handler     http.HandlerFunc
		errContains string
	}{
		{
			name: "structured error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnprocessableEntity)
				w.Write([]byte(`{"detail":"speaker file unreadable","error_code":"BAD_SPEAKER"}`))
			},
			errContains: "speaker file unreadable (code: BAD_SPEAKER)",
		},
		{
			name: "plain error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "gpu busy", http.StatusServiceUnavailable)
			},
			errContains: "non-OK status",
		},
		{
			name: "wrong content type",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(`{}`))
			},
			errContains: "unexpected content type",
		},
		{
			name: "empty audio",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", contentTypeWAV)
			},
			errContains: "backend produced no output",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			s := NewHTTPSynthesizer(server.URL, 5*time.Second)
			err := s.Synthesize(context.Background(), SynthesisRequest{
				Text:       "hello",
				OutputPath: filepath.Join(t.TempDir(), "out.wav"),
			})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errContains)
		})
	}
}

func TestHTTPSynthesizer_EmptyText(t *testing.T) {
	s := NewHTTPSynthesizer("http://127.0.0.1:1", time.Second)
	err := s.Synthesize(context.Background(), SynthesisRequest{})
	assert.True(t, errors.Is(err, apperrors.ErrEmptyText))
}

func TestHTTPSynthesizer_HealthCheck(t *testing.T) {
	var unhealthy atomic.Bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if unhealthy.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
	}))
	defer server.Close()

	s := NewHTTPSynthesizer(server.URL, time.Second)
	assert.NoError(t, s.HealthCheck(context.Background()))
	unhealthy.Store(true)
	assert.Error(t, s.HealthCheck(context.Background()))
}

func TestCLISynthesizer(t *testing.T) {
	_, err := NewCLISynthesizer("no-such-tts-binary", xttsModelForTest, time.Second, zap.NewNop())
	assert.True(t, IsUnavailable(err))

	s, err := NewCLISynthesizer("sh", xttsModelForTest, time.Second, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, []string{
		"--model_name", xttsModelForTest,
		"--text", "hi",
		"--speaker_wav", "ref.wav",
		"--language_idx", "en",
		"--out_path", "out.wav",
	}, s.Args(SynthesisRequest{Text: "hi", SpeakerWav: "ref.wav", OutputPath: "out.wav"}))

	// sh rejects the tts flags, which surfaces as a backend error
	err = s.Synthesize(context.Background(), SynthesisRequest{Text: "hi", SpeakerWav: "ref.wav", OutputPath: filepath.Join(t.TempDir(), "out.wav")})
	var backendErr *BackendError
	require.True(t, errors.As(err, &backendErr))
	assert.Equal(t, "synthesize", backendErr.Op)
}

const xttsModelForTest = "tts_models/multilingual/multi-dataset/xtts_v2"
