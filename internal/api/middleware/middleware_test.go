package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	apierrors "rvc-service/internal/api/errors"
	"rvc-service/internal/app/events"
	"rvc-service/internal/app/metrics"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type formRequest struct {
	VoiceID   string `form:"voice_id" binding:"required"`
	VoiceName string `form:"voice_name"`
}

type rejectingRequest struct {
	ModelID string `form:"model_id" binding:"required"`
}

func (r *rejectingRequest) Validate() error {
	if r.ModelID == "bad" {
		return apierrors.NewValidationError("Invalid model_id", nil)
	}
	return nil
}

// multipartBody builds a form with the given fields and an optional audio part.
func multipartBody(t *testing.T, fields map[string]string, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	if filename != "" {
		part, err := writer.CreateFormFile(AudioField, filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestRequestID(t *testing.T) {
	router := gin.New()
	router.Use(RequestID())
	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, events.RequestID(c.Request.Context()))
	})

	t.Run("generated", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		id := w.Header().Get("X-Request-ID")
		assert.NotEmpty(t, id)
		assert.Equal(t, id, w.Body.String())
	})

	t.Run("propagated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", "abc-123")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
		assert.Equal(t, "abc-123", w.Body.String())
	})
}

func TestErrorHandler(t *testing.T) {
	router := gin.New()
	router.Use(RequestID())
	router.Use(ErrorHandler(zap.NewNop()))
	router.GET("/api-error", func(c *gin.Context) {
		HandleError(c, apierrors.NewNotFoundError("Model not found"))
	})
	router.GET("/plain-error", func(c *gin.Context) {
		HandleError(c, errors.New("disk on fire"))
	})
	router.GET("/panic", func(c *gin.Context) {
		panic("unexpected")
	})

	tests := []struct {
		path       string
		wantStatus int
		wantError  string
		wantKind   string
	}{
		{"/api-error", http.StatusNotFound, "Model not found", "not_found"},
		{"/plain-error", http.StatusInternalServerError, "Internal server error", "internal"},
		{"/panic", http.StatusInternalServerError, "Internal server error", "internal"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.wantStatus, w.Code)
			body := decodeError(t, w)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tt.wantError, body["error"])
			assert.Equal(t, tt.wantKind, body["kind"])
			assert.Equal(t, w.Header().Get("X-Request-ID"), body["request_id"])
		})
	}
}

func TestStructuredLogging(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)

	router := gin.New()
	router.Use(RequestID())
	router.Use(StructuredLogging(zap.New(core)))
	router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/models", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, path := range []string{"/health", "/models"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "/models", fields["path"])
	assert.EqualValues(t, http.StatusOK, fields["status"])
	assert.NotEmpty(t, fields["request_id"])
}

func TestCORS(t *testing.T) {
	tests := []struct {
		name        string
		origins     []string
		method      string
		origin      string
		wantStatus  int
		wantAllow   string
		wantVary    string
		wantMaxAge  string
		wantExposed bool
	}{
		{"wildcard preflight", nil, http.MethodOptions, "http://localhost:3000", http.StatusNoContent, "*", "", "3600", true},
		{"listed origin preflight", []string{"https://studio.example"}, http.MethodOptions, "https://studio.example", http.StatusNoContent, "https://studio.example", "Origin", "3600", true},
		{"unlisted origin preflight", []string{"https://studio.example"}, http.MethodOptions, "https://evil.example", http.StatusForbidden, "", "", "", false},
		{"unlisted origin request", []string{"https://studio.example"}, http.MethodPost, "https://evil.example", http.StatusOK, "", "", "", false},
		{"no origin", []string{"https://studio.example"}, http.MethodPost, "", http.StatusOK, "", "", "", false},
		{"listed origin request", []string{"https://studio.example"}, http.MethodPost, "https://studio.example", http.StatusOK, "https://studio.example", "Origin", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(CORS(DefaultCORSConfig(tt.origins...)))
			router.POST("/convert", func(c *gin.Context) { c.Status(http.StatusOK) })

			req := httptest.NewRequest(tt.method, "/convert", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantAllow, w.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, tt.wantVary, w.Header().Get("Vary"))
			assert.Equal(t, tt.wantMaxAge, w.Header().Get("Access-Control-Max-Age"))
			if tt.wantExposed {
				assert.Contains(t, w.Header().Get("Access-Control-Expose-Headers"), HeaderConversionFallback)
				assert.Contains(t, w.Header().Get("Access-Control-Expose-Headers"), "Content-Disposition")
			} else {
				assert.Empty(t, w.Header().Get("Access-Control-Expose-Headers"))
			}
		})
	}
}

func TestJWTAuth(t *testing.T) {
	const secret = "test-secret"

	router := gin.New()
	router.Use(ErrorHandler(zap.NewNop()))
	router.Use(JWTAuth(secret))
	router.GET("/models", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(SubjectKey))
	})

	valid, err := IssueToken(secret, "alice", time.Hour)
	require.NoError(t, err)
	wrongKey, err := IssueToken("other-secret", "alice", time.Hour)
	require.NoError(t, err)
	expired, err := IssueToken(secret, "alice", -time.Minute)
	require.NoError(t, err)

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"wrong key", "Bearer " + wrongKey, http.StatusUnauthorized},
		{"garbage", "Bearer not.a.token", http.StatusUnauthorized},
		{"valid", "Bearer " + valid, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/models", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, "alice", w.Body.String())
			} else {
				assert.Equal(t, "unauthorized", decodeError(t, w)["kind"])
			}
		})
	}

	t.Run("expired", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/models", nil)
		req.Header.Set("Authorization", "Bearer "+expired)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	router := gin.New()
	router.Use(Metrics(m))
	router.DELETE("/models/:model_id", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodDelete, "/models/a", nil))
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodDelete, "/models/b", nil))
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope", nil))

	count, err := testutil.GatherAndCount(reg, "rvc_http_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count, "one series per route template plus unmatched")
}

func TestValidateForm(t *testing.T) {
	tests := []struct {
		name      string
		fields    map[string]string
		target    interface{}
		wantError string
	}{
		{"missing voice_id", map[string]string{"voice_name": "Test"}, &formRequest{}, "voice_id is required"},
		{"valid", map[string]string{"voice_id": "v1"}, &formRequest{}, ""},
		{"missing model_id", map[string]string{}, &rejectingRequest{}, "model_id is required"},
		{"domain rule", map[string]string{"model_id": "bad"}, &rejectingRequest{}, "Invalid model_id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, contentType := multipartBody(t, tt.fields, "", nil)
			req := httptest.NewRequest(http.MethodPost, "/", body)
			req.Header.Set("Content-Type", contentType)

			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = req

			err := ValidateForm(c, tt.target)
			if tt.wantError == "" {
				assert.NoError(t, err)
				return
			}
			var apiErr *apierrors.APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, apierrors.KindValidation, apiErr.Kind)
			assert.Equal(t, tt.wantError, apiErr.Message)
		})
	}
}

func TestAudioFile(t *testing.T) {
	tests := []struct {
		name      string
		filename  string
		content   []byte
		maxBytes  int64
		wantKind  apierrors.ErrorKind
		wantError string
	}{
		{name: "ok", filename: "sample.wav", content: []byte("RIFF"), maxBytes: 1024},
		{name: "upper case extension", filename: "sample.FLAC", content: []byte("fLaC"), maxBytes: 1024},
		{name: "missing", wantKind: apierrors.KindValidation, wantError: "No audio file provided"},
		{name: "unsupported", filename: "notes.txt", content: []byte("x"), maxBytes: 1024, wantKind: apierrors.KindValidation, wantError: "Unsupported audio format"},
		{name: "too large", filename: "big.wav", content: bytes.Repeat([]byte("a"), 2048), maxBytes: 1024, wantKind: apierrors.KindTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, contentType := multipartBody(t, map[string]string{"voice_id": "v1"}, tt.filename, tt.content)
			req := httptest.NewRequest(http.MethodPost, "/", body)
			req.Header.Set("Content-Type", contentType)

			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = req

			header, err := AudioFile(c, tt.maxBytes)
			if tt.wantKind == "" {
				require.NoError(t, err)
				assert.Equal(t, tt.filename, header.Filename)
				return
			}
			var apiErr *apierrors.APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.wantKind, apiErr.Kind)
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, apiErr.Message)
			}
		})
	}
}

func TestLimitBody(t *testing.T) {
	router := gin.New()
	router.Use(LimitBody(1024))
	router.POST("/train", func(c *gin.Context) {
		_, err := AudioFile(c, 1024)
		if err != nil {
			HandleError(c, err)
			return
		}
		c.Status(http.StatusOK)
	})

	body, contentType := multipartBody(t, nil, "big.wav", bytes.Repeat([]byte("a"), 256<<10))
	req := httptest.NewRequest(http.MethodPost, "/train", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}
