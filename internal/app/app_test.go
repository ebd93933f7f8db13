package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	natsserver "github.com/nats-io/nats-server/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"rvc-service/internal/app/events"
	"rvc-service/internal/config"
)

func loadTestConfig(t *testing.T) *config.Config {
	t.Helper()

	t.Setenv("RVC_BASE_DIR", t.TempDir())
	t.Setenv("RVC_ENV", "test")
	t.Setenv("MOCK_MODE", "true")
	t.Setenv("MOCK_TRAIN_DELAY_MS", "0")
	t.Setenv("HF_CACHE_ENABLED", "false")
	t.Setenv("NATS_URL", "")
	t.Setenv("MINIO_ENDPOINT", "")
	t.Setenv("AUTH_JWT_SECRET", "")

	cfg, err := config.Load("")
	require.NoError(t, err)
	return cfg
}

func TestInitializeApp_MockMode(t *testing.T) {
	cfg := loadTestConfig(t)
	require.NoError(t, os.MkdirAll(cfg.Storage.WeightsDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.Storage.WeightsDir, "alice.pth"), []byte("weights"), 0o644))

	application, cleanup, err := InitializeApp(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer cleanup()

	assert.True(t, application.Capabilities.Mock)
	assert.Equal(t, 1, application.Registry.Len())
	assert.IsType(t, events.NopPublisher{}, application.Events)
	for _, dir := range cfg.Dirs() {
		assert.DirExists(t, dir)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	application.Server.Router().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "mock", body["mode"])
	assert.EqualValues(t, 1, body["models_loaded"])
}

func TestInitializeApp_Pretrained(t *testing.T) {
	cfg := loadTestConfig(t)
	cfg.Pretrained = []config.PretrainedModel{{ID: "org/voice", Name: "Voice", Type: "rvc"}}

	application, cleanup, err := InitializeApp(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer cleanup()

	assert.Equal(t, 1, application.Cache.Count())
}

func TestInitializeApp_NATSEvents(t *testing.T) {
	opts := natsserver.DefaultTestOptions
	opts.Port = -1
	srv := natsserver.RunServer(&opts)
	defer srv.Shutdown()

	cfg := loadTestConfig(t)
	cfg.Events.NATSURL = srv.ClientURL()

	application, cleanup, err := InitializeApp(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer cleanup()

	assert.IsType(t, &events.NATSPublisher{}, application.Events)
}

func TestInitializeApp_UnreachableNATSDegrades(t *testing.T) {
	cfg := loadTestConfig(t)
	cfg.Events.NATSURL = "nats://127.0.0.1:1"

	application, cleanup, err := InitializeApp(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer cleanup()

	assert.IsType(t, events.NopPublisher{}, application.Events)
}
