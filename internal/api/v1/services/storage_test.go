package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"rvc-service/internal/config"
)

func TestSampleKey(t *testing.T) {
	at := time.Unix(1700000000, 0)

	key := sampleKey("v1", "Sample.WAV", at)
	assert.True(t, strings.HasPrefix(key, "samples/v1/1700000000-"), key)
	assert.True(t, strings.HasSuffix(key, ".wav"), key)

	other := sampleKey("v1", "Sample.WAV", at)
	assert.NotEqual(t, key, other)
}

func TestContentTypeFor(t *testing.T) {
	assert.Equal(t, "application/octet-stream", contentTypeFor("sample"))
	assert.Equal(t, "audio/mpeg", contentTypeFor("sample.MP3"))
	assert.Equal(t, "audio/wav", contentTypeFor("sample.wav"))
}

func TestNewMinioSampleArchive_RequiresEndpoint(t *testing.T) {
	_, err := NewMinioSampleArchive(context.Background(), config.ArchiveConfig{Bucket: "b"}, zap.NewNop())
	assert.Error(t, err)
}
