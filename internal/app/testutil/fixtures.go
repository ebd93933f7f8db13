package testutil

import (
	"bytes"
	"encoding/binary"
	"mime/multipart"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"rvc-service/internal/app/model"
)

// TestVoiceModels provides sample registry entries for testing
var TestVoiceModels = []model.VoiceModel{
	{ID: "alice", Path: "weights/alice.wav", Status: model.StatusReady, Name: "Alice", Type: model.TypeCustom, SampleRate: 44100},
	{ID: "bob", Path: "weights/bob.pth", Status: model.StatusReady, Name: "Bob", Type: model.TypeMock},
	{ID: "legacy", Path: "weights/legacy.pt"},
}

// TestWAV returns a silent mono 16-bit PCM WAV file of the given length.
func TestWAV(sampleRate int, samples int) []byte {
	const (
		channels      = 1
		bitsPerSample = 16
	)
	dataSize := samples * channels * bitsPerSample / 8

	buf := &bytes.Buffer{}
	buf.WriteString("RIFF")
	binary.Write(buf, binary.LittleEndian, uint32(36+dataSize))
	buf.WriteString("WAVEfmt ")
	binary.Write(buf, binary.LittleEndian, uint32(16))
	binary.Write(buf, binary.LittleEndian, uint16(1))
	binary.Write(buf, binary.LittleEndian, uint16(channels))
	binary.Write(buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(buf, binary.LittleEndian, uint32(sampleRate*channels*bitsPerSample/8))
	binary.Write(buf, binary.LittleEndian, uint16(channels*bitsPerSample/8))
	binary.Write(buf, binary.LittleEndian, uint16(bitsPerSample))
	buf.WriteString("data")
	binary.Write(buf, binary.LittleEndian, uint32(dataSize))
	buf.Write(make([]byte, dataSize))
	return buf.Bytes()
}

// WriteTestWAV writes TestWAV output to dir/name and returns the path.
func WriteTestWAV(t *testing.T, dir, name string, sampleRate, samples int) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, TestWAV(sampleRate, samples), 0o644))
	return path
}

// MultipartForm builds a multipart body with fields and, when filename is set, an "audio" part.
func MultipartForm(t *testing.T, fields map[string]string, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	if filename != "" {
		part, err := writer.CreateFormFile("audio", filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}
