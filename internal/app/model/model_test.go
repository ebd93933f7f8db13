package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVoiceModelDefaults(t *testing.T) {
	m := VoiceModel{ID: "v1"}
	assert.Equal(t, "v1", m.DisplayName())
	assert.Equal(t, StatusUnknown, m.DisplayStatus())
	assert.Equal(t, TypeCustom, m.DisplayType())

	m = VoiceModel{ID: "v1", Name: "Test", Status: StatusReady, Type: TypeMock}
	assert.Equal(t, "Test", m.DisplayName())
	assert.Equal(t, StatusReady, m.DisplayStatus())
	assert.Equal(t, TypeMock, m.DisplayType())
}

func TestFirstAudioStream(t *testing.T) {
	raw := `{
		"streams": [
			{"codec_type": "video", "codec_name": "h264"},
			{"codec_type": "audio", "codec_name": "pcm_s16le", "sample_rate": "44100", "channels": 2}
		],
		"format": {"format_name": "wav", "duration": "3.500000"}
	}`

	var out FFProbeOutput
	require.NoError(t, json.Unmarshal([]byte(raw), &out))

	info, ok := out.FirstAudioStream()
	require.True(t, ok)
	assert.Equal(t, "pcm_s16le", info.Codec)
	assert.Equal(t, 44100, info.SampleRate)
	assert.Equal(t, 2, info.Channels)
	assert.InDelta(t, 3.5, info.Duration, 0.001)

	_, ok = (&FFProbeOutput{}).FirstAudioStream()
	assert.False(t, ok)
}
