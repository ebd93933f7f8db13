package model

import "strconv"

type FFProbeOutput struct {
	Streams []struct {
		CodecType  string `json:"codec_type"`
		CodecName  string `json:"codec_name"`
		SampleRate int    `json:"sample_rate,string"`
		Channels   int    `json:"channels"`
	} `json:"streams"`
	Format struct {
		FormatName string `json:"format_name"`
		Duration   string `json:"duration"`
	} `json:"format"`
}

// AudioInfo is the decoded summary of an audio file.
type AudioInfo struct {
	Codec      string
	SampleRate int
	Channels   int
	Duration   float64
}

// FirstAudioStream returns the first audio stream of the probe output, if any.
func (o *FFProbeOutput) FirstAudioStream() (AudioInfo, bool) {
	for _, stream := range o.Streams {
		if stream.CodecType != "audio" {
			continue
		}
		duration, _ := strconv.ParseFloat(o.Format.Duration, 64)
		return AudioInfo{
			Codec:      stream.CodecName,
			SampleRate: stream.SampleRate,
			Channels:   stream.Channels,
			Duration:   duration,
		}, true
	}
	return AudioInfo{}, false
}
