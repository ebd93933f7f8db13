package audio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strconv"

	"go.uber.org/zap"

	apperrors "rvc-service/internal/app/errors"
	"rvc-service/internal/app/model"
	"rvc-service/internal/app/util/files"
)

// SupportedExtensions are the upload formats accepted for voice samples and conversion input.
var SupportedExtensions = []string{".mp3", ".wav", ".m4a", ".ogg", ".flac"}

// IsSupported reports whether the file name has an accepted audio extension.
func IsSupported(name string) bool {
	return files.HasExtension(name, SupportedExtensions...)
}

// Codec decodes and re-encodes audio files.
type Codec interface {
	// Available reports whether the codec binaries can be executed.
	Available() bool
	// Probe decodes the header of path and returns its first audio stream.
	Probe(ctx context.Context, path string) (model.AudioInfo, error)
	// Transcode re-encodes in to a 16-bit PCM WAV at out. A zero sampleRate keeps the source rate.
	Transcode(ctx context.Context, in, out string, sampleRate int) error
}

// FFmpegCodec implements Codec with the ffmpeg and ffprobe binaries.
type FFmpegCodec struct {
	ffmpegPath  string
	ffprobePath string
	logger      *zap.Logger
}

var _ Codec = (*FFmpegCodec)(nil)

// NewFFmpegCodec resolves ffmpeg and ffprobe on PATH. Missing binaries leave the codec unavailable.
func NewFFmpegCodec(logger *zap.Logger) *FFmpegCodec {
	return NewFFmpegCodecWithPaths("ffmpeg", "ffprobe", logger)
}

// NewFFmpegCodecWithPaths resolves explicit binary names or paths.
func NewFFmpegCodecWithPaths(ffmpeg, ffprobe string, logger *zap.Logger) *FFmpegCodec {
	c := &FFmpegCodec{logger: logger}
	if p, err := exec.LookPath(ffmpeg); err == nil {
		c.ffmpegPath = p
	}
	if p, err := exec.LookPath(ffprobe); err == nil {
		c.ffprobePath = p
	}
	return c
}

func (c *FFmpegCodec) Available() bool {
	return c.ffmpegPath != "" && c.ffprobePath != ""
}

func (c *FFmpegCodec) Probe(ctx context.Context, path string) (model.AudioInfo, error) {
	if c.ffprobePath == "" {
		return model.AudioInfo{}, apperrors.ErrCodecUnavailable
	}
	if _, err := os.Stat(path); err != nil {
		return model.AudioInfo{}, apperrors.Wrapf(err, "probe %s", path)
	}

	cmd := exec.CommandContext(ctx, c.ffprobePath,
		"-v", "quiet", "-print_format", "json", "-show_streams", "-show_format", path)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	output, err := cmd.Output()
	if err != nil {
		return model.AudioInfo{}, fmt.Errorf("FFprobe error: %v, stderr: %s", err, stderr.String())
	}

	var probeOutput model.FFProbeOutput
	if err := json.Unmarshal(output, &probeOutput); err != nil {
		return model.AudioInfo{}, apperrors.Wrap(err, "parse ffprobe output")
	}

	info, ok := probeOutput.FirstAudioStream()
	if !ok {
		return model.AudioInfo{}, apperrors.Wrapf(apperrors.ErrNoAudioStream, "probe %s", path)
	}
	return info, nil
}

func (c *FFmpegCodec) Transcode(ctx context.Context, in, out string, sampleRate int) error {
	if c.ffmpegPath == "" {
		return apperrors.ErrCodecUnavailable
	}

	args := []string{"-y", "-v", "error", "-i", in, "-vn", "-acodec", "pcm_s16le"}
	if sampleRate > 0 {
		args = append(args, "-ar", strconv.Itoa(sampleRate))
	}
	args = append(args, "-f", "wav", out)

	c.logger.Debug("transcoding audio", zap.String("input", in), zap.String("output", out), zap.Int("sample_rate", sampleRate))

	cmd := exec.CommandContext(ctx, c.ffmpegPath, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		files.Remove(out)
		return fmt.Errorf("FFmpeg error: %v, stderr: %s", err, stderr.String())
	}
	return nil
}
