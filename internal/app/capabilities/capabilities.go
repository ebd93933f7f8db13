// Package capabilities decides once, at startup, which optional parts of the audio stack the service can use.
package capabilities

import (
	"os/exec"

	"go.uber.org/zap"

	"rvc-service/internal/app/audio"
	"rvc-service/internal/app/convert"
	"rvc-service/internal/config"
)

const (
	DeviceCPU  = "cpu"
	DeviceCUDA = "cuda"
)

// Capabilities is the startup decision shared by every request.
type Capabilities struct {
	Mock        bool
	Device      string
	Codec       bool
	HFCache     bool
	Synthesizer string
}

// Mode is the tag reported by health and conversion results.
func (c Capabilities) Mode() convert.Mode {
	if c.Mock {
		return convert.ModeMock
	}
	return convert.ModeHuggingFace
}

// LookPathFunc resolves an executable name.
type LookPathFunc func(file string) (string, error)

// Detector inspects the host.
type Detector struct {
	lookPath LookPathFunc
	logger   *zap.Logger
}

// NewDetector returns a detector that consults PATH.
func NewDetector(logger *zap.Logger) *Detector {
	return NewDetectorWithLookPath(exec.LookPath, logger)
}

func NewDetectorWithLookPath(lookPath LookPathFunc, logger *zap.Logger) *Detector {
	return &Detector{lookPath: lookPath, logger: logger}
}

// Detect evaluates the configuration against the installed tools.
//
// MOCK_MODE=auto selects mock mode unless ffmpeg and ffprobe are installed.
// The device comes from DEVICE, then from nvidia-smi being on PATH in real mode.
func (d *Detector) Detect(cfg *config.Config, codec audio.Codec, synth convert.Synthesizer) Capabilities {
	caps := Capabilities{
		Codec:   codec != nil && codec.Available(),
		HFCache: cfg.HFCache.Enabled,
	}

	switch cfg.Conversion.MockMode {
	case config.ModeTrue:
		caps.Mock = true
	case config.ModeFalse:
		caps.Mock = false
	default:
		caps.Mock = !caps.Codec
	}

	switch {
	case cfg.Conversion.Device != "":
		caps.Device = cfg.Conversion.Device
	case caps.Mock:
		caps.Device = DeviceCPU
	case d.has("nvidia-smi"):
		caps.Device = DeviceCUDA
	default:
		caps.Device = DeviceCPU
	}

	if synth != nil {
		caps.Synthesizer = synth.Name()
	}

	d.logger.Info("capabilities detected",
		zap.Bool("mock", caps.Mock),
		zap.String("device", caps.Device),
		zap.Bool("codec", caps.Codec),
		zap.Bool("hf_cache", caps.HFCache),
		zap.String("synthesizer", caps.Synthesizer),
	)
	if !caps.Mock && !caps.Codec {
		d.logger.Warn("real mode forced without ffmpeg; conversions will fail to decode audio")
	}
	return caps
}

// Synthesizer picks the XTTS engine: the HTTP server when XTTS_URL is set, else the local CLI.
// It returns nil when neither is usable.
func (d *Detector) Synthesizer(cfg *config.Config) convert.Synthesizer {
	if cfg.Conversion.XTTSURL != "" {
		return convert.NewHTTPSynthesizer(cfg.Conversion.XTTSURL, cfg.XTTSTimeout())
	}
	path, err := d.lookPath(cfg.Conversion.XTTSBin)
	if err != nil {
		d.logger.Info("XTTS not installed", zap.String("binary", cfg.Conversion.XTTSBin))
		return nil
	}
	synth, err := convert.NewCLISynthesizer(path, cfg.Conversion.XTTSModel, cfg.XTTSTimeout(), d.logger)
	if err != nil {
		d.logger.Info("XTTS not available", zap.Error(err))
		return nil
	}
	return synth
}

func (d *Detector) has(name string) bool {
	_, err := d.lookPath(name)
	return err == nil
}
