// Package convert applies a registered voice to input audio through one of the conversion backends.
package convert

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"rvc-service/internal/app/audio"
	apperrors "rvc-service/internal/app/errors"
	"rvc-service/internal/app/metrics"
	"rvc-service/internal/app/model"
	"rvc-service/internal/app/util/files"
)

// ModelLookup resolves voice ids.
type ModelLookup interface {
	Lookup(id string) (model.VoiceModel, error)
}

// RepoCache is the part of the repository cache the dispatcher uses.
type RepoCache interface {
	Enabled() bool
	Ensure(ctx context.Context, repoID, revision string) (model.CachedRepo, error)
	InferenceScript(repoID string) (string, bool)
}

// Request describes one conversion.
type Request struct {
	ModelID    string
	InputPath  string
	OutputPath string
	Backend    string
	Text       string
	HFRepo     string
	HFRevision string
}

// Result is the structured outcome of Convert. Failures are reported here, never as errors.
type Result struct {
	Success    bool   `json:"success"`
	OutputPath string `json:"output_path,omitempty"`
	Mode       Mode   `json:"mode,omitempty"`
	Backend    string `json:"backend,omitempty"`
	Mock       bool   `json:"mock,omitempty"`
	Fallback   bool   `json:"fallback,omitempty"`
	Reason     string `json:"fallback_reason,omitempty"`
	Error      string `json:"error,omitempty"`
	NotFound   bool   `json:"-"`
}

// Config selects the dispatcher strategy. It is decided once at startup.
type Config struct {
	Mock     bool
	TempDir  string
	Language string
}

// Dispatcher selects a backend per request and writes exactly one output file.
type Dispatcher struct {
	config  Config
	models  ModelLookup
	codec   audio.Codec
	cache   RepoCache
	synth   Synthesizer
	runner  *ScriptRunner
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewDispatcher wires a dispatcher. synth may be nil when no synthesis engine is installed.
func NewDispatcher(
	config Config,
	models ModelLookup,
	codec audio.Codec,
	cache RepoCache,
	synth Synthesizer,
	runner *ScriptRunner,
	m *metrics.Metrics,
	logger *zap.Logger,
) *Dispatcher {
	return &Dispatcher{
		config:  config,
		models:  models,
		codec:   codec,
		cache:   cache,
		synth:   synth,
		runner:  runner,
		metrics: m,
		logger:  logger,
	}
}

// Mode returns the mode tag this dispatcher reports.
func (d *Dispatcher) Mode() Mode {
	if d.config.Mock {
		return ModeMock
	}
	return ModeHuggingFace
}

// Convert runs req and returns its result. Panics inside a backend become failures.
func (d *Dispatcher) Convert(ctx context.Context, req Request) (result Result) {
	backend := NormalizeBackend(req.Backend)
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("conversion panicked", zap.String("model_id", req.ModelID), zap.Any("recovered", r))
			result = d.failure(backend, fmt.Sprintf("conversion failed: %v", r))
		}
		d.metrics.ObserveConversion(metricBackend(backend), string(d.Mode()), result.Success, time.Since(start))
	}()

	m, err := d.models.Lookup(req.ModelID)
	if err != nil {
		r := d.failure(backend, apperrors.ErrModelNotFound.Message())
		r.NotFound = errors.Is(err, apperrors.ErrModelNotFound)
		return r
	}

	if d.config.Mock {
		return d.mockConvert(req, backend)
	}

	d.logger.Info("converting audio", zap.String("model_id", req.ModelID), zap.String("backend", backend))

	input, err := d.codec.Probe(ctx, req.InputPath)
	if err != nil {
		return d.failure(backend, fmt.Sprintf("failed to decode input audio: %v", err))
	}
	if _, err := d.codec.Probe(ctx, m.Path); err != nil {
		return d.failure(backend, fmt.Sprintf("failed to decode reference audio: %v", err))
	}

	if req.HFRepo != "" {
		d.cacheRepo(ctx, req.HFRepo, req.HFRevision)
	}

	var reason string
	switch {
	case backend == BackendXTTS:
		reason = d.synthesize(ctx, req, m)
	case IsScriptBackend(backend):
		reason = d.runScript(ctx, req, backend)
	default:
		reason = ReasonUnsupportedBackend
	}

	if reason != "" {
		d.logger.Info("falling back to passthrough",
			zap.String("model_id", req.ModelID),
			zap.String("backend", backend),
			zap.String("reason", reason),
		)
		d.metrics.IncFallback(metricBackend(backend), reason)
		if err := d.codec.Transcode(ctx, req.InputPath, req.OutputPath, input.SampleRate); err != nil {
			return d.failure(backend, fmt.Sprintf("failed to write output audio: %v", err))
		}
	}

	d.logger.Info("conversion complete", zap.String("model_id", req.ModelID), zap.Bool("fallback", reason != ""))

	return Result{
		Success:    true,
		OutputPath: req.OutputPath,
		Mode:       ModeHuggingFace,
		Backend:    backend,
		Fallback:   reason != "",
		Reason:     reason,
	}
}

func (d *Dispatcher) mockConvert(req Request, backend string) Result {
	d.logger.Info("mock conversion", zap.String("model_id", req.ModelID))
	if err := files.CopyFile(req.InputPath, req.OutputPath); err != nil {
		return d.failure(backend, err.Error())
	}
	return Result{
		Success:    true,
		OutputPath: req.OutputPath,
		Mode:       ModeMock,
		Backend:    backend,
		Mock:       true,
	}
}

// cacheRepo is best-effort: failures are logged and conversion continues.
func (d *Dispatcher) cacheRepo(ctx context.Context, repoID, revision string) {
	if d.cache == nil || !d.cache.Enabled() {
		return
	}
	_, err := d.cache.Ensure(ctx, repoID, revision)
	d.metrics.ObserveCacheFetch(err == nil)
	if err != nil {
		d.logger.Warn("HF cache failed", zap.String("repo_id", repoID), zap.Error(err))
	}
}

// synthesize returns a fallback reason, or "" when the output was synthesized.
func (d *Dispatcher) synthesize(ctx context.Context, req Request, m model.VoiceModel) string {
	if d.synth == nil {
		return ReasonSynthesizerUnavailable
	}
	if req.Text == "" {
		return ReasonNoText
	}

	ref, err := files.TempPath(d.config.TempDir, req.ModelID, "_ref.wav")
	if err != nil {
		d.logger.Warn("failed to stage reference audio", zap.Error(err))
		return ReasonSynthesisFailed
	}
	defer files.Remove(ref)

	if err := d.codec.Transcode(ctx, m.Path, ref, 0); err != nil {
		d.logger.Warn("failed to stage reference audio", zap.Error(err))
		return ReasonSynthesisFailed
	}

	err = d.synth.Synthesize(ctx, SynthesisRequest{
		Text:       req.Text,
		SpeakerWav: ref,
		Language:   d.config.Language,
		OutputPath: req.OutputPath,
	})
	if err != nil {
		d.logger.Warn("XTTS not available or failed", zap.String("engine", d.synth.Name()), zap.Error(err))
		if IsUnavailable(err) {
			return ReasonSynthesizerUnavailable
		}
		return ReasonSynthesisFailed
	}
	return ""
}

// runScript returns a fallback reason, or "" when the inference script produced the output.
func (d *Dispatcher) runScript(ctx context.Context, req Request, backend string) string {
	if req.HFRepo == "" || d.cache == nil || d.runner == nil {
		return ReasonNoScript
	}
	script, ok := d.cache.InferenceScript(req.HFRepo)
	if !ok {
		return ReasonNoScript
	}

	if err := d.runner.Run(ctx, backend, script, req.InputPath, req.OutputPath, req.HFRevision); err != nil {
		d.logger.Warn("inference script failed", zap.String("script", script), zap.Error(err))
		return ReasonScriptFailed
	}
	return ""
}

func (d *Dispatcher) failure(backend, message string) Result {
	return Result{
		Success: false,
		Mode:    d.Mode(),
		Backend: backend,
		Error:   message,
	}
}

// metricBackend bounds the backend label to known names.
func metricBackend(backend string) string {
	if backend == BackendXTTS || IsScriptBackend(backend) {
		return backend
	}
	return "other"
}
