package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"

	apierrors "rvc-service/internal/api/errors"
	"rvc-service/internal/api/v1/dto"
	"rvc-service/internal/app/audio"
	"rvc-service/internal/app/capabilities"
	"rvc-service/internal/app/convert"
	apperrors "rvc-service/internal/app/errors"
	"rvc-service/internal/app/events"
	"rvc-service/internal/app/metrics"
	"rvc-service/internal/app/model"
	"rvc-service/internal/app/registry"
	"rvc-service/internal/app/util/files"
)

// Converter runs one conversion. *convert.Dispatcher implements it.
type Converter interface {
	Convert(ctx context.Context, req convert.Request) convert.Result
}

// CacheIndex reports how many external repositories are known.
type CacheIndex interface {
	Count() int
}

// VoiceServiceConfig holds the startup decisions the service acts on.
type VoiceServiceConfig struct {
	Capabilities   capabilities.Capabilities
	TempDir        string
	MockTrainDelay time.Duration
}

// VoiceServiceDeps are the collaborators of VoiceServiceImpl. Cache, Archive, Events and Metrics are optional.
type VoiceServiceDeps struct {
	Registry  *registry.Registry
	Converter Converter
	Codec     audio.Codec
	Cache     CacheIndex
	Archive   SampleArchive
	Events    events.Publisher
	Metrics   *metrics.Metrics
	Logger    *zap.Logger
}

// VoiceServiceImpl implements VoiceService
type VoiceServiceImpl struct {
	config    VoiceServiceConfig
	registry  *registry.Registry
	converter Converter
	codec     audio.Codec
	cache     CacheIndex
	archive   SampleArchive
	events    events.Publisher
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

var _ VoiceService = (*VoiceServiceImpl)(nil)

// NewVoiceService creates a new voice service
func NewVoiceService(config VoiceServiceConfig, deps VoiceServiceDeps) *VoiceServiceImpl {
	if deps.Events == nil {
		deps.Events = events.NopPublisher{}
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &VoiceServiceImpl{
		config:    config,
		registry:  deps.Registry,
		converter: deps.Converter,
		codec:     deps.Codec,
		cache:     deps.Cache,
		archive:   deps.Archive,
		events:    deps.Events,
		metrics:   deps.Metrics,
		logger:    deps.Logger,
	}
}

func (s *VoiceServiceImpl) mode() string {
	return string(s.config.Capabilities.Mode())
}

// Train stores the uploaded sample as the reference audio of req.VoiceID.
// Failures leave no registry entry.
func (s *VoiceServiceImpl) Train(ctx context.Context, req dto.TrainRequest, upload Upload) (*dto.TrainResponse, error) {
	req.Normalize()

	staged, err := s.stage(req.VoiceID, "_sample", upload)
	if err != nil {
		s.logger.Error("failed to stage training sample", zap.String("voice_id", req.VoiceID), zap.Error(err))
		return nil, s.trainFailed(ctx, req.VoiceID, "Failed to store uploaded audio")
	}
	defer files.Remove(staged)

	s.archiveSample(ctx, req.VoiceID, staged, upload.Filename)

	var m model.VoiceModel
	if s.config.Capabilities.Mock {
		m, err = s.trainMock(ctx, req)
	} else {
		m, err = s.trainReal(ctx, req, staged)
	}
	if err != nil {
		s.logger.Error("training failed", zap.String("voice_id", req.VoiceID), zap.Error(err))
		return nil, s.trainFailed(ctx, req.VoiceID, fmt.Sprintf("Training failed: %v", err))
	}

	s.registry.Register(m)
	s.removeStaleModels(m)
	s.metrics.ObserveTraining(s.mode(), true)
	s.publish(ctx, events.Event{Type: events.ModelTrained, ModelID: m.ID, Success: true, Mode: s.mode()})

	s.logger.Info("voice model registered",
		zap.String("model_id", m.ID),
		zap.String("path", m.Path),
		zap.String("type", string(m.Type)),
	)

	return &dto.TrainResponse{
		Success:    true,
		ModelID:    m.ID,
		ModelPath:  m.Path,
		Status:     string(m.Status),
		Mode:       s.mode(),
		Mock:       m.Type == model.TypeMock,
		SampleRate: m.SampleRate,
	}, nil
}

func (s *VoiceServiceImpl) trainMock(ctx context.Context, req dto.TrainRequest) (model.VoiceModel, error) {
	if s.config.MockTrainDelay > 0 {
		timer := time.NewTimer(s.config.MockTrainDelay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return model.VoiceModel{}, ctx.Err()
		case <-timer.C:
		}
	}

	path := filepath.Join(s.registry.WeightsDir(), req.VoiceID+".pth")
	if err := os.WriteFile(path, []byte("Mock model for "+req.VoiceName), 0o644); err != nil {
		return model.VoiceModel{}, fmt.Errorf("write placeholder: %w", err)
	}

	return model.VoiceModel{
		ID:     req.VoiceID,
		Path:   path,
		Status: model.StatusReady,
		Name:   req.VoiceName,
		Type:   model.TypeMock,
	}, nil
}

// trainReal re-encodes the sample to {id}.wav. The encoder writes a uniquely named .partial
// file first so the weights watcher never registers a half-written reference and concurrent
// trainings of one id never share an output file.
func (s *VoiceServiceImpl) trainReal(ctx context.Context, req dto.TrainRequest, staged string) (model.VoiceModel, error) {
	info, err := s.codec.Probe(ctx, staged)
	if err != nil {
		return model.VoiceModel{}, err
	}

	path := filepath.Join(s.registry.WeightsDir(), req.VoiceID+".wav")
	partial, err := files.TempPath(s.registry.WeightsDir(), req.VoiceID, ".wav.partial")
	if err != nil {
		return model.VoiceModel{}, fmt.Errorf("allocate reference audio: %w", err)
	}
	if err := s.codec.Transcode(ctx, staged, partial, info.SampleRate); err != nil {
		files.Remove(partial)
		return model.VoiceModel{}, err
	}
	if err := os.Rename(partial, path); err != nil {
		files.Remove(partial)
		return model.VoiceModel{}, fmt.Errorf("publish reference audio: %w", err)
	}

	return model.VoiceModel{
		ID:         req.VoiceID,
		Path:       path,
		Status:     model.StatusReady,
		Name:       req.VoiceName,
		Type:       model.TypeCustom,
		SampleRate: info.SampleRate,
	}, nil
}

// removeStaleModels deletes files of m.ID under other model extensions, left by an earlier
// training in the other mode. Otherwise a later scan would bring the id back after a delete.
func (s *VoiceServiceImpl) removeStaleModels(m model.VoiceModel) {
	for _, ext := range registry.ModelExtensions {
		stale := filepath.Join(s.registry.WeightsDir(), m.ID+ext)
		if stale == m.Path {
			continue
		}
		if err := files.Remove(stale); err != nil {
			s.logger.Warn("failed to remove stale model file", zap.String("model_id", m.ID), zap.String("path", stale), zap.Error(err))
		}
	}
}

func (s *VoiceServiceImpl) trainFailed(ctx context.Context, voiceID, message string) error {
	s.metrics.ObserveTraining(s.mode(), false)
	s.publish(ctx, events.Event{Type: events.ModelTrained, ModelID: voiceID, Mode: s.mode(), Error: message})
	return apierrors.NewProcessingError(message).WithStatus(string(model.StatusFailed))
}

// archiveSample is best-effort.
func (s *VoiceServiceImpl) archiveSample(ctx context.Context, voiceID, path, filename string) {
	if s.archive == nil {
		return
	}
	key, err := s.archive.Store(ctx, voiceID, path, filename)
	if err != nil {
		s.logger.Warn("failed to archive training sample", zap.String("voice_id", voiceID), zap.Error(err))
		return
	}
	s.logger.Debug("archived training sample", zap.String("voice_id", voiceID), zap.String("key", key))
}

// Convert applies the voice of req.ModelID to the upload. The caller must Close the result.
func (s *VoiceServiceImpl) Convert(ctx context.Context, req dto.ConvertRequest, upload Upload) (*ConvertedAudio, error) {
	if _, ok := s.registry.Get(req.ModelID); !ok {
		s.metrics.ObserveConversion("other", s.mode(), false, 0)
		return nil, apierrors.NewProcessingError(apperrors.ErrModelNotFound.Message())
	}

	input, err := s.stage(req.ModelID, "_input", upload)
	if err != nil {
		s.logger.Error("failed to stage conversion input", zap.String("model_id", req.ModelID), zap.Error(err))
		return nil, apierrors.NewProcessingError("Failed to store uploaded audio")
	}
	defer files.Remove(input)

	output, err := files.TempPath(s.config.TempDir, req.ModelID, "_output.wav")
	if err != nil {
		return nil, apierrors.NewProcessingError("Failed to allocate output file")
	}

	result := s.converter.Convert(ctx, convert.Request{
		ModelID:    req.ModelID,
		InputPath:  input,
		OutputPath: output,
		Backend:    req.Backend,
		Text:       req.Text,
		HFRepo:     req.HFRepo,
		HFRevision: req.HFRevision,
	})

	s.publish(ctx, events.Event{
		Type:     events.VoiceConverted,
		ModelID:  req.ModelID,
		Success:  result.Success,
		Mode:     string(result.Mode),
		Backend:  result.Backend,
		Fallback: result.Fallback,
		Error:    result.Error,
	})

	if !result.Success {
		files.Remove(output)
		return nil, apierrors.NewProcessingError(result.Error)
	}

	info, err := os.Stat(output)
	if err != nil {
		files.Remove(output)
		return nil, apierrors.NewProcessingError("Conversion produced no output")
	}

	return &ConvertedAudio{
		Path:     output,
		Size:     info.Size(),
		Mode:     string(result.Mode),
		Backend:  result.Backend,
		Fallback: result.Fallback,
		Reason:   result.Reason,
	}, nil
}

// ListModels returns every registered voice sorted by id.
func (s *VoiceServiceImpl) ListModels(ctx context.Context) (*dto.ListModelsResponse, error) {
	models := lo.Map(s.registry.List(), func(m model.VoiceModel, _ int) dto.ModelResponse {
		return dto.NewModelResponse(m)
	})
	sort.Slice(models, func(i, j int) bool { return models[i].ID < models[j].ID })

	return &dto.ListModelsResponse{
		Success: true,
		Models:  models,
		Count:   len(models),
	}, nil
}

// DeleteModel removes the voice and its reference file.
func (s *VoiceServiceImpl) DeleteModel(ctx context.Context, modelID string) (*dto.DeleteModelResponse, error) {
	if err := s.registry.Delete(modelID); err != nil {
		s.metrics.ObserveDeletion(false)
		if errors.Is(err, apperrors.ErrModelNotFound) {
			return nil, apierrors.NewNotFoundError(apperrors.ErrModelNotFound.Message())
		}
		s.logger.Error("failed to delete model", zap.String("model_id", modelID), zap.Error(err))
		return nil, apierrors.NewProcessingError(fmt.Sprintf("Failed to delete model: %v", err))
	}

	s.metrics.ObserveDeletion(true)
	s.publish(ctx, events.Event{Type: events.ModelDeleted, ModelID: modelID, Success: true})
	s.logger.Info("voice model deleted", zap.String("model_id", modelID))

	if s.archive != nil {
		if n, err := s.archive.Purge(ctx, modelID); err != nil {
			s.logger.Warn("failed to purge archived samples", zap.String("model_id", modelID), zap.Error(err))
		} else if n > 0 {
			s.logger.Debug("purged archived samples", zap.String("model_id", modelID), zap.Int("count", n))
		}
	}

	return &dto.DeleteModelResponse{Success: true}, nil
}

func (s *VoiceServiceImpl) Health(ctx context.Context) *dto.HealthResponse {
	hfModels := 0
	if s.cache != nil {
		hfModels = s.cache.Count()
	}
	return &dto.HealthResponse{
		Status:       "healthy",
		Mode:         s.mode(),
		Device:       s.config.Capabilities.Device,
		ModelsLoaded: s.registry.Len(),
		HFModels:     hfModels,
	}
}

// stage copies an upload into a unique temp file keeping its extension.
func (s *VoiceServiceImpl) stage(id, tag string, upload Upload) (string, error) {
	ext := strings.ToLower(filepath.Ext(upload.Filename))
	path, err := files.TempPath(s.config.TempDir, id, tag+ext)
	if err != nil {
		return "", err
	}

	out, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		files.Remove(path)
		return "", err
	}
	if _, err := io.Copy(out, upload.Content); err != nil {
		out.Close()
		files.Remove(path)
		return "", err
	}
	if err := out.Close(); err != nil {
		files.Remove(path)
		return "", err
	}
	return path, nil
}

func (s *VoiceServiceImpl) publish(ctx context.Context, event events.Event) {
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish event", zap.String("type", string(event.Type)), zap.Error(err))
	}
}
