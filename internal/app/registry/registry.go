// Package registry keeps the in-memory index of voice models backed by files in the weights directory.
package registry

import (
	"fmt"
	"sync"

	"github.com/samber/lo"
	"go.uber.org/zap"

	apperrors "rvc-service/internal/app/errors"
	"rvc-service/internal/app/model"
	"rvc-service/internal/app/util/files"
)

// ModelExtensions are the file extensions recognized as voice models.
var ModelExtensions = []string{".pth", ".pt", ".wav"}

// Registry maps voice ids to their models.
type Registry struct {
	mu         sync.RWMutex
	models     map[string]model.VoiceModel
	weightsDir string
	logger     *zap.Logger
}

// New creates an empty registry for weightsDir.
func New(weightsDir string, logger *zap.Logger) *Registry {
	return &Registry{
		models:     make(map[string]model.VoiceModel),
		weightsDir: weightsDir,
		logger:     logger,
	}
}

// WeightsDir returns the directory the registry scans and watches.
func (r *Registry) WeightsDir() string {
	return r.weightsDir
}

// Register inserts or overwrites the model stored under m.ID.
func (r *Registry) Register(m model.VoiceModel) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.models[m.ID] = m
}

// RegisterIfAbsent inserts m only when its id is unknown and reports whether it did.
func (r *Registry) RegisterIfAbsent(m model.VoiceModel) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.models[m.ID]; exists {
		return false
	}
	r.models[m.ID] = m
	return true
}

// Get returns the model registered under id.
func (r *Registry) Get(id string) (model.VoiceModel, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.models[id]
	return m, ok
}

// Lookup is Get returning ErrModelNotFound for unknown ids.
func (r *Registry) Lookup(id string) (model.VoiceModel, error) {
	m, ok := r.Get(id)
	if !ok {
		return model.VoiceModel{}, apperrors.ErrModelNotFound
	}
	return m, nil
}

// List returns every registered model in no particular order.
func (r *Registry) List() []model.VoiceModel {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return lo.Values(r.models)
}

// Len returns the number of registered models.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.models)
}

// Delete removes the model and its backing file. A missing file is not an error.
func (r *Registry) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, exists := r.models[id]
	if !exists {
		return apperrors.ErrModelNotFound
	}

	if err := files.Remove(m.Path); err != nil {
		r.logger.Warn("failed to remove model file",
			zap.String("model_id", id),
			zap.String("path", m.Path),
			zap.Error(err),
		)
	}

	delete(r.models, id)
	return nil
}

// forgetPath drops every entry backed by path without touching the file system.
// Nothing is dropped while path exists: a queued remove event may predate a retrain of the same id.
func (r *Registry) forgetPath(path string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	if files.Exists(path) {
		return nil
	}

	var removed []string
	for id, m := range r.models {
		if m.Path == path {
			delete(r.models, id)
			removed = append(removed, id)
		}
	}
	return removed
}

// Scan registers every model file found in the weights directory as a ready custom model.
func (r *Registry) Scan() (int, error) {
	fileInfos, err := files.ListByExtension(r.weightsDir, ModelExtensions...)
	if err != nil {
		return 0, fmt.Errorf("scan weights dir %q: %w", r.weightsDir, err)
	}

	for _, f := range fileInfos {
		r.Register(modelFromFile(f.FullPath))
	}

	r.logger.Info("loaded existing models",
		zap.String("weights_dir", r.weightsDir),
		zap.Int("count", len(fileInfos)),
	)
	return len(fileInfos), nil
}

func modelFromFile(path string) model.VoiceModel {
	id := files.TrimExtension(path)
	return model.VoiceModel{
		ID:     id,
		Path:   path,
		Status: model.StatusReady,
		Name:   id,
		Type:   model.TypeCustom,
	}
}
