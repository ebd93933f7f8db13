package registry

import (
	"context"
	"fmt"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"rvc-service/internal/app/util/files"
)

// Watch follows the weights directory until ctx is done. New model files with unknown ids are
// registered; entries whose file is removed or renamed away are dropped.
func (r *Registry) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(r.weightsDir); err != nil {
		return fmt.Errorf("watch dir %q: %w", r.weightsDir, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			r.handleEvent(event)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			r.logger.Warn("weights watcher error", zap.Error(err))
		}
	}
}

func (r *Registry) handleEvent(event fsnotify.Event) {
	if !files.HasExtension(event.Name, ModelExtensions...) {
		return
	}

	switch {
	case event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename):
		for _, id := range r.forgetPath(event.Name) {
			r.logger.Info("model file removed", zap.String("model_id", id), zap.String("path", event.Name))
		}
	case event.Has(fsnotify.Create) || event.Has(fsnotify.Write):
		if !files.Exists(event.Name) {
			return
		}
		m := modelFromFile(event.Name)
		if r.RegisterIfAbsent(m) {
			r.logger.Info("model file discovered", zap.String("model_id", m.ID), zap.String("path", m.Path))
		}
	}
}
