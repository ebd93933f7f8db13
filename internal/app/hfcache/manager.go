// Package hfcache downloads model repositories from a Hugging Face compatible hub and remembers
// where they were stored.
package hfcache

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"

	apperrors "rvc-service/internal/app/errors"
	"rvc-service/internal/app/model"
	"rvc-service/internal/app/util/files"
)

// InferenceScriptName is the script a cached repository may ship for subprocess inference.
const InferenceScriptName = "infer.py"

const completeMarker = ".complete"

// ProgressFunc wraps the body of a file download, e.g. with a progress bar.
type ProgressFunc func(filename string, size int64, body io.Reader) io.Reader

// Config configures a Manager.
type Config struct {
	Enabled  bool
	CacheDir string
	Endpoint string
	Token    string
	Timeout  time.Duration
}

// Manager caches repositories and indexes them by repository id.
type Manager struct {
	enabled  bool
	cacheDir string
	client   *HubClient
	progress ProgressFunc
	logger   *zap.Logger

	mu    sync.RWMutex
	repos map[string]model.CachedRepo
}

// NewManager creates a manager. A disabled manager keeps its index but never downloads.
func NewManager(config Config, logger *zap.Logger) *Manager {
	m := &Manager{
		enabled:  config.Enabled,
		cacheDir: config.CacheDir,
		logger:   logger,
		repos:    make(map[string]model.CachedRepo),
	}
	if config.Enabled {
		m.client = NewHubClient(config.Endpoint, config.Token, config.Timeout)
	}
	return m
}

// Enabled reports whether Ensure can download.
func (m *Manager) Enabled() bool {
	return m.enabled
}

// SetProgress installs a download progress hook.
func (m *Manager) SetProgress(fn ProgressFunc) {
	m.progress = fn
}

// AddPretrained records catalog entries that are known to the service without being downloaded.
func (m *Manager) AddPretrained(entries ...model.CachedRepo) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range entries {
		e.Loaded = true
		m.repos[e.RepoID] = e
	}
}

// Get returns the index entry for repoID.
func (m *Manager) Get(repoID string) (model.CachedRepo, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.repos[repoID]
	return r, ok
}

// List returns all index entries.
func (m *Manager) List() []model.CachedRepo {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return lo.Values(m.repos)
}

// Count returns the number of index entries.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.repos)
}

// InferenceScript returns the path of infer.py inside the cached copy of repoID, if present.
func (m *Manager) InferenceScript(repoID string) (string, bool) {
	r, ok := m.Get(repoID)
	if !ok || !r.Cached || r.LocalPath == "" {
		return "", false
	}
	script := filepath.Join(r.LocalPath, InferenceScriptName)
	if info, err := os.Stat(script); err != nil || info.IsDir() {
		return "", false
	}
	return script, true
}

// Ensure downloads repoID at revision unless a complete snapshot is already on disk,
// then records it in the index.
func (m *Manager) Ensure(ctx context.Context, repoID, revision string) (model.CachedRepo, error) {
	if !m.enabled {
		return model.CachedRepo{}, apperrors.ErrCacheDisabled
	}
	if err := validateRepoID(repoID); err != nil {
		return model.CachedRepo{}, err
	}

	m.logger.Info("caching model repository",
		zap.String("repo_id", repoID),
		zap.String("revision", lo.Ternary(revision == "", "latest", revision)),
	)

	info, err := m.client.RepoInfo(ctx, repoID, revision)
	if err != nil {
		return model.CachedRepo{}, err
	}

	localDir := m.snapshotDir(repoID, info.SHA)
	if _, err := os.Stat(filepath.Join(localDir, completeMarker)); err != nil {
		if err := m.download(ctx, repoID, info, localDir); err != nil {
			return model.CachedRepo{}, err
		}
	}

	repo := model.CachedRepo{
		RepoID:    repoID,
		LocalPath: localDir,
		Revision:  revision,
		Cached:    true,
	}

	m.mu.Lock()
	m.repos[repoID] = repo
	m.mu.Unlock()

	m.logger.Info("cached model repository", zap.String("repo_id", repoID), zap.String("path", localDir))
	return repo, nil
}

// snapshotDir mirrors the hub cache layout: models--org--name/snapshots/<sha>.
func (m *Manager) snapshotDir(repoID, sha string) string {
	return filepath.Join(m.cacheDir, "models--"+strings.ReplaceAll(repoID, "/", "--"), "snapshots", sha)
}

func (m *Manager) download(ctx context.Context, repoID string, info *RepoInfo, localDir string) error {
	if err := os.MkdirAll(localDir, 0o755); err != nil {
		return fmt.Errorf("failed to create cache dir: %w", err)
	}

	for _, sibling := range info.Siblings {
		name := sibling.RFilename
		if !filepath.IsLocal(name) {
			return fmt.Errorf("refusing to cache file outside snapshot: %q", name)
		}
		if err := m.downloadFile(ctx, repoID, info.SHA, sibling, filepath.Join(localDir, filepath.FromSlash(name))); err != nil {
			return err
		}
	}

	return os.WriteFile(filepath.Join(localDir, completeMarker), []byte(info.SHA), 0o644)
}

func (m *Manager) downloadFile(ctx context.Context, repoID, commit string, sibling Sibling, dest string) error {
	name := sibling.RFilename
	body, size, err := m.client.Download(ctx, repoID, commit, name)
	if err != nil {
		return err
	}
	defer body.Close()

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}

	var reader io.Reader = body
	if m.progress != nil {
		reader = m.progress(name, size, body)
	}

	tmp := dest + ".incomplete"
	out, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, reader); err != nil {
		out.Close()
		os.Remove(tmp)
		return fmt.Errorf("failed to download %s: %w", name, err)
	}
	if err := out.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	if sibling.LFS != nil && sibling.LFS.SHA256 != "" {
		sum, err := files.SHA256(tmp)
		if err != nil {
			os.Remove(tmp)
			return err
		}
		if !strings.EqualFold(sum, sibling.LFS.SHA256) {
			os.Remove(tmp)
			return fmt.Errorf("checksum mismatch for %s: got %s, want %s", name, sum, sibling.LFS.SHA256)
		}
	}
	return os.Rename(tmp, dest)
}

func validateRepoID(repoID string) error {
	if repoID == "" {
		return apperrors.RequiredField("repo id")
	}
	for _, part := range strings.Split(repoID, "/") {
		if part == "" || part == "." || part == ".." {
			return fmt.Errorf("invalid repo id %q", repoID)
		}
	}
	return nil
}
