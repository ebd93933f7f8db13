package hfcache

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	apperrors "rvc-service/internal/app/errors"
)

// API endpoints and paths.
const (
	apiRevisionPath = "/api/models/%s/revision/%s?blobs=true"
	resolvePath     = "/%s/resolve/%s/%s"
	defaultRevision = "main"
)

// RepoInfo is the subset of the Hub model API response the cache needs.
type RepoInfo struct {
	ID       string    `json:"id"`
	SHA      string    `json:"sha"`
	Siblings []Sibling `json:"siblings"`
}

// Sibling is one file of a repository snapshot.
type Sibling struct {
	RFilename string      `json:"rfilename"`
	LFS       *LFSPointer `json:"lfs,omitempty"`
}

// LFSPointer is present for files stored in LFS, which covers model weights.
type LFSPointer struct {
	SHA256 string `json:"sha256"`
	Size   int64  `json:"size"`
}

// HubClient talks to a Hugging Face compatible model hub over HTTP.
type HubClient struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

// NewHubClient creates a client for baseURL (e.g. "https://huggingface.co").
func NewHubClient(baseURL, token string, timeout time.Duration) *HubClient {
	return &HubClient{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
	}
}

// RepoInfo resolves revision of repoID to a commit and its file list.
func (c *HubClient) RepoInfo(ctx context.Context, repoID, revision string) (*RepoInfo, error) {
	if revision == "" {
		revision = defaultRevision
	}

	endpoint := c.baseURL + fmt.Sprintf(apiRevisionPath, repoID, url.PathEscape(revision))
	resp, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, apperrors.Wrapf(apperrors.ErrRepoNotFound, "%s@%s", repoID, revision)
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("hub returned %s for %s: %s", resp.Status, repoID, strings.TrimSpace(string(body)))
	}

	var info RepoInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode repo info: %w", err)
	}
	if info.SHA == "" {
		info.SHA = revision
	}
	return &info, nil
}

// Download opens filename at commit. The caller closes the body.
func (c *HubClient) Download(ctx context.Context, repoID, commit, filename string) (io.ReadCloser, int64, error) {
	endpoint := c.baseURL + fmt.Sprintf(resolvePath, repoID, url.PathEscape(commit), filename)
	resp, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, 0, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, 0, fmt.Errorf("hub returned %s for %s/%s", resp.Status, repoID, filename)
	}
	return resp.Body, resp.ContentLength, nil
}

func (c *HubClient) get(ctx context.Context, endpoint string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach hub at %s: %w", c.baseURL, err)
	}
	return resp, nil
}
