package model

// CachedRepo is a locally stored copy of an externally hosted model repository.
type CachedRepo struct {
	RepoID    string `json:"repo_id"`
	LocalPath string `json:"path,omitempty"`
	Revision  string `json:"revision,omitempty"`
	Cached    bool   `json:"cached"`

	// Pretrained catalog entries are known but not downloaded.
	Name   string `json:"name,omitempty"`
	Type   string `json:"type,omitempty"`
	Loaded bool   `json:"loaded,omitempty"`
}
