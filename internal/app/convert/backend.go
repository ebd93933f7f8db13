package convert

import (
	"strings"

	"github.com/samber/lo"
)

// Backend names accepted by the dispatcher.
const (
	BackendRVC    = "rvc"
	BackendFreeVC = "freevc"
	BackendKNNVC  = "knn-vc"
	BackendXTTS   = "xtts"

	DefaultBackend = BackendRVC
)

// Mode tags reported with every result.
type Mode string

const (
	ModeMock        Mode = "mock"
	ModeHuggingFace Mode = "huggingface"
)

// Fallback reasons. Kept to a fixed set so they can label metrics.
const (
	ReasonNoText                 = "no_text"
	ReasonSynthesizerUnavailable = "synthesizer_unavailable"
	ReasonSynthesisFailed        = "synthesis_failed"
	ReasonNoScript               = "no_script"
	ReasonScriptFailed           = "script_failed"
	ReasonUnsupportedBackend     = "unsupported_backend"
)

// scriptBackends run a cached repository's inference script.
var scriptBackends = []string{BackendFreeVC, BackendRVC, BackendKNNVC}

// NormalizeBackend lower-cases name and applies the default.
func NormalizeBackend(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return DefaultBackend
	}
	return name
}

// IsScriptBackend reports whether backend is served by an inference script.
func IsScriptBackend(backend string) bool {
	return lo.Contains(scriptBackends, backend)
}

// KnownBackends lists every backend with a dedicated code path.
func KnownBackends() []string {
	return append([]string{BackendXTTS}, scriptBackends...)
}
