package model

// ModelStatus is the lifecycle state of a voice model.
type ModelStatus string

const (
	StatusReady   ModelStatus = "ready"
	StatusFailed  ModelStatus = "failed"
	StatusUnknown ModelStatus = "unknown"
)

// ModelType tells how a voice model was produced.
type ModelType string

const (
	TypeCustom ModelType = "custom"
	TypeMock   ModelType = "mock"
)

// VoiceModel binds a voice identifier to a stored reference file under the weights directory.
type VoiceModel struct {
	ID         string      `json:"id"`
	Path       string      `json:"path"`
	Status     ModelStatus `json:"status"`
	Name       string      `json:"name,omitempty"`
	Type       ModelType   `json:"type,omitempty"`
	SampleRate int         `json:"sample_rate,omitempty"`
}

// DisplayName returns the name, defaulting to the id.
func (m VoiceModel) DisplayName() string {
	if m.Name == "" {
		return m.ID
	}
	return m.Name
}

// DisplayStatus returns the status, defaulting to unknown.
func (m VoiceModel) DisplayStatus() ModelStatus {
	if m.Status == "" {
		return StatusUnknown
	}
	return m.Status
}

// DisplayType returns the type, defaulting to custom.
func (m VoiceModel) DisplayType() ModelType {
	if m.Type == "" {
		return TypeCustom
	}
	return m.Type
}
