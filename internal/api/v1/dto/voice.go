package dto

import (
	"strings"

	"rvc-service/internal/api/errors"
	"rvc-service/internal/app/model"
)

// DefaultVoiceName is used when a training request omits voice_name.
const DefaultVoiceName = "Unnamed Voice"

// TrainRequest holds the form fields of POST /train. The audio part is read separately.
type TrainRequest struct {
	VoiceID   string `form:"voice_id" binding:"required"`
	VoiceName string `form:"voice_name"`
}

// Normalize fills defaults.
func (r *TrainRequest) Normalize() {
	if r.VoiceName == "" {
		r.VoiceName = DefaultVoiceName
	}
}

// Validate rejects voice ids that cannot name a file in the weights directory.
func (r *TrainRequest) Validate() error {
	id := r.VoiceID
	if id == "." || id == ".." || strings.ContainsAny(id, "/\\\x00") {
		return errors.NewValidationError("Invalid voice_id", map[string]string{
			"voice_id": "must not contain path separators",
		})
	}
	return nil
}

// TrainResponse reports a registered voice.
type TrainResponse struct {
	Success    bool   `json:"success"`
	ModelID    string `json:"model_id"`
	ModelPath  string `json:"model_path"`
	Status     string `json:"status"`
	Mode       string `json:"mode"`
	Mock       bool   `json:"mock,omitempty"`
	SampleRate int    `json:"sample_rate,omitempty"`
}

// ConvertRequest holds the form fields of POST /convert.
type ConvertRequest struct {
	ModelID    string `form:"model_id" binding:"required"`
	Backend    string `form:"backend"`
	Text       string `form:"text"`
	HFRepo     string `form:"hf_repo"`
	HFRevision string `form:"hf_revision"`
}

// ModelResponse is one entry of GET /models.
type ModelResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Status     string `json:"status"`
	Type       string `json:"type"`
	SampleRate int    `json:"sample_rate,omitempty"`
}

// NewModelResponse applies the display defaults for missing fields.
func NewModelResponse(m model.VoiceModel) ModelResponse {
	return ModelResponse{
		ID:         m.ID,
		Name:       m.DisplayName(),
		Status:     string(m.DisplayStatus()),
		Type:       string(m.DisplayType()),
		SampleRate: m.SampleRate,
	}
}

// ListModelsResponse is the body of GET /models.
type ListModelsResponse struct {
	Success bool            `json:"success"`
	Models  []ModelResponse `json:"models"`
	Count   int             `json:"count"`
}

// DeleteModelResponse is the body of a successful DELETE /models/{model_id}.
type DeleteModelResponse struct {
	Success bool `json:"success"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status       string `json:"status"`
	Mode         string `json:"mode"`
	Device       string `json:"device"`
	ModelsLoaded int    `json:"models_loaded"`
	HFModels     int    `json:"hf_models"`
}
