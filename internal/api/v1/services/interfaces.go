package services

import (
	"context"
	"io"

	"rvc-service/internal/api/v1/dto"
	"rvc-service/internal/app/util/files"
)

// VoiceService defines the voice model operations behind the HTTP layer
type VoiceService interface {
	Train(ctx context.Context, req dto.TrainRequest, audio Upload) (*dto.TrainResponse, error)
	Convert(ctx context.Context, req dto.ConvertRequest, audio Upload) (*ConvertedAudio, error)
	ListModels(ctx context.Context) (*dto.ListModelsResponse, error)
	DeleteModel(ctx context.Context, modelID string) (*dto.DeleteModelResponse, error)
	Health(ctx context.Context) *dto.HealthResponse
}

// Upload is an audio part of a multipart request.
type Upload struct {
	Filename string
	Size     int64
	Content  io.Reader
}

// ConvertedAudio is a conversion output staged on disk. Close removes it.
type ConvertedAudio struct {
	Path     string
	Size     int64
	Mode     string
	Backend  string
	Fallback bool
	Reason   string
}

// Close deletes the staged output file.
func (a *ConvertedAudio) Close() error {
	return files.Remove(a.Path)
}
