package testutil

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/mock"

	"rvc-service/internal/api/v1/dto"
	"rvc-service/internal/api/v1/services"
)

// MockServices contains all mock services for testing
type MockServices struct {
	VoiceService *MockVoiceService
}

// NewMockServices creates a new instance of mock services
func NewMockServices(t *testing.T) *MockServices {
	return &MockServices{
		VoiceService: NewMockVoiceService(t),
	}
}

// MockVoiceService is a mock implementation of VoiceService.
// Uploads are drained into UploadedBytes so tests can assert on what the handler passed through.
type MockVoiceService struct {
	mock.Mock
	UploadedBytes []byte
}

var _ services.VoiceService = (*MockVoiceService)(nil)

func NewMockVoiceService(t *testing.T) *MockVoiceService {
	m := &MockVoiceService{}
	m.Test(t)
	return m
}

func (m *MockVoiceService) drain(upload services.Upload) {
	if upload.Content != nil {
		m.UploadedBytes, _ = io.ReadAll(upload.Content)
	}
}

func (m *MockVoiceService) Train(ctx context.Context, req dto.TrainRequest, upload services.Upload) (*dto.TrainResponse, error) {
	m.drain(upload)
	args := m.Called(ctx, req, upload.Filename)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.TrainResponse), args.Error(1)
}

func (m *MockVoiceService) Convert(ctx context.Context, req dto.ConvertRequest, upload services.Upload) (*services.ConvertedAudio, error) {
	m.drain(upload)
	args := m.Called(ctx, req, upload.Filename)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.ConvertedAudio), args.Error(1)
}

func (m *MockVoiceService) ListModels(ctx context.Context) (*dto.ListModelsResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListModelsResponse), args.Error(1)
}

func (m *MockVoiceService) DeleteModel(ctx context.Context, modelID string) (*dto.DeleteModelResponse, error) {
	args := m.Called(ctx, modelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.DeleteModelResponse), args.Error(1)
}

func (m *MockVoiceService) Health(ctx context.Context) *dto.HealthResponse {
	args := m.Called(ctx)
	return args.Get(0).(*dto.HealthResponse)
}
