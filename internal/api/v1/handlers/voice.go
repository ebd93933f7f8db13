package handlers

import (
	"mime"
	"net/http"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"

	"rvc-service/internal/api/errors"
	"rvc-service/internal/api/middleware"
	"rvc-service/internal/api/v1/dto"
	"rvc-service/internal/api/v1/services"
)

// VoiceHandler handles training, conversion and model management endpoints
type VoiceHandler struct {
	service        services.VoiceService
	maxUploadBytes int64
}

// NewVoiceHandler creates a new voice handler
func NewVoiceHandler(service services.VoiceService, maxUploadBytes int64) *VoiceHandler {
	return &VoiceHandler{
		service:        service,
		maxUploadBytes: maxUploadBytes,
	}
}

// Train handles POST /train
// Registers an uploaded sample as a voice model
//
// @Summary Train a voice model
// @Description Stores the uploaded sample as the reference audio of voice_id
// @Tags models
// @Accept multipart/form-data
// @Produce json
// @Param audio formData file true "Voice sample (mp3, wav, m4a, ogg, flac)"
// @Param voice_id formData string true "Voice identifier"
// @Param voice_name formData string false "Display name" default(Unnamed Voice)
// @Success 200 {object} dto.TrainResponse "Model registered"
// @Failure 400 {object} errors.APIError "Missing audio or voice_id"
// @Failure 413 {object} errors.APIError "Upload too large"
// @Failure 500 {object} errors.APIError "Training failed"
// @Failure 401 {object} errors.APIError "Missing or invalid bearer token"
// @Security BearerAuth
// @Router /train [post]
func (h *VoiceHandler) Train(c *gin.Context) {
	header, err := middleware.AudioFile(c, h.maxUploadBytes)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	var req dto.TrainRequest
	if err := middleware.ValidateForm(c, &req); err != nil {
		middleware.HandleError(c, err)
		return
	}

	file, err := header.Open()
	if err != nil {
		middleware.HandleError(c, errors.NewProcessingError("Failed to read uploaded audio"))
		return
	}
	defer file.Close()

	response, err := h.service.Train(c.Request.Context(), req, services.Upload{
		Filename: header.Filename,
		Size:     header.Size,
		Content:  file,
	})
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// Convert handles POST /convert
// Applies a registered voice to the uploaded audio and streams the result
//
// @Summary Convert audio
// @Description Converts the uploaded audio with the selected backend; falls back to passthrough
// @Tags conversion
// @Accept multipart/form-data
// @Produce audio/wav
// @Param audio formData file true "Input audio"
// @Param model_id formData string true "Voice model id"
// @Param backend formData string false "rvc, freevc, knn-vc or xtts" default(rvc)
// @Param text formData string false "Text to synthesize (xtts)"
// @Param hf_repo formData string false "Model repository to cache"
// @Param hf_revision formData string false "Repository revision"
// @Success 200 {file} binary "Converted audio"
// @Header 200 {string} X-Conversion-Mode "mock or huggingface"
// @Header 200 {string} X-Conversion-Backend "Backend that handled the request"
// @Header 200 {string} X-Conversion-Fallback "true when the input was passed through"
// @Failure 400 {object} errors.APIError "Missing audio or model_id"
// @Failure 500 {object} errors.APIError "Model not found or conversion failed"
// @Failure 401 {object} errors.APIError "Missing or invalid bearer token"
// @Security BearerAuth
// @Router /convert [post]
func (h *VoiceHandler) Convert(c *gin.Context) {
	header, err := middleware.AudioFile(c, h.maxUploadBytes)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	var req dto.ConvertRequest
	if err := middleware.ValidateForm(c, &req); err != nil {
		middleware.HandleError(c, err)
		return
	}

	file, err := header.Open()
	if err != nil {
		middleware.HandleError(c, errors.NewProcessingError("Failed to read uploaded audio"))
		return
	}
	defer file.Close()

	converted, err := h.service.Convert(c.Request.Context(), req, services.Upload{
		Filename: header.Filename,
		Size:     header.Size,
		Content:  file,
	})
	if err != nil {
		middleware.HandleError(c, err)
		return
	}
	defer converted.Close()

	output, err := os.Open(converted.Path)
	if err != nil {
		middleware.HandleError(c, errors.NewProcessingError("Conversion produced no output"))
		return
	}
	defer output.Close()

	c.DataFromReader(http.StatusOK, converted.Size, "audio/wav", output, map[string]string{
		"Content-Disposition":               mime.FormatMediaType("attachment", map[string]string{"filename": "converted_" + req.ModelID + ".wav"}),
		middleware.HeaderConversionMode:     converted.Mode,
		middleware.HeaderConversionBackend:  converted.Backend,
		middleware.HeaderConversionFallback: strconv.FormatBool(converted.Fallback),
	})
}

// ListModels handles GET /models
//
// @Summary List voice models
// @Tags models
// @Produce json
// @Success 200 {object} dto.ListModelsResponse "Registered models"
// @Failure 401 {object} errors.APIError "Missing or invalid bearer token"
// @Security BearerAuth
// @Router /models [get]
func (h *VoiceHandler) ListModels(c *gin.Context) {
	response, err := h.service.ListModels(c.Request.Context())
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// DeleteModel handles DELETE /models/:model_id
//
// @Summary Delete a voice model
// @Tags models
// @Produce json
// @Param model_id path string true "Voice model id"
// @Success 200 {object} dto.DeleteModelResponse "Model deleted"
// @Failure 404 {object} errors.APIError "Model not found"
// @Failure 401 {object} errors.APIError "Missing or invalid bearer token"
// @Security BearerAuth
// @Router /models/{model_id} [delete]
func (h *VoiceHandler) DeleteModel(c *gin.Context) {
	response, err := h.service.DeleteModel(c.Request.Context(), c.Param("model_id"))
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}
