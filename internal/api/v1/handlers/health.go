package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rvc-service/internal/api/v1/services"
)

type HealthHandler struct {
	service services.VoiceService
}

func NewHealthHandler(service services.VoiceService) *HealthHandler {
	return &HealthHandler{service: service}
}

// Health handles GET /health
//
// @Summary Service health
// @Tags health
// @Produce json
// @Success 200 {object} dto.HealthResponse "Mode, device and model counts"
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Health(c.Request.Context()))
}
