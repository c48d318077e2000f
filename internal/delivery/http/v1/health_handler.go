package v1

import (
	"net/http"

	"campus-placement-backend/internal/delivery/http/response"
	"campus-placement-backend/internal/usecase"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	healthUC usecase.HealthUsecase
}

// Health godoc
// @Summary      Service health
// @Description  Reports the selected store and the state of optional dependencies
// @Tags         system
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	status := h.healthUC.Check(c.Request.Context())
	message := "System operational"
	if status["status"] != "ok" {
		message = "System degraded"
	}
	response.Success(c, http.StatusOK, message, status)
}
