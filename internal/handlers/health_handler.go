package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sjperalta/consulta-api/internal/jobs"
	"github.com/sjperalta/consulta-api/internal/services"
)

type HealthHandler struct {
	healthSvc *services.HealthService
	worker    *jobs.Worker
}

func NewHealthHandler(healthSvc *services.HealthService, worker *jobs.Worker) *HealthHandler {
	return &HealthHandler{healthSvc: healthSvc, worker: worker}
}

// @Summary Health Check
// @Description Checks if the API is running and reports the last analytics backend probe
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *HealthHandler) Index(c *gin.Context) {
	body := gin.H{
		"status":   "ok",
		"service":  "consulta-api",
		"version":  "1.0.0",
		"upstream": h.healthSvc.Status(),
	}
	if h.worker != nil {
		body["worker"] = h.worker.GetStats()
	}
	c.JSON(http.StatusOK, body)
}
