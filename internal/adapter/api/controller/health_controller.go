package controller

import (
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthController responde à sonda de liveness
type HealthController struct {
	startedAt time.Time
}

// NewHealthController cria uma nova instância de HealthController
func NewHealthController() *HealthController {
	return &HealthController{
		startedAt: time.Now(),
	}
}

// Get retorna o status do serviço
// @Summary Sonda de liveness
// @Description Retorna status, tempo no ar e ambiente
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (c *HealthController) Get(ctx *gin.Context) {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	ctx.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"uptime": time.Since(c.startedAt).String(),
		"env":    env,
	})
}
