package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

func (h *HealthHandler) Register(router gin.IRoutes) {
	router.GET("/healthz", h.live)
}

func (h *HealthHandler) live(c *gin.Context) {
	c.JSON(http.StatusOK, statusResponse{Status: "ok"})
}
