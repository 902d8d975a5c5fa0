package api

import (
	"net/http"

	"github.com/Molemo21/ConnectSA-k9-sub014/internal/service/sync"
	"github.com/gin-gonic/gin"
)

// IncidentHandler exposes the operator view of stuck payments.
type IncidentHandler struct {
	service sync.SyncUseCase
}

func NewIncidentHandler(service sync.SyncUseCase) *IncidentHandler {
	return &IncidentHandler{service: service}
}

func (h *IncidentHandler) Register(router *gin.RouterGroup) {
	router.GET("", h.list)
}

func (h *IncidentHandler) list(c *gin.Context) {
	includeResolved := c.Query("all") == "true"

	incidents, err := h.service.Incidents(c.Request.Context(), includeResolved)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, incidents)
}
