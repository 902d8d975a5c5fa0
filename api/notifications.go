package api

import (
	"net/http"

	"github.com/Molemo21/ConnectSA-k9-sub014/internal/domain"
	"github.com/Molemo21/ConnectSA-k9-sub014/internal/service/inbox"
	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	service inbox.InboxUseCase
}

type readAllRequest struct {
	UserID string `json:"user_id"`
}

func NewNotificationHandler(service inbox.InboxUseCase) *NotificationHandler {
	return &NotificationHandler{service: service}
}

func (h *NotificationHandler) Register(router *gin.RouterGroup) {
	router.GET("", h.list)
	router.POST("/:id/read", h.markRead)
	router.POST("/read-all", h.markAllRead)
	router.DELETE("/:id", h.delete)
}

func (h *NotificationHandler) list(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
		return
	}
	role := domain.ParseRole(c.Query("role"))

	items, err := h.service.List(c.Request.Context(), userID, role)
	if err != nil {
		c.JSON(upstreamStatus(err), gin.H{"error": err.Error()})
		return
	}

	unread := 0
	for _, item := range items {
		if !item.IsRead {
			unread++
		}
	}
	c.JSON(http.StatusOK, gin.H{"notifications": items, "unread": unread})
}

func (h *NotificationHandler) markRead(c *gin.Context) {
	id := c.Param("id")
	if err := h.service.MarkRead(c.Request.Context(), id); err != nil {
		c.JSON(upstreamStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"read": id})
}

func (h *NotificationHandler) markAllRead(c *gin.Context) {
	var req readAllRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.UserID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
		return
	}

	if err := h.service.MarkAllRead(c.Request.Context(), req.UserID); err != nil {
		c.JSON(upstreamStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *NotificationHandler) delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		c.JSON(upstreamStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}
