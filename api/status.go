package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/Molemo21/ConnectSA-k9-sub014/internal/domain"
	"github.com/Molemo21/ConnectSA-k9-sub014/internal/service/status"
	"github.com/Molemo21/ConnectSA-k9-sub014/internal/service/sync"
	"github.com/Molemo21/ConnectSA-k9-sub014/internal/upstream"
	"github.com/gin-gonic/gin"
)

type StatusHandler struct {
	service    sync.SyncUseCase
	classifier *status.Classifier
}

type statusMeta struct {
	Loaded      bool   `json:"loaded"`
	LastUpdated string `json:"last_updated,omitempty"`
	Refreshing  bool   `json:"refreshing"`
	Stale       string `json:"stale,omitempty"`
	Error       string `json:"error,omitempty"`
}

type statusResponse struct {
	Ref           string                `json:"ref"`
	Display       *domain.DisplayStatus `json:"display,omitempty"`
	Payment       *domain.Payment       `json:"payment,omitempty"`
	AmountDisplay string                `json:"amount_display,omitempty"`
	Booking       *domain.Booking       `json:"booking,omitempty"`
	Meta          statusMeta            `json:"meta"`
}

type refreshResponse struct {
	statusResponse
	AlreadyRefreshing bool `json:"already_refreshing"`
}

func NewStatusHandler(service sync.SyncUseCase, classifier *status.Classifier) *StatusHandler {
	return &StatusHandler{service: service, classifier: classifier}
}

func (h *StatusHandler) Register(router *gin.RouterGroup) {
	router.GET("/payments/:ref", h.payment)
	router.GET("/bookings/:id", h.booking)
	router.POST("/payments/:ref/refresh", h.refresh)
	router.POST("/payments/:ref/verify", h.verify)
	router.DELETE("/payments/:ref/cache", h.invalidate)
}

func (h *StatusHandler) payment(c *gin.Context) {
	snap, err := h.service.Track(c.Request.Context(), c.Param("ref"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.respond(c, snap))
}

func (h *StatusHandler) booking(c *gin.Context) {
	snap, err := h.service.TrackBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(upstreamStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.respond(c, snap))
}

func (h *StatusHandler) refresh(c *gin.Context) {
	snap, started, err := h.service.Refresh(c.Request.Context(), c.Param("ref"), true)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, refreshResponse{
		statusResponse:    h.respond(c, snap),
		AlreadyRefreshing: !started,
	})
}

func (h *StatusHandler) verify(c *gin.Context) {
	verified, err := h.service.Verify(c.Request.Context(), c.Param("ref"))
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"verified": verified})
}

func (h *StatusHandler) invalidate(c *gin.Context) {
	ref := c.Param("ref")
	if err := h.service.Invalidate(c.Request.Context(), ref); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"invalidated": ref})
}

// respond renders one snapshot. The display block is only present once a
// payment has been loaded; before that the meta block tells the client
// whether it is looking at a loading state or an error.
func (h *StatusHandler) respond(c *gin.Context, snap *domain.Snapshot) statusResponse {
	role := domain.ParseRole(c.Query("role"))
	// Only the paying client ever gets a continue-payment link.
	allowContinue := c.Query("continue") == "true" && role == domain.RoleClient

	resp := statusResponse{
		Ref:     snap.Ref,
		Payment: snap.Payment,
		Booking: snap.Booking,
		Meta: statusMeta{
			Loaded:     snap.Loaded,
			Refreshing: h.service.Refreshing(snap.Ref),
			Stale:      snap.StaleFlag,
			Error:      snap.Error,
		},
	}
	if !snap.LastUpdated.IsZero() {
		resp.Meta.LastUpdated = snap.LastUpdated.Format(time.RFC3339)
	}

	if snap.Payment != nil {
		resp.AmountDisplay = snap.Payment.AmountDisplay()

		in := status.ClassifyInput{
			Payment:       *snap.Payment,
			IsProcessing:  resp.Meta.Refreshing,
			AllowContinue: allowContinue,
		}
		if snap.Booking != nil {
			in.BookingStatus = snap.Booking.Status
		}
		display := h.classifier.Classify(in)
		resp.Display = &display
	}
	return resp
}

func upstreamStatus(err error) int {
	switch {
	case errors.Is(err, sync.ErrNoPayment), errors.Is(err, upstream.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, upstream.ErrUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
