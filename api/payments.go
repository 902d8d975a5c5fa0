package api

import (
	"net/http"

	"github.com/Molemo21/ConnectSA-k9-sub014/internal/service/sync"
	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	service sync.SyncUseCase
}

func NewPaymentHandler(service sync.SyncUseCase) *PaymentHandler {
	return &PaymentHandler{service: service}
}

func (h *PaymentHandler) Register(router *gin.RouterGroup) {
	router.POST("/:id/pay", h.pay)
}

// pay starts an online payment for the booking upstream and begins tracking
// the returned ref so the status endpoints have data by the time the client
// lands back from the gateway.
func (h *PaymentHandler) pay(c *gin.Context) {
	authorizationURL, ref, err := h.service.InitiatePayment(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(upstreamStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"authorization_url": authorizationURL, "ref": ref})
}
