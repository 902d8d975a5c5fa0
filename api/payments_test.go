package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Molemo21/ConnectSA-k9-sub014/internal/upstream"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestPaymentHandler_pay(t *testing.T) {
	mockService := &MockSyncUseCase{}
	handler := NewPaymentHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Params = gin.Params{{Key: "id", Value: "bk-1"}}
	c.Request = httptest.NewRequest("POST", "/bookings/bk-1/pay", nil)

	mockService.On("InitiatePayment", c.Request.Context(), "bk-1").Return("https://pay.example/redirect", "PAY-9", nil)

	handler.pay(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"authorization_url": "https://pay.example/redirect", "ref": "PAY-9"}`, w.Body.String())

	mockService.AssertExpectations(t)
}

func TestPaymentHandler_pay_upstreamDown(t *testing.T) {
	mockService := &MockSyncUseCase{}
	handler := NewPaymentHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Params = gin.Params{{Key: "id", Value: "bk-1"}}
	c.Request = httptest.NewRequest("POST", "/bookings/bk-1/pay", nil)

	mockService.On("InitiatePayment", c.Request.Context(), "bk-1").Return("", "", upstream.ErrUnavailable)

	handler.pay(c)

	assert.Equal(t, http.StatusBadGateway, w.Code)

	mockService.AssertExpectations(t)
}
