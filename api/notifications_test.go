package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Molemo21/ConnectSA-k9-sub014/internal/domain"
	"github.com/Molemo21/ConnectSA-k9-sub014/internal/service/inbox"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockInboxUseCase is a mock implementation of inbox.InboxUseCase
type MockInboxUseCase struct {
	mock.Mock
}

func (m *MockInboxUseCase) List(ctx context.Context, userID string, role domain.Role) ([]inbox.Item, error) {
	args := m.Called(ctx, userID, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inbox.Item), args.Error(1)
}

func (m *MockInboxUseCase) MarkRead(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockInboxUseCase) MarkAllRead(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockInboxUseCase) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestNotificationHandler_list(t *testing.T) {
	mockService := &MockInboxUseCase{}
	handler := NewNotificationHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/notifications?user_id=user-1&role=PROVIDER", nil)

	items := []inbox.Item{
		{Notification: domain.Notification{ID: "n1", IsRead: false}, ActionText: "View Booking"},
		{Notification: domain.Notification{ID: "n2", IsRead: true}, ActionText: "View Payment"},
	}

	mockService.On("List", c.Request.Context(), "user-1", domain.RoleProvider).Return(items, nil)

	handler.list(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Notifications []inbox.Item `json:"notifications"`
		Unread        int          `json:"unread"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Notifications, 2)
	assert.Equal(t, 1, resp.Unread)

	mockService.AssertExpectations(t)
}

func TestNotificationHandler_list_missingUser(t *testing.T) {
	mockService := &MockInboxUseCase{}
	handler := NewNotificationHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/notifications", nil)

	handler.list(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "List")
}

func TestNotificationHandler_markRead(t *testing.T) {
	mockService := &MockInboxUseCase{}
	handler := NewNotificationHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Params = gin.Params{{Key: "id", Value: "n1"}}
	c.Request = httptest.NewRequest("POST", "/notifications/n1/read", nil)

	mockService.On("MarkRead", c.Request.Context(), "n1").Return(nil)

	handler.markRead(c)

	assert.Equal(t, http.StatusOK, w.Code)

	mockService.AssertExpectations(t)
}

func TestNotificationHandler_markAllRead(t *testing.T) {
	mockService := &MockInboxUseCase{}
	handler := NewNotificationHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Request = httptest.NewRequest("POST", "/notifications/read-all", strings.NewReader(`{"user_id":"user-1"}`))
	c.Request.Header.Set("Content-Type", "application/json")

	mockService.On("MarkAllRead", c.Request.Context(), "user-1").Return(nil)

	handler.markAllRead(c)

	assert.Equal(t, http.StatusOK, w.Code)

	mockService.AssertExpectations(t)
}

func TestNotificationHandler_markAllRead_missingUser(t *testing.T) {
	mockService := &MockInboxUseCase{}
	handler := NewNotificationHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Request = httptest.NewRequest("POST", "/notifications/read-all", strings.NewReader(`{}`))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.markAllRead(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "MarkAllRead")
}

func TestNotificationHandler_delete(t *testing.T) {
	mockService := &MockInboxUseCase{}
	handler := NewNotificationHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Params = gin.Params{{Key: "id", Value: "n1"}}
	c.Request = httptest.NewRequest("DELETE", "/notifications/n1", nil)

	mockService.On("Delete", c.Request.Context(), "n1").Return(nil)

	handler.delete(c)

	assert.Equal(t, http.StatusOK, w.Code)

	mockService.AssertExpectations(t)
}
