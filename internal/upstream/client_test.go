package upstream

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Molemo21/ConnectSA-k9-sub014/config"
	"github.com/Molemo21/ConnectSA-k9-sub014/internal/domain"
	"github.com/stretchr/testify/assert"
)

func testClient(url string) *Client {
	return NewClient(config.UpstreamConfig{BaseURL: url, APIKey: "test-key", TimeoutSeconds: 5})
}

func TestClient_GetPayment(t *testing.T) {
	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/payments/PAY-123", r.URL.Path)
		assert.Equal(t, http.MethodGet, r.Method)
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		assert.Equal(t, "test-key", r.Header.Get("X-API-Key"))

		json.NewEncoder(w).Encode(domain.Payment{
			Ref:       "PAY-123",
			BookingID: "bk-9",
			Amount:    450,
			Currency:  "ZAR",
			Status:    domain.PaymentStatusEscrow,
			Method:    domain.PaymentMethodOnline,
			CreatedAt: created,
		})
	}))
	defer srv.Close()

	p, err := testClient(srv.URL).GetPayment(context.Background(), "PAY-123")

	assert.NoError(t, err)
	assert.Equal(t, "PAY-123", p.Ref)
	assert.Equal(t, domain.PaymentStatusEscrow, p.Status)
	assert.Equal(t, created, p.CreatedAt)
}

func TestClient_GetPayment_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such payment", http.StatusNotFound)
	}))
	defer srv.Close()

	p, err := testClient(srv.URL).GetPayment(context.Background(), "PAY-missing")

	assert.Nil(t, p)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClient_GetPayment_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).GetPayment(context.Background(), "PAY-123")

	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestClient_GetPayment_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	_, err := testClient(srv.URL).GetPayment(context.Background(), "PAY-123")

	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestClient_GetBooking(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/bookings/bk-9", r.URL.Path)
		json.NewEncoder(w).Encode(domain.Booking{ID: "bk-9", Status: domain.BookingStatusInProgress, Address: "12 Main Rd"})
	}))
	defer srv.Close()

	b, err := testClient(srv.URL).GetBooking(context.Background(), "bk-9")

	assert.NoError(t, err)
	assert.Equal(t, domain.BookingStatusInProgress, b.Status)
}

func TestClient_VerifyPayment(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/payments/PAY-123/verify", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		json.NewEncoder(w).Encode(map[string]bool{"verified": true})
	}))
	defer srv.Close()

	ok, err := testClient(srv.URL).VerifyPayment(context.Background(), "PAY-123")

	assert.NoError(t, err)
	assert.True(t, ok)
}

func TestClient_VerifyPayment_Failure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gateway timeout", http.StatusBadGateway)
	}))
	defer srv.Close()

	ok, err := testClient(srv.URL).VerifyPayment(context.Background(), "PAY-123")

	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestClient_InitiatePayment(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/book-service/bk-9/pay", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		json.NewEncoder(w).Encode(map[string]string{
			"ref":               "PAY-456",
			"authorization_url": "https://gateway.example.com/authorize/xyz",
		})
	}))
	defer srv.Close()

	authURL, ref, err := testClient(srv.URL).InitiatePayment(context.Background(), "bk-9")

	assert.NoError(t, err)
	assert.Equal(t, "PAY-456", ref)
	assert.Equal(t, "https://gateway.example.com/authorize/xyz", authURL)
}

func TestClient_ListNotifications(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/notifications", r.URL.Path)
		assert.Equal(t, "u-1", r.URL.Query().Get("user_id"))
		json.NewEncoder(w).Encode([]domain.Notification{
			{ID: "n-1", Type: "BOOKING_ACCEPTED", Message: "Your booking #ABC123 was accepted"},
			{ID: "n-2", Type: "PAYMENT_RECEIVED", Message: "Payment received"},
		})
	}))
	defer srv.Close()

	list, err := testClient(srv.URL).ListNotifications(context.Background(), "u-1")

	assert.NoError(t, err)
	assert.Len(t, list, 2)
	assert.Equal(t, "BOOKING_ACCEPTED", list[0].Type)
}

func TestClient_MarkAllNotificationsRead(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/notifications/read-all", r.URL.Path)
		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "u-1", body["user_id"])
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	err := testClient(srv.URL).MarkAllNotificationsRead(context.Background(), "u-1")

	assert.NoError(t, err)
}

func TestClient_DeleteNotification(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/notifications/n-1", r.URL.Path)
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	err := testClient(srv.URL).DeleteNotification(context.Background(), "n-1")

	assert.NoError(t, err)
}
