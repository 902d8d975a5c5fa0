// Package upstream is the read-mostly client for the core marketplace API.
// Payments and bookings are owned by the core ledger; this service only
// fetches them, asks for gateway reconciliation, and passes through
// notification mutations.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/Molemo21/ConnectSA-k9-sub014/config"
	"github.com/Molemo21/ConnectSA-k9-sub014/internal/domain"
	"github.com/google/uuid"
)

var (
	// ErrNotFound marks a 404 from the core API: the ref or id is unknown.
	ErrNotFound = errors.New("upstream: not found")
	// ErrUnavailable marks transport failures and 5xx responses. Callers keep
	// last-known-good data when they see it.
	ErrUnavailable = errors.New("upstream: unavailable")
)

type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(cfg config.UpstreamConfig) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		http:    &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
	}
}

func (c *Client) GetPayment(ctx context.Context, ref string) (*domain.Payment, error) {
	var p domain.Payment
	if err := c.do(ctx, http.MethodGet, "/api/payments/"+url.PathEscape(ref), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) GetBooking(ctx context.Context, id string) (*domain.Booking, error) {
	var b domain.Booking
	if err := c.do(ctx, http.MethodGet, "/api/bookings/"+url.PathEscape(id), nil, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

type verifyResponse struct {
	Verified bool `json:"verified"`
}

// VerifyPayment asks the core API to reconcile the payment with the gateway.
// The write side effect happens on the backend; the client model is untouched.
func (c *Client) VerifyPayment(ctx context.Context, ref string) (bool, error) {
	var vr verifyResponse
	if err := c.do(ctx, http.MethodPost, "/api/payments/"+url.PathEscape(ref)+"/verify", nil, &vr); err != nil {
		return false, err
	}
	return vr.Verified, nil
}

type initiateResponse struct {
	Ref              string `json:"ref"`
	AuthorizationURL string `json:"authorization_url"`
}

// InitiatePayment starts an online payment for a booking and returns the
// gateway authorization URL plus the new payment ref.
func (c *Client) InitiatePayment(ctx context.Context, bookingID string) (authorizationURL, ref string, err error) {
	var ir initiateResponse
	if err := c.do(ctx, http.MethodPost, "/api/book-service/"+url.PathEscape(bookingID)+"/pay", nil, &ir); err != nil {
		return "", "", err
	}
	return ir.AuthorizationURL, ir.Ref, nil
}

func (c *Client) ListNotifications(ctx context.Context, userID string) ([]domain.Notification, error) {
	var list []domain.Notification
	if err := c.do(ctx, http.MethodGet, "/api/notifications?user_id="+url.QueryEscape(userID), nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *Client) MarkNotificationRead(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPost, "/api/notifications/"+url.PathEscape(id)+"/read", nil, nil)
}

func (c *Client) MarkAllNotificationsRead(ctx context.Context, userID string) error {
	body := map[string]string{"user_id": userID}
	return c.do(ctx, http.MethodPost, "/api/notifications/read-all", body, nil)
}

func (c *Client) DeleteNotification(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/notifications/"+url.PathEscape(id), nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrUnavailable, method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s %s", ErrNotFound, method, path)
	}
	if resp.StatusCode >= 300 {
		bb, _ := io.ReadAll(resp.Body)
		log.Printf("upstream %s %s failed: %s body=%s", method, path, resp.Status, string(bb))
		if resp.StatusCode >= 500 {
			return fmt.Errorf("%w: %s %s: %s", ErrUnavailable, method, path, resp.Status)
		}
		return fmt.Errorf("upstream %s %s failed: %s", method, path, resp.Status)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
