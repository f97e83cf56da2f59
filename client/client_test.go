package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/Tresor-Kasenda/shwary-go"
)

const transactionJSON = `{
  "id": "tx_123",
  "userId": "user_9",
  "amount": 5000,
  "currency": "CDF",
  "type": "deposit",
  "status": "pending",
  "recipientPhoneNumber": "+243812345678",
  "referenceId": "ref_42",
  "createdAt": "2025-03-01T10:00:00.000Z",
  "updatedAt": "2025-03-01T10:00:00.000Z",
  "isSandbox": false
}`

type recordedRequest struct {
	method string
	path   string
	body   map[string]any
}

type recorder struct {
	mu       sync.Mutex
	requests []recordedRequest
}

func (r *recorder) all() []recordedRequest {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]recordedRequest(nil), r.requests...)
}

// apiServer answers every request with status and body and records what it received.
func apiServer(t *testing.T, status int, body string) (*httptest.Server, *recorder) {
	t.Helper()
	rec := &recorder{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req := recordedRequest{method: r.Method, path: r.URL.EscapedPath()}
		_ = json.NewDecoder(r.Body).Decode(&req.body)
		rec.mu.Lock()
		rec.requests = append(rec.requests, req)
		rec.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server, rec
}

func newClient(t *testing.T, baseURL string, sandbox bool) *Client {
	t.Helper()
	cfg := shwary.NewConfig("merchant-123", "secret-key")
	cfg.BaseURL = baseURL
	cfg.Sandbox = sandbox
	c, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestNew_InvalidConfig(t *testing.T) {
	if _, err := New(shwary.Config{MerchantID: "x"}); !errors.Is(err, shwary.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestPay_Routing(t *testing.T) {
	tests := []struct {
		name     string
		sandbox  bool
		pay      func(c *Client) (*shwary.Transaction, error)
		wantPath string
	}{
		{
			name:     "live DRC",
			pay:      func(c *Client) (*shwary.Transaction, error) { return c.PayDRC(context.Background(), 5000, "+243812345678", "") },
			wantPath: "/api/v1/merchants/payment/DRC",
		},
		{
			name:     "sandbox Kenya",
			sandbox:  true,
			pay:      func(c *Client) (*shwary.Transaction, error) { return c.PayKenya(context.Background(), 10, "+254712345678", "") },
			wantPath: "/api/v1/merchants/payment/sandbox/KE",
		},
		{
			name:     "live Uganda",
			pay:      func(c *Client) (*shwary.Transaction, error) { return c.PayUganda(context.Background(), 1000, "+256712345678", "") },
			wantPath: "/api/v1/merchants/payment/UG",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, requests := apiServer(t, http.StatusOK, transactionJSON)
			c := newClient(t, server.URL, tt.sandbox)

			tx, err := tt.pay(c)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tx.ID != "tx_123" {
				t.Errorf("ID = %q", tx.ID)
			}
			if len(requests.all()) != 1 {
				t.Fatalf("requests = %d, want 1", len(requests.all()))
			}
			got := requests.all()[0]
			if got.method != http.MethodPost || got.path != tt.wantPath {
				t.Errorf("request = %s %s, want POST %s", got.method, got.path, tt.wantPath)
			}
		})
	}
}

func TestPay_Payload(t *testing.T) {
	server, requests := apiServer(t, http.StatusOK, transactionJSON)
	c := newClient(t, server.URL, false)

	_, err := c.Pay(context.Background(), 5000, "+243812345678", shwary.DRC, "https://merchant.example.com/hook")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	body := requests.all()[0].body
	want := map[string]any{
		"amount":            float64(5000),
		"clientPhoneNumber": "+243812345678",
		"callbackUrl":       "https://merchant.example.com/hook",
	}
	if len(body) != len(want) {
		t.Fatalf("body = %v, want %v", body, want)
	}
	for k, v := range want {
		if body[k] != v {
			t.Errorf("body[%q] = %v, want %v", k, body[k], v)
		}
	}
}

func TestPay_ValidationMakesNoRequest(t *testing.T) {
	server, requests := apiServer(t, http.StatusOK, transactionJSON)
	c := newClient(t, server.URL, false)

	_, err := c.PayDRC(context.Background(), 1000, "+243812345678", "")
	if !shwary.IsValidationError(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(requests.all()) != 0 {
		t.Errorf("requests = %d, want 0", len(requests.all()))
	}
}

func TestCreateSandboxPayment_AlwaysSandbox(t *testing.T) {
	server, requests := apiServer(t, http.StatusOK, transactionJSON)
	c := newClient(t, server.URL, false)

	req, err := shwary.NewPaymentRequest(1000, "+256712345678", shwary.Uganda, "")
	if err != nil {
		t.Fatalf("NewPaymentRequest: %v", err)
	}
	if _, err := c.CreateSandboxPayment(context.Background(), req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := requests.all()[0].path; got != "/api/v1/merchants/payment/sandbox/UG" {
		t.Errorf("path = %q", got)
	}
}

func TestCreatePayment_NilRequest(t *testing.T) {
	c := newClient(t, "https://api.shwary.test", false)
	if _, err := c.CreatePayment(context.Background(), nil); !shwary.IsValidationError(err) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestPay_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantReason shwary.Reason
		wantCode   int
	}{
		{"not found becomes client not found", http.StatusNotFound, `{"message":"no wallet"}`, shwary.ReasonClientNotFound, http.StatusNotFound},
		{"unauthorized", http.StatusUnauthorized, `{}`, shwary.ReasonInvalidCredentials, http.StatusUnauthorized},
		{"bad gateway", http.StatusBadGateway, `{}`, shwary.ReasonBadGateway, http.StatusBadGateway},
		{"non-object success body", http.StatusOK, `["tx_123"]`, shwary.ReasonUnexpectedResponse, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, _ := apiServer(t, tt.status, tt.body)
			c := newClient(t, server.URL, false)

			_, err := c.PayDRC(context.Background(), 5000, "+243812345678", "")
			e, ok := shwary.AsError(err)
			if !ok {
				t.Fatalf("expected *shwary.Error, got %v", err)
			}
			if e.Reason != tt.wantReason || e.Code != tt.wantCode {
				t.Errorf("reason/code = %v/%d, want %v/%d", e.Reason, e.Code, tt.wantReason, tt.wantCode)
			}
		})
	}
}

func TestPay_ClientNotFoundWrapsAPIError(t *testing.T) {
	server, _ := apiServer(t, http.StatusNotFound, `{"message":"no wallet"}`)
	c := newClient(t, server.URL, false)

	_, err := c.PayDRC(context.Background(), 5000, "+243812345678", "")
	e, _ := shwary.AsError(err)
	if e == nil || e.Context["phoneNumber"] != "+243812345678" {
		t.Fatalf("unexpected error %v", err)
	}
	cause, ok := shwary.AsError(e.Unwrap())
	if !ok || cause.Message != "no wallet" {
		t.Errorf("cause = %v", e.Unwrap())
	}
}

func TestGetTransaction(t *testing.T) {
	server, requests := apiServer(t, http.StatusOK, transactionJSON)
	c := newClient(t, server.URL, false)

	tx, err := c.GetTransaction(context.Background(), "tx/123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tx.ReferenceID != "ref_42" || !tx.IsPending() {
		t.Errorf("unexpected transaction %+v", tx)
	}

	got := requests.all()[0]
	if got.method != http.MethodGet || got.path != "/api/v1/merchants/transactions/tx%2F123" {
		t.Errorf("request = %s %s", got.method, got.path)
	}
}

func TestGetTransaction_EmptyID(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer server.Close()

	c := newClient(t, server.URL, false)
	for _, id := range []string{"", "   "} {
		_, err := c.GetTransaction(context.Background(), id)
		e, ok := shwary.AsError(err)
		if !ok || e.Reason != shwary.ReasonMissingRequiredField {
			t.Errorf("GetTransaction(%q) error = %v", id, err)
		}
	}
	if calls.Load() != 0 {
		t.Errorf("server calls = %d, want 0", calls.Load())
	}
}

func TestClient_Accessors(t *testing.T) {
	c := newClient(t, "https://api.shwary.test/", true)
	if !c.IsSandbox() {
		t.Error("IsSandbox() should be true")
	}
	if c.Config().BaseURL != "https://api.shwary.test" {
		t.Errorf("BaseURL = %q", c.Config().BaseURL)
	}

	tx, err := c.ParseWebhook([]byte(transactionJSON))
	if err != nil || tx.ID != "tx_123" {
		t.Errorf("ParseWebhook() = %v, %v", tx, err)
	}
	if _, err := c.ParseWebhookStrict([]byte(transactionJSON)); err != nil {
		t.Errorf("ParseWebhookStrict() error = %v", err)
	}
}
