package shwary

import (
	"encoding/json"
	"testing"
)

func TestNewPaymentRequest_BelowMinimum(t *testing.T) {
	req, err := NewPaymentRequest(1000, "+243812345678", DRC, "")
	if err == nil {
		t.Fatal("expected error for amount below the DRC minimum")
	}
	if req != nil {
		t.Error("request should be nil on failure")
	}

	e, ok := AsError(err)
	if !ok || e.Kind != KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if e.Context["field"] != "amount" {
		t.Errorf("context field = %v, want amount", e.Context["field"])
	}
}

func TestNewPaymentRequest_Payload(t *testing.T) {
	req, err := NewPaymentRequest(5000, "+243812345678", DRC, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var body map[string]any
	if err := json.Unmarshal(data, &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if len(body) != 2 {
		t.Errorf("expected exactly 2 keys, got %v", body)
	}
	if body["amount"] != float64(5000) {
		t.Errorf("amount = %v, want 5000", body["amount"])
	}
	if body["clientPhoneNumber"] != "+243812345678" {
		t.Errorf("clientPhoneNumber = %v", body["clientPhoneNumber"])
	}
	if _, ok := body["callbackUrl"]; ok {
		t.Error("callbackUrl key should be absent when no callback is supplied")
	}
}

func TestNewPaymentRequest_WithCallback(t *testing.T) {
	req, err := NewPaymentRequest(50, "+254712345678", Kenya, "https://merchant.example.com/hook")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !req.HasCallbackURL() {
		t.Error("HasCallbackURL() should be true")
	}
	if req.Country() != Kenya {
		t.Errorf("Country() = %v, want Kenya", req.Country())
	}

	payload := req.Payload()
	if payload.CallbackURL != "https://merchant.example.com/hook" {
		t.Errorf("payload callbackUrl = %q", payload.CallbackURL)
	}
	if payload.Amount != 50 || payload.ClientPhoneNumber != "+254712345678" {
		t.Errorf("unexpected payload %+v", payload)
	}
}

func TestNewPaymentRequestFromParams(t *testing.T) {
	tests := []struct {
		name    string
		params  PaymentParams
		wantErr bool
	}{
		{
			name:   "valid uganda",
			params: PaymentParams{Amount: 1000, ClientPhoneNumber: "+256712345678", Country: Uganda},
		},
		{
			name:    "wrong dial code",
			params:  PaymentParams{Amount: 1000, ClientPhoneNumber: "+243812345678", Country: Uganda},
			wantErr: true,
		},
		{
			name:    "http callback",
			params:  PaymentParams{Amount: 1000, ClientPhoneNumber: "+256712345678", Country: Uganda, CallbackURL: "http://a.com"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := NewPaymentRequestFromParams(tt.params)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && req.Amount() != tt.params.Amount {
				t.Errorf("Amount() = %v, want %v", req.Amount(), tt.params.Amount)
			}
		})
	}
}
