package shwary

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"
)

func fixedNow(t *testing.T, at time.Time) {
	t.Helper()
	prev := now
	now = func() time.Time { return at }
	t.Cleanup(func() { now = prev })
}

func fullTransaction() *Transaction {
	completed := time.Date(2025, 3, 1, 10, 5, 0, 0, time.UTC)
	return &Transaction{
		ID:                   "tx_123",
		UserID:               "user_9",
		Amount:               5000,
		Currency:             "CDF",
		Type:                 "deposit",
		Status:               StatusCompleted,
		RecipientPhoneNumber: "+243812345678",
		ReferenceID:          "ref_42",
		Metadata:             map[string]any{"orderId": "A1"},
		FailureReason:        "none",
		CompletedAt:          &completed,
		CreatedAt:            time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
		UpdatedAt:            time.Date(2025, 3, 1, 10, 5, 0, 0, time.UTC),
		IsSandbox:            true,
		PretiumTransactionID: "pt_7",
		Error:                "none",
	}
}

func TestTransactionRoundTrip(t *testing.T) {
	tx := fullTransaction()

	got := TransactionFromAPIResponse(tx.ToMap())
	if !reflect.DeepEqual(got, tx) {
		t.Errorf("round trip mismatch:\n got  %+v\n want %+v", got, tx)
	}
}

func TestTransactionJSONRoundTrip(t *testing.T) {
	tx := fullTransaction()

	data, err := json.Marshal(tx)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var got Transaction
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if !reflect.DeepEqual(&got, tx) {
		t.Errorf("JSON round trip mismatch:\n got  %+v\n want %+v", &got, tx)
	}
}

func TestTransactionFromAPIResponse_Defaults(t *testing.T) {
	at := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	fixedNow(t, at)

	tx := TransactionFromAPIResponse(map[string]any{
		"id":        42,
		"amount":    "not-a-number",
		"status":    "refunded",
		"createdAt": "yesterday",
		"metadata":  "nope",
	})

	if tx.ID != "" {
		t.Errorf("ID = %q, want empty", tx.ID)
	}
	if tx.Amount != 0 {
		t.Errorf("Amount = %v, want 0", tx.Amount)
	}
	if tx.Status != StatusPending {
		t.Errorf("Status = %q, want pending", tx.Status)
	}
	if !tx.CreatedAt.Equal(at) || !tx.UpdatedAt.Equal(at) {
		t.Errorf("timestamps = %v / %v, want %v", tx.CreatedAt, tx.UpdatedAt, at)
	}
	if tx.CompletedAt != nil {
		t.Errorf("CompletedAt = %v, want nil", tx.CompletedAt)
	}
	if tx.Metadata != nil {
		t.Errorf("Metadata = %v, want nil", tx.Metadata)
	}
	if tx.IsSandbox {
		t.Error("IsSandbox should default to false")
	}
}

func TestTransactionFromAPIResponse_NilMap(t *testing.T) {
	tx := TransactionFromAPIResponse(nil)
	if tx == nil {
		t.Fatal("expected a transaction")
	}
	if !tx.IsPending() {
		t.Errorf("Status = %q, want pending", tx.Status)
	}
}

func TestTransactionFromAPIResponse_AmountTypes(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  float64
	}{
		{"float64", float64(2900), 2900},
		{"int", 3000, 3000},
		{"json.Number", json.Number("12.5"), 12.5},
		{"numeric string", "7500", 7500},
		{"bool", true, 0},
		{"missing", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := map[string]any{}
			if tt.value != nil {
				raw["amount"] = tt.value
			}
			if got := TransactionFromAPIResponse(raw).Amount; got != tt.want {
				t.Errorf("Amount = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTransactionStatusPredicates(t *testing.T) {
	tests := []struct {
		status    TransactionStatus
		pending   bool
		completed bool
		failed    bool
		terminal  bool
	}{
		{StatusPending, true, false, false, false},
		{StatusCompleted, false, true, false, true},
		{StatusFailed, false, false, true, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			tx := &Transaction{Status: tt.status}
			if tx.IsPending() != tt.pending {
				t.Errorf("IsPending() = %v", tx.IsPending())
			}
			if tx.IsCompleted() != tt.completed {
				t.Errorf("IsCompleted() = %v", tx.IsCompleted())
			}
			if tx.IsFailed() != tt.failed {
				t.Errorf("IsFailed() = %v", tx.IsFailed())
			}
			if tt.status.IsTerminal() != tt.terminal {
				t.Errorf("IsTerminal() = %v", tt.status.IsTerminal())
			}
		})
	}
}

func TestParseTransactionStatus(t *testing.T) {
	tests := []struct {
		in     string
		want   TransactionStatus
		wantOK bool
	}{
		{"pending", StatusPending, true},
		{"COMPLETED", StatusCompleted, true},
		{" failed ", StatusFailed, true},
		{"", StatusPending, false},
		{"cancelled", StatusPending, false},
	}

	for _, tt := range tests {
		got, ok := ParseTransactionStatus(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParseTransactionStatus(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestTransactionToMap_OmitsEmptyOptionals(t *testing.T) {
	tx := &Transaction{ID: "tx_1", Status: StatusPending}
	m := tx.ToMap()

	for _, key := range []string{"metadata", "failureReason", "completedAt", "pretiumTransactionId", "error"} {
		if _, ok := m[key]; ok {
			t.Errorf("key %q should be omitted", key)
		}
	}
	if m["status"] != "pending" {
		t.Errorf("status = %v", m["status"])
	}
}
