package shwary

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// TransactionStatus is the lifecycle state of a transaction.
// Pending is initial; completed and failed are terminal.
type TransactionStatus string

const (
	StatusPending   TransactionStatus = "pending"
	StatusCompleted TransactionStatus = "completed"
	StatusFailed    TransactionStatus = "failed"
)

// IsTerminal reports whether no further transition can occur.
func (s TransactionStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// ParseTransactionStatus maps a wire value to a status.
// ok is false for unknown values.
func ParseTransactionStatus(value string) (status TransactionStatus, ok bool) {
	switch TransactionStatus(strings.ToLower(strings.TrimSpace(value))) {
	case StatusPending:
		return StatusPending, true
	case StatusCompleted:
		return StatusCompleted, true
	case StatusFailed:
		return StatusFailed, true
	}
	return StatusPending, false
}

// timestampLayout matches the millisecond ISO-8601 form the API emits.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// now is replaced in tests.
var now = time.Now

// Transaction is a payment as reported by the API or a webhook.
type Transaction struct {
	ID                   string
	UserID               string
	Amount               float64
	Currency             string
	Type                 string
	Status               TransactionStatus
	RecipientPhoneNumber string
	ReferenceID          string
	Metadata             map[string]any
	FailureReason        string
	CompletedAt          *time.Time
	CreatedAt            time.Time
	UpdatedAt            time.Time
	IsSandbox            bool
	PretiumTransactionID string
	Error                string
}

func (t *Transaction) IsPending() bool   { return t.Status == StatusPending }
func (t *Transaction) IsCompleted() bool { return t.Status == StatusCompleted }
func (t *Transaction) IsFailed() bool    { return t.Status == StatusFailed }

// TransactionFromAPIResponse builds a Transaction from an untyped payload.
//
// It never fails. Missing or wrong-typed fields fall back to safe defaults:
// empty strings, zero amount, pending status, the current time for createdAt
// and updatedAt, and nil for completedAt and metadata. Callers needing strict
// checks should use ParseWebhookStrict.
func TransactionFromAPIResponse(raw map[string]any) *Transaction {
	current := now().UTC()

	status, _ := ParseTransactionStatus(stringField(raw, "status"))

	tx := &Transaction{
		ID:                   stringField(raw, "id"),
		UserID:               stringField(raw, "userId"),
		Amount:               numberField(raw, "amount"),
		Currency:             stringField(raw, "currency"),
		Type:                 stringField(raw, "type"),
		Status:               status,
		RecipientPhoneNumber: stringField(raw, "recipientPhoneNumber"),
		ReferenceID:          stringField(raw, "referenceId"),
		FailureReason:        stringField(raw, "failureReason"),
		CreatedAt:            timeField(raw, "createdAt", current),
		UpdatedAt:            timeField(raw, "updatedAt", current),
		IsSandbox:            boolField(raw, "isSandbox"),
		PretiumTransactionID: stringField(raw, "pretiumTransactionId"),
		Error:                stringField(raw, "error"),
	}

	if meta, ok := raw["metadata"].(map[string]any); ok {
		tx.Metadata = meta
	}

	if s := stringField(raw, "completedAt"); s != "" {
		if t, err := parseTimestamp(s); err == nil {
			tx.CompletedAt = &t
		}
	}

	return tx
}

// ToMap returns the wire shape of the transaction. Optional fields are
// omitted when empty.
func (t *Transaction) ToMap() map[string]any {
	m := map[string]any{
		"id":                   t.ID,
		"userId":               t.UserID,
		"amount":               t.Amount,
		"currency":             t.Currency,
		"type":                 t.Type,
		"status":               string(t.Status),
		"recipientPhoneNumber": t.RecipientPhoneNumber,
		"referenceId":          t.ReferenceID,
		"createdAt":            formatTimestamp(t.CreatedAt),
		"updatedAt":            formatTimestamp(t.UpdatedAt),
		"isSandbox":            t.IsSandbox,
	}
	if t.Metadata != nil {
		m["metadata"] = t.Metadata
	}
	if t.FailureReason != "" {
		m["failureReason"] = t.FailureReason
	}
	if t.CompletedAt != nil {
		m["completedAt"] = formatTimestamp(*t.CompletedAt)
	}
	if t.PretiumTransactionID != "" {
		m["pretiumTransactionId"] = t.PretiumTransactionID
	}
	if t.Error != "" {
		m["error"] = t.Error
	}
	return m
}

// MarshalJSON encodes the ToMap shape.
func (t *Transaction) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.ToMap())
}

// UnmarshalJSON decodes leniently through TransactionFromAPIResponse.
func (t *Transaction) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*t = *TransactionFromAPIResponse(raw)
	return nil
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

func parseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

func stringField(raw map[string]any, key string) string {
	if s, ok := raw[key].(string); ok {
		return s
	}
	return ""
}

func numberField(raw map[string]any, key string) float64 {
	var v float64
	switch n := raw[key].(type) {
	case float64:
		v = n
	case float32:
		v = float64(n)
	case int:
		v = float64(n)
	case int64:
		v = float64(n)
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0
		}
		v = f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0
		}
		v = f
	default:
		return 0
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func boolField(raw map[string]any, key string) bool {
	b, _ := raw[key].(bool)
	return b
}

func timeField(raw map[string]any, key string, fallback time.Time) time.Time {
	s := stringField(raw, key)
	if s == "" {
		return fallback
	}
	t, err := parseTimestamp(s)
	if err != nil {
		return fallback
	}
	return t
}
