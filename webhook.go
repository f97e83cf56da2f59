package shwary

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// TransactionHandler receives transactions delivered by webhook receivers.
type TransactionHandler func(ctx context.Context, tx *Transaction) error

// WebhookResponse is the body a webhook receiver answers the API with.
type WebhookResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// NewWebhookResponse stamps a response with the current UTC time.
func NewWebhookResponse(success bool, message string) WebhookResponse {
	return WebhookResponse{
		Success:   success,
		Message:   message,
		Timestamp: formatTimestamp(now()),
	}
}

// webhookSchema is the contract enforced by ParseWebhookStrict.
const webhookSchema = `{
  "type": "object",
  "required": ["id", "amount", "currency", "status", "recipientPhoneNumber", "createdAt", "updatedAt", "isSandbox"],
  "properties": {
    "id": {"type": "string", "minLength": 1},
    "userId": {"type": "string"},
    "amount": {"type": "number", "minimum": 0},
    "currency": {"type": "string", "minLength": 3, "maxLength": 3},
    "type": {"type": "string"},
    "status": {"type": "string", "enum": ["pending", "completed", "failed"]},
    "recipientPhoneNumber": {"type": "string", "pattern": "^\\+\\d{1,15}$"},
    "referenceId": {"type": "string"},
    "metadata": {"type": ["object", "null"]},
    "failureReason": {"type": ["string", "null"]},
    "completedAt": {"type": ["string", "null"], "format": "date-time"},
    "createdAt": {"type": "string", "format": "date-time"},
    "updatedAt": {"type": "string", "format": "date-time"},
    "isSandbox": {"type": "boolean"},
    "pretiumTransactionId": {"type": ["string", "null"]},
    "error": {"type": ["string", "null"]}
  }
}`

var webhookSchemaLoader = gojsonschema.NewStringLoader(webhookSchema)

// ParseWebhook decodes a webhook body leniently. Only a body that is not a
// JSON object is rejected; field problems fall back to defaults as in
// TransactionFromAPIResponse.
func ParseWebhook(payload []byte) (*Transaction, error) {
	raw, err := decodeObject(payload)
	if err != nil {
		return nil, err
	}
	return TransactionFromAPIResponse(raw), nil
}

// ParseWebhookStrict validates a webhook body against the transaction schema
// before decoding it. Every violation is listed in the error context under "errors".
func ParseWebhookStrict(payload []byte) (*Transaction, error) {
	raw, err := decodeObject(payload)
	if err != nil {
		return nil, err
	}

	result, err := gojsonschema.Validate(webhookSchemaLoader, gojsonschema.NewBytesLoader(payload))
	if err != nil {
		return nil, NewInvalidPayloadError(fmt.Sprintf("webhook schema validation failed: %v", err), nil)
	}
	if !result.Valid() {
		var details []string
		for _, desc := range result.Errors() {
			details = append(details, fmt.Sprintf("%s: %s", desc.Field(), desc.Description()))
		}
		return nil, NewInvalidPayloadError("webhook payload does not match the transaction schema", details)
	}

	return TransactionFromAPIResponse(raw), nil
}

func decodeObject(payload []byte) (map[string]any, error) {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 {
		return nil, NewInvalidPayloadError("webhook payload is empty", nil)
	}

	var raw map[string]any
	if err := json.Unmarshal(trimmed, &raw); err != nil || raw == nil {
		return nil, NewInvalidPayloadError("webhook payload must be a JSON object", nil)
	}
	return raw, nil
}
