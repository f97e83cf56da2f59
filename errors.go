package shwary

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
)

// Kind is the closed set of error categories returned by this module.
type Kind int

const (
	// KindValidation is a caller input problem detected before any network call.
	KindValidation Kind = iota + 1
	// KindAuthentication is a rejected merchant credential.
	KindAuthentication
	// KindAPI is a remote or transport failure.
	KindAPI
)

// String returns the error name used in serialized projections.
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "ValidationError"
	case KindAuthentication:
		return "AuthenticationError"
	case KindAPI:
		return "ApiError"
	default:
		return "Error"
	}
}

// Reason identifies which named constructor produced an error.
type Reason string

const (
	ReasonInvalidAmount        Reason = "invalid_amount"
	ReasonInvalidPhoneNumber   Reason = "invalid_phone_number"
	ReasonInvalidCallbackURL   Reason = "invalid_callback_url"
	ReasonMissingRequiredField Reason = "missing_required_field"
	ReasonInvalidPayload       Reason = "invalid_payload"
	ReasonInvalidCredentials   Reason = "invalid_credentials"
	ReasonResponse             Reason = "response"
	ReasonNetwork              Reason = "network"
	ReasonBadGateway           Reason = "bad_gateway"
	ReasonClientNotFound       Reason = "client_not_found"
	ReasonUnexpectedResponse   Reason = "unexpected_response"
)

// Kind sentinels for use with errors.Is.
var (
	ErrValidation     = errors.New("shwary: validation error")
	ErrAuthentication = errors.New("shwary: authentication error")
	ErrAPI            = errors.New("shwary: api error")
)

// Error is the single concrete error type of the taxonomy.
// Code mirrors an HTTP status: 400 for validation, 401 for authentication,
// the response status (or 0 for transport failures) for API errors.
type Error struct {
	Kind    Kind
	Reason  Reason
	Message string
	Code    int
	Context map[string]any

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("shwary: %s: %v", e.Message, e.Err)
	}
	return "shwary: " + e.Message
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the kind sentinels.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrValidation:
		return e.Kind == KindValidation
	case ErrAuthentication:
		return e.Kind == KindAuthentication
	case ErrAPI:
		return e.Kind == KindAPI
	}
	return false
}

// Retryable reports whether repeating the same call could succeed.
// Only transport failures, rate limits and server-side API errors qualify.
func (e *Error) Retryable() bool {
	if e.Kind != KindAPI {
		return false
	}
	return e.Code == 0 || e.Code == http.StatusTooManyRequests || e.Code >= 500
}

// ToMap returns the plain projection {name, message, code, context}.
func (e *Error) ToMap() map[string]any {
	ctx := make(map[string]any, len(e.Context))
	for k, v := range e.Context {
		ctx[k] = v
	}
	return map[string]any{
		"name":    e.Kind.String(),
		"message": e.Message,
		"code":    e.Code,
		"context": ctx,
	}
}

// MarshalJSON encodes the ToMap projection.
func (e *Error) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.ToMap())
}

// AsError extracts an *Error from err's chain.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsValidationError reports whether err is a validation error.
func IsValidationError(err error) bool { return errors.Is(err, ErrValidation) }

// IsAuthenticationError reports whether err is an authentication error.
func IsAuthenticationError(err error) bool { return errors.Is(err, ErrAuthentication) }

// IsAPIError reports whether err is an API error.
func IsAPIError(err error) bool { return errors.Is(err, ErrAPI) }

func newValidationError(reason Reason, message string, ctx map[string]any) *Error {
	return &Error{
		Kind:    KindValidation,
		Reason:  reason,
		Message: message,
		Code:    http.StatusBadRequest,
		Context: ctx,
	}
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// NewInvalidAmountError reports an amount that is not positive or is below
// the country minimum.
func NewInvalidAmountError(amount float64, country CountryMetadata) *Error {
	expected := fmt.Sprintf(">= %s %s", formatAmount(country.MinimumAmount), country.Currency)
	message := fmt.Sprintf("amount must be at least %s %s for %s",
		formatAmount(country.MinimumAmount), country.Currency, country.Name)
	if !(amount > 0) {
		message = "amount must be a positive number"
	}
	return newValidationError(ReasonInvalidAmount, message, map[string]any{
		"field":         "amount",
		"value":         amount,
		"expected":      expected,
		"minimumAmount": country.MinimumAmount,
		"currency":      country.Currency,
		"country":       string(country.Code),
	})
}

// NewInvalidPhoneNumberError reports a phone number that is not E.164 or
// does not carry the country dial code.
func NewInvalidPhoneNumberError(phone string, country CountryMetadata) *Error {
	return newValidationError(ReasonInvalidPhoneNumber,
		fmt.Sprintf("phone number must be in E.164 format and start with %s", country.DialCode),
		map[string]any{
			"field":    "clientPhoneNumber",
			"value":    phone,
			"expected": "E.164 number starting with " + country.DialCode,
			"dialCode": country.DialCode,
			"country":  string(country.Code),
		})
}

// NewInvalidCallbackURLError reports a callback URL that is not a valid HTTPS URL.
func NewInvalidCallbackURLError(callbackURL string) *Error {
	return newValidationError(ReasonInvalidCallbackURL,
		"callback URL must be a valid HTTPS URL",
		map[string]any{
			"field":    "callbackUrl",
			"value":    callbackURL,
			"expected": "https URL",
		})
}

// NewMissingRequiredFieldError reports an absent required field.
func NewMissingRequiredFieldError(field string) *Error {
	return newValidationError(ReasonMissingRequiredField,
		fmt.Sprintf("missing required field: %s", field),
		map[string]any{
			"field":    field,
			"expected": "non-empty value",
		})
}

// NewInvalidPayloadError reports a webhook or response payload that could not be parsed.
// details is copied into the context under "errors" when non-empty.
func NewInvalidPayloadError(message string, details []string) *Error {
	ctx := map[string]any{
		"field":    "payload",
		"expected": "JSON object matching the transaction shape",
	}
	if len(details) > 0 {
		ctx["errors"] = append([]string(nil), details...)
	}
	return newValidationError(ReasonInvalidPayload, message, ctx)
}

// NewInvalidCredentialsError reports an HTTP 401 from the API.
func NewInvalidCredentialsError(body any) *Error {
	return &Error{
		Kind:    KindAuthentication,
		Reason:  ReasonInvalidCredentials,
		Message: "invalid merchant credentials",
		Code:    http.StatusUnauthorized,
		Context: map[string]any{
			"statusCode": http.StatusUnauthorized,
			"response":   body,
		},
	}
}

var statusMessages = map[int]string{
	http.StatusBadRequest:   "Bad request",
	http.StatusUnauthorized: "Unauthorized",
	http.StatusNotFound:     "Resource not found",
	http.StatusBadGateway:   "Bad gateway",
}

// NewAPIErrorFromResponse builds an API error from a non-2xx response.
// A string "message" in an object body wins over the status table.
func NewAPIErrorFromResponse(status int, body any) *Error {
	message := ""
	if obj, ok := body.(map[string]any); ok {
		if m, ok := obj["message"].(string); ok {
			message = m
		}
	}
	if message == "" {
		if m, ok := statusMessages[status]; ok {
			message = m
		} else {
			message = fmt.Sprintf("Request failed with status %d", status)
		}
	}
	return &Error{
		Kind:    KindAPI,
		Reason:  ReasonResponse,
		Message: message,
		Code:    status,
		Context: map[string]any{
			"statusCode": status,
			"response":   body,
		},
	}
}

// NewNetworkError reports a transport failure or a timeout. Its code is always 0.
func NewNetworkError(message string, cause error) *Error {
	return &Error{
		Kind:    KindAPI,
		Reason:  ReasonNetwork,
		Message: message,
		Code:    0,
		Context: map[string]any{},
		Err:     cause,
	}
}

// NewBadGatewayError reports an HTTP 502 from the API.
func NewBadGatewayError(body any) *Error {
	e := NewAPIErrorFromResponse(http.StatusBadGateway, body)
	e.Reason = ReasonBadGateway
	return e
}

// NewClientNotFoundError reports that the API has no mobile-money account for phone.
func NewClientNotFoundError(phone string) *Error {
	return &Error{
		Kind:    KindAPI,
		Reason:  ReasonClientNotFound,
		Message: fmt.Sprintf("client not found for phone number %s", phone),
		Code:    http.StatusNotFound,
		Context: map[string]any{
			"statusCode":  http.StatusNotFound,
			"phoneNumber": phone,
		},
	}
}

// NewUnexpectedResponseError reports a successful response whose body is not
// the expected JSON object.
func NewUnexpectedResponseError(status int, body any) *Error {
	return &Error{
		Kind:    KindAPI,
		Reason:  ReasonUnexpectedResponse,
		Message: "unexpected response body",
		Code:    status,
		Context: map[string]any{
			"statusCode": status,
			"response":   body,
		},
	}
}
