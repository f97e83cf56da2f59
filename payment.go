package shwary

import "encoding/json"

// PaymentParams is the unvalidated input for a payment.
type PaymentParams struct {
	Amount            float64
	ClientPhoneNumber string
	Country           CountryMetadata

	// CallbackURL is optional; empty means no callback.
	CallbackURL string
}

// PaymentRequest is a payment that has passed validation.
// Its fields cannot be changed after construction.
type PaymentRequest struct {
	amount            float64
	clientPhoneNumber string
	country           CountryMetadata
	callbackURL       string
}

// PaymentPayload is the JSON body sent to the payment endpoint.
type PaymentPayload struct {
	Amount            float64 `json:"amount"`
	ClientPhoneNumber string  `json:"clientPhoneNumber"`
	CallbackURL       string  `json:"callbackUrl,omitempty"`
}

// NewPaymentRequest validates the inputs and returns an immutable request.
// The returned error is the first validation failure.
func NewPaymentRequest(amount float64, phone string, country CountryMetadata, callbackURL string) (*PaymentRequest, error) {
	return NewPaymentRequestFromParams(PaymentParams{
		Amount:            amount,
		ClientPhoneNumber: phone,
		Country:           country,
		CallbackURL:       callbackURL,
	})
}

// NewPaymentRequestFromParams is NewPaymentRequest taking a PaymentParams.
func NewPaymentRequestFromParams(params PaymentParams) (*PaymentRequest, error) {
	if err := ValidatePaymentRequest(params); err != nil {
		return nil, err
	}
	return &PaymentRequest{
		amount:            params.Amount,
		clientPhoneNumber: params.ClientPhoneNumber,
		country:           params.Country,
		callbackURL:       params.CallbackURL,
	}, nil
}

func (r *PaymentRequest) Amount() float64 { return r.amount }
func (r *PaymentRequest) ClientPhoneNumber() string { return r.clientPhoneNumber }
func (r *PaymentRequest) Country() CountryMetadata { return r.country }
func (r *PaymentRequest) CallbackURL() string { return r.callbackURL }
func (r *PaymentRequest) HasCallbackURL() bool { return r.callbackURL != "" }

// Payload returns the wire body for the request.
func (r *PaymentRequest) Payload() PaymentPayload {
	return PaymentPayload{
		Amount:            r.amount,
		ClientPhoneNumber: r.clientPhoneNumber,
		CallbackURL:       r.callbackURL,
	}
}

// MarshalJSON encodes the wire payload. The country is carried by the
// endpoint path, not the body.
func (r *PaymentRequest) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Payload())
}
