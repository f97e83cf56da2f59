package shwary

import (
	"math"
	"net/url"
	"regexp"
	"strings"
)

// e164Regex matches a leading plus followed by 1-15 digits.
var e164Regex = regexp.MustCompile(`^\+\d{1,15}$`)

// ValidateAmount checks that amount is a positive finite number no smaller
// than the country minimum. An amount equal to the minimum is accepted.
func ValidateAmount(amount float64, country CountryMetadata) error {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return NewInvalidAmountError(amount, country)
	}
	if amount < country.MinimumAmount {
		return NewInvalidAmountError(amount, country)
	}
	return nil
}

// ValidatePhoneNumber checks that phone is E.164 and starts with the country dial code.
func ValidatePhoneNumber(phone string, country CountryMetadata) error {
	if !e164Regex.MatchString(phone) || !strings.HasPrefix(phone, country.DialCode) {
		return NewInvalidPhoneNumberError(phone, country)
	}
	return nil
}

// ValidateCallbackURL checks that callbackURL is an absolute https URL.
// An empty string means no callback and is always valid.
func ValidateCallbackURL(callbackURL string) error {
	if callbackURL == "" {
		return nil
	}

	u, err := url.Parse(callbackURL)
	if err != nil || u.Scheme != "https" || u.Host == "" {
		return NewInvalidCallbackURLError(callbackURL)
	}
	return nil
}

// ValidatePaymentRequest runs presence checks (amount, clientPhoneNumber, country)
// and then the field validators (amount, phone, callback URL), returning the first failure.
func ValidatePaymentRequest(params PaymentParams) error {
	// Presence
	if params.Amount == 0 {
		return NewMissingRequiredFieldError("amount")
	}
	if params.ClientPhoneNumber == "" {
		return NewMissingRequiredFieldError("clientPhoneNumber")
	}
	if params.Country.IsZero() {
		return NewMissingRequiredFieldError("country")
	}

	// Field rules
	if err := ValidateAmount(params.Amount, params.Country); err != nil {
		return err
	}
	if err := ValidatePhoneNumber(params.ClientPhoneNumber, params.Country); err != nil {
		return err
	}
	return ValidateCallbackURL(params.CallbackURL)
}
