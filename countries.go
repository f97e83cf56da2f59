// Package shwary provides the core types for the Shwary mobile-money payment API:
// the supported country registry, pre-flight validation, the typed error taxonomy,
// payment requests, transactions and webhook parsing.
//
// Network access lives in the http and client subpackages.
package shwary

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupportedCountry indicates a country code outside the registry.
var ErrUnsupportedCountry = errors.New("shwary: unsupported country")

// CountryCode is the identifier used in payment endpoint paths (e.g., "DRC", "KE").
type CountryCode string

const (
	CountryCodeDRC    CountryCode = "DRC"
	CountryCodeKenya  CountryCode = "KE"
	CountryCodeUganda CountryCode = "UG"
)

// CountryMetadata describes a country the payment API accepts.
type CountryMetadata struct {
	// Code is the path identifier for the country.
	Code CountryCode

	// Name is the human-readable country name.
	Name string

	// Currency is the ISO 4217 currency code payments are made in.
	Currency string

	// DialCode is the E.164 prefix every client phone number must start with.
	DialCode string

	// MinimumAmount is the smallest accepted payment amount in Currency.
	MinimumAmount float64
}

// IsZero reports whether m is the zero value.
func (m CountryMetadata) IsZero() bool {
	return m == CountryMetadata{}
}

// String returns the country code.
func (m CountryMetadata) String() string {
	return string(m.Code)
}

var (
	// DRC is the Democratic Republic of the Congo, paid in Congolese francs.
	DRC = CountryMetadata{
		Code:          CountryCodeDRC,
		Name:          "Democratic Republic of the Congo",
		Currency:      "CDF",
		DialCode:      "+243",
		MinimumAmount: 2900,
	}

	// Kenya is paid in Kenyan shillings.
	Kenya = CountryMetadata{
		Code:          CountryCodeKenya,
		Name:          "Kenya",
		Currency:      "KES",
		DialCode:      "+254",
		MinimumAmount: 10,
	}

	// Uganda is paid in Ugandan shillings.
	Uganda = CountryMetadata{
		Code:          CountryCodeUganda,
		Name:          "Uganda",
		Currency:      "UGX",
		DialCode:      "+256",
		MinimumAmount: 1000,
	}
)

// Countries returns every supported country in registry order.
// The returned slice is a copy and may be modified by the caller.
func Countries() []CountryMetadata {
	return []CountryMetadata{DRC, Kenya, Uganda}
}

// LookupCountry returns the registry entry for code.
// Matching ignores case and surrounding whitespace.
func LookupCountry(code string) (CountryMetadata, error) {
	normalized := CountryCode(strings.ToUpper(strings.TrimSpace(code)))
	if normalized == "" {
		return CountryMetadata{}, fmt.Errorf("%w: country code cannot be empty", ErrUnsupportedCountry)
	}

	for _, country := range Countries() {
		if country.Code == normalized {
			return country, nil
		}
	}

	return CountryMetadata{}, fmt.Errorf("%w: %q", ErrUnsupportedCountry, code)
}
