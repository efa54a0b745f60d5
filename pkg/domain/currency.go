package domain

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// NormalizeCurrency converts a user-supplied currency code into its ledger form.
//
// Three-character codes pass through unchanged (except "XRP", which is reserved).
// Codes of 4 to 20 characters are hex-encoded and right-padded with zeros to 40 hex
// digits. 40-digit hex codes pass through upper-cased.
func NormalizeCurrency(code string) (string, error) {
	code = strings.TrimSpace(code)
	switch {
	case len(code) == 3:
		if strings.EqualFold(code, "XRP") {
			return "", fmt.Errorf("currency code XRP is reserved")
		}
		return code, nil
	case len(code) == 40 && isHex(code):
		return strings.ToUpper(code), nil
	case len(code) > 3 && len(code) <= 20:
		enc := strings.ToUpper(hex.EncodeToString([]byte(code)))
		return enc + strings.Repeat("0", 40-len(enc)), nil
	default:
		return "", fmt.Errorf("invalid currency code %q: use 3 to 20 characters or 40 hex digits", code)
	}
}

func isHex(s string) bool {
	_, err := hex.DecodeString(s)
	return err == nil
}

// IssuedAmount is a token amount denominated in a currency of a given issuer.
type IssuedAmount struct {
	Currency string `json:"currency" mapstructure:"currency"`
	Issuer   string `json:"issuer" mapstructure:"issuer"`
	Value    string `json:"value" mapstructure:"value"`
}

// ParseValue validates that v is a positive decimal and returns its canonical form.
func ParseValue(v string) (string, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(v))
	if err != nil {
		return "", fmt.Errorf("invalid amount %q: %w", v, err)
	}
	if !d.IsPositive() {
		return "", fmt.Errorf("amount %q must be positive", v)
	}
	return d.String(), nil
}
