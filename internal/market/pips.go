// Package market holds symbol-level price conventions: pip sizes, pip values
// and display precision. Every other calculation layer goes through these
// helpers so precision rules live in exactly one place.
package market

import (
	"strconv"
	"strings"
)

// Standard-lot pip value in USD. A real system would convert through the quote
// currency's rate when it differs from the account currency; this platform
// keeps the flat $10/pip/lot forex convention as a documented simplification.
const standardLotPipValue = 10.0

// Instruments quoted to two decimals by platform convention even though they
// are not JPY pairs: metals, crypto and index CFDs.
var twoDecimalClass = map[string]struct{}{
	"XAUUSD": {},
	"XAGUSD": {},
	"BTCUSD": {},
	"ETHUSD": {},
	"US30":   {},
	"NAS100": {},
	"SPX500": {},
	"GER40":  {},
	"UK100":  {},
}

// IsJPYQuoted reports whether the symbol's quote currency is JPY.
func IsJPYQuoted(symbol string) bool {
	return strings.HasSuffix(strings.ToUpper(strings.TrimSpace(symbol)), "JPY")
}

// PipSize returns 0.01 for JPY-quoted symbols and 0.0001 for everything else.
// Unknown symbols follow the non-JPY convention; there is no error case.
func PipSize(symbol string) float64 {
	if IsJPYQuoted(symbol) {
		return 0.01
	}
	return 0.0001
}

// PipValue returns the account-currency value of one pip move for one standard
// lot. Always the standard-lot convention regardless of account currency; see
// the note on standardLotPipValue.
func PipValue(symbol, accountCurrency string) float64 {
	_ = symbol
	_ = accountCurrency
	return standardLotPipValue
}

// Decimals returns the display precision for a symbol: 2 for JPY pairs and the
// two-decimal instrument class, 4 otherwise.
func Decimals(symbol string) int {
	if IsJPYQuoted(symbol) {
		return 2
	}
	if _, ok := twoDecimalClass[strings.ToUpper(strings.TrimSpace(symbol))]; ok {
		return 2
	}
	return 4
}

// FormatPrice renders a price at the symbol's display precision.
func FormatPrice(price float64, symbol string) string {
	return strconv.FormatFloat(price, 'f', Decimals(symbol), 64)
}
