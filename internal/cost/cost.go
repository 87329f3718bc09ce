// Package cost maps a child's age to the flat daily price tier.
package cost

import (
	"errors"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// ErrInvalidAge is returned for ages outside [0, 12]. Its text is shown to users as is.
var ErrInvalidAge = errors.New("Please enter a valid age between 0 and 12 years.")

// Age bounds accepted by Daily.
const (
	MinAge = 0
	MaxAge = 12
)

// Daily returns the daily cost in CHF for a child of the given age.
func Daily(age int) (int, error) {
	switch {
	case age < MinAge || age > MaxAge:
		return 0, ErrInvalidAge
	case age <= 3:
		return 80, nil
	case age <= 8:
		return 120, nil
	default:
		return 140, nil
	}
}

var swissPrinter = message.NewPrinter(language.MustParse("de-CH"))

// Format renders amount as Swiss francs using de-CH number formatting.
func Format(amount int) string {
	return swissPrinter.Sprint(currency.Symbol(currency.CHF.Amount(float64(amount))))
}

// Text is the sentence the cost widget displays.
func Text(amount int) string {
	return "Daily Cost: " + Format(amount)
}
