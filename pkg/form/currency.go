package form

import (
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// CurrencyFormatter renders amounts as localized narrow-symbol currency
// strings with the denomination's standard precision (two decimals for USD).
type CurrencyFormatter struct {
	unit    currency.Unit
	printer *message.Printer
}

// NewCurrencyFormatter builds a formatter for the given denomination and
// locale.
func NewCurrencyFormatter(unit currency.Unit, tag language.Tag) *CurrencyFormatter {
	return &CurrencyFormatter{
		unit:    unit,
		printer: message.NewPrinter(tag),
	}
}

// Format renders amount as a display string, e.g. "$ 7.00".
func (c *CurrencyFormatter) Format(amount float64) string {
	return c.printer.Sprintf("%v", currency.NarrowSymbol(c.unit.Amount(amount)))
}
