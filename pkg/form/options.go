package form

import (
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
)

// Option configures an Estimate before construction.
type Option func(*options)

type options struct {
	formatter *CurrencyFormatter
}

func newOptions(fns ...Option) options {
	opts := options{}
	for _, fn := range fns {
		if fn == nil {
			continue
		}
		fn(&opts)
	}
	if opts.formatter == nil {
		opts.formatter = NewCurrencyFormatter(currency.USD, language.AmericanEnglish)
	}
	return opts
}

// WithCurrency fixes the denomination and locale used to format derived
// totals. The form runs with a single configured denomination.
func WithCurrency(unit currency.Unit, tag language.Tag) Option {
	return func(o *options) {
		o.formatter = NewCurrencyFormatter(unit, tag)
	}
}

// WithFormatter injects a pre-built formatter, mainly for callers that share
// one across forms.
func WithFormatter(formatter *CurrencyFormatter) Option {
	return func(o *options) {
		if formatter != nil {
			o.formatter = formatter
		}
	}
}
