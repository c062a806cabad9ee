package estimate

import (
	"context"

	"github.com/goliatone/go-estimate/pkg/form"
	"github.com/goliatone/go-estimate/pkg/geoip"
	"github.com/goliatone/go-estimate/pkg/render"
)

// Estimate aliases the core form type exported via the root package for
// convenience.
type Estimate = form.Estimate

// Submission is the plain snapshot of every form value.
type Submission = form.Submission

// UnitRow describes one line item: name, quantity, price, and derived total.
type UnitRow = form.UnitRow

// FieldPatch applies partial top-level field updates.
type FieldPatch = form.FieldPatch

// FieldErrors maps dotted field paths to failed validation rules.
type FieldErrors = form.FieldErrors

// RenderOptions describes per-request render overrides such as validation
// errors and hidden fields.
type RenderOptions = render.RenderOptions

// NewEstimate exposes the form constructor from the top-level module.
func NewEstimate(options ...form.Option) *form.Estimate {
	return form.NewEstimate(options...)
}

// PrefillLocation runs a geolocation lookup and applies the result to the
// form. It is the simplest entry point for callers that just want the
// location fields filled in.
func PrefillLocation(ctx context.Context, est *form.Estimate, options ...geoip.OptionFn) error {
	client := geoip.New(options...)
	return client.Prefill(ctx, est)
}
