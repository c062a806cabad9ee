package render

import (
	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-estimate/pkg/form"
)

// RenderOptions describes per-request overrides renderers can use to surface
// validation errors, inject hidden inputs, or apply a resolved theme.
type RenderOptions struct {
	// Errors carries per-field validation failures to display inline.
	Errors form.FieldErrors
	// HiddenFields are emitted alongside the visible inputs.
	HiddenFields map[string]string
	// Theme is the resolved go-theme configuration; renderers read its
	// CSS vars and tokens, never mutate it.
	Theme *theme.RendererConfig
}
