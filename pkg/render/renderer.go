package render

import (
	"context"

	"github.com/goliatone/go-estimate/pkg/form"
)

// View is the renderer-facing snapshot of an estimate form.
type View struct {
	Submission form.Submission
	TotalSum   float64
}

// Snapshot captures the current form state for rendering.
func Snapshot(e *form.Estimate) View {
	return View{
		Submission: e.Submission(),
		TotalSum:   e.TotalSum(),
	}
}

// Renderer converts a form view into a byte representation (HTML, JSON, etc.).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, view View, options RenderOptions) ([]byte, error)
}
