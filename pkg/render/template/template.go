package template

// TemplateRenderer abstracts the template engine so renderers can swap
// implementations or inject fakes in tests.
type TemplateRenderer interface {
	// RenderTemplate renders a named template from the configured source.
	RenderTemplate(name string, data any) (string, error)
	// RenderString renders inline template content.
	RenderString(content string, data any) (string, error)
}
