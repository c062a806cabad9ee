package vanilla

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"

	"github.com/goliatone/go-estimate/pkg/form"
	"github.com/goliatone/go-estimate/pkg/render"
	rendertemplate "github.com/goliatone/go-estimate/pkg/render/template"
	"github.com/goliatone/go-estimate/pkg/render/template/pongo"
)

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	formAction       string
	currencyCode     string
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithFormAction sets the submit target emitted on the <form> element.
func WithFormAction(action string) Option {
	return func(cfg *config) {
		if action != "" {
			cfg.formAction = action
		}
	}
}

// WithCurrencyCode sets the ISO code the grand-total filter formats with.
func WithCurrencyCode(code string) Option {
	return func(cfg *config) {
		if code != "" {
			cfg.currencyCode = code
		}
	}
}

// Renderer produces the estimate form page as HTML.
type Renderer struct {
	templates    rendertemplate.TemplateRenderer
	formAction   string
	currencyCode string
}

var (
	sanitizeOnce   sync.Once
	sanitizePolicy *bluemonday.Policy

	filterOnce sync.Once
	filterErr  error
)

// New constructs the vanilla renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{
		templateFS:   TemplatesFS(),
		formAction:   "/estimate",
		currencyCode: "USD",
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	filterOnce.Do(func() {
		filterErr = pongo.RegisterFilter("currency", currencyFilter)
	})
	if filterErr != nil {
		return nil, fmt.Errorf("vanilla renderer: register currency filter: %w", filterErr)
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := pongo.New(
			pongo.WithFS(cfg.templateFS),
			pongo.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	return &Renderer{
		templates:    renderer,
		formAction:   cfg.formAction,
		currencyCode: cfg.currencyCode,
	}, nil
}

func (r *Renderer) Name() string {
	return "vanilla"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render produces the form page for the given view. User-entered strings are
// sanitized before they reach the template.
func (r *Renderer) Render(_ context.Context, view render.View, opts render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("vanilla renderer: template renderer is nil")
	}

	sub := view.Submission
	rows := make([]form.UnitRow, len(sub.Units))
	for i, row := range sub.Units {
		rows[i] = form.UnitRow{
			UnitName:       sanitize(row.UnitName),
			Qty:            sanitize(row.Qty),
			UnitPrice:      sanitize(row.UnitPrice),
			UnitTotalPrice: sanitize(row.UnitTotalPrice),
		}
	}

	messages := opts.Errors.Messages()
	sort.Strings(messages)

	data := map[string]any{
		"action":       r.formAction,
		"currencyCode": r.currencyCode,
		"companyName":  sanitize(sub.CompanyName),
		"countryName":  sanitize(sub.CountryName),
		"city":         sanitize(sub.City),
		"zipCode":      sanitize(sub.ZipCode),
		"street":       sanitize(sub.Street),
		"rows":         rows,
		"totalSum":     view.TotalSum,
		"errors":       messages,
		"hidden":       render.SortedHiddenFields(opts.HiddenFields),
		"themeStyle":   cssVarsStyle(opts.Theme),
	}

	result, err := r.templates.RenderTemplate("templates/estimate.tmpl", data)
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render template: %w", err)
	}
	return []byte(result), nil
}

func sanitize(raw string) string {
	sanitizeOnce.Do(func() {
		sanitizePolicy = bluemonday.StrictPolicy()
	})
	return sanitizePolicy.Sanitize(raw)
}

// currencyFilter formats a numeric amount with the narrow symbol of the ISO
// code given as the filter parameter, defaulting to USD.
func currencyFilter(input any, param any) (any, error) {
	amount, ok := toFloat(input)
	if !ok {
		return "", nil
	}
	code := "USD"
	if s, ok := param.(string); ok && s != "" {
		code = s
	}
	unit, err := currency.ParseISO(code)
	if err != nil {
		return nil, fmt.Errorf("unknown currency %q: %w", code, err)
	}
	return form.NewCurrencyFormatter(unit, language.AmericanEnglish).Format(amount), nil
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}
