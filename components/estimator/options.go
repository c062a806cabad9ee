package estimator

import (
	"net/http"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-estimate/pkg/form"
	"github.com/goliatone/go-estimate/pkg/render"
)

// GuardFunc lets callers reject requests before the handler runs. Returning
// an error that implements HTTPError controls the response status.
type GuardFunc func(r *http.Request) error

type Options struct {
	RoutePath           string
	Renderer            render.Renderer
	Theme               *theme.RendererConfig
	HiddenFields        map[string]string
	Guard               GuardFunc
	ValidateSubmissions bool

	// FormOptions are applied to every form the handler builds, e.g. to set
	// the currency.
	FormOptions []form.Option
}

type OptionFn func(*Options)

func DefaultOptions() Options {
	return Options{
		RoutePath:           "/estimate",
		ValidateSubmissions: true,
	}
}

func NewOptions(fns ...OptionFn) Options {
	opts := DefaultOptions()
	for _, fn := range fns {
		if fn == nil {
			continue
		}
		fn(&opts)
	}
	if opts.RoutePath == "" {
		opts.RoutePath = "/estimate"
	}
	if opts.HiddenFields != nil {
		copied := make(map[string]string, len(opts.HiddenFields))
		for key, value := range opts.HiddenFields {
			copied[key] = value
		}
		opts.HiddenFields = copied
	}
	if opts.FormOptions != nil {
		opts.FormOptions = append([]form.Option{}, opts.FormOptions...)
	}
	return opts
}

func WithRoutePath(path string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.RoutePath = path
	}
}

func WithRenderer(renderer render.Renderer) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Renderer = renderer
	}
}

func WithTheme(cfg *theme.RendererConfig) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Theme = cfg
	}
}

func WithHiddenFields(fields map[string]string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		if fields == nil {
			o.HiddenFields = nil
			return
		}
		copied := make(map[string]string, len(fields))
		for key, value := range fields {
			copied[key] = value
		}
		o.HiddenFields = copied
	}
}

func WithGuard(guard GuardFunc) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Guard = guard
	}
}

func WithValidateSubmissions(enabled bool) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.ValidateSubmissions = enabled
	}
}

func WithFormOptions(options ...form.Option) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.FormOptions = append([]form.Option{}, options...)
	}
}
