package estimator

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/goliatone/go-estimate/pkg/form"
	"github.com/goliatone/go-estimate/pkg/render"
	"github.com/goliatone/go-estimate/pkg/renderers/vanilla"
)

type HTTPError interface {
	error
	StatusCode() int
}

type StatusError struct {
	Code int
	Err  error
}

func (e StatusError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.Code)
}

func (e StatusError) Unwrap() error { return e.Err }

func (e StatusError) StatusCode() int {
	if e.Code <= 0 {
		return http.StatusInternalServerError
	}
	return e.Code
}

type submitResponse struct {
	Data     form.Submission `json:"data"`
	TotalSum float64         `json:"totalSum"`
}

type errorResponse struct {
	Errors form.FieldErrors `json:"errors,omitempty"`
	Schema []string         `json:"schema,omitempty"`
}

// Handler builds a net/http handler with default options plus any overrides.
// It is an alias of NewHandler to match the recommended component API surface.
func Handler(fns ...OptionFn) http.Handler {
	return NewHandler(fns...)
}

func NewHandler(fns ...OptionFn) http.Handler {
	opts := NewOptions(fns...)
	return HandlerWithOptions(opts)
}

// HandlerWithOptions builds a net/http handler from a pre-constructed Options
// value. GET serves the rendered form page, POST accepts a JSON submission and
// echoes the recalculated state.
func HandlerWithOptions(opts Options) http.Handler {
	opts = NewOptions(func(o *Options) { *o = opts })

	renderer := opts.Renderer
	var rendererErr error
	if renderer == nil {
		renderer, rendererErr = vanilla.New(vanilla.WithFormAction(opts.RoutePath))
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r == nil {
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}

		if opts.Guard != nil {
			if err := opts.Guard(r); err != nil {
				writeGuardError(w, err)
				return
			}
		}

		switch r.Method {
		case http.MethodGet, http.MethodHead:
			serveForm(w, r, opts, renderer, rendererErr)
		case http.MethodPost:
			serveSubmission(w, r, opts)
		default:
			w.Header().Set("Allow", http.MethodGet+", "+http.MethodHead+", "+http.MethodPost)
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		}
	})
}

func serveForm(w http.ResponseWriter, r *http.Request, opts Options, renderer render.Renderer, rendererErr error) {
	if rendererErr != nil || renderer == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	est := form.NewEstimate(opts.FormOptions...)
	defer est.Close()

	page, err := renderer.Render(r.Context(), render.Snapshot(est), render.RenderOptions{
		HiddenFields: opts.HiddenFields,
		Theme:        opts.Theme,
	})
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", renderer.ContentType())
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	_, _ = w.Write(page)
}

func serveSubmission(w http.ResponseWriter, r *http.Request, opts Options) {
	var payload form.Submission
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Schema: []string{"invalid JSON payload"}})
		return
	}

	est := form.NewEstimate(opts.FormOptions...)
	defer est.Close()

	if err := applySubmission(est, payload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Schema: []string{err.Error()}})
		return
	}

	fieldErrs := est.Validate()
	var schemaMsgs []string
	if opts.ValidateSubmissions {
		if err := ValidateSubmissionSchema(r.Context(), payload); err != nil {
			schemaMsgs = append(schemaMsgs, err.Error())
		}
	}

	if !fieldErrs.Valid() || len(schemaMsgs) > 0 {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Errors: fieldErrs,
			Schema: schemaMsgs,
		})
		return
	}

	writeJSON(w, http.StatusOK, submitResponse{
		Data:     est.Submission(),
		TotalSum: est.TotalSum(),
	})
}

// applySubmission replays the payload onto a fresh form so derived totals and
// the grand total come from the recalculation pipeline, never the client.
func applySubmission(est *form.Estimate, payload form.Submission) error {
	est.Patch(form.FieldPatch{
		CompanyName: &payload.CompanyName,
		CountryName: &payload.CountryName,
		City:        &payload.City,
		ZipCode:     &payload.ZipCode,
		Street:      &payload.Street,
	})

	for i, unit := range payload.Units {
		if i > 0 {
			est.AddRow()
		}
		if err := est.SetRowField(i, form.RowUnitName, unit.UnitName); err != nil {
			return err
		}
		if err := est.SetRowField(i, form.RowQty, unit.Qty); err != nil {
			return err
		}
		if err := est.SetRowField(i, form.RowUnitPrice, unit.UnitPrice); err != nil {
			return err
		}
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(true)
	_ = enc.Encode(body)
}

func writeGuardError(w http.ResponseWriter, err error) {
	if w == nil {
		return
	}
	if err == nil {
		http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		return
	}
	code := http.StatusForbidden
	var httpErr HTTPError
	if errors.As(err, &httpErr) && httpErr != nil {
		code = httpErr.StatusCode()
		if code <= 0 {
			code = http.StatusForbidden
		}
	}
	http.Error(w, http.StatusText(code), code)
}
