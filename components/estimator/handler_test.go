package estimator

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goliatone/go-estimate/pkg/form"
)

func TestNewHandler_GetRendersFormPage(t *testing.T) {
	h := NewHandler()

	req := httptest.NewRequest(http.MethodGet, "/estimate", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	res := rec.Result()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", res.StatusCode)
	}
	if ct := strings.TrimSpace(res.Header.Get("Content-Type")); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("expected HTML content-type, got %q", ct)
	}

	body := rec.Body.String()
	if !strings.Contains(body, `name="companyName"`) {
		t.Fatal("page missing company name input")
	}
	if !strings.Contains(body, `name="units.0.unitName"`) {
		t.Fatal("page missing seeded unit row")
	}
}

func TestNewHandler_HeadOmitsBody(t *testing.T) {
	h := NewHandler()

	req := httptest.NewRequest(http.MethodHead, "/estimate", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Fatalf("expected empty body, got %d bytes", rec.Body.Len())
	}
}

func TestNewHandler_GetEmitsHiddenFields(t *testing.T) {
	h := NewHandler(WithHiddenFields(map[string]string{"csrf_token": "tok-1"}))

	req := httptest.NewRequest(http.MethodGet, "/estimate", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if !strings.Contains(rec.Body.String(), `name="csrf_token" value="tok-1"`) {
		t.Fatal("hidden field not rendered")
	}
}

func TestNewHandler_PostRecalculatesTotals(t *testing.T) {
	h := NewHandler()

	payload := `{
		"companyName": "Acme",
		"countryName": "USA",
		"city": "Springfield",
		"zipCode": "12345",
		"street": "Main St",
		"units": [
			{"unitName": "bolts", "qty": "2", "unitPrice": "3.50", "unitTotalPrice": "$ 999.00"},
			{"unitName": "nuts", "qty": "1", "unitPrice": "2"}
		]
	}`

	req := httptest.NewRequest(http.MethodPost, "/estimate", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	res := rec.Result()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", res.StatusCode, rec.Body.String())
	}

	var out struct {
		Data     form.Submission `json:"data"`
		TotalSum float64         `json:"totalSum"`
	}
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if out.TotalSum != 9 {
		t.Errorf("totalSum = %v, want 9", out.TotalSum)
	}
	// Client-sent derived totals are ignored and recomputed.
	if got := out.Data.Units[0].UnitTotalPrice; got != "$ 7.00" {
		t.Errorf("Units[0].UnitTotalPrice = %q, want %q", got, "$ 7.00")
	}
	if got := out.Data.Units[1].UnitTotalPrice; got != "$ 2.00" {
		t.Errorf("Units[1].UnitTotalPrice = %q, want %q", got, "$ 2.00")
	}
}

func TestNewHandler_PostInvalidSubmissionReturns422(t *testing.T) {
	h := NewHandler()

	payload := `{
		"companyName": "",
		"units": [{"unitName": "bolts", "qty": "12x", "unitPrice": "1"}]
	}`

	req := httptest.NewRequest(http.MethodPost, "/estimate", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected status 422, got %d: %s", rec.Code, rec.Body.String())
	}

	var out struct {
		Errors form.FieldErrors `json:"errors"`
		Schema []string         `json:"schema"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if got := out.Errors["companyName"]; len(got) == 0 || got[0] != form.ValidationRuleRequired {
		t.Errorf("companyName errors = %v, want [required]", got)
	}
	if got := out.Errors["units.0.qty"]; len(got) == 0 || got[0] != form.ValidationRulePattern {
		t.Errorf("units.0.qty errors = %v, want [pattern]", got)
	}
	if len(out.Schema) == 0 {
		t.Error("expected schema violations for invalid payload")
	}
}

func TestNewHandler_PostSchemaValidationDisabled(t *testing.T) {
	h := NewHandler(WithValidateSubmissions(false))

	payload := `{
		"companyName": "",
		"units": [{"unitName": "bolts", "qty": "1", "unitPrice": "1"}]
	}`

	req := httptest.NewRequest(http.MethodPost, "/estimate", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected status 422, got %d", rec.Code)
	}

	var out struct {
		Schema []string `json:"schema"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(out.Schema) != 0 {
		t.Errorf("expected no schema messages, got %v", out.Schema)
	}
}

func TestNewHandler_PostMalformedJSONReturns400(t *testing.T) {
	h := NewHandler()

	req := httptest.NewRequest(http.MethodPost, "/estimate", strings.NewReader(`{"companyName":`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestNewHandler_MethodNotAllowed(t *testing.T) {
	h := NewHandler()

	req := httptest.NewRequest(http.MethodDelete, "/estimate", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected status 405, got %d", rec.Code)
	}
	if allow := rec.Header().Get("Allow"); !strings.Contains(allow, http.MethodPost) {
		t.Fatalf("Allow header missing POST: %q", allow)
	}
}

func TestNewHandler_GuardRejectsRequest(t *testing.T) {
	h := NewHandler(WithGuard(func(r *http.Request) error {
		return StatusError{Code: http.StatusUnauthorized}
	}))

	req := httptest.NewRequest(http.MethodGet, "/estimate", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
}
