package form

import (
	"fmt"
	"regexp"
	"strconv"
)

const companyNameMaxLength = 25

// numberPattern mirrors the input-level constraint on qty and unitPrice. It
// deliberately admits comma sequences the arithmetic later rejects.
var numberPattern = regexp.MustCompile(`^[0-9.,]+$`)

const (
	ValidationRuleRequired  = "required"
	ValidationRuleMaxLength = "maxLength"
	ValidationRulePattern   = "pattern"
)

// FieldErrors maps dotted field paths ("companyName", "units.0.qty") to the
// rule kinds that failed, in evaluation order.
type FieldErrors map[string][]string

// Valid reports whether no rule failed.
func (f FieldErrors) Valid() bool {
	return len(f) == 0
}

// Validate evaluates the form's validation rules and returns the per-field
// failures. An empty result means the form is submittable; the core form
// itself never blocks Submission on invalid state.
func (e *Estimate) Validate() FieldErrors {
	e.mu.Lock()
	companyName := e.companyName
	rows := e.snapshotLocked()
	e.mu.Unlock()

	out := FieldErrors{}

	if companyName == "" {
		out["companyName"] = append(out["companyName"], ValidationRuleRequired)
	} else if len(companyName) > companyNameMaxLength {
		out["companyName"] = append(out["companyName"], ValidationRuleMaxLength)
	}

	for i, row := range rows {
		prefix := "units." + strconv.Itoa(i) + "."
		if row.UnitName == "" {
			path := prefix + "unitName"
			out[path] = append(out[path], ValidationRuleRequired)
		}
		validateNumberInput(out, prefix+"qty", row.Qty)
		validateNumberInput(out, prefix+"unitPrice", row.UnitPrice)
	}

	if len(out) == 0 {
		return nil
	}
	return out
}

func validateNumberInput(out FieldErrors, path, value string) {
	if value == "" {
		out[path] = append(out[path], ValidationRuleRequired)
		return
	}
	if !numberPattern.MatchString(value) {
		out[path] = append(out[path], ValidationRulePattern)
	}
}

// Messages flattens the failures into human-readable strings, one per field
// in unspecified order, for surfaces that only show text.
func (f FieldErrors) Messages() []string {
	if len(f) == 0 {
		return nil
	}
	out := make([]string, 0, len(f))
	for path, kinds := range f {
		for _, kind := range kinds {
			out = append(out, fmt.Sprintf("%s: %s", path, kind))
		}
	}
	return out
}
