package render

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestMergeHiddenFields(t *testing.T) {
	base := map[string]string{"form_id": "estimate-1"}

	got := MergeHiddenFields(base,
		CSRFToken("csrf_token", "tok-123"),
		Hidden("  form_id ", "estimate-2"),
		Hidden("", "dropped"),
	)

	want := map[string]string{
		"form_id":    "estimate-2",
		"csrf_token": "tok-123",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("MergeHiddenFields mismatch (-want +got):\n%s", diff)
	}

	if MergeHiddenFields(nil) != nil {
		t.Error("expected nil for no inputs")
	}
}

func TestSortedHiddenFields(t *testing.T) {
	got := SortedHiddenFields(map[string]string{
		"form_id":    "estimate-1",
		"csrf_token": "tok-123",
		" ":          "dropped",
	})

	want := []HiddenField{
		{Name: "csrf_token", Value: "tok-123"},
		{Name: "form_id", Value: "estimate-1"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("SortedHiddenFields mismatch (-want +got):\n%s", diff)
	}

	if SortedHiddenFields(nil) != nil {
		t.Error("expected nil for empty input")
	}
}
