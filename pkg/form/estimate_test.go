package form

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNewEstimate_SeedsOneDefaultRow(t *testing.T) {
	e := NewEstimate()
	defer e.Close()

	rows := e.Rows()
	if len(rows) != 1 {
		t.Fatalf("expected 1 seeded row, got %d", len(rows))
	}
	want := UnitRow{Qty: "1"}
	if diff := cmp.Diff(want, rows[0]); diff != "" {
		t.Fatalf("seed row mismatch (-want +got):\n%s", diff)
	}
	if e.TotalSum() != 0 {
		t.Fatalf("pristine total should be 0, got %v", e.TotalSum())
	}
}

func TestSetRowField_RecomputesDerivedTotal(t *testing.T) {
	e := NewEstimate()
	defer e.Close()

	mustSetRow(t, e, 0, RowQty, "2")
	mustSetRow(t, e, 0, RowUnitPrice, "3.50")

	rows := e.Rows()
	if rows[0].UnitTotalPrice != "$ 7.00" {
		t.Fatalf("unexpected derived total: %q", rows[0].UnitTotalPrice)
	}
	assertTotal(t, e, 7.00)
}

func TestAddRow_DoesNotAlterExistingRows(t *testing.T) {
	e := NewEstimate()
	defer e.Close()

	mustSetRow(t, e, 0, RowQty, "2")
	mustSetRow(t, e, 0, RowUnitPrice, "3.50")
	before := e.Rows()[0]

	e.AddRow()

	rows := e.Rows()
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if diff := cmp.Diff(before, rows[0]); diff != "" {
		t.Fatalf("existing row changed by AddRow (-want +got):\n%s", diff)
	}
	if rows[1].UnitTotalPrice != "" {
		t.Fatalf("fresh row should have empty derived total, got %q", rows[1].UnitTotalPrice)
	}
	assertTotal(t, e, 7.00)
}

func TestRemoveRow_ShiftsAndRecomputesByPosition(t *testing.T) {
	e := NewEstimate()
	defer e.Close()

	// Three rows: 1*1.00, 2*2.00, 3*3.00.
	e.AddRow()
	e.AddRow()
	mustSetRow(t, e, 0, RowUnitPrice, "1.00")
	mustSetRow(t, e, 1, RowQty, "2")
	mustSetRow(t, e, 1, RowUnitPrice, "2.00")
	mustSetRow(t, e, 2, RowQty, "3")
	mustSetRow(t, e, 2, RowUnitPrice, "3.00")
	assertTotal(t, e, 1+4+9)

	if err := e.RemoveRow(1); err != nil {
		t.Fatalf("remove row: %v", err)
	}

	rows := e.Rows()
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows after removal, got %d", len(rows))
	}
	if rows[1].Qty != "3" || rows[1].UnitPrice != "3.00" {
		t.Fatalf("row did not shift down: %+v", rows[1])
	}
	if rows[1].UnitTotalPrice != "$ 9.00" {
		t.Fatalf("shifted row total not recomputed: %q", rows[1].UnitTotalPrice)
	}
	assertTotal(t, e, 1+9)
}

func TestRemoveRow_OutOfRange(t *testing.T) {
	e := NewEstimate()
	defer e.Close()

	for _, index := range []int{-1, 1, 42} {
		if err := e.RemoveRow(index); !errors.Is(err, ErrIndexOutOfRange) {
			t.Fatalf("index %d: expected ErrIndexOutOfRange, got %v", index, err)
		}
	}
	if len(e.Rows()) != 1 {
		t.Fatalf("failed removal must not mutate rows")
	}
}

func TestWatch_ExactlyOneNotificationPerEdit(t *testing.T) {
	e := NewEstimate()
	defer e.Close()

	var calls int
	sub := e.Watch(func([]UnitRow) { calls++ })
	defer sub.Unsubscribe()

	mustSetRow(t, e, 0, RowUnitPrice, "3.50")
	if calls != 1 {
		t.Fatalf("expected exactly 1 notification per edit, got %d", calls)
	}

	e.AddRow()
	if calls != 2 {
		t.Fatalf("expected 2 notifications after AddRow, got %d", calls)
	}
}

func TestUnsubscribe_StopsNotifications(t *testing.T) {
	e := NewEstimate()
	defer e.Close()

	var calls int
	sub := e.Watch(func([]UnitRow) { calls++ })
	sub.Unsubscribe()
	sub.Unsubscribe() // idempotent

	e.AddRow()
	if calls != 0 {
		t.Fatalf("unsubscribed watcher still notified %d times", calls)
	}
}

func TestClose_ReleasesPipeline(t *testing.T) {
	e := NewEstimate()
	mustSetRow(t, e, 0, RowUnitPrice, "2.00")
	assertTotal(t, e, 2.00)

	e.Close()

	if err := e.SetRowField(0, RowUnitPrice, "5.00"); err == nil {
		t.Fatalf("expected error editing a closed form")
	}
	assertTotal(t, e, 2.00)
}

func TestPatch_DoesNotNotifyRowWatchers(t *testing.T) {
	e := NewEstimate()
	defer e.Close()

	var calls int
	sub := e.Watch(func([]UnitRow) { calls++ })
	defer sub.Unsubscribe()

	country := "Italy"
	e.Patch(FieldPatch{CountryName: &country})
	if calls != 0 {
		t.Fatalf("field patch must not emit a row-change notification")
	}
	if got := e.Submission().CountryName; got != "Italy" {
		t.Fatalf("patch not applied, got %q", got)
	}
}

func TestSubmission_SerializesResolvedValues(t *testing.T) {
	e := NewEstimate()
	defer e.Close()

	company := "Acme"
	street := "Via Roma 1"
	e.Patch(FieldPatch{CompanyName: &company, Street: &street})
	mustSetRow(t, e, 0, RowUnitName, "integration")
	mustSetRow(t, e, 0, RowQty, "2")
	mustSetRow(t, e, 0, RowUnitPrice, "3.50")

	got := e.Submission()
	want := Submission{
		CompanyName: "Acme",
		Street:      "Via Roma 1",
		Units: []UnitRow{{
			UnitName:       "integration",
			Qty:            "2",
			UnitPrice:      "3.50",
			UnitTotalPrice: "$ 7.00",
		}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("submission mismatch (-want +got):\n%s", diff)
	}
}

func mustSetRow(t *testing.T, e *Estimate, index int, field RowField, value string) {
	t.Helper()
	if err := e.SetRowField(index, field, value); err != nil {
		t.Fatalf("set row %d %s: %v", index, field, err)
	}
}

func assertTotal(t *testing.T, e *Estimate, want float64) {
	t.Helper()
	if got := e.TotalSum(); math.Abs(got-want) > 1e-9 {
		t.Fatalf("total sum: want %v, got %v", want, got)
	}
}
