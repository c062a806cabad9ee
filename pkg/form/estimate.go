package form

import (
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrIndexOutOfRange reports a row operation against a position that does
	// not exist. Bad positions fail explicitly instead of being ignored.
	ErrIndexOutOfRange = errors.New("form: row index out of range")

	errFormClosed   = errors.New("form: estimate is closed")
	errUnknownField = errors.New("form: unknown row field")
)

// WatchFunc receives a snapshot of the unit rows every time the row sequence
// changes: a row is added or removed, or an editable row field is set.
// Derived-total writes do not trigger it.
type WatchFunc func(rows []UnitRow)

type watcher struct {
	id int
	fn WatchFunc
}

// Estimate is the aggregate form: company/location fields plus an ordered,
// dynamic sequence of unit rows. All methods are safe for use from the
// fire-and-forget prefill path.
type Estimate struct {
	mu sync.Mutex

	companyName string
	countryName string
	city        string
	zipCode     string
	street      string
	rows        []UnitRow

	totalSum float64

	watchers []watcher
	nextID   int
	closed   bool

	recalcSub *Subscription
}

// NewEstimate builds a pristine form seeded with exactly one default unit row
// and attaches the recalculation pipeline so every row-sequence change
// recomputes the derived totals.
func NewEstimate(options ...Option) *Estimate {
	opts := newOptions(options...)

	e := &Estimate{
		rows: []UnitRow{NewUnitRow()},
	}
	e.recalcSub = NewRecalculator(opts.formatter).Attach(e)
	return e
}

// Watch registers fn on the row value-change stream and returns the handle
// that releases it. Watching a closed form returns an inert subscription.
func (e *Estimate) Watch(fn WatchFunc) *Subscription {
	if fn == nil {
		return &Subscription{}
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return &Subscription{}
	}
	e.nextID++
	e.watchers = append(e.watchers, watcher{id: e.nextID, fn: fn})
	return &Subscription{form: e, id: e.nextID}
}

// Close releases every subscription, including the pipeline's own. After
// Close no recalculation occurs even if rows are mutated.
func (e *Estimate) Close() {
	e.mu.Lock()
	e.closed = true
	e.watchers = nil
	e.recalcSub = nil
	e.mu.Unlock()
}

// AddRow appends one default unit row to the end of the sequence.
func (e *Estimate) AddRow() {
	e.mu.Lock()
	e.rows = append(e.rows, NewUnitRow())
	snapshot := e.snapshotLocked()
	e.mu.Unlock()
	e.notify(snapshot)
}

// RemoveRow removes the row at the given zero-based position, shifting
// subsequent rows down. Out-of-range positions fail with ErrIndexOutOfRange.
func (e *Estimate) RemoveRow(index int) error {
	e.mu.Lock()
	if index < 0 || index >= len(e.rows) {
		e.mu.Unlock()
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}
	e.rows = append(e.rows[:index], e.rows[index+1:]...)
	snapshot := e.snapshotLocked()
	e.mu.Unlock()
	e.notify(snapshot)
	return nil
}

// SetRowField commits a user edit to one of the editable inputs on the row at
// index. The derived total cannot be written through here.
func (e *Estimate) SetRowField(index int, field RowField, value string) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return errFormClosed
	}
	if index < 0 || index >= len(e.rows) {
		e.mu.Unlock()
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}
	switch field {
	case RowUnitName:
		e.rows[index].UnitName = value
	case RowQty:
		e.rows[index].Qty = value
	case RowUnitPrice:
		e.rows[index].UnitPrice = value
	default:
		e.mu.Unlock()
		return fmt.Errorf("%w: %q", errUnknownField, field)
	}
	snapshot := e.snapshotLocked()
	e.mu.Unlock()
	e.notify(snapshot)
	return nil
}

// Patch applies the non-nil company/location fields. Row watchers are not
// notified; only the unit sequence is change-tracked.
func (e *Estimate) Patch(p FieldPatch) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if p.CompanyName != nil {
		e.companyName = *p.CompanyName
	}
	if p.CountryName != nil {
		e.countryName = *p.CountryName
	}
	if p.City != nil {
		e.city = *p.City
	}
	if p.ZipCode != nil {
		e.zipCode = *p.ZipCode
	}
	if p.Street != nil {
		e.street = *p.Street
	}
}

// Rows returns a copy of the current unit rows in display order.
func (e *Estimate) Rows() []UnitRow {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

// TotalSum reports the grand total as of the most recent recalculation pass.
// It is not kept in sync with unapplied pending edits; the value-change
// notification drives it.
func (e *Estimate) TotalSum() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.totalSum
}

// Submission serializes the resolved form value. It never blocks on invalid
// state; callers that want validation run Validate first.
func (e *Estimate) Submission() Submission {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Submission{
		CompanyName: e.companyName,
		CountryName: e.countryName,
		City:        e.city,
		ZipCode:     e.zipCode,
		Street:      e.street,
		Units:       e.snapshotLocked(),
	}
}

// setDerivedTotals is the pipeline's side channel: it writes every row's
// formatted total and the grand total without re-emitting a change
// notification. This is the loop-breaking rule; routing these writes through
// SetRowField would re-trigger the pipeline.
func (e *Estimate) setDerivedTotals(totals []string, sum float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := range e.rows {
		if i < len(totals) {
			e.rows[i].UnitTotalPrice = totals[i]
		}
	}
	e.totalSum = sum
}

func (e *Estimate) snapshotLocked() []UnitRow {
	out := make([]UnitRow, len(e.rows))
	copy(out, e.rows)
	return out
}

func (e *Estimate) notify(rows []UnitRow) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	subs := make([]watcher, len(e.watchers))
	copy(subs, e.watchers)
	e.mu.Unlock()

	for _, w := range subs {
		w.fn(rows)
	}
}

func (e *Estimate) unsubscribe(id int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i, w := range e.watchers {
		if w.id == id {
			e.watchers = append(e.watchers[:i], e.watchers[i+1:]...)
			return
		}
	}
}

// Subscription is a handle on the row value-change stream. Unsubscribe is
// idempotent.
type Subscription struct {
	form *Estimate
	id   int
	once sync.Once
}

// Unsubscribe releases the listener. An inert subscription (from a closed
// form or nil watch func) is a no-op.
func (s *Subscription) Unsubscribe() {
	if s == nil || s.form == nil {
		return
	}
	s.once.Do(func() {
		s.form.unsubscribe(s.id)
	})
}
