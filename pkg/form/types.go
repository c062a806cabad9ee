package form

// RowField identifies one of the user-editable inputs on a unit row. The
// derived total is not addressable through SetRowField; it is written only by
// the recalculation pipeline.
type RowField string

const (
	RowUnitName  RowField = "unitName"
	RowQty       RowField = "qty"
	RowUnitPrice RowField = "unitPrice"
)

// UnitRow is one line item of the estimate: name, quantity, unit price, and
// the derived total. Qty and UnitPrice hold the raw input strings; the
// pipeline parses them on every pass.
type UnitRow struct {
	UnitName       string `json:"unitName"`
	Qty            string `json:"qty"`
	UnitPrice      string `json:"unitPrice"`
	UnitTotalPrice string `json:"unitTotalPrice"`
}

// NewUnitRow is the row factory: quantity defaults to 1, everything else
// starts empty.
func NewUnitRow() UnitRow {
	return UnitRow{Qty: "1"}
}

// Submission is the serialized form value handed to the host environment on
// submit.
type Submission struct {
	CompanyName string    `json:"companyName"`
	CountryName string    `json:"countryName"`
	City        string    `json:"city"`
	ZipCode     string    `json:"zipCode"`
	Street      string    `json:"street"`
	Units       []UnitRow `json:"units"`
}

// FieldPatch updates a subset of the company/location fields. Nil entries are
// left untouched. Patching these fields does not emit a row-change
// notification; only the unit sequence is change-tracked.
type FieldPatch struct {
	CompanyName *string
	CountryName *string
	City        *string
	ZipCode     *string
	Street      *string
}
