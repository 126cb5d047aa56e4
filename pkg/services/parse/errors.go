package parse

import "fmt"

// Field names reported by parse failures, in source column order.
const (
	FieldCategory          = "category"
	FieldNetRevenue        = "netRevenue"
	FieldAverageOrderValue = "averageOrderValue"
	FieldCount             = "count"
)

// EmptyFieldError reports a required field that was blank after trimming.
type EmptyFieldError struct {
	Field string
}

func (e *EmptyFieldError) Error() string {
	return fmt.Sprintf("field %q is blank", e.Field)
}

// NumericParseError reports a numeric cell that could not be parsed. The
// raw text is preserved for diagnostics.
type NumericParseError struct {
	Field   string
	RawText string
	Reason  string
}

func (e *NumericParseError) Error() string {
	return fmt.Sprintf("field %q: cannot parse %q: %s", e.Field, e.RawText, e.Reason)
}

// RowShapeError reports a raw row that did not have the expected number of
// cells.
type RowShapeError struct {
	Want int
	Got  int
}

func (e *RowShapeError) Error() string {
	return fmt.Sprintf("expected %d cells per row, got %d", e.Want, e.Got)
}
