package domain

import "fmt"

// RejectReason classifies why a single row failed normalization.
type RejectReason string

const (
	ReasonInsufficientColumns RejectReason = "insufficient-columns"
	ReasonBadDate             RejectReason = "bad-date"
	ReasonBadTime             RejectReason = "bad-time"
	ReasonBadCoordinate       RejectReason = "bad-coordinate"
	ReasonBadDepth            RejectReason = "bad-depth"
	ReasonMissingMagnitude    RejectReason = "missing-magnitude"
)

// RowError reports a rejected row. It never escalates to a run-level failure;
// the pipeline counts and logs it, then moves on. Row retains the offending
// input for diagnosing format drift at the source.
type RowError struct {
	Reason RejectReason
	Row    RawRow
	Detail string
}

func (e *RowError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("row %d rejected: %s", e.Row.Ordinal, e.Reason)
	}
	return fmt.Sprintf("row %d rejected: %s: %s", e.Row.Ordinal, e.Reason, e.Detail)
}

func rejectf(row RawRow, reason RejectReason, format string, args ...any) *RowError {
	return &RowError{Reason: reason, Row: row, Detail: fmt.Sprintf(format, args...)}
}
