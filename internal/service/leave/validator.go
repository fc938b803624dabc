package leave

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-agent-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-agent-go/internal/pkg/validator"
)

// ValidationResult is what a draft validation pass produces: the derived day
// count and a human-readable error, empty when the draft is affordable or
// still incomplete.
type ValidationResult struct {
	DaysRequested int
	ErrorMessage  string
}

// OK reports whether the draft passed validation.
func (r ValidationResult) OK() bool {
	return r.ErrorMessage == ""
}

// RequestedDays counts calendar days between two dates, both bounds
// inclusive, order independent. Time-of-day is normalized away; weekends and
// holidays count like any other day.
func RequestedDays(start, end time.Time) int {
	a := truncateToDay(start)
	b := truncateToDay(end)
	if a.After(b) {
		a, b = b, a
	}
	return int(b.Sub(a).Hours()/24) + 1
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Validate checks a draft against the cached balances. Validation is only
// meaningful once leave type, start, and end are all present; until then no
// error is reported. This is a UX guard: the server re-validates and is the
// source of truth.
func Validate(draft leave.Draft, balances leave.Balances) ValidationResult {
	if !draft.Complete() {
		return ValidationResult{}
	}

	start, okStart := validator.IsValidDate(draft.StartDate)
	end, okEnd := validator.IsValidDate(draft.EndDate)
	if !okStart || !okEnd {
		return ValidationResult{ErrorMessage: "Dates must be in YYYY-MM-DD format"}
	}

	days := RequestedDays(start, end)
	available := balances.Days(draft.LeaveType)
	if days > available {
		return ValidationResult{
			DaysRequested: days,
			ErrorMessage:  fmt.Sprintf("INSUFFICIENT BALANCE. AVAILABLE: %d DAYS", available),
		}
	}

	return ValidationResult{DaysRequested: days}
}
