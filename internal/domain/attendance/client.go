package attendance

import (
	"context"
)

// CheckInResult is the outcome of an accepted check-in: the session anchored
// at the server-recorded instant, plus the server-provided message.
type CheckInResult struct {
	Session Session
	Message string
}

// Client defines what the attendance views need from the backend. The
// backend owns all persistence and re-validation; these calls are the only
// asynchronous boundary in the timer.
type Client interface {
	// DailyLog retrieves today's attendance record for the user.
	// Returns ErrNoDailyLog when none exists.
	DailyLog(ctx context.Context, userID string) (Session, error)

	// CheckIn opens today's session. Returns ErrAlreadyCheckedIn on conflict.
	CheckIn(ctx context.Context) (CheckInResult, error)

	// CheckOut closes the open session and returns the server message.
	// Returns ErrNotCheckedIn when no session is open.
	CheckOut(ctx context.Context) (string, error)

	// OpenSessions reports whether unclosed sessions from prior days exist.
	OpenSessions(ctx context.Context) (bool, error)

	// MonthlyLog retrieves the user's records for a YYYY-MM month.
	MonthlyLog(ctx context.Context, userID, month string) ([]Session, error)
}
