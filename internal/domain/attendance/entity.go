package attendance

import (
	"time"
)

// Session is the client-side mirror of a server-owned attendance session.
// The server holds the authoritative record; the client only keeps the
// fields it needs to drive the elapsed-time view.
type Session struct {
	ID           string
	UserID       string
	Date         time.Time
	CheckInTime  time.Time
	CheckOutTime *time.Time

	WorkMinutes *int
	Status      string
}

// Open reports whether the session has a check-in but no check-out yet.
func (s Session) Open() bool {
	return !s.CheckInTime.IsZero() && s.CheckOutTime == nil
}
