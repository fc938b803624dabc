package attendance

import "errors"

// Attendance domain errors
var (
	ErrAlreadyCheckedIn = errors.New("you have already checked in today")
	ErrNotCheckedIn     = errors.New("you have not checked in yet")
	ErrNoDailyLog       = errors.New("no attendance record for today")
)
