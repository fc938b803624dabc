package attendance

import "time"

// DailyLogResponse is the wire shape of GET /timetrackers/daily-log/{userId}.
type DailyLogResponse struct {
	ID           string     `json:"id"`
	UserID       string     `json:"user_id"`
	Date         string     `json:"date"`
	CheckInTime  time.Time  `json:"check_in_time"`
	CheckOutTime *time.Time `json:"check_out_time,omitempty"`
	WorkMinutes  *int       `json:"work_minutes,omitempty"`
	Status       string     `json:"status,omitempty"`
}

// CheckInResponse is the wire shape of POST /timetrackers/check-in.
// Message carries the server-generated notification text.
type CheckInResponse struct {
	Log     DailyLogResponse `json:"log"`
	Message string           `json:"message"`
}

// CheckOutResponse is the wire shape of POST /timetrackers/check-out.
type CheckOutResponse struct {
	Message string `json:"message"`
}

// OpenSessionsResponse is the wire shape of GET /timetrackers/open-sessions.
// Reports whether unclosed sessions from prior days exist for the caller.
type OpenSessionsResponse struct {
	HasOpenSessions bool `json:"has_open_sessions"`
}

// ToSession converts the daily-log wire shape to the client session mirror.
func (r DailyLogResponse) ToSession() Session {
	date, _ := time.Parse("2006-01-02", r.Date)
	return Session{
		ID:           r.ID,
		UserID:       r.UserID,
		Date:         date,
		CheckInTime:  r.CheckInTime,
		CheckOutTime: r.CheckOutTime,
		WorkMinutes:  r.WorkMinutes,
		Status:       r.Status,
	}
}
