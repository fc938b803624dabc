package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/cmlabs-hris/hris-agent-go/internal/domain/attendance"
)

// DailyLog fetches today's attendance record for the user. A missing record
// maps to attendance.ErrNoDailyLog.
func (c *Client) DailyLog(ctx context.Context, userID string) (attendance.Session, error) {
	var out attendance.DailyLogResponse
	err := c.do(ctx, http.MethodGet, "/api/v1/timetrackers/daily-log/"+userID, nil, &out)
	if err != nil {
		var apiErr *Error
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
			return attendance.Session{}, attendance.ErrNoDailyLog
		}
		return attendance.Session{}, err
	}
	return out.ToSession(), nil
}

// CheckIn opens today's attendance session. A conflict maps to
// attendance.ErrAlreadyCheckedIn.
func (c *Client) CheckIn(ctx context.Context) (attendance.CheckInResult, error) {
	var out attendance.CheckInResponse
	err := c.do(ctx, http.MethodPost, "/api/v1/timetrackers/check-in", struct{}{}, &out)
	if err != nil {
		var apiErr *Error
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusConflict {
			return attendance.CheckInResult{}, attendance.ErrAlreadyCheckedIn
		}
		return attendance.CheckInResult{}, err
	}
	return attendance.CheckInResult{Session: out.Log.ToSession(), Message: out.Message}, nil
}

// CheckOut closes the open attendance session and returns the server
// message. A conflict maps to attendance.ErrNotCheckedIn.
func (c *Client) CheckOut(ctx context.Context) (string, error) {
	var out attendance.CheckOutResponse
	err := c.do(ctx, http.MethodPost, "/api/v1/timetrackers/check-out", struct{}{}, &out)
	if err != nil {
		var apiErr *Error
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusConflict {
			return "", attendance.ErrNotCheckedIn
		}
		return "", err
	}
	return out.Message, nil
}

// OpenSessions reports whether unclosed sessions from prior days exist.
func (c *Client) OpenSessions(ctx context.Context) (bool, error) {
	var out attendance.OpenSessionsResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/timetrackers/open-sessions", nil, &out); err != nil {
		return false, err
	}
	return out.HasOpenSessions, nil
}

// MonthlyLog fetches the caller's attendance records for a month
// (YYYY-MM). Used by the timesheet views.
func (c *Client) MonthlyLog(ctx context.Context, userID, month string) ([]attendance.Session, error) {
	var out []attendance.DailyLogResponse
	err := c.do(ctx, http.MethodGet, "/api/v1/timetrackers/monthly-log/"+userID+"?month="+month, nil, &out)
	if err != nil {
		return nil, err
	}
	sessions := make([]attendance.Session, 0, len(out))
	for _, r := range out {
		sessions = append(sessions, r.ToSession())
	}
	return sessions, nil
}
