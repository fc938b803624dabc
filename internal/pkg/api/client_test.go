package api

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/hris-agent-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-agent-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-agent-go/internal/pkg/apitest"
	"github.com/cmlabs-hris/hris-agent-go/internal/pkg/clock"
)

func newTestClient(t *testing.T, srv *apitest.Server) *Client {
	t.Helper()
	client, err := NewClient(srv.URL, 5*time.Second, slog.New(slog.NewJSONHandler(io.Discard, nil)))
	require.NoError(t, err)
	return client
}

func login(t *testing.T, client *Client) {
	t.Helper()
	_, err := client.Login(context.Background(), apitest.DefaultEmail, apitest.DefaultPassword)
	require.NoError(t, err)
}

func TestLoginStoresToken(t *testing.T) {
	srv := apitest.New()
	defer srv.Close()

	client := newTestClient(t, srv)
	u, err := client.Login(context.Background(), apitest.DefaultEmail, apitest.DefaultPassword)
	require.NoError(t, err)

	assert.Equal(t, apitest.DefaultUserID, u.ID)
	assert.Equal(t, 5, u.Leaves.Days(leave.TypePTO))
	assert.Equal(t, 3, u.Leaves.Days(leave.TypeSick))

	// The stored token authenticates subsequent requests.
	fetched, err := client.GetUser(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.Email, fetched.Email)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	srv := apitest.New()
	defer srv.Close()

	client := newTestClient(t, srv)
	_, err := client.Login(context.Background(), apitest.DefaultEmail, "wrong-password")
	require.Error(t, err)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 401, apiErr.Status)
	assert.Equal(t, "UNAUTHORIZED", apiErr.Code)
	assert.Equal(t, "Invalid email or password", apiErr.Message)
}

func TestLoginTokenOutlivesPinnedServerClock(t *testing.T) {
	// The injected clock only drives domain timestamps; the issued token
	// must stay valid under real-time verification even when the clock is
	// pinned far in the past.
	clk := clock.NewManual(time.Date(2020, time.January, 1, 9, 0, 0, 0, time.UTC))
	srv := apitest.New(apitest.WithClock(clk))
	defer srv.Close()

	client := newTestClient(t, srv)
	login(t, client)

	_, err := client.GetUser(context.Background(), apitest.DefaultUserID)
	require.NoError(t, err)
}

func TestRequestsWithoutTokenAreRejected(t *testing.T) {
	srv := apitest.New()
	defer srv.Close()

	client := newTestClient(t, srv)
	_, err := client.GetUser(context.Background(), apitest.DefaultUserID)
	require.Error(t, err)
}

func TestDailyLogMapsMissingRecord(t *testing.T) {
	srv := apitest.New()
	defer srv.Close()

	client := newTestClient(t, srv)
	login(t, client)

	_, err := client.DailyLog(context.Background(), apitest.DefaultUserID)
	require.ErrorIs(t, err, attendance.ErrNoDailyLog)
}

func TestCheckInConflictMapsSentinel(t *testing.T) {
	srv := apitest.New()
	defer srv.Close()

	client := newTestClient(t, srv)
	login(t, client)

	result, err := client.CheckIn(context.Background())
	require.NoError(t, err)
	assert.True(t, result.Session.Open())
	assert.NotEmpty(t, result.Message)

	_, err = client.CheckIn(context.Background())
	require.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)
}

func TestCheckOutConflictMapsSentinel(t *testing.T) {
	srv := apitest.New()
	defer srv.Close()

	client := newTestClient(t, srv)
	login(t, client)

	_, err := client.CheckOut(context.Background())
	require.ErrorIs(t, err, attendance.ErrNotCheckedIn)
}

func TestCheckOutClosesSession(t *testing.T) {
	now := time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)
	clk := clock.NewManual(now)
	srv := apitest.New(apitest.WithClock(clk))
	defer srv.Close()

	client := newTestClient(t, srv)
	login(t, client)

	_, err := client.CheckIn(context.Background())
	require.NoError(t, err)

	clk.Advance(8 * time.Hour)
	msg, err := client.CheckOut(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Checked out successfully", msg)

	log, err := client.DailyLog(context.Background(), apitest.DefaultUserID)
	require.NoError(t, err)
	assert.False(t, log.Open())
	require.NotNil(t, log.WorkMinutes)
	assert.Equal(t, 480, *log.WorkMinutes)
}

func TestSubmitLeaveMapsInsufficientBalance(t *testing.T) {
	srv := apitest.New(apitest.WithBalances(map[string]int{"pto": 1}))
	defer srv.Close()

	client := newTestClient(t, srv)
	login(t, client)

	_, err := client.SubmitLeave(context.Background(), leave.CreateLeaveRequest{
		LeaveType: leave.TypePTO,
		StartDate: "2026-03-10",
		EndDate:   "2026-03-12",
	})
	require.ErrorIs(t, err, leave.ErrInsufficientBalance)

	// The decoded server error stays in the chain alongside the sentinel.
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Insufficient leave balance", apiErr.Message)
}

func TestSubmitLeaveValidatesBeforeSending(t *testing.T) {
	srv := apitest.New()
	defer srv.Close()

	client := newTestClient(t, srv)
	login(t, client)

	_, err := client.SubmitLeave(context.Background(), leave.CreateLeaveRequest{
		LeaveType: leave.TypePTO,
		StartDate: "not-a-date",
		EndDate:   "2026-03-12",
	})
	require.Error(t, err)
	assert.Equal(t, 0, srv.Requests("leaves"))
}

func TestMonthlyLogFiltersByMonth(t *testing.T) {
	srv := apitest.New()
	defer srv.Close()

	srv.SeedDailyLog(attendance.DailyLogResponse{
		ID:          "att-0001",
		UserID:      apitest.DefaultUserID,
		Date:        "2026-03-10",
		CheckInTime: time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC),
	})
	srv.SeedDailyLog(attendance.DailyLogResponse{
		ID:          "att-0002",
		UserID:      apitest.DefaultUserID,
		Date:        "2026-02-27",
		CheckInTime: time.Date(2026, time.February, 27, 9, 0, 0, 0, time.UTC),
	})

	client := newTestClient(t, srv)
	login(t, client)

	sessions, err := client.MonthlyLog(context.Background(), apitest.DefaultUserID, "2026-03")
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "att-0001", sessions[0].ID)
}

func TestGetUserNotFound(t *testing.T) {
	srv := apitest.New()
	defer srv.Close()

	client := newTestClient(t, srv)
	login(t, client)

	_, err := client.GetUser(context.Background(), "someone-else")
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 404, apiErr.Status)
	assert.Equal(t, "NOT_FOUND", apiErr.Code)
}

func TestLogoutClearsToken(t *testing.T) {
	srv := apitest.New()
	defer srv.Close()

	client := newTestClient(t, srv)
	login(t, client)
	require.NoError(t, client.Logout(context.Background()))

	_, err := client.GetUser(context.Background(), apitest.DefaultUserID)
	require.Error(t, err)
}
