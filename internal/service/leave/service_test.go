package leave

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/hris-agent-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-agent-go/internal/pkg/api"
	"github.com/cmlabs-hris/hris-agent-go/internal/pkg/apitest"
	"github.com/cmlabs-hris/hris-agent-go/internal/pkg/notify"
	"github.com/cmlabs-hris/hris-agent-go/internal/store"
)

type noteRecorder struct {
	mu    sync.Mutex
	notes []notify.Notification
}

func (r *noteRecorder) Notify(n notify.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes = append(r.notes, n)
}

func (r *noteRecorder) last() (notify.Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notes) == 0 {
		return notify.Notification{}, false
	}
	return r.notes[len(r.notes)-1], true
}

func newTestService(t *testing.T, srv *apitest.Server) (*Service, *store.Store, *noteRecorder) {
	t.Helper()
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	client, err := api.NewClient(srv.URL, 5*time.Second, logger)
	require.NoError(t, err)
	u, err := client.Login(context.Background(), apitest.DefaultEmail, apitest.DefaultPassword)
	require.NoError(t, err)

	st := store.New()
	st.SetUser(u)

	rec := &noteRecorder{}
	return NewService(client, client, st, rec, logger), st, rec
}

func TestSubmitDecrementsThenRefreshes(t *testing.T) {
	srv := apitest.New()
	defer srv.Close()

	svc, st, rec := newTestService(t, srv)

	record, err := svc.Submit(context.Background(), leave.Draft{
		LeaveType: leave.TypePTO,
		StartDate: "2026-03-10",
		EndDate:   "2026-03-11",
		Reason:    "Family trip",
	})
	require.NoError(t, err)

	assert.Equal(t, "lv-0001", record.ID)
	assert.Equal(t, leave.StatusPending, record.Status)
	assert.Equal(t, 2, record.Days)

	// Cached balances end at server truth, not just the local decrement.
	assert.Equal(t, 3, st.Balances().Days(leave.TypePTO))
	assert.Equal(t, 3, srv.Balances()["pto"])
	assert.Equal(t, 1, srv.Requests("users"))

	n, ok := rec.last()
	require.True(t, ok)
	assert.Equal(t, notify.LevelSuccess, n.Level)
	assert.Equal(t, "Leave request submitted (2 days, Pending)", n.Message)

	records := srv.Records()
	require.Len(t, records, 1)
	assert.Equal(t, "Family trip", records[0].Reason)
}

func TestSubmitRejectsLocallyWithoutNetwork(t *testing.T) {
	srv := apitest.New()
	defer srv.Close()

	svc, st, _ := newTestService(t, srv)

	_, err := svc.Submit(context.Background(), leave.Draft{
		LeaveType: leave.TypePTO,
		StartDate: "2026-03-09",
		EndDate:   "2026-03-14",
	})
	require.ErrorIs(t, err, leave.ErrInsufficientBalance)
	assert.Equal(t, 0, srv.Requests("leaves"))
	assert.Equal(t, 5, st.Balances().Days(leave.TypePTO))
}

func TestSubmitIncompleteDraft(t *testing.T) {
	srv := apitest.New()
	defer srv.Close()

	svc, _, _ := newTestService(t, srv)

	_, err := svc.Submit(context.Background(), leave.Draft{
		LeaveType: leave.TypePTO,
		StartDate: "2026-03-10",
	})
	require.ErrorIs(t, err, leave.ErrDraftIncomplete)
	assert.Equal(t, 0, srv.Requests("leaves"))
}

func TestSubmitServerRejectionLeavesBalancesAlone(t *testing.T) {
	srv := apitest.New()
	defer srv.Close()

	svc, st, rec := newTestService(t, srv)

	// A stale cache thinks more balance exists than the server will grant.
	st.SetBalances(leave.Balances{"pto": 10})

	_, err := svc.Submit(context.Background(), leave.Draft{
		LeaveType: leave.TypePTO,
		StartDate: "2026-03-09",
		EndDate:   "2026-03-14",
	})
	require.ErrorIs(t, err, leave.ErrInsufficientBalance)

	assert.Equal(t, 10, st.Balances().Days(leave.TypePTO))
	assert.Equal(t, 5, srv.Balances()["pto"])
	assert.Empty(t, srv.Records())

	// The toast carries the server's own message, not the generic fallback.
	n, ok := rec.last()
	require.True(t, ok)
	assert.Equal(t, notify.LevelError, n.Level)
	assert.Equal(t, "Insufficient leave balance", n.Message)
}

func TestSubmitNetworkFailureUsesFallbackMessage(t *testing.T) {
	srv := apitest.New()
	defer srv.Close()

	svc, _, rec := newTestService(t, srv)

	// No decoded server error to prefer once the transport is gone.
	srv.Close()

	_, err := svc.Submit(context.Background(), leave.Draft{
		LeaveType: leave.TypePTO,
		StartDate: "2026-03-10",
		EndDate:   "2026-03-10",
	})
	require.Error(t, err)

	n, ok := rec.last()
	require.True(t, ok)
	assert.Equal(t, notify.LevelError, n.Level)
	assert.Equal(t, "Leave request was rejected by the server", n.Message)
}

func TestSubmitClearsInFlight(t *testing.T) {
	srv := apitest.New()
	defer srv.Close()

	svc, _, _ := newTestService(t, srv)
	require.False(t, svc.InFlight())

	_, err := svc.Submit(context.Background(), leave.Draft{
		LeaveType: leave.TypeSick,
		StartDate: "2026-03-10",
		EndDate:   "2026-03-10",
	})
	require.NoError(t, err)
	assert.False(t, svc.InFlight())
}

func TestRefreshBalancesWithoutUser(t *testing.T) {
	srv := apitest.New()
	defer srv.Close()

	svc, st, _ := newTestService(t, srv)
	st.Reset()

	err := svc.RefreshBalances(context.Background())
	require.Error(t, err)
}
