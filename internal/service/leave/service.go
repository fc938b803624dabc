package leave

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/cmlabs-hris/hris-agent-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-agent-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-agent-go/internal/pkg/api"
	"github.com/cmlabs-hris/hris-agent-go/internal/pkg/notify"
	"github.com/cmlabs-hris/hris-agent-go/internal/store"
)

// Service submits leave drafts and keeps the cached balances reconciled with
// the server. At most one submission is in flight at a time; the caller
// disables its submit control for the duration.
type Service struct {
	leaveAPI leave.Client
	userAPI  user.Client
	store    *store.Store
	notifier notify.Notifier
	logger   *slog.Logger

	mu       sync.Mutex
	inFlight bool
}

func NewService(
	leaveClient leave.Client,
	userClient user.Client,
	st *store.Store,
	notifier notify.Notifier,
	logger *slog.Logger,
) *Service {
	return &Service{
		leaveAPI: leaveClient,
		userAPI:  userClient,
		store:    st,
		notifier: notifier,
		logger:   logger,
	}
}

// InFlight reports whether a submission is currently outstanding.
func (s *Service) InFlight() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight
}

// Submit validates the draft against the cached balances and posts it. On
// acceptance the cached balance is decremented speculatively, then
// overwritten by an authoritative refetch so local state cannot drift from
// server rounding or business rules. On rejection the draft stays with the
// caller, editable.
func (s *Service) Submit(ctx context.Context, draft leave.Draft) (leave.Record, error) {
	if !draft.Complete() {
		return leave.Record{}, leave.ErrDraftIncomplete
	}

	result := Validate(draft, s.store.Balances())
	if !result.OK() {
		return leave.Record{}, fmt.Errorf("%s: %w", result.ErrorMessage, leave.ErrInsufficientBalance)
	}

	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		return leave.Record{}, leave.ErrRequestInFlight
	}
	s.inFlight = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.inFlight = false
		s.mu.Unlock()
	}()

	record, err := s.leaveAPI.SubmitLeave(ctx, leave.CreateLeaveRequest{
		LeaveType: draft.LeaveType,
		StartDate: draft.StartDate,
		EndDate:   draft.EndDate,
		Reason:    draft.Reason,
	})
	if err != nil {
		s.logger.Error("leave submission failed", "leave_type", draft.LeaveType, "error", err)
		s.notifier.Notify(notify.Notification{
			Level:   notify.LevelError,
			Message: failureMessage(err, "Leave request was rejected by the server"),
		})
		return leave.Record{}, fmt.Errorf("leave submission failed: %w", err)
	}

	s.store.DecrementBalance(record.LeaveType, record.Days)
	s.notifier.Notify(notify.Notification{
		Level:   notify.LevelSuccess,
		Message: fmt.Sprintf("Leave request submitted (%d days, %s)", record.Days, record.Status),
	})

	// The decrement above is speculative; fetch server truth right away.
	if err := s.RefreshBalances(ctx); err != nil {
		s.logger.Warn("balance refresh after submission failed", "error", err)
	}

	return record, nil
}

// failureMessage prefers the server-provided message over a generic one.
func failureMessage(err error, fallback string) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// RefreshBalances overwrites the cached balances with the server's copy.
func (s *Service) RefreshBalances(ctx context.Context) error {
	current, ok := s.store.User()
	if !ok {
		return fmt.Errorf("no logged-in user to refresh balances for")
	}

	fresh, err := s.userAPI.GetUser(ctx, current.ID)
	if err != nil {
		return fmt.Errorf("failed to fetch user %s: %w", current.ID, err)
	}

	s.store.SetBalances(fresh.Leaves)
	return nil
}
