package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/hris-agent-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-agent-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-agent-go/internal/domain/user"
)

func testUser() user.User {
	return user.User{
		ID:     "u-1",
		Name:   "Jordan Smith",
		Email:  "jordan@example.com",
		Leaves: leave.Balances{"pto": 5, "sick": 3},
	}
}

func TestSetUserCachesBalances(t *testing.T) {
	s := New()
	s.SetUser(testUser())

	u, ok := s.User()
	require.True(t, ok)
	assert.Equal(t, "u-1", u.ID)
	assert.Equal(t, 5, s.Balances().Days(leave.TypePTO))
}

func TestBalancesReturnsCopy(t *testing.T) {
	s := New()
	s.SetUser(testUser())

	b := s.Balances()
	b["pto"] = 0
	assert.Equal(t, 5, s.Balances().Days(leave.TypePTO))
}

func TestDecrementBalanceFloorsAtZero(t *testing.T) {
	s := New()
	s.SetUser(testUser())

	s.DecrementBalance(leave.TypeSick, 2)
	assert.Equal(t, 1, s.Balances().Days(leave.TypeSick))

	s.DecrementBalance(leave.TypeSick, 10)
	assert.Equal(t, 0, s.Balances().Days(leave.TypeSick))
}

func TestDecrementBalanceWithoutUser(t *testing.T) {
	s := New()
	s.DecrementBalance(leave.TypePTO, 1)
	assert.Equal(t, 0, s.Balances().Days(leave.TypePTO))
}

func TestSessionLifecycle(t *testing.T) {
	s := New()

	_, ok := s.Session()
	assert.False(t, ok)

	s.SetSession(attendance.Session{
		ID:          "att-1",
		CheckInTime: time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC),
	})
	sess, ok := s.Session()
	require.True(t, ok)
	assert.Equal(t, "att-1", sess.ID)

	s.ClearSession()
	_, ok = s.Session()
	assert.False(t, ok)
}

func TestResetDropsEverything(t *testing.T) {
	s := New()
	s.SetUser(testUser())
	s.SetSession(attendance.Session{ID: "att-1"})

	s.Reset()

	_, ok := s.User()
	assert.False(t, ok)
	_, ok = s.Session()
	assert.False(t, ok)
	assert.Empty(t, s.Balances())
}
