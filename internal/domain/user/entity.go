package user

import (
	"github.com/cmlabs-hris/hris-agent-go/internal/domain/leave"
)

// User is the client-side view of GET /users/{id}: identity plus the cached
// leave balances and history the leave views render.
type User struct {
	ID           string
	Name         string
	Email        string
	Leaves       leave.Balances
	LeaveHistory []leave.Record
}
