package user

import (
	"github.com/cmlabs-hris/hris-agent-go/internal/domain/leave"
)

// Response is the wire shape of GET /users/{id}.
type Response struct {
	ID           string                 `json:"id"`
	Name         string                 `json:"name"`
	Email        string                 `json:"email"`
	Leaves       map[string]int         `json:"leaves"`
	LeaveHistory []leave.RecordResponse `json:"leave_history,omitempty"`
}

// ToUser converts the wire shape to the domain user.
func (r Response) ToUser() User {
	history := make([]leave.Record, 0, len(r.LeaveHistory))
	for _, rec := range r.LeaveHistory {
		history = append(history, rec.ToRecord())
	}
	return User{
		ID:           r.ID,
		Name:         r.Name,
		Email:        r.Email,
		Leaves:       leave.Balances(r.Leaves),
		LeaveHistory: history,
	}
}
