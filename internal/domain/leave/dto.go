package leave

import (
	"time"

	"github.com/cmlabs-hris/hris-agent-go/internal/pkg/validator"
)

// CreateLeaveRequest is the wire shape of POST /leaves.
type CreateLeaveRequest struct {
	LeaveType Type   `json:"leave_type"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Reason    string `json:"reason,omitempty"`
}

func (r *CreateLeaveRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(string(r.LeaveType)) {
		errs = append(errs, validator.ValidationError{
			Field:   "leave_type",
			Message: "leave_type is required",
		})
	}

	if validator.IsEmpty(r.StartDate) {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date is required",
		})
	} else if _, ok := validator.IsValidDate(r.StartDate); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be in YYYY-MM-DD format",
		})
	}

	if validator.IsEmpty(r.EndDate) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date is required",
		})
	} else if _, ok := validator.IsValidDate(r.EndDate); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be in YYYY-MM-DD format",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// RecordResponse is the wire shape of a persisted leave application.
type RecordResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	LeaveType Type      `json:"leave_type"`
	StartDate string    `json:"start_date"`
	EndDate   string    `json:"end_date"`
	Days      int       `json:"days"`
	Reason    string    `json:"reason,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// ToRecord converts the wire shape to the domain record.
func (r RecordResponse) ToRecord() Record {
	start, _ := time.Parse("2006-01-02", r.StartDate)
	end, _ := time.Parse("2006-01-02", r.EndDate)
	return Record{
		ID:        r.ID,
		UserID:    r.UserID,
		LeaveType: r.LeaveType,
		StartDate: start,
		EndDate:   end,
		Days:      r.Days,
		Reason:    r.Reason,
		Status:    r.Status,
		CreatedAt: r.CreatedAt,
	}
}
