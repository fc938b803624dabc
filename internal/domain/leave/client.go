package leave

import "context"

// Client defines what the leave views need from the backend.
type Client interface {
	// SubmitLeave posts a leave application; the server re-validates the
	// balance and is the final arbiter.
	SubmitLeave(ctx context.Context, req CreateLeaveRequest) (Record, error)
}
