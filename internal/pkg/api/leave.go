package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/cmlabs-hris/hris-agent-go/internal/domain/leave"
)

// SubmitLeave posts a leave application. The server re-validates the balance
// and is the final arbiter; a rejected application maps to
// leave.ErrInsufficientBalance when that is the stated reason.
func (c *Client) SubmitLeave(ctx context.Context, req leave.CreateLeaveRequest) (leave.Record, error) {
	if err := req.Validate(); err != nil {
		return leave.Record{}, err
	}

	var out leave.RecordResponse
	err := c.do(ctx, http.MethodPost, "/api/v1/leaves", req, &out)
	if err != nil {
		var apiErr *Error
		if errors.As(err, &apiErr) && apiErr.Code == "INSUFFICIENT_BALANCE" {
			// Keep the decoded error in the chain so callers can still
			// surface the server's own message.
			return leave.Record{}, fmt.Errorf("%w: %w", leave.ErrInsufficientBalance, apiErr)
		}
		return leave.Record{}, err
	}
	return out.ToRecord(), nil
}
