package leave

import "errors"

var (
	ErrInsufficientBalance = errors.New("insufficient leave balance")
	ErrRequestInFlight     = errors.New("a leave request is already in flight")
	ErrDraftIncomplete     = errors.New("leave draft is incomplete")
)
