package groupstatus

import "errors"

var (
	// ErrMissingCorrelation indicates a request without correlation context.
	ErrMissingCorrelation = errors.New("group status: missing correlation id")
	// ErrMissingViewID indicates a request without a view id.
	ErrMissingViewID = errors.New("group status: missing view id")
	// ErrMissingGroup indicates a request without a group name.
	ErrMissingGroup = errors.New("group status: missing group name")
	// ErrMissingUserID indicates a request without a user id.
	ErrMissingUserID = errors.New("group status: missing user id")
)
