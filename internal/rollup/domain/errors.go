package rollup

import "errors"

var (
	ErrMissingCorrelation = errors.New("rollup: missing correlation id")
	ErrMissingGroup       = errors.New("rollup: missing group name")
)
