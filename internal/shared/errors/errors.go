package errors

import "errors"

var (
	ErrMissingFeedsFile = errors.New("feeds configuration file not found")
	ErrNoFeedsDefined   = errors.New("feeds configuration defines no feeds")
)
