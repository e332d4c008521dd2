package stylefactory

import "errors"

// Sentinel errors. Engine errors are wrapped alongside them, so both the
// sentinel and the underlying regexp2 error stay reachable with errors.Is/As.
var (
	ErrInvalidPattern = errors.New("invalid pattern")
	ErrMatch          = errors.New("pattern match failed")

	// Rules file errors.
	ErrReadRules    = errors.New("failed to read rules file")
	ErrParseRules   = errors.New("failed to parse rules")
	ErrEmptyPattern = errors.New("rule pattern cannot be empty")
)
