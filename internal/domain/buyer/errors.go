package buyer

import "errors"

var (
	ErrNotFound          = errors.New("buyer not found")
	ErrForbidden         = errors.New("not the owner of this buyer")
	ErrStaleRecord       = errors.New("buyer was updated by someone else")
	ErrRateLimited       = errors.New("rate limit exceeded")
	ErrTransactionFailed = errors.New("import transaction rolled back")
)
