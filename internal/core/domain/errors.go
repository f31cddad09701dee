package domain

import "errors"

// ErrDuplicateTxHash means a redemption with the same tx hash is already
// persisted. The storage layer returns it so callers can tell a retried
// submission apart from an infrastructure fault.
var ErrDuplicateTxHash = errors.New("transaction hash already recorded")
