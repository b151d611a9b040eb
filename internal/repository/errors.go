package repository

import (
	stderrors "errors"

	"github.com/pkg/errors"
)

// ErrStoreUnavailable is returned when the underlying database could not
// complete an operation: connection failures, timeouts and driver errors.
// Callers may retry.
var ErrStoreUnavailable = stderrors.New("transaction store unavailable")

func storeError(op string, err error) error {
	return errors.Wrapf(ErrStoreUnavailable, "%s: %v", op, err)
}
