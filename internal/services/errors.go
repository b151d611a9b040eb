package services

import "github.com/nimasrn/finance-ledger/internal/repository"

// ErrStoreUnavailable is returned by every service call whose store operation
// failed. The caller may retry.
var ErrStoreUnavailable = repository.ErrStoreUnavailable
