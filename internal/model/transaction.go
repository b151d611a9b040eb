package model

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeCredit TransactionType = "credit"
	TransactionTypeDebit  TransactionType = "debit"
)

func (t TransactionType) Valid() bool {
	return t == TransactionTypeCredit || t == TransactionTypeDebit
}

const (
	// UncategorizedCategory collects transactions created without a category.
	UncategorizedCategory = "Uncategorized"

	MaxDescriptionLen = 200
	MaxCategoryLen    = 64
)

// MaxAmount is the exclusive upper bound; in cents it still fits an int64.
var MaxAmount = decimal.New(1, 16)

type Transaction struct {
	ID          int64           `json:"id"`
	Type        TransactionType `json:"type"`
	Amount      Money           `json:"amount"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Date        time.Time       `json:"date"`
}

// CreateTransactionRequest is the input for recording a transaction.
// Date is optional; nil means "now".
type CreateTransactionRequest struct {
	Type        TransactionType
	Amount      decimal.Decimal
	Description string
	Category    string
	Date        *time.Time
}

func (p CreateTransactionRequest) Validate() error {
	if !p.Type.Valid() {
		return NewValidationError("type", "must be one of credit, debit")
	}
	if !p.Amount.IsPositive() {
		return NewValidationError("amount", "must be greater than zero")
	}
	if !p.Amount.Equal(p.Amount.Truncate(2)) {
		return NewValidationError("amount", "must have at most two decimal places")
	}
	if p.Amount.GreaterThanOrEqual(MaxAmount) {
		return NewValidationError("amount", "is too large")
	}
	description := strings.TrimSpace(p.Description)
	if description == "" {
		return NewValidationError("description", "is required")
	}
	if utf8.RuneCountInString(description) > MaxDescriptionLen {
		return NewValidationError("description", "is too long")
	}
	if utf8.RuneCountInString(strings.TrimSpace(p.Category)) > MaxCategoryLen {
		return NewValidationError("category", "is too long")
	}
	if p.Date != nil && p.Date.IsZero() {
		return NewValidationError("date", "must be a valid timestamp")
	}
	return nil
}

// NormalizeCategory trims the label and capitalizes it so "groceries" and
// "Groceries" land in the same breakdown bucket. Blank labels map to
// UncategorizedCategory.
func NormalizeCategory(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return UncategorizedCategory
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}

// ListOrder selects how the store orders List results.
type ListOrder int

const (
	// OrderUnspecified leaves ordering to the store.
	OrderUnspecified ListOrder = iota
	// OrderDateDesc is most recent first, ties broken by ascending id.
	OrderDateDesc
)

// TransactionFilter controls List queries.
type TransactionFilter struct {
	Limit int // <= 0 means no limit
	Order ListOrder
}

type DeleteOutcome string

const (
	DeleteOutcomeDeleted  DeleteOutcome = "deleted"
	DeleteOutcomeNotFound DeleteOutcome = "not_found"
	DeleteOutcomeError    DeleteOutcome = "error"
)

// DeleteResult is the per-id result of a (bulk) delete.
type DeleteResult struct {
	ID      int64         `json:"id"`
	Outcome DeleteOutcome `json:"outcome"`
	Error   string        `json:"error,omitempty"`
}
