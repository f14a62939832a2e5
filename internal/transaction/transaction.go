package transaction

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("transaction not found")

// Transaction is a posted movement against an account. Negative amounts are
// debits (expenses), positive amounts are credits (income).
type Transaction struct {
	ID          int64
	AccountID   int64
	Description string
	Amount      decimal.Decimal
	Date        time.Time
	Category    *string
	CreatedAt   time.Time
}

// IsExpense reports whether t moves money out of its account.
func (t *Transaction) IsExpense() bool {
	return t.Amount.IsNegative()
}

type CreateParams struct {
	AccountID   int64           `validate:"required,gt=0"`
	Description string          `validate:"required,max=255"`
	Amount      decimal.Decimal `validate:"-"`
	Date        time.Time       `validate:"required"`
	Category    *string         `validate:"omitempty,max=64"`
}

// ListFilter narrows a user's transactions. Bounds are inclusive and nil
// fields are ignored.
type ListFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	Category  *string
}

func (f ListFilter) matches(tx *Transaction) bool {
	if f.StartDate != nil && tx.Date.Before(*f.StartDate) {
		return false
	}

	if f.EndDate != nil && tx.Date.After(*f.EndDate) {
		return false
	}

	if f.Category != nil && (tx.Category == nil || *tx.Category != *f.Category) {
		return false
	}

	return true
}
