package account

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound  = errors.New("account not found")
	ErrForbidden = errors.New("account belongs to another user")
)

// Type is the account category.
type Type string

const (
	TypeBank       Type = "bank"
	TypeChecking   Type = "checking"
	TypeSavings    Type = "savings"
	TypeCredit     Type = "credit"
	TypeInvestment Type = "investment"
)

// Account is a linked financial account. Balance is authoritative and is
// moved by every posted transaction.
type Account struct {
	ID          int64
	UserID      int64
	Name        string
	Type        Type
	Institution string
	Number      string
	Balance     decimal.Decimal
	LastUpdated time.Time
	CreatedAt   time.Time
}

type CreateParams struct {
	Name        string          `validate:"required,max=100"`
	Type        Type            `validate:"required,oneof=bank checking savings credit investment"`
	Institution string          `validate:"omitempty,max=100"`
	Number      string          `validate:"omitempty,max=34"`
	Balance     decimal.Decimal `validate:"-"`
}

// UpdateParams holds the fields to merge onto an account. Nil fields are left
// untouched.
type UpdateParams struct {
	Name        *string          `validate:"omitempty,min=1,max=100"`
	Institution *string          `validate:"omitempty,min=1,max=100"`
	Number      *string          `validate:"omitempty,min=1,max=34"`
	Balance     *decimal.Decimal `validate:"-"`
}
