package api

import (
	"time"

	"github.com/MrJamesThe3rd/finboard/internal/transaction"
)

// TransactionResponse is the wire form of a transaction, shared by every
// handler that returns transactions.
type TransactionResponse struct {
	ID          int64     `json:"id"`
	AccountID   int64     `json:"account_id"`
	Description string    `json:"description"`
	Amount      float64   `json:"amount"`
	Date        time.Time `json:"date"`
	Category    *string   `json:"category"`
	CreatedAt   time.Time `json:"created_at"`
}

func Transaction(tx *transaction.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:          tx.ID,
		AccountID:   tx.AccountID,
		Description: tx.Description,
		Amount:      tx.Amount.InexactFloat64(),
		Date:        tx.Date,
		Category:    tx.Category,
		CreatedAt:   tx.CreatedAt,
	}
}

func Transactions(txs []*transaction.Transaction) []TransactionResponse {
	resp := make([]TransactionResponse, len(txs))
	for i, tx := range txs {
		resp[i] = Transaction(tx)
	}

	return resp
}
