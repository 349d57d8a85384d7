package dto

import (
	"github.com/shopspring/decimal"

	"github.com/hongminglow/jbudget-be/internal/models"
)

// TransactionRequest is the body of create and update. Amount stays optional
// so that a missing value can be told apart from zero.
type TransactionRequest struct {
	Amount         *decimal.Decimal       `json:"amount"`
	Type           models.TransactionType `json:"type"`
	Date           string                 `json:"date"`
	Description    string                 `json:"description"`
	PaymentMethod  models.PaymentMethod   `json:"payment_method"`
	RecurrenceType models.RecurrenceType  `json:"recurrence_type"`
	TagIDs         *[]string              `json:"tagIds"`
}
