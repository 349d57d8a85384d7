package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	Income  TransactionType = "INCOME"
	Expense TransactionType = "EXPENSE"
)

func (t TransactionType) Valid() bool {
	return t == Income || t == Expense
}

type PaymentMethod string

const (
	Cash         PaymentMethod = "CASH"
	Card         PaymentMethod = "CARD"
	BankTransfer PaymentMethod = "BANK_TRANSFER"
	OtherMethod  PaymentMethod = "OTHER"
)

// PaymentMethods lists the known methods in display order.
var PaymentMethods = []PaymentMethod{Cash, Card, BankTransfer, OtherMethod}

func (p PaymentMethod) Valid() bool {
	for _, m := range PaymentMethods {
		if p == m {
			return true
		}
	}
	return false
}

// RecurrenceType is persisted with a transaction but nothing generates occurrences from it.
type RecurrenceType string

const (
	RecurNone    RecurrenceType = "NONE"
	RecurDaily   RecurrenceType = "DAILY"
	RecurWeekly  RecurrenceType = "WEEKLY"
	RecurMonthly RecurrenceType = "MONTHLY"
	RecurYearly  RecurrenceType = "YEARLY"
)

func (r RecurrenceType) Valid() bool {
	switch r {
	case RecurNone, RecurDaily, RecurWeekly, RecurMonthly, RecurYearly:
		return true
	}
	return false
}

// Transaction is a single income or expense entry owned by one user.
type Transaction struct {
	ID             string          `json:"id"`
	UserID         string          `json:"user_id"`
	Amount         decimal.Decimal `json:"amount"`
	Type           TransactionType `json:"type"`
	Date           Date            `json:"date"`
	Description    string          `json:"description"`
	PaymentMethod  PaymentMethod   `json:"payment_method"`
	RecurrenceType RecurrenceType  `json:"recurrence_type"`
	Tags           []Tag           `json:"tags"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}
