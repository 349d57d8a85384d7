package stats

import (
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/hongminglow/jbudget-be/internal/models"
)

func fakeLedger(f *gofakeit.Faker, n int) []models.Transaction {
	tags := []models.Tag{{Name: "Food"}, {Name: "Rent"}, {Name: "Fun"}}
	methods := []string{"CASH", "CARD", "BANK_TRANSFER", "OTHER"}
	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, time.December, 31, 0, 0, 0, 0, time.UTC)

	txs := make([]models.Transaction, 0, n)
	for i := 0; i < n; i++ {
		tx := models.Transaction{
			Amount:        decimal.NewFromFloat(f.Float64Range(0.01, 5000)).Round(2),
			Type:          models.Expense,
			Date:          models.DateOf(f.DateRange(start, end)),
			Description:   f.Sentence(3),
			PaymentMethod: models.PaymentMethod(f.RandomString(methods)),
		}
		if f.Bool() {
			tx.Type = models.Income
		}
		for _, tag := range tags {
			if f.IntRange(0, 2) == 0 {
				tx.Tags = append(tx.Tags, tag)
			}
		}
		txs = append(txs, tx)
	}
	return txs
}

func TestAggregateRandomLedgerIsConsistent(t *testing.T) {
	f := gofakeit.New(42)
	for round := 0; round < 20; round++ {
		txs := fakeLedger(f, f.IntRange(0, 60))
		s := Aggregate(txs)

		assert.True(t, s.Balance.Equal(s.TotalIncome.Sub(s.TotalExpense)))
		assert.Equal(t, len(txs), s.TransactionCount)
		assert.Equal(t, len(txs), s.ByType[models.Income]+s.ByType[models.Expense])

		monthIncome, monthExpense := decimal.Zero, decimal.Zero
		for _, m := range s.ByMonth {
			monthIncome = monthIncome.Add(m.Income)
			monthExpense = monthExpense.Add(m.Expense)
		}
		assert.True(t, monthIncome.Equal(s.TotalIncome))
		assert.True(t, monthExpense.Equal(s.TotalExpense))

		methodIncome, methodExpense, methodCount := decimal.Zero, decimal.Zero, 0
		for _, m := range s.ByPaymentMethod {
			methodIncome = methodIncome.Add(m.Income)
			methodExpense = methodExpense.Add(m.Expense)
			methodCount += m.Count
		}
		assert.True(t, methodIncome.Equal(s.TotalIncome))
		assert.True(t, methodExpense.Equal(s.TotalExpense))
		assert.Equal(t, len(txs), methodCount)
	}
}

func TestFilterRandomLedgerKeepsOnlyRange(t *testing.T) {
	f := gofakeit.New(7)
	txs := fakeLedger(f, 200)
	r := Range{Start: models.NewDate(2024, time.June, 1), End: models.NewDate(2024, time.September, 30)}

	kept := Filter(txs, r)
	inside := 0
	for _, tx := range txs {
		if r.Contains(tx.Date) {
			inside++
		}
	}
	assert.Len(t, kept, inside)
	for _, tx := range kept {
		assert.False(t, tx.Date.Before(r.Start))
		assert.False(t, tx.Date.After(r.End))
	}
}
