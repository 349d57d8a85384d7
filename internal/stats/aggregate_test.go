package stats

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/jbudget-be/internal/models"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDec(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), append([]any{"want %s, got %s", want, got.String()}, msgAndArgs...)...)
}

func TestAggregateExample(t *testing.T) {
	txs := []models.Transaction{
		{
			Amount:        dec("100"),
			Type:          models.Income,
			Date:          models.NewDate(2024, time.January, 5),
			PaymentMethod: models.BankTransfer,
		},
		{
			Amount:        dec("40"),
			Type:          models.Expense,
			Date:          models.NewDate(2024, time.January, 10),
			Tags:          []models.Tag{{Name: "Food", Color: "#4CAF50"}},
			PaymentMethod: models.Cash,
		},
	}

	s := Aggregate(txs)
	assertDec(t, "100", s.TotalIncome)
	assertDec(t, "40", s.TotalExpense)
	assertDec(t, "60", s.Balance)
	assert.Equal(t, 2, s.TransactionCount)

	jan := s.ByMonth["2024-01"]
	assertDec(t, "100", jan.Income)
	assertDec(t, "40", jan.Expense)

	food := s.ByTag["Food"]
	assertDec(t, "0", food.Income)
	assertDec(t, "40", food.Expense)
	assert.Equal(t, "#4CAF50", food.Color)

	assertDec(t, "100", s.ByPaymentMethod[models.BankTransfer].Income)
	assertDec(t, "0", s.ByPaymentMethod[models.BankTransfer].Expense)
	assertDec(t, "0", s.ByPaymentMethod[models.Cash].Income)
	assertDec(t, "40", s.ByPaymentMethod[models.Cash].Expense)
}

func TestAggregateEmpty(t *testing.T) {
	s := Aggregate(nil)
	assertDec(t, "0", s.TotalIncome)
	assertDec(t, "0", s.TotalExpense)
	assertDec(t, "0", s.Balance)
	assert.Empty(t, s.ByTag)
	assert.Empty(t, s.ByMonth)
	require.Len(t, s.ByPaymentMethod, 4)
	for _, m := range models.PaymentMethods {
		assertDec(t, "0", s.ByPaymentMethod[m].Income, m)
		assertDec(t, "0", s.ByPaymentMethod[m].Expense, m)
	}
}

func TestAggregateTagsGetFullAmount(t *testing.T) {
	txs := []models.Transaction{{
		Amount: dec("100"),
		Type:   models.Expense,
		Date:   models.NewDate(2024, time.May, 1),
		Tags:   []models.Tag{{Name: "Home"}, {Name: "Bills"}},
	}}
	s := Aggregate(txs)
	assertDec(t, "100", s.ByTag["Home"].Expense)
	assertDec(t, "100", s.ByTag["Bills"].Expense)
	assertDec(t, "100", s.TotalExpense)
}

func TestAggregatePaymentMethodDefaults(t *testing.T) {
	txs := []models.Transaction{
		{Amount: dec("12.50"), Type: models.Expense, Date: models.NewDate(2024, time.May, 1)},
		{Amount: dec("7"), Type: models.Income, Date: models.NewDate(2024, time.May, 2), PaymentMethod: "CRYPTO"},
	}
	s := Aggregate(txs)
	assertDec(t, "12.50", s.ByPaymentMethod[models.Cash].Expense)
	assert.Equal(t, 1, s.ByPaymentMethod[models.Cash].Count)
	assert.Len(t, s.ByPaymentMethod, 4)
	// unknown methods still count toward the totals
	assertDec(t, "7", s.TotalIncome)
}

func TestAggregateNoFloatDrift(t *testing.T) {
	txs := make([]models.Transaction, 0, 1000)
	for i := 0; i < 1000; i++ {
		txs = append(txs, models.Transaction{
			Amount: dec("0.10"),
			Type:   models.Income,
			Date:   models.NewDate(2024, time.June, 1),
		})
	}
	txs = append(txs, models.Transaction{Amount: dec("33.33"), Type: models.Expense, Date: models.NewDate(2024, time.June, 2)})

	s := Aggregate(txs)
	assertDec(t, "100", s.TotalIncome)
	assertDec(t, "66.67", s.Balance)
	assert.True(t, s.TotalIncome.Sub(s.TotalExpense).Equal(s.Balance))
}

func TestMonthsAndExpenseTags(t *testing.T) {
	txs := []models.Transaction{
		{Amount: dec("5"), Type: models.Expense, Date: models.NewDate(2024, time.March, 3), Tags: []models.Tag{{Name: "Travel"}}},
		{Amount: dec("900"), Type: models.Income, Date: models.NewDate(2023, time.December, 24), Tags: []models.Tag{{Name: "Salary"}}},
		{Amount: dec("8"), Type: models.Expense, Date: models.NewDate(2024, time.January, 9), Tags: []models.Tag{{Name: "Food"}, {Name: "Salary"}}},
	}
	s := Aggregate(txs)
	assert.Equal(t, []string{"2023-12", "2024-01", "2024-03"}, s.Months())
	assert.Equal(t, []string{"Food", "Salary", "Travel"}, s.ExpenseTags())

	incomeOnly := Aggregate(txs[1:2])
	assert.Empty(t, incomeOnly.ExpenseTags())
	assert.Equal(t, 1, incomeOnly.ByType[models.Income])
	assert.Equal(t, 0, incomeOnly.ByType[models.Expense])
}
