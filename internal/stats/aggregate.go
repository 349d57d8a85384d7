package stats

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/hongminglow/jbudget-be/internal/models"
)

// Flow holds the money that came in and went out for one bucket.
type Flow struct {
	Income  decimal.Decimal
	Expense decimal.Decimal
}

func (f *Flow) add(t models.TransactionType, amount decimal.Decimal) {
	if t == models.Income {
		f.Income = f.Income.Add(amount)
		return
	}
	f.Expense = f.Expense.Add(amount)
}

// Net is income minus expense.
func (f Flow) Net() decimal.Decimal {
	return f.Income.Sub(f.Expense)
}

type TagTotals struct {
	Flow
	Color string
	Count int
}

type MethodTotals struct {
	Flow
	Count int
}

// Stats is the summary of a set of transactions.
type Stats struct {
	TotalIncome      decimal.Decimal
	TotalExpense     decimal.Decimal
	Balance          decimal.Decimal
	TransactionCount int
	ByType           map[models.TransactionType]int
	ByTag            map[string]TagTotals
	ByMonth          map[string]Flow
	ByPaymentMethod  map[models.PaymentMethod]MethodTotals
}

func newStats() Stats {
	s := Stats{
		ByType: map[models.TransactionType]int{
			models.Income:  0,
			models.Expense: 0,
		},
		ByTag:           make(map[string]TagTotals),
		ByMonth:         make(map[string]Flow),
		ByPaymentMethod: make(map[models.PaymentMethod]MethodTotals, len(models.PaymentMethods)),
	}
	for _, m := range models.PaymentMethods {
		s.ByPaymentMethod[m] = MethodTotals{}
	}
	return s
}

// Aggregate summarizes txs in a single pass. Anything that is not INCOME counts
// as an expense. A transaction contributes its full amount to every tag it
// carries. A missing payment method counts as CASH and an unknown one is left
// out of the payment method breakdown.
func Aggregate(txs []models.Transaction) Stats {
	s := newStats()
	for _, t := range txs {
		kind := t.Type
		if kind != models.Income {
			kind = models.Expense
		}
		s.TransactionCount++
		s.ByType[kind]++
		if kind == models.Income {
			s.TotalIncome = s.TotalIncome.Add(t.Amount)
		} else {
			s.TotalExpense = s.TotalExpense.Add(t.Amount)
		}

		for _, tag := range t.Tags {
			bucket, ok := s.ByTag[tag.Name]
			if !ok {
				bucket.Color = tag.Color
			}
			bucket.Count++
			bucket.add(kind, t.Amount)
			s.ByTag[tag.Name] = bucket
		}

		if !t.Date.IsZero() {
			month := s.ByMonth[t.Date.MonthKey()]
			month.add(kind, t.Amount)
			s.ByMonth[t.Date.MonthKey()] = month
		}

		method := t.PaymentMethod
		if method == "" {
			method = models.Cash
		}
		if bucket, ok := s.ByPaymentMethod[method]; ok {
			bucket.Count++
			bucket.add(kind, t.Amount)
			s.ByPaymentMethod[method] = bucket
		}
	}
	s.Balance = s.TotalIncome.Sub(s.TotalExpense)
	return s
}

// Months returns the month keys in ascending order.
func (s Stats) Months() []string {
	keys := make([]string, 0, len(s.ByMonth))
	for k := range s.ByMonth {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ExpenseTags returns, sorted by name, the tags with a positive expense total.
func (s Stats) ExpenseTags() []string {
	names := make([]string, 0, len(s.ByTag))
	for name, totals := range s.ByTag {
		if totals.Expense.IsPositive() {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
