package stats

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/hongminglow/jbudget-be/internal/models"
)

// ViewMode selects which side of the payment method breakdown is displayed.
type ViewMode string

const (
	ViewIncome  ViewMode = "income"
	ViewExpense ViewMode = "expense"
	ViewBoth    ViewMode = "both"
)

func ParseViewMode(s string) (ViewMode, error) {
	switch m := ViewMode(strings.ToLower(strings.TrimSpace(s))); m {
	case ViewIncome, ViewExpense, ViewBoth:
		return m, nil
	default:
		return "", fmt.Errorf("unknown payment view %q", s)
	}
}

// PaymentRow is one displayed payment method. Figures that the mode hides are nil.
type PaymentRow struct {
	Method  models.PaymentMethod
	Income  *decimal.Decimal
	Expense *decimal.Decimal
	Net     *decimal.Decimal
}

// PaymentView filters the payment method breakdown for display, in the fixed
// method order. In income or expense mode a method without a figure on that
// side is hidden; in both mode a method is hidden only when both sides are zero.
func PaymentView(by map[models.PaymentMethod]MethodTotals, mode ViewMode) []PaymentRow {
	rows := make([]PaymentRow, 0, len(models.PaymentMethods))
	for _, m := range models.PaymentMethods {
		totals := by[m]
		income, expense := totals.Income, totals.Expense
		switch mode {
		case ViewIncome:
			if income.IsZero() {
				continue
			}
			rows = append(rows, PaymentRow{Method: m, Income: &income})
		case ViewExpense:
			if expense.IsZero() {
				continue
			}
			rows = append(rows, PaymentRow{Method: m, Expense: &expense})
		default:
			if income.IsZero() && expense.IsZero() {
				continue
			}
			net := totals.Net()
			rows = append(rows, PaymentRow{Method: m, Income: &income, Expense: &expense, Net: &net})
		}
	}
	return rows
}
