package stats

import "github.com/hongminglow/jbudget-be/internal/models"

// Filter returns the transactions dated inside r, keeping their relative order.
func Filter(txs []models.Transaction, r Range) []models.Transaction {
	if r.Unbounded() {
		return txs
	}
	out := make([]models.Transaction, 0, len(txs))
	for _, t := range txs {
		if r.Contains(t.Date) {
			out = append(out, t)
		}
	}
	return out
}
