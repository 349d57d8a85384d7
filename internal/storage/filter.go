package storage

import (
	"sort"
	"strings"

	"github.com/hongminglow/jbudget-be/internal/models"
)

// Matches applies the filter to a single transaction. Backends that cannot
// express a filter in their query language use it in memory.
func (f TransactionFilter) Matches(t models.Transaction) bool {
	if f.Type != "" && t.Type != f.Type {
		return false
	}
	if !f.StartDate.IsZero() && t.Date.Before(f.StartDate) {
		return false
	}
	if !f.EndDate.IsZero() && t.Date.After(f.EndDate) {
		return false
	}
	if f.Search != "" && !strings.Contains(strings.ToLower(t.Description), strings.ToLower(f.Search)) {
		return false
	}
	if f.TagID != "" {
		found := false
		for _, tag := range t.Tags {
			if tag.ID == f.TagID {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// SortTransactions orders newest first: by date, then by creation time, then by id.
func SortTransactions(txs []models.Transaction) {
	sort.Slice(txs, func(i, j int) bool {
		if !txs[i].Date.Equal(txs[j].Date) {
			return txs[i].Date.After(txs[j].Date)
		}
		if !txs[i].CreatedAt.Equal(txs[j].CreatedAt) {
			return txs[i].CreatedAt.After(txs[j].CreatedAt)
		}
		return txs[i].ID < txs[j].ID
	})
}

// SortTags orders tags by name.
func SortTags(tags []models.Tag) {
	sort.SliceStable(tags, func(i, j int) bool { return tags[i].Name < tags[j].Name })
}
