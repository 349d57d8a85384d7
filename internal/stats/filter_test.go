package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/hongminglow/jbudget-be/internal/models"
)

func txOn(id string, y int, m time.Month, d int) models.Transaction {
	return models.Transaction{ID: id, Date: models.NewDate(y, m, d)}
}

func ids(txs []models.Transaction) []string {
	out := make([]string, 0, len(txs))
	for _, t := range txs {
		out = append(out, t.ID)
	}
	return out
}

func TestFilter(t *testing.T) {
	txs := []models.Transaction{
		txOn("d", 2024, time.April, 1),
		txOn("a", 2024, time.January, 1),
		txOn("c", 2024, time.March, 31),
		txOn("b", 2024, time.February, 15),
	}

	r := Range{Start: models.NewDate(2024, time.February, 1), End: models.NewDate(2024, time.March, 31)}
	got := Filter(txs, r)
	assert.Equal(t, []string{"c", "b"}, ids(got))

	startOnly := Range{Start: models.NewDate(2024, time.March, 31)}
	assert.Equal(t, []string{"d", "c"}, ids(Filter(txs, startOnly)))

	endOnly := Range{End: models.NewDate(2024, time.January, 1)}
	assert.Equal(t, []string{"a"}, ids(Filter(txs, endOnly)))

	assert.Equal(t, ids(txs), ids(Filter(txs, Range{})))
}

func TestFilterIdempotent(t *testing.T) {
	txs := []models.Transaction{
		txOn("a", 2024, time.January, 5),
		txOn("b", 2024, time.January, 20),
		txOn("c", 2024, time.February, 2),
	}
	r := Range{Start: models.NewDate(2024, time.January, 10)}
	once := Filter(txs, r)
	twice := Filter(once, r)
	assert.Equal(t, ids(once), ids(twice))
}
