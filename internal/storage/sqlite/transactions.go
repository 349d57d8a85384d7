package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/hongminglow/jbudget-be/internal/models"
	"github.com/hongminglow/jbudget-be/internal/storage"
)

const transactionColumns = `t.id, t.user_id, t.amount, t.type, t.date, t.description,
	COALESCE(t.payment_method, 'CASH'), t.recurrence_type, t.created_at, t.updated_at`

func (s *Store) ListTransactions(ctx context.Context, userID string, filter storage.TransactionFilter) ([]models.Transaction, error) {
	where := []string{"t.user_id = ?"}
	args := []any{userID}
	if filter.Type != "" {
		where = append(where, "t.type = ?")
		args = append(args, string(filter.Type))
	}
	if !filter.StartDate.IsZero() {
		where = append(where, "t.date >= ?")
		args = append(args, filter.StartDate.String())
	}
	if !filter.EndDate.IsZero() {
		where = append(where, "t.date <= ?")
		args = append(args, filter.EndDate.String())
	}
	if filter.TagID != "" {
		where = append(where, "EXISTS (SELECT 1 FROM transaction_tags tt WHERE tt.transaction_id = t.id AND tt.tag_id = ?)")
		args = append(args, filter.TagID)
	}
	query := `SELECT ` + transactionColumns + ` FROM transactions t WHERE ` +
		strings.Join(where, " AND ") + ` ORDER BY t.date DESC, t.created_at DESC, t.id ASC`
	txs, err := queryTransactions(ctx, s.db, query, args...)
	if err != nil || filter.Search == "" {
		return txs, err
	}
	// SQLite's LOWER and LIKE only fold ASCII, so search runs in Go.
	search := storage.TransactionFilter{Search: filter.Search}
	matched := txs[:0]
	for _, tx := range txs {
		if search.Matches(tx) {
			matched = append(matched, tx)
		}
	}
	return matched, nil
}

func (s *Store) FindTransaction(ctx context.Context, userID, id string) (models.Transaction, error) {
	return findTransaction(ctx, s.db, userID, id)
}

func (s *Store) CreateTransaction(ctx context.Context, in models.Transaction, tagIDs []string) (models.Transaction, error) {
	var out models.Transaction
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		id := uuid.NewString()
		now := s.stamp()
		_, err := tx.ExecContext(ctx, `
			INSERT INTO transactions (id, user_id, amount, type, date, description, payment_method, recurrence_type, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			id, in.UserID, in.Amount.String(), string(in.Type), in.Date.String(), in.Description,
			string(in.PaymentMethod), string(in.RecurrenceType), now, now)
		if err != nil {
			return fmt.Errorf("insert transaction: %w", err)
		}
		if err := setTags(ctx, tx, id, in.UserID, tagIDs); err != nil {
			return err
		}
		out, err = findTransaction(ctx, tx, in.UserID, id)
		return err
	})
	return out, err
}

func (s *Store) UpdateTransaction(ctx context.Context, in models.Transaction, tagIDs []string) (models.Transaction, error) {
	var out models.Transaction
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE transactions
			SET amount = ?, type = ?, date = ?, description = ?, payment_method = ?, recurrence_type = ?, updated_at = ?
			WHERE id = ? AND user_id = ?`,
			in.Amount.String(), string(in.Type), in.Date.String(), in.Description,
			string(in.PaymentMethod), string(in.RecurrenceType), s.stamp(), in.ID, in.UserID)
		if err != nil {
			return fmt.Errorf("update transaction: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return storage.ErrNotFound
		}
		if tagIDs != nil {
			if err := setTags(ctx, tx, in.ID, in.UserID, tagIDs); err != nil {
				return err
			}
		}
		out, err = findTransaction(ctx, tx, in.UserID, in.ID)
		return err
	})
	return out, err
}

func (s *Store) DeleteTransaction(ctx context.Context, userID, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func findTransaction(ctx context.Context, q queryer, userID, id string) (models.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions t WHERE t.id = ? AND t.user_id = ?`
	txs, err := queryTransactions(ctx, q, query, id, userID)
	if err != nil {
		return models.Transaction{}, err
	}
	if len(txs) == 0 {
		return models.Transaction{}, storage.ErrNotFound
	}
	return txs[0], nil
}

func queryTransactions(ctx context.Context, q queryer, query string, args ...any) ([]models.Transaction, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	txs := make([]models.Transaction, 0)
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	rows.Close()
	if err := loadTags(ctx, q, txs); err != nil {
		return nil, err
	}
	return txs, nil
}

// tagBatchSize keeps each tag lookup well below SQLite's bound variable limit.
var tagBatchSize = 500

// loadTags fills in the tags of every transaction, querying in batches.
func loadTags(ctx context.Context, q queryer, txs []models.Transaction) error {
	index := make(map[string]int, len(txs))
	ids := make([]string, 0, len(txs))
	for i := range txs {
		txs[i].Tags = make([]models.Tag, 0)
		index[txs[i].ID] = i
		ids = append(ids, txs[i].ID)
	}
	for start := 0; start < len(ids); start += tagBatchSize {
		end := min(start+tagBatchSize, len(ids))
		if err := loadTagBatch(ctx, q, ids[start:end], txs, index); err != nil {
			return err
		}
	}
	return nil
}

func loadTagBatch(ctx context.Context, q queryer, ids []string, txs []models.Transaction, index map[string]int) error {
	query := `
		SELECT tt.transaction_id, g.id, g.user_id, g.name, g.color, g.description, g.created_at, g.updated_at
		FROM transaction_tags tt
		JOIN tags g ON g.id = tt.tag_id
		WHERE tt.transaction_id IN (` + placeholders(len(ids)) + `)
		ORDER BY g.name ASC`
	rows, err := q.QueryContext(ctx, query, stringArgs(ids)...)
	if err != nil {
		return fmt.Errorf("load tags: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var txID string
		tag, err := scanTag(prefixed{rows: rows, first: &txID})
		if err != nil {
			return fmt.Errorf("scan tag: %w", err)
		}
		if i, ok := index[txID]; ok {
			txs[i].Tags = append(txs[i].Tags, tag)
		}
	}
	return rows.Err()
}

// prefixed scans one leading column into first and hands the rest to the wrapped scan.
type prefixed struct {
	rows  *sql.Rows
	first any
}

func (p prefixed) Scan(dest ...any) error {
	return p.rows.Scan(append([]any{p.first}, dest...)...)
}

func setTags(ctx context.Context, tx *sql.Tx, transactionID, userID string, tagIDs []string) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM transaction_tags WHERE transaction_id = ?`, transactionID); err != nil {
		return fmt.Errorf("clear tags: %w", err)
	}
	if len(tagIDs) == 0 {
		return nil
	}
	query := `
		INSERT OR IGNORE INTO transaction_tags (transaction_id, tag_id)
		SELECT ?, id FROM tags WHERE user_id = ? AND id IN (` + placeholders(len(tagIDs)) + `)`
	args := append([]any{transactionID, userID}, stringArgs(tagIDs)...)
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("attach tags: %w", err)
	}
	return nil
}

func scanTransaction(row rowScanner) (models.Transaction, error) {
	var (
		tx                       models.Transaction
		kind, method, recurrence string
		created, updated         string
		err                      error
	)
	if err := row.Scan(&tx.ID, &tx.UserID, &tx.Amount, &kind, &tx.Date, &tx.Description,
		&method, &recurrence, &created, &updated); err != nil {
		return models.Transaction{}, mapError(err)
	}
	tx.Type = models.TransactionType(kind)
	tx.PaymentMethod = models.PaymentMethod(method)
	tx.RecurrenceType = models.RecurrenceType(recurrence)
	if tx.CreatedAt, err = parseTime(created); err != nil {
		return models.Transaction{}, err
	}
	if tx.UpdatedAt, err = parseTime(updated); err != nil {
		return models.Transaction{}, err
	}
	return tx, nil
}
