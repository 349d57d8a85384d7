package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/hongminglow/jbudget-be/internal/models"
	"github.com/hongminglow/jbudget-be/internal/storage"
)

// likeEscaper makes search text match literally; backslash is the default LIKE escape.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

const transactionColumns = `t.id, t.user_id, t.amount::text, t.type, t.date, t.description,
	COALESCE(t.payment_method, 'CASH'), t.recurrence_type, t.created_at, t.updated_at`

// ListTransactions returns the user's transactions matching filter, newest first, with their tags.
func (s *Store) ListTransactions(ctx context.Context, userID string, filter storage.TransactionFilter) ([]models.Transaction, error) {
	var (
		where = []string{"t.user_id = $1"}
		args  = []any{userID}
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if filter.Type != "" {
		where = append(where, "t.type = "+arg(string(filter.Type)))
	}
	if !filter.StartDate.IsZero() {
		where = append(where, "t.date >= "+arg(dateParam(filter.StartDate))+"::date")
	}
	if !filter.EndDate.IsZero() {
		where = append(where, "t.date <= "+arg(dateParam(filter.EndDate))+"::date")
	}
	if filter.Search != "" {
		where = append(where, "t.description ILIKE '%' || "+arg(likeEscaper.Replace(filter.Search))+" || '%'")
	}
	if filter.TagID != "" {
		where = append(where, "EXISTS (SELECT 1 FROM transaction_tags tt WHERE tt.transaction_id = t.id AND tt.tag_id = "+arg(filter.TagID)+")")
	}

	query := `SELECT ` + transactionColumns + ` FROM transactions t WHERE ` +
		strings.Join(where, " AND ") + ` ORDER BY t.date DESC, t.created_at DESC, t.id ASC`
	return s.queryTransactions(ctx, s.pool, query, args...)
}

// FindTransaction fetches one of the user's transactions with its tags.
func (s *Store) FindTransaction(ctx context.Context, userID, id string) (models.Transaction, error) {
	return s.findTransaction(ctx, s.pool, userID, id)
}

// CreateTransaction inserts the row and its tag links in one transaction.
func (s *Store) CreateTransaction(ctx context.Context, in models.Transaction, tagIDs []string) (models.Transaction, error) {
	var out models.Transaction
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		id := uuid.NewString()
		const query = `
			INSERT INTO transactions (id, user_id, amount, type, date, description, payment_method, recurrence_type)
			VALUES ($1, $2, $3::numeric, $4, $5::date, $6, $7, $8)`
		if _, err := tx.Exec(ctx, query, id, in.UserID, in.Amount.String(), string(in.Type),
			dateParam(in.Date), in.Description, string(in.PaymentMethod), string(in.RecurrenceType)); err != nil {
			return fmt.Errorf("insert transaction: %w", err)
		}
		if err := setTags(ctx, tx, id, in.UserID, tagIDs); err != nil {
			return err
		}
		var err error
		out, err = s.findTransaction(ctx, tx, in.UserID, id)
		return err
	})
	return out, err
}

// UpdateTransaction overwrites the row; tag links are replaced only when tagIDs is non-nil.
func (s *Store) UpdateTransaction(ctx context.Context, in models.Transaction, tagIDs []string) (models.Transaction, error) {
	var out models.Transaction
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		const query = `
			UPDATE transactions
			SET amount = $3::numeric, type = $4, date = $5::date, description = $6,
				payment_method = $7, recurrence_type = $8, updated_at = NOW()
			WHERE id = $1 AND user_id = $2`
		tag, err := tx.Exec(ctx, query, in.ID, in.UserID, in.Amount.String(), string(in.Type),
			dateParam(in.Date), in.Description, string(in.PaymentMethod), string(in.RecurrenceType))
		if err != nil {
			return fmt.Errorf("update transaction: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return storage.ErrNotFound
		}
		if tagIDs != nil {
			if err := setTags(ctx, tx, in.ID, in.UserID, tagIDs); err != nil {
				return err
			}
		}
		out, err = s.findTransaction(ctx, tx, in.UserID, in.ID)
		return err
	})
	return out, err
}

func (s *Store) DeleteTransaction(ctx context.Context, userID, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM transactions WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// querier is satisfied by both the pool and an open pgx transaction.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func (s *Store) findTransaction(ctx context.Context, q querier, userID, id string) (models.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions t WHERE t.id = $1 AND t.user_id = $2`
	txs, err := s.queryTransactions(ctx, q, query, id, userID)
	if err != nil {
		return models.Transaction{}, err
	}
	if len(txs) == 0 {
		return models.Transaction{}, storage.ErrNotFound
	}
	return txs[0], nil
}

func (s *Store) queryTransactions(ctx context.Context, q querier, query string, args ...any) ([]models.Transaction, error) {
	rows, err := q.Query(ctx, query, args...)
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
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	if err := loadTags(ctx, q, txs); err != nil {
		return nil, err
	}
	return txs, nil
}

// loadTags fills in the tags of every transaction with one query.
func loadTags(ctx context.Context, q querier, txs []models.Transaction) error {
	if len(txs) == 0 {
		return nil
	}
	index := make(map[string]int, len(txs))
	ids := make([]string, 0, len(txs))
	for i := range txs {
		txs[i].Tags = make([]models.Tag, 0)
		index[txs[i].ID] = i
		ids = append(ids, txs[i].ID)
	}

	const query = `
		SELECT tt.transaction_id, g.id, g.user_id, g.name, g.color, g.description, g.created_at, g.updated_at
		FROM transaction_tags tt
		JOIN tags g ON g.id = tt.tag_id
		WHERE tt.transaction_id = ANY($1::text[])
		ORDER BY g.name ASC`
	rows, err := q.Query(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("load tags: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			txID string
			tag  models.Tag
		)
		if err := rows.Scan(&txID, &tag.ID, &tag.UserID, &tag.Name, &tag.Color, &tag.Description, &tag.CreatedAt, &tag.UpdatedAt); err != nil {
			return fmt.Errorf("scan tag: %w", err)
		}
		if i, ok := index[txID]; ok {
			txs[i].Tags = append(txs[i].Tags, tag)
		}
	}
	return rows.Err()
}

// setTags replaces the transaction's tag links with the listed tags the user owns.
func setTags(ctx context.Context, tx pgx.Tx, transactionID, userID string, tagIDs []string) error {
	if _, err := tx.Exec(ctx, `DELETE FROM transaction_tags WHERE transaction_id = $1`, transactionID); err != nil {
		return fmt.Errorf("clear tags: %w", err)
	}
	if len(tagIDs) == 0 {
		return nil
	}
	const query = `
		INSERT INTO transaction_tags (transaction_id, tag_id)
		SELECT $1, id FROM tags WHERE user_id = $2 AND id = ANY($3::text[])
		ON CONFLICT DO NOTHING`
	if _, err := tx.Exec(ctx, query, transactionID, userID, tagIDs); err != nil {
		return fmt.Errorf("attach tags: %w", err)
	}
	return nil
}

func scanTransaction(row pgx.Row) (models.Transaction, error) {
	var (
		tx         models.Transaction
		amount     string
		date       time.Time
		kind       string
		method     string
		recurrence string
	)
	if err := row.Scan(&tx.ID, &tx.UserID, &amount, &kind, &date, &tx.Description,
		&method, &recurrence, &tx.CreatedAt, &tx.UpdatedAt); err != nil {
		return models.Transaction{}, mapError(err)
	}
	parsed, err := decimal.NewFromString(amount)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("parse amount %q: %w", amount, err)
	}
	tx.Amount = parsed
	tx.Date = dateFrom(date)
	tx.Type = models.TransactionType(kind)
	tx.PaymentMethod = models.PaymentMethod(method)
	tx.RecurrenceType = models.RecurrenceType(recurrence)
	return tx, nil
}
