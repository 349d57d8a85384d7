// Package sqlite is the single-file storage backend, built on the pure Go
// modernc.org/sqlite driver with golang-migrate managing the schema.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hongminglow/jbudget-be/internal/models"
	"github.com/hongminglow/jbudget-be/internal/storage"

	_ "modernc.org/sqlite"
)

var _ storage.Store = (*Store)(nil)

// fixed width so that text ordering matches time ordering
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store is a storage.Store on top of a SQLite database file.
type Store struct {
	db  *sql.DB
	dsn string
	now func() time.Time
}

// NewStore opens (creating if needed) the database at path and migrates it.
func NewStore(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}
	dsn := "file:" + path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"

	if err := RunMigrations(dsn); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// one connection keeps writes serialized and the pragmas in force
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Store{db: db, dsn: dsn, now: func() time.Time { return time.Now().UTC() }}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Reset rolls every migration back and applies them again.
func (s *Store) Reset(ctx context.Context) error {
	return ResetMigrations(s.dsn)
}

// queryer is satisfied by *sql.DB and *sql.Tx.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *Store) inTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()
	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) stamp() string {
	return s.now().Format(timeLayout)
}

func mapError(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return storage.ErrNotFound
	}
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return storage.ErrAlreadyExists
	}
	return err
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t, nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func stringArgs(values []string) []any {
	args := make([]any, len(values))
	for i, v := range values {
		args[i] = v
	}
	return args
}

const userColumns = `id, name, email, password_hash, created_at, updated_at`

func (s *Store) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	now := s.stamp()
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, name, email, password_hash, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		id, user.Name, user.Email, user.PasswordHash, now, now)
	if err != nil {
		return models.User{}, mapError(err)
	}
	return s.FindUserByID(ctx, id)
}

func (s *Store) FindUserByID(ctx context.Context, id string) (models.User, error) {
	return scanUser(s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id))
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (models.User, error) {
	return scanUser(s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email))
}

func (s *Store) UpdateUser(ctx context.Context, user models.User) (models.User, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET name = ?, email = ?, password_hash = ?, updated_at = ? WHERE id = ?`,
		user.Name, user.Email, user.PasswordHash, s.stamp(), user.ID)
	if err != nil {
		return models.User{}, mapError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.User{}, storage.ErrNotFound
	}
	return s.FindUserByID(ctx, user.ID)
}

// DeleteUser removes the user's transactions, tags and the user in one transaction.
func (s *Store) DeleteUser(ctx context.Context, id string) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM transactions WHERE user_id = ?`, id); err != nil {
			return fmt.Errorf("delete transactions: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM tags WHERE user_id = ?`, id); err != nil {
			return fmt.Errorf("delete tags: %w", err)
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("delete user: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return storage.ErrNotFound
		}
		return nil
	})
}

func (s *Store) ListUserIDs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM users ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()
	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func scanUser(row *sql.Row) (models.User, error) {
	var (
		user             models.User
		created, updated string
		err              error
	)
	if err := row.Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &created, &updated); err != nil {
		return models.User{}, mapError(err)
	}
	if user.CreatedAt, err = parseTime(created); err != nil {
		return models.User{}, err
	}
	if user.UpdatedAt, err = parseTime(updated); err != nil {
		return models.User{}, err
	}
	return user, nil
}
