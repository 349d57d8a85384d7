package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/hongminglow/jbudget-be/internal/models"
	"github.com/hongminglow/jbudget-be/internal/storage"
)

const tagColumns = `id, user_id, name, color, description, created_at, updated_at`

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func (s *Store) ListTags(ctx context.Context, userID string) ([]models.Tag, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+tagColumns+` FROM tags WHERE user_id = ? ORDER BY name ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer rows.Close()
	tags := make([]models.Tag, 0)
	for rows.Next() {
		tag, err := scanTag(rows)
		if err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}

func (s *Store) FindTag(ctx context.Context, userID, id string) (models.Tag, error) {
	return scanTag(s.db.QueryRowContext(ctx, `SELECT `+tagColumns+` FROM tags WHERE id = ? AND user_id = ?`, id, userID))
}

func (s *Store) FindTagByName(ctx context.Context, userID, name string) (models.Tag, error) {
	return scanTag(s.db.QueryRowContext(ctx, `SELECT `+tagColumns+` FROM tags WHERE user_id = ? AND name = ?`, userID, name))
}

func (s *Store) CreateTag(ctx context.Context, tag models.Tag) (models.Tag, error) {
	now := s.stamp()
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO tags (id, user_id, name, color, description, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, tag.UserID, tag.Name, tag.Color, nullString(tag.Description), now, now)
	if err != nil {
		return models.Tag{}, mapError(err)
	}
	return s.FindTag(ctx, tag.UserID, id)
}

func (s *Store) UpdateTag(ctx context.Context, tag models.Tag) (models.Tag, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE tags SET name = ?, color = ?, description = ?, updated_at = ? WHERE id = ? AND user_id = ?`,
		tag.Name, tag.Color, nullString(tag.Description), s.stamp(), tag.ID, tag.UserID)
	if err != nil {
		return models.Tag{}, mapError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.Tag{}, storage.ErrNotFound
	}
	return s.FindTag(ctx, tag.UserID, tag.ID)
}

func (s *Store) DeleteTag(ctx context.Context, userID, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tags WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete tag: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func scanTag(row rowScanner) (models.Tag, error) {
	var (
		tag              models.Tag
		description      sql.NullString
		created, updated string
		err              error
	)
	if err := row.Scan(&tag.ID, &tag.UserID, &tag.Name, &tag.Color, &description, &created, &updated); err != nil {
		return models.Tag{}, mapError(err)
	}
	if description.Valid {
		tag.Description = &description.String
	}
	if tag.CreatedAt, err = parseTime(created); err != nil {
		return models.Tag{}, err
	}
	if tag.UpdatedAt, err = parseTime(updated); err != nil {
		return models.Tag{}, err
	}
	return tag, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
