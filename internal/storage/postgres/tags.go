package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/hongminglow/jbudget-be/internal/models"
	"github.com/hongminglow/jbudget-be/internal/storage"
)

const tagColumns = `id, user_id, name, color, description, created_at, updated_at`

// ListTags returns the user's tags ordered by name.
func (s *Store) ListTags(ctx context.Context, userID string) ([]models.Tag, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+tagColumns+` FROM tags WHERE user_id = $1 ORDER BY name ASC`, userID)
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
	row := s.pool.QueryRow(ctx, `SELECT `+tagColumns+` FROM tags WHERE id = $1 AND user_id = $2`, id, userID)
	return scanTag(row)
}

func (s *Store) FindTagByName(ctx context.Context, userID, name string) (models.Tag, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+tagColumns+` FROM tags WHERE user_id = $1 AND name = $2`, userID, name)
	return scanTag(row)
}

func (s *Store) CreateTag(ctx context.Context, tag models.Tag) (models.Tag, error) {
	const query = `
		INSERT INTO tags (id, user_id, name, color, description)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + tagColumns
	row := s.pool.QueryRow(ctx, query, uuid.NewString(), tag.UserID, tag.Name, tag.Color, tag.Description)
	return scanTag(row)
}

func (s *Store) UpdateTag(ctx context.Context, tag models.Tag) (models.Tag, error) {
	const query = `
		UPDATE tags SET name = $3, color = $4, description = $5, updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING ` + tagColumns
	row := s.pool.QueryRow(ctx, query, tag.ID, tag.UserID, tag.Name, tag.Color, tag.Description)
	return scanTag(row)
}

// DeleteTag removes the tag; its transaction links go with it through the foreign key.
func (s *Store) DeleteTag(ctx context.Context, userID, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM tags WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete tag: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func scanTag(row pgx.Row) (models.Tag, error) {
	var tag models.Tag
	if err := row.Scan(&tag.ID, &tag.UserID, &tag.Name, &tag.Color, &tag.Description, &tag.CreatedAt, &tag.UpdatedAt); err != nil {
		return models.Tag{}, mapError(err)
	}
	return tag, nil
}
