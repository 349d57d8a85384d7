package storage

import (
	"context"
	"errors"

	"github.com/hongminglow/jbudget-be/internal/models"
)

// ErrNotFound indicates a record does not exist or belongs to another user.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists indicates a uniqueness conflict.
var ErrAlreadyExists = errors.New("record already exists")

// UserStore captures user persistence.
type UserStore interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	FindUserByID(ctx context.Context, id string) (models.User, error)
	FindUserByEmail(ctx context.Context, email string) (models.User, error)
	UpdateUser(ctx context.Context, user models.User) (models.User, error)
	// DeleteUser removes the user together with every transaction and tag they own.
	DeleteUser(ctx context.Context, id string) error
	ListUserIDs(ctx context.Context) ([]string, error)
}

// TagStore captures tag persistence. Every lookup is scoped to the owning user.
type TagStore interface {
	ListTags(ctx context.Context, userID string) ([]models.Tag, error)
	FindTag(ctx context.Context, userID, id string) (models.Tag, error)
	FindTagByName(ctx context.Context, userID, name string) (models.Tag, error)
	CreateTag(ctx context.Context, tag models.Tag) (models.Tag, error)
	UpdateTag(ctx context.Context, tag models.Tag) (models.Tag, error)
	DeleteTag(ctx context.Context, userID, id string) error
}

// TransactionStore captures transaction persistence. Every lookup is scoped to the owning user.
type TransactionStore interface {
	ListTransactions(ctx context.Context, userID string, filter TransactionFilter) ([]models.Transaction, error)
	FindTransaction(ctx context.Context, userID, id string) (models.Transaction, error)
	// CreateTransaction inserts tx and attaches the listed tags that belong to the same user.
	CreateTransaction(ctx context.Context, tx models.Transaction, tagIDs []string) (models.Transaction, error)
	// UpdateTransaction overwrites tx. A nil tagIDs keeps the current tags; an empty one clears them.
	UpdateTransaction(ctx context.Context, tx models.Transaction, tagIDs []string) (models.Transaction, error)
	DeleteTransaction(ctx context.Context, userID, id string) error
}

// Store is everything the HTTP layer needs from a backend.
type Store interface {
	UserStore
	TagStore
	TransactionStore
	Close() error
}

// Resetter is implemented by backends that can drop and recreate their schema.
type Resetter interface {
	Reset(ctx context.Context) error
}

// TransactionFilter narrows a transaction listing. Zero fields do not filter.
type TransactionFilter struct {
	Type      models.TransactionType
	StartDate models.Date
	EndDate   models.Date
	TagID     string
	Search    string
}
