// Package memory keeps every record in process memory. It backs the test
// suite and the "memory" data backend.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hongminglow/jbudget-be/internal/models"
	"github.com/hongminglow/jbudget-be/internal/storage"
)

var _ storage.Store = (*Store)(nil)

type txRecord struct {
	tx     models.Transaction
	tagIDs []string
}

// Store is a mutex-guarded in-memory storage.Store.
type Store struct {
	mu    sync.RWMutex
	users map[string]models.User
	tags  map[string]models.Tag
	txs   map[string]txRecord
	now   func() time.Time
}

func New() *Store {
	return &Store{
		users: make(map[string]models.User),
		tags:  make(map[string]models.Tag),
		txs:   make(map[string]txRecord),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (s *Store) Close() error { return nil }

// CreateUser inserts a new user; emails are unique.
func (s *Store) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == user.Email {
			return models.User{}, storage.ErrAlreadyExists
		}
	}
	now := s.now()
	user.ID = uuid.NewString()
	user.CreatedAt, user.UpdatedAt = now, now
	s.users[user.ID] = user
	return user, nil
}

func (s *Store) FindUserByID(ctx context.Context, id string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return models.User{}, storage.ErrNotFound
	}
	return u, nil
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return models.User{}, storage.ErrNotFound
}

func (s *Store) UpdateUser(ctx context.Context, user models.User) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.users[user.ID]
	if !ok {
		return models.User{}, storage.ErrNotFound
	}
	for _, u := range s.users {
		if u.ID != user.ID && u.Email == user.Email {
			return models.User{}, storage.ErrAlreadyExists
		}
	}
	user.CreatedAt = current.CreatedAt
	user.UpdatedAt = s.now()
	s.users[user.ID] = user
	return user, nil
}

func (s *Store) DeleteUser(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return storage.ErrNotFound
	}
	for txID, rec := range s.txs {
		if rec.tx.UserID == id {
			delete(s.txs, txID)
		}
	}
	for tagID, tag := range s.tags {
		if tag.UserID == id {
			delete(s.tags, tagID)
		}
	}
	delete(s.users, id)
	return nil
}

func (s *Store) ListUserIDs(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.users))
	for id := range s.users {
		ids = append(ids, id)
	}
	return ids, nil
}

func (s *Store) ListTags(ctx context.Context, userID string) ([]models.Tag, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Tag, 0)
	for _, tag := range s.tags {
		if tag.UserID == userID {
			out = append(out, tag)
		}
	}
	storage.SortTags(out)
	return out, nil
}

func (s *Store) FindTag(ctx context.Context, userID, id string) (models.Tag, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tag, ok := s.tags[id]
	if !ok || tag.UserID != userID {
		return models.Tag{}, storage.ErrNotFound
	}
	return tag, nil
}

func (s *Store) FindTagByName(ctx context.Context, userID, name string) (models.Tag, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, tag := range s.tags {
		if tag.UserID == userID && tag.Name == name {
			return tag, nil
		}
	}
	return models.Tag{}, storage.ErrNotFound
}

func (s *Store) CreateTag(ctx context.Context, tag models.Tag) (models.Tag, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.nameTaken(tag.UserID, tag.Name, "") {
		return models.Tag{}, storage.ErrAlreadyExists
	}
	now := s.now()
	tag.ID = uuid.NewString()
	tag.CreatedAt, tag.UpdatedAt = now, now
	s.tags[tag.ID] = tag
	return tag, nil
}

func (s *Store) UpdateTag(ctx context.Context, tag models.Tag) (models.Tag, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.tags[tag.ID]
	if !ok || current.UserID != tag.UserID {
		return models.Tag{}, storage.ErrNotFound
	}
	if s.nameTaken(tag.UserID, tag.Name, tag.ID) {
		return models.Tag{}, storage.ErrAlreadyExists
	}
	tag.CreatedAt = current.CreatedAt
	tag.UpdatedAt = s.now()
	s.tags[tag.ID] = tag
	return tag, nil
}

func (s *Store) DeleteTag(ctx context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	tag, ok := s.tags[id]
	if !ok || tag.UserID != userID {
		return storage.ErrNotFound
	}
	delete(s.tags, id)
	for txID, rec := range s.txs {
		rec.tagIDs = without(rec.tagIDs, id)
		s.txs[txID] = rec
	}
	return nil
}

func (s *Store) ListTransactions(ctx context.Context, userID string, filter storage.TransactionFilter) ([]models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Transaction, 0)
	for _, rec := range s.txs {
		if rec.tx.UserID != userID {
			continue
		}
		tx := s.hydrate(rec)
		if filter.Matches(tx) {
			out = append(out, tx)
		}
	}
	storage.SortTransactions(out)
	return out, nil
}

func (s *Store) FindTransaction(ctx context.Context, userID, id string) (models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.txs[id]
	if !ok || rec.tx.UserID != userID {
		return models.Transaction{}, storage.ErrNotFound
	}
	return s.hydrate(rec), nil
}

func (s *Store) CreateTransaction(ctx context.Context, tx models.Transaction, tagIDs []string) (models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	tx.ID = uuid.NewString()
	tx.CreatedAt, tx.UpdatedAt = now, now
	tx.Tags = nil
	rec := txRecord{tx: tx, tagIDs: s.ownedTagIDs(tx.UserID, tagIDs)}
	s.txs[tx.ID] = rec
	return s.hydrate(rec), nil
}

func (s *Store) UpdateTransaction(ctx context.Context, tx models.Transaction, tagIDs []string) (models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.txs[tx.ID]
	if !ok || current.tx.UserID != tx.UserID {
		return models.Transaction{}, storage.ErrNotFound
	}
	tx.CreatedAt = current.tx.CreatedAt
	tx.UpdatedAt = s.now()
	tx.Tags = nil
	rec := txRecord{tx: tx, tagIDs: current.tagIDs}
	if tagIDs != nil {
		rec.tagIDs = s.ownedTagIDs(tx.UserID, tagIDs)
	}
	s.txs[tx.ID] = rec
	return s.hydrate(rec), nil
}

func (s *Store) DeleteTransaction(ctx context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.txs[id]
	if !ok || rec.tx.UserID != userID {
		return storage.ErrNotFound
	}
	delete(s.txs, id)
	return nil
}

// hydrate attaches the current tag records; callers hold the lock.
func (s *Store) hydrate(rec txRecord) models.Transaction {
	tx := rec.tx
	tx.Tags = make([]models.Tag, 0, len(rec.tagIDs))
	for _, id := range rec.tagIDs {
		if tag, ok := s.tags[id]; ok {
			tx.Tags = append(tx.Tags, tag)
		}
	}
	storage.SortTags(tx.Tags)
	return tx
}

func (s *Store) ownedTagIDs(userID string, ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		tag, ok := s.tags[id]
		if !ok || tag.UserID != userID || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func (s *Store) nameTaken(userID, name, exceptID string) bool {
	for _, tag := range s.tags {
		if tag.UserID == userID && tag.ID != exceptID && tag.Name == name {
			return true
		}
	}
	return false
}

func without(ids []string, drop string) []string {
	out := ids[:0:0]
	for _, id := range ids {
		if id != drop {
			out = append(out, id)
		}
	}
	return out
}
