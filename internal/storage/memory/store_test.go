package memory

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/jbudget-be/internal/models"
	"github.com/hongminglow/jbudget-be/internal/storage"
)

func seedUser(t *testing.T, s *Store, email string) models.User {
	t.Helper()
	u, err := s.CreateUser(context.Background(), models.User{Name: email, Email: email, PasswordHash: "x"})
	require.NoError(t, err)
	return u
}

func TestCreateUserUniqueEmail(t *testing.T) {
	s := New()
	seedUser(t, s, "a@example.com")
	_, err := s.CreateUser(context.Background(), models.User{Email: "a@example.com"})
	assert.ErrorIs(t, err, storage.ErrAlreadyExists)
}

func TestTagsAreScopedToOwner(t *testing.T) {
	ctx := context.Background()
	s := New()
	alice := seedUser(t, s, "alice@example.com")
	bob := seedUser(t, s, "bob@example.com")

	tag, err := s.CreateTag(ctx, models.Tag{UserID: alice.ID, Name: "Food", Color: "#ffffff"})
	require.NoError(t, err)

	_, err = s.CreateTag(ctx, models.Tag{UserID: alice.ID, Name: "Food"})
	assert.ErrorIs(t, err, storage.ErrAlreadyExists)

	// same name is fine for another user
	_, err = s.CreateTag(ctx, models.Tag{UserID: bob.ID, Name: "Food"})
	require.NoError(t, err)

	_, err = s.FindTag(ctx, bob.ID, tag.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	// bob cannot attach alice's tag
	tx, err := s.CreateTransaction(ctx, models.Transaction{
		UserID: bob.ID, Amount: decimal.NewFromInt(5), Type: models.Expense,
		Date: models.NewDate(2024, time.January, 1), Description: "x",
	}, []string{tag.ID})
	require.NoError(t, err)
	assert.Empty(t, tx.Tags)
}

func TestUpdateTransactionTags(t *testing.T) {
	ctx := context.Background()
	s := New()
	u := seedUser(t, s, "u@example.com")
	food, err := s.CreateTag(ctx, models.Tag{UserID: u.ID, Name: "Food"})
	require.NoError(t, err)
	fun, err := s.CreateTag(ctx, models.Tag{UserID: u.ID, Name: "Fun"})
	require.NoError(t, err)

	tx, err := s.CreateTransaction(ctx, models.Transaction{
		UserID: u.ID, Amount: decimal.NewFromInt(5), Type: models.Expense,
		Date: models.NewDate(2024, time.January, 1), Description: "x",
	}, []string{food.ID, fun.ID})
	require.NoError(t, err)
	require.Len(t, tx.Tags, 2)

	tx.Description = "y"
	updated, err := s.UpdateTransaction(ctx, tx, nil)
	require.NoError(t, err)
	assert.Len(t, updated.Tags, 2)
	assert.Equal(t, "y", updated.Description)

	updated, err = s.UpdateTransaction(ctx, tx, []string{})
	require.NoError(t, err)
	assert.Empty(t, updated.Tags)

	updated, err = s.UpdateTransaction(ctx, tx, []string{fun.ID})
	require.NoError(t, err)
	require.Len(t, updated.Tags, 1)

	require.NoError(t, s.DeleteTag(ctx, u.ID, fun.ID))
	got, err := s.FindTransaction(ctx, u.ID, tx.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Tags)
}

func TestDeleteUserCascadesOnlyOwnData(t *testing.T) {
	ctx := context.Background()
	s := New()
	alice := seedUser(t, s, "alice@example.com")
	bob := seedUser(t, s, "bob@example.com")

	for _, u := range []models.User{alice, bob} {
		tag, err := s.CreateTag(ctx, models.Tag{UserID: u.ID, Name: "Food"})
		require.NoError(t, err)
		_, err = s.CreateTransaction(ctx, models.Transaction{
			UserID: u.ID, Amount: decimal.NewFromInt(1), Type: models.Income,
			Date: models.NewDate(2024, time.January, 1), Description: "x",
		}, []string{tag.ID})
		require.NoError(t, err)
	}

	require.NoError(t, s.DeleteUser(ctx, alice.ID))

	_, err := s.FindUserByID(ctx, alice.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	aliceTxs, _ := s.ListTransactions(ctx, alice.ID, storage.TransactionFilter{})
	assert.Empty(t, aliceTxs)
	aliceTags, _ := s.ListTags(ctx, alice.ID)
	assert.Empty(t, aliceTags)

	bobTxs, _ := s.ListTransactions(ctx, bob.ID, storage.TransactionFilter{})
	assert.Len(t, bobTxs, 1)
	assert.Len(t, bobTxs[0].Tags, 1)
	bobTags, _ := s.ListTags(ctx, bob.ID)
	assert.Len(t, bobTags, 1)
}

func TestListTransactionsOrderIsDeterministic(t *testing.T) {
	ctx := context.Background()
	s := New()
	frozen := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return frozen }
	u := seedUser(t, s, "order@example.com")
	for i := 0; i < 10; i++ {
		_, err := s.CreateTransaction(ctx, models.Transaction{
			UserID: u.ID, Amount: decimal.NewFromInt(1), Type: models.Expense,
			Date: models.NewDate(2024, time.March, 1), Description: "same",
		}, nil)
		require.NoError(t, err)
	}

	first, err := s.ListTransactions(ctx, u.ID, storage.TransactionFilter{})
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := s.ListTransactions(ctx, u.ID, storage.TransactionFilter{})
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
	for i := 1; i < len(first); i++ {
		assert.Less(t, first[i-1].ID, first[i].ID)
	}
}
