// Command initdb prepares the configured database: it applies the schema and can
// optionally wipe existing data and load a demo account.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/hongminglow/jbudget-be/internal/auth"
	"github.com/hongminglow/jbudget-be/internal/config"
	"github.com/hongminglow/jbudget-be/internal/logging"
	"github.com/hongminglow/jbudget-be/internal/models"
	"github.com/hongminglow/jbudget-be/internal/stats"
	"github.com/hongminglow/jbudget-be/internal/storage"
	"github.com/hongminglow/jbudget-be/internal/storage/backend"
)

const (
	demoEmail    = "demo@jbudget.app"
	demoPassword = "demo123"
)

func main() {
	reset := flag.Bool("reset", false, "drop all existing data before setup")
	seed := flag.Bool("seed", false, "create a demo user with sample tags and transactions")
	flag.Parse()

	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}
	log := logging.New(cfg.LogLevel, cfg.AppEnv)

	ctx := context.Background()
	store, err := backend.Open(ctx, cfg)
	if err != nil {
		log.WithError(err).Fatal("open storage")
	}
	defer store.Close()
	log.WithField("backend", cfg.DataBackend).Info("schema ready")

	if err := run(ctx, store, log, *reset, *seed, time.Now()); err != nil {
		log.WithError(err).Error("initdb failed")
		store.Close()
		os.Exit(1)
	}
	log.Info("database initialised")
}

func run(ctx context.Context, store storage.Store, log logrus.FieldLogger, reset, seed bool, now time.Time) error {
	if reset {
		if err := resetData(ctx, store); err != nil {
			return err
		}
		log.Warn("all existing data removed")
	}
	if !seed {
		return nil
	}
	summary, err := seedDemo(ctx, store, now)
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"email":         demoEmail,
		"transactions":  summary.TransactionCount,
		"total_income":  summary.TotalIncome.StringFixed(2),
		"total_expense": summary.TotalExpense.StringFixed(2),
		"balance":       summary.Balance.StringFixed(2),
	}).Info("demo data created")
	return nil
}

// resetData rebuilds the schema when the backend supports it and otherwise
// deletes every user, which cascades to their tags and transactions.
func resetData(ctx context.Context, store storage.Store) error {
	if r, ok := store.(storage.Resetter); ok {
		if err := r.Reset(ctx); err != nil {
			return fmt.Errorf("reset schema: %w", err)
		}
		return nil
	}
	ids, err := store.ListUserIDs(ctx)
	if err != nil {
		return fmt.Errorf("list users: %w", err)
	}
	for _, id := range ids {
		if err := store.DeleteUser(ctx, id); err != nil {
			return fmt.Errorf("delete user %s: %w", id, err)
		}
	}
	return nil
}

type demoTransaction struct {
	amount      string
	txType      models.TransactionType
	day         int
	description string
	method      models.PaymentMethod
	tag         string
}

var (
	demoTags = []models.Tag{
		{Name: "Groceries", Color: "#4CAF50"},
		{Name: "Transport", Color: "#2196F3"},
		{Name: "Leisure", Color: "#FF9800"},
		{Name: "Salary", Color: "#8BC34A"},
		{Name: "Bills", Color: "#F44336"},
	}
	demoTransactions = []demoTransaction{
		{"2500.00", models.Income, 1, "Monthly salary", models.BankTransfer, "Salary"},
		{"150.50", models.Expense, 5, "Weekly groceries", models.Card, "Groceries"},
		{"45.00", models.Expense, 7, "Fuel", models.Card, "Transport"},
		{"80.00", models.Expense, 10, "Electricity bill", models.BankTransfer, "Bills"},
		{"35.00", models.Expense, 12, "Cinema", models.Cash, "Leisure"},
	}
)

// seedDemo creates the demo account with its tags and this month's sample
// transactions, and returns their statistics.
func seedDemo(ctx context.Context, store storage.Store, now time.Time) (stats.Stats, error) {
	hash, err := auth.HashPassword(demoPassword)
	if err != nil {
		return stats.Stats{}, err
	}
	user, err := store.CreateUser(ctx, models.User{Name: "Demo User", Email: demoEmail, PasswordHash: hash})
	if err != nil {
		return stats.Stats{}, fmt.Errorf("create demo user: %w", err)
	}

	tagIDs := make(map[string]string, len(demoTags))
	for _, tag := range demoTags {
		tag.UserID = user.ID
		created, err := store.CreateTag(ctx, tag)
		if err != nil {
			return stats.Stats{}, fmt.Errorf("create tag %s: %w", tag.Name, err)
		}
		tagIDs[created.Name] = created.ID
	}

	txs := make([]models.Transaction, 0, len(demoTransactions))
	for _, d := range demoTransactions {
		tx := models.Transaction{
			UserID:         user.ID,
			Amount:         decimal.RequireFromString(d.amount),
			Type:           d.txType,
			Date:           models.NewDate(now.Year(), now.Month(), d.day),
			Description:    d.description,
			PaymentMethod:  d.method,
			RecurrenceType: models.RecurNone,
		}
		created, err := store.CreateTransaction(ctx, tx, []string{tagIDs[d.tag]})
		if err != nil {
			return stats.Stats{}, fmt.Errorf("create transaction %q: %w", d.description, err)
		}
		txs = append(txs, created)
	}
	return stats.Aggregate(txs), nil
}
