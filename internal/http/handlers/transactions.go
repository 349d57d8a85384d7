package handlers

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/hongminglow/jbudget-be/internal/http/respond"
	"github.com/hongminglow/jbudget-be/internal/models"
	"github.com/hongminglow/jbudget-be/internal/models/dto"
	"github.com/hongminglow/jbudget-be/internal/stats"
	"github.com/hongminglow/jbudget-be/internal/storage"
)

var (
	minAmount = decimal.New(1, -2)
	// NUMERIC(10,2)
	maxAmount = decimal.RequireFromString("99999999.99")
)

// TransactionHandler serves transaction CRUD and the dashboard statistics.
type TransactionHandler struct {
	txs storage.TransactionStore
	log logrus.FieldLogger
	now func() time.Time
}

// NewTransactionHandler constructs the handler.
func NewTransactionHandler(txs storage.TransactionStore, log logrus.FieldLogger) *TransactionHandler {
	return &TransactionHandler{txs: txs, log: log, now: time.Now}
}

// Register attaches transaction routes to the mux. Every route requires a signed-in user.
func (h *TransactionHandler) Register(mux *http.ServeMux, protect Middleware) {
	mux.Handle("GET /api/transactions", protect(http.HandlerFunc(h.handleList)))
	mux.Handle("POST /api/transactions", protect(http.HandlerFunc(h.handleCreate)))
	mux.Handle("GET /api/transactions/stats", protect(http.HandlerFunc(h.handleStats)))
	mux.Handle("GET /api/transactions/{id}", protect(http.HandlerFunc(h.handleGet)))
	mux.Handle("PUT /api/transactions/{id}", protect(http.HandlerFunc(h.handleUpdate)))
	mux.Handle("DELETE /api/transactions/{id}", protect(http.HandlerFunc(h.handleDelete)))
}

func (h *TransactionHandler) handleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var errs fieldErrors
	rng := h.rangeFromQuery(q, &errs)
	filter := storage.TransactionFilter{
		StartDate: rng.Start,
		EndDate:   rng.End,
		TagID:     strings.TrimSpace(q.Get("tagId")),
		Search:    strings.TrimSpace(q.Get("search")),
	}
	if raw := q.Get("type"); raw != "" {
		filter.Type = models.TransactionType(strings.ToUpper(raw))
		if !filter.Type.Valid() {
			errs.add("type", "Type must be INCOME or EXPENSE")
		}
	}
	if len(errs) > 0 {
		respond.Invalid(w, errs)
		return
	}

	txs, err := h.txs.ListTransactions(r.Context(), currentUser(r).ID, filter)
	if err != nil {
		serverError(w, r, h.log, "list transactions", err)
		return
	}
	respond.JSON(w, http.StatusOK, txs)
}

func (h *TransactionHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	tx, err := h.txs.FindTransaction(r.Context(), currentUser(r).ID, r.PathValue("id"))
	if err != nil {
		h.transactionError(w, r, "get transaction", err)
		return
	}
	respond.JSON(w, http.StatusOK, tx)
}

func (h *TransactionHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req dto.TransactionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	tx := models.Transaction{
		UserID:         currentUser(r).ID,
		PaymentMethod:  models.Cash,
		RecurrenceType: models.RecurNone,
	}
	if errs := applyTransaction(&tx, req); len(errs) > 0 {
		respond.Invalid(w, errs)
		return
	}
	var tagIDs []string
	if req.TagIDs != nil {
		tagIDs = *req.TagIDs
	}
	created, err := h.txs.CreateTransaction(r.Context(), tx, tagIDs)
	if err != nil {
		h.transactionError(w, r, "create transaction", err)
		return
	}
	respond.JSON(w, http.StatusCreated, created)
}

func (h *TransactionHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var req dto.TransactionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	tx, err := h.txs.FindTransaction(r.Context(), currentUser(r).ID, r.PathValue("id"))
	if err != nil {
		h.transactionError(w, r, "update transaction: find", err)
		return
	}
	if errs := applyTransaction(&tx, req); len(errs) > 0 {
		respond.Invalid(w, errs)
		return
	}
	var tagIDs []string
	if req.TagIDs != nil {
		tagIDs = *req.TagIDs
		if tagIDs == nil {
			tagIDs = []string{}
		}
	}
	updated, err := h.txs.UpdateTransaction(r.Context(), tx, tagIDs)
	if err != nil {
		h.transactionError(w, r, "update transaction", err)
		return
	}
	respond.JSON(w, http.StatusOK, updated)
}

func (h *TransactionHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.txs.DeleteTransaction(r.Context(), currentUser(r).ID, r.PathValue("id")); err != nil {
		h.transactionError(w, r, "delete transaction", err)
		return
	}
	respond.Message(w, http.StatusOK, "Transaction deleted successfully")
}

func (h *TransactionHandler) handleStats(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var errs fieldErrors
	rng := h.rangeFromQuery(q, &errs)
	var mode stats.ViewMode
	if raw := q.Get("paymentView"); raw != "" {
		m, err := stats.ParseViewMode(raw)
		if err != nil {
			errs.add("paymentView", "Payment view must be income, expense or both")
		}
		mode = m
	}
	if len(errs) > 0 {
		respond.Invalid(w, errs)
		return
	}

	txs, err := h.txs.ListTransactions(r.Context(), currentUser(r).ID, storage.TransactionFilter{})
	if err != nil {
		serverError(w, r, h.log, "transaction stats", err)
		return
	}
	summary := stats.Aggregate(stats.Filter(txs, rng))
	var view []stats.PaymentRow
	if mode != "" {
		view = stats.PaymentView(summary.ByPaymentMethod, mode)
	}
	respond.JSON(w, http.StatusOK, dto.NewStatsResponse(summary, view))
}

// rangeFromQuery reads period, startDate and endDate. Without a period (or with
// "all") the explicit dates bound the range directly; otherwise the period
// decides and the dates only matter for "custom".
func (h *TransactionHandler) rangeFromQuery(q url.Values, errs *fieldErrors) stats.Range {
	start := queryDate(q, "startDate", errs)
	end := queryDate(q, "endDate", errs)
	period, err := stats.ParsePeriod(q.Get("period"))
	if err != nil {
		errs.add("period", "Period must be one of all, week, month, quarter, year, custom")
		return stats.Range{}
	}
	if period == stats.All {
		return stats.Range{Start: start, End: end}
	}
	return stats.Resolve(period, h.now(), start, end)
}

func queryDate(q url.Values, key string, errs *fieldErrors) models.Date {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return models.Date{}
	}
	d, err := models.ParseDate(raw)
	if err != nil {
		errs.add(key, "Invalid date")
	}
	return d
}

// applyTransaction validates req and copies it onto tx. Empty payment method and
// recurrence type leave the values already on tx in place.
func applyTransaction(tx *models.Transaction, req dto.TransactionRequest) fieldErrors {
	var errs fieldErrors
	if req.Amount == nil {
		errs.add("amount", "Amount is required")
	} else if amount, msg := checkAmount(*req.Amount); msg != "" {
		errs.add("amount", msg)
	} else {
		tx.Amount = amount
	}

	txType := models.TransactionType(strings.ToUpper(strings.TrimSpace(string(req.Type))))
	if !txType.Valid() {
		errs.add("type", "Type must be INCOME or EXPENSE")
	} else {
		tx.Type = txType
	}

	if date, err := models.ParseDate(req.Date); err != nil || date.IsZero() {
		errs.add("date", "Valid date is required")
	} else {
		tx.Date = date
	}

	if desc := strings.TrimSpace(req.Description); desc == "" {
		errs.add("description", "Description is required")
	} else {
		tx.Description = desc
	}

	if req.PaymentMethod != "" {
		if !req.PaymentMethod.Valid() {
			errs.add("payment_method", "Invalid payment method")
		} else {
			tx.PaymentMethod = req.PaymentMethod
		}
	}
	if req.RecurrenceType != "" {
		if !req.RecurrenceType.Valid() {
			errs.add("recurrence_type", "Invalid recurrence type")
		} else {
			tx.RecurrenceType = req.RecurrenceType
		}
	}
	return errs
}

// checkAmount rounds d to cents and bounds it. The magnitude is judged from
// digits and exponent first so that huge exponents never reach big-int arithmetic.
func checkAmount(d decimal.Decimal) (decimal.Decimal, string) {
	magnitude := d.NumDigits() + int(d.Exponent())
	switch {
	case magnitude > 8:
		return decimal.Decimal{}, "Amount must not exceed 99999999.99"
	case magnitude < -2 || d.Sign() <= 0:
		return decimal.Decimal{}, "Amount must be greater than 0"
	}
	amount := d.Round(2)
	switch {
	case amount.LessThan(minAmount):
		return decimal.Decimal{}, "Amount must be greater than 0"
	case amount.GreaterThan(maxAmount):
		return decimal.Decimal{}, "Amount must not exceed 99999999.99"
	}
	return amount, ""
}

func (h *TransactionHandler) transactionError(w http.ResponseWriter, r *http.Request, op string, err error) {
	if errors.Is(err, storage.ErrNotFound) {
		respond.Error(w, http.StatusNotFound, "Transaction not found")
		return
	}
	serverError(w, r, h.log, op, err)
}
