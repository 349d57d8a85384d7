package dto

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/hongminglow/jbudget-be/internal/models"
	"github.com/hongminglow/jbudget-be/internal/stats"
)

type FlowResponse struct {
	Income  json.Number `json:"income"`
	Expense json.Number `json:"expense"`
}

type TagStatsResponse struct {
	Income  json.Number `json:"income"`
	Expense json.Number `json:"expense"`
	Count   int         `json:"count"`
	Color   string      `json:"color"`
}

type MethodStatsResponse struct {
	Income  json.Number `json:"income"`
	Expense json.Number `json:"expense"`
	Count   int         `json:"count"`
}

type PaymentRowResponse struct {
	Method  models.PaymentMethod `json:"method"`
	Income  *json.Number         `json:"income,omitempty"`
	Expense *json.Number         `json:"expense,omitempty"`
	Net     *json.Number         `json:"net,omitempty"`
}

// StatsResponse is the body of GET /api/transactions/stats.
type StatsResponse struct {
	TotalIncome      json.Number                                  `json:"totalIncome"`
	TotalExpense     json.Number                                  `json:"totalExpense"`
	Balance          json.Number                                  `json:"balance"`
	TransactionCount int                                          `json:"transactionCount"`
	ByType           map[models.TransactionType]int               `json:"byType"`
	ByTag            map[string]TagStatsResponse                  `json:"byTag"`
	ByMonth          map[string]FlowResponse                      `json:"byMonth"`
	ByPaymentMethod  map[models.PaymentMethod]MethodStatsResponse `json:"byPaymentMethod"`
	Months           []string                                     `json:"months"`
	ExpenseTags      []string                                     `json:"expenseTags"`
	// PaymentMethods is present, possibly empty, only when a payment view was requested.
	PaymentMethods *[]PaymentRowResponse `json:"paymentMethods,omitempty"`
}

// Money renders an amount as a JSON number with two decimals.
func Money(d decimal.Decimal) json.Number {
	return json.Number(d.StringFixed(2))
}

func moneyPtr(d *decimal.Decimal) *json.Number {
	if d == nil {
		return nil
	}
	n := Money(*d)
	return &n
}

// NewStatsResponse converts aggregator output, plus the payment view rows when
// one was requested (view non-nil), to the wire format.
func NewStatsResponse(s stats.Stats, view []stats.PaymentRow) StatsResponse {
	out := StatsResponse{
		TotalIncome:      Money(s.TotalIncome),
		TotalExpense:     Money(s.TotalExpense),
		Balance:          Money(s.Balance),
		TransactionCount: s.TransactionCount,
		ByType:           s.ByType,
		ByTag:            make(map[string]TagStatsResponse, len(s.ByTag)),
		ByMonth:          make(map[string]FlowResponse, len(s.ByMonth)),
		ByPaymentMethod:  make(map[models.PaymentMethod]MethodStatsResponse, len(s.ByPaymentMethod)),
		Months:           s.Months(),
		ExpenseTags:      s.ExpenseTags(),
	}
	for name, t := range s.ByTag {
		out.ByTag[name] = TagStatsResponse{Income: Money(t.Income), Expense: Money(t.Expense), Count: t.Count, Color: t.Color}
	}
	for month, f := range s.ByMonth {
		out.ByMonth[month] = FlowResponse{Income: Money(f.Income), Expense: Money(f.Expense)}
	}
	for method, m := range s.ByPaymentMethod {
		out.ByPaymentMethod[method] = MethodStatsResponse{Income: Money(m.Income), Expense: Money(m.Expense), Count: m.Count}
	}
	if view != nil {
		rows := make([]PaymentRowResponse, 0, len(view))
		for _, row := range view {
			rows = append(rows, PaymentRowResponse{
				Method:  row.Method,
				Income:  moneyPtr(row.Income),
				Expense: moneyPtr(row.Expense),
				Net:     moneyPtr(row.Net),
			})
		}
		out.PaymentMethods = &rows
	}
	return out
}
