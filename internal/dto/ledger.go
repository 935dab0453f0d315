package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/prestaflow/lending_backend/internal/core/domain"
)

// ManualEntryRequest posts a manual cash ingress or egress against a named
// contra account (e.g. "General Expenses", "Owner Capital").
type ManualEntryRequest struct {
	Memo          string          `json:"memo" binding:"required"`
	Kind          string          `json:"kind" binding:"required,oneof=INGRESS EGRESS"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	ContraAccount string          `json:"contra_account" binding:"required"`
}

// LineResponse is one debit-or-credit component of an entry.
type LineResponse struct {
	LineID  string          `json:"line_id"`
	Account string          `json:"account"`
	Debit   decimal.Decimal `json:"debit"`
	Credit  decimal.Decimal `json:"credit"`
}

// EntryResponse is the read shape of a journal entry.
type EntryResponse struct {
	EntryID  string         `json:"entry_id"`
	EntryAt  time.Time      `json:"entry_at"`
	Memo     string         `json:"memo"`
	AuthorID int64          `json:"author_id"`
	Lines    []LineResponse `json:"lines,omitempty"`
}

// ListEntriesParams filters the journal listing.
type ListEntriesParams struct {
	From      *time.Time
	To        *time.Time
	Memo      string
	Limit     int
	NextToken *string
}

// ListEntriesResponse is a page of journal entries.
type ListEntriesResponse struct {
	Entries   []EntryResponse `json:"entries"`
	NextToken *string         `json:"nextToken,omitempty"`
}

// CashFlowPointResponse is one day of cash in/out for the dashboard chart.
type CashFlowPointResponse struct {
	Date    string          `json:"date"` // YYYY-MM-DD
	Inflow  decimal.Decimal `json:"inflow"`
	Outflow decimal.Decimal `json:"outflow"`
}

// DashboardResponse carries the recomputed headline balances.
type DashboardResponse struct {
	CashBalance      decimal.Decimal         `json:"operating_cash"`
	Receivables      decimal.Decimal         `json:"receivables"`
	RealizedInterest decimal.Decimal         `json:"realized_interest"`
	CashFlow         []CashFlowPointResponse `json:"chart_data"`
}

// ToEntryResponse converts a domain entry (with lines) to its read shape.
func ToEntryResponse(e *domain.JournalEntry) EntryResponse {
	resp := EntryResponse{
		EntryID:  e.EntryID,
		EntryAt:  e.EntryAt,
		Memo:     e.Memo,
		AuthorID: e.AuthorID,
	}
	for _, l := range e.Lines {
		resp.Lines = append(resp.Lines, LineResponse{
			LineID:  l.LineID,
			Account: l.Account,
			Debit:   l.Debit,
			Credit:  l.Credit,
		})
	}
	return resp
}

// ToDashboardResponse converts the ledger summary to its wire shape.
func ToDashboardResponse(s *domain.LedgerSummary) DashboardResponse {
	resp := DashboardResponse{
		CashBalance:      s.CashBalance,
		Receivables:      s.Receivables,
		RealizedInterest: s.RealizedInterest,
	}
	for _, p := range s.CashFlowLastSevenD {
		resp.CashFlow = append(resp.CashFlow, CashFlowPointResponse{
			Date:    p.Date.Format("2006-01-02"),
			Inflow:  p.Inflow,
			Outflow: p.Outflow,
		})
	}
	return resp
}
