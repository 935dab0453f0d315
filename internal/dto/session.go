package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/prestaflow/lending_backend/internal/core/domain"
)

// OpenSessionRequest opens a register session for the caller.
type OpenSessionRequest struct {
	TillID        int64           `json:"till_id" binding:"required"`
	BranchID      int64           `json:"branch_id" binding:"required"`
	OpeningAmount decimal.Decimal `json:"opening_amount"`
}

type OpenSessionResponse struct {
	SessionID string `json:"session_id"`
}

// RecordMovementRequest appends a movement to an open session.
type RecordMovementRequest struct {
	SessionID       string          `json:"session_id" binding:"required"`
	MovementType    string          `json:"movement_type" binding:"required"`
	PaymentMethodID int64           `json:"payment_method_id" binding:"required"`
	Amount          decimal.Decimal `json:"amount" binding:"required"`
	Description     string          `json:"description"`
}

type RecordMovementResponse struct {
	MovementID string `json:"movement_id"`
}

// DeclareCloseRequest is the cashier's closing declaration.
type DeclareCloseRequest struct {
	SessionID     string          `json:"session_id" binding:"required"`
	ClosingAmount decimal.Decimal `json:"closing_amount"`
	Note          string          `json:"note"`
}

// SalesBreakdownResponse is the per payment-kind sales subtotal.
type SalesBreakdownResponse struct {
	AllMethodsTotal decimal.Decimal `json:"all_methods_total"`
	Cash            decimal.Decimal `json:"cash"`
	Card            decimal.Decimal `json:"card"`
	QR              decimal.Decimal `json:"qr"`
	Transfer        decimal.Decimal `json:"transfer"`
	Credit          decimal.Decimal `json:"credit"`
	Other           decimal.Decimal `json:"other"`
}

// CloseSummaryResponse echoes the close computation back to the cashier.
// Field names are part of the compatibility contract.
type CloseSummaryResponse struct {
	SessionID          string                 `json:"session_id"`
	InitialAmount      decimal.Decimal        `json:"initial_amount"`
	Sales              SalesBreakdownResponse `json:"sales"`
	OtherCashIngress   decimal.Decimal        `json:"other_cash_ingress"`
	OtherCashEgress    decimal.Decimal        `json:"other_cash_egress"`
	ExpectedCashDrawer decimal.Decimal        `json:"expected_cash_in_drawer"`
	DeclaredCash       decimal.Decimal        `json:"declared_cash"`
	Difference         decimal.Decimal        `json:"difference"`
}

// ConfirmSessionRequest stamps the admin confirmation.
type ConfirmSessionRequest struct {
	Note string `json:"note"`
}

// SessionResponse is the read shape of a register session.
type SessionResponse struct {
	SessionID      string           `json:"session_id"`
	TillID         int64            `json:"till_id"`
	BranchID       int64            `json:"branch_id"`
	OpenedBy       int64            `json:"opened_by"`
	OpenedAt       time.Time        `json:"opened_at"`
	OpeningAmount  decimal.Decimal  `json:"opening_amount"`
	Status         string           `json:"status"`
	ClosedAt       *time.Time       `json:"closed_at,omitempty"`
	DeclaredAmount *decimal.Decimal `json:"declared_cash,omitempty"`
	ExpectedCash   *decimal.Decimal `json:"expected_cash_in_drawer,omitempty"`
	TotalSales     *decimal.Decimal `json:"total_sales,omitempty"`
	Difference     *decimal.Decimal `json:"difference,omitempty"`
	ClosingNote    string           `json:"closing_note,omitempty"`
	ConfirmedBy    *int64           `json:"confirmed_by,omitempty"`
	ConfirmedAt    *time.Time       `json:"confirmed_at,omitempty"`
}

// ListSessionsParams filters the session history listing.
type ListSessionsParams struct {
	CashierID *int64
	Status    *string
	From      *time.Time
	To        *time.Time
	Limit     int
	NextToken *string
}

// ListSessionsResponse is a page of session history.
type ListSessionsResponse struct {
	Sessions  []SessionResponse `json:"sessions"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// ToSessionResponse converts a domain session to its read shape.
func ToSessionResponse(s *domain.RegisterSession) SessionResponse {
	return SessionResponse{
		SessionID:      s.SessionID,
		TillID:         s.TillID,
		BranchID:       s.BranchID,
		OpenedBy:       s.OpenedBy,
		OpenedAt:       s.OpenedAt,
		OpeningAmount:  s.OpeningAmount,
		Status:         string(s.Status),
		ClosedAt:       s.ClosedAt,
		DeclaredAmount: s.DeclaredAmount,
		ExpectedCash:   s.ExpectedCash,
		TotalSales:     s.TotalSales,
		Difference:     s.Difference,
		ClosingNote:    s.ClosingNote,
		ConfirmedBy:    s.ConfirmedBy,
		ConfirmedAt:    s.ConfirmedAt,
	}
}

// ToCloseSummaryResponse converts the close aggregation to its wire shape.
func ToCloseSummaryResponse(sum *domain.CloseSummary) CloseSummaryResponse {
	return CloseSummaryResponse{
		SessionID:     sum.SessionID,
		InitialAmount: sum.OpeningAmount,
		Sales: SalesBreakdownResponse{
			AllMethodsTotal: sum.Sales.Total,
			Cash:            sum.Sales.Cash,
			Card:            sum.Sales.Card,
			QR:              sum.Sales.QR,
			Transfer:        sum.Sales.Transfer,
			Credit:          sum.Sales.Credit,
			Other:           sum.Sales.Other,
		},
		OtherCashIngress:   sum.OtherCashIngress,
		OtherCashEgress:    sum.OtherCashEgress,
		ExpectedCashDrawer: sum.ExpectedCash,
		DeclaredCash:       sum.DeclaredCash,
		Difference:         sum.Difference,
	}
}
