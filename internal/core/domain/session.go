package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SessionStatus is the register session lifecycle state.
// Transitions only move forward: OPEN -> PENDING_REVIEW -> CONFIRMED.
type SessionStatus string

const (
	SessionOpen          SessionStatus = "OPEN"
	SessionPendingReview SessionStatus = "PENDING_REVIEW"
	SessionConfirmed     SessionStatus = "CONFIRMED"
)

// RegisterSession is one cashier's open-to-close working period against a
// till. It is the audit record: never deleted, mutated only by movements,
// the closing declaration and the confirmation.
type RegisterSession struct {
	SessionID     string        `json:"sessionID"`
	TillID        int64         `json:"tillID"`
	BranchID      int64         `json:"branchID"`
	OpenedBy      int64         `json:"openedBy"`
	OpenedAt      time.Time     `json:"openedAt"`
	OpeningAmount decimal.Decimal `json:"openingAmount"`
	Status        SessionStatus `json:"status"`

	// Closing declaration, populated by DeclareClose.
	ClosedAt       *time.Time       `json:"closedAt,omitempty"`
	DeclaredAmount *decimal.Decimal `json:"declaredAmount,omitempty"`
	ExpectedCash   *decimal.Decimal `json:"expectedCash,omitempty"`
	TotalSales     *decimal.Decimal `json:"totalSales,omitempty"`
	Difference     *decimal.Decimal `json:"difference,omitempty"`
	ClosingNote    string           `json:"closingNote,omitempty"`

	// Confirmation stamp, populated by Confirm.
	ConfirmedBy *int64     `json:"confirmedBy,omitempty"`
	ConfirmedAt *time.Time `json:"confirmedAt,omitempty"`
}

// Declared reports whether the cashier has already run the closing
// declaration for this session.
func (s RegisterSession) Declared() bool {
	return s.ClosedAt != nil
}

// SalesBreakdown is the per payment-kind sales subtotal computed when a
// session is declared closed.
type SalesBreakdown struct {
	Total    decimal.Decimal `json:"all_methods_total"`
	Cash     decimal.Decimal `json:"cash"`
	Card     decimal.Decimal `json:"card"`
	QR       decimal.Decimal `json:"qr"`
	Transfer decimal.Decimal `json:"transfer"`
	Credit   decimal.Decimal `json:"credit"`
	Other    decimal.Decimal `json:"other"`
}

// CloseSummary is the result of aggregating a session's movements at close.
type CloseSummary struct {
	SessionID        string          `json:"sessionID"`
	OpeningAmount    decimal.Decimal `json:"initial_amount"`
	Sales            SalesBreakdown  `json:"sales"`
	OtherCashIngress decimal.Decimal `json:"other_cash_ingress"`
	OtherCashEgress  decimal.Decimal `json:"other_cash_egress"`
	ExpectedCash     decimal.Decimal `json:"expected_cash_in_drawer"`
	DeclaredCash     decimal.Decimal `json:"declared_cash"`
	Difference       decimal.Decimal `json:"difference"`
}
