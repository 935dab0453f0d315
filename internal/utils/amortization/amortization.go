// Package amortization computes flat-interest installment schedules.
//
// The product is a flat, non-amortizing rate: total interest is
// principal * rate/100 regardless of term, and every installment carries an
// equal capital and interest share. This is not declining-balance math.
package amortization

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// InstallmentDraft is one computed schedule row, before persistence.
type InstallmentDraft struct {
	Sequence        int
	DueDate         time.Time
	ScheduledAmount decimal.Decimal
	CapitalShare    decimal.Decimal
	InterestShare   decimal.Decimal
}

// Schedule is the full computed plan for a loan.
type Schedule struct {
	Principal        decimal.Decimal
	RatePercent      decimal.Decimal
	TotalInterest    decimal.Decimal
	TotalDue         decimal.Decimal
	InstallmentValue decimal.Decimal
	Installments     []InstallmentDraft
}

// dueDateInterval is the gap between consecutive installments.
const dueDateInterval = 7 * 24 * time.Hour

// ComputeSchedule builds the installment plan for a principal at a flat
// rate. Every monetary output is rounded to 2 decimals per installment;
// the rounding remainder of both the capital and interest columns is
// assigned to the final installment, so the schedule sums exactly to
// principal + interest with no aggregate drift.
//
// Due dates fall weekly starting at firstDue; when firstDue is zero the
// first installment is due 7 days from now.
func ComputeSchedule(principal decimal.Decimal, installmentCount int, ratePercent decimal.Decimal, firstDue time.Time) (*Schedule, error) {
	if principal.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("principal must be greater than zero, got %s", principal)
	}
	if installmentCount <= 0 {
		return nil, fmt.Errorf("installment count must be greater than zero, got %d", installmentCount)
	}
	if ratePercent.IsNegative() {
		return nil, fmt.Errorf("rate percent must not be negative, got %s", ratePercent)
	}

	hundred := decimal.NewFromInt(100)
	count := decimal.NewFromInt(int64(installmentCount))

	totalInterest := principal.Mul(ratePercent).Div(hundred).Round(2)
	totalDue := principal.Add(totalInterest)

	capitalShare := principal.Div(count).Round(2)
	interestShare := totalInterest.Div(count).Round(2)

	if firstDue.IsZero() {
		firstDue = time.Now().UTC().Add(dueDateInterval)
	}

	installments := make([]InstallmentDraft, installmentCount)
	for i := 0; i < installmentCount; i++ {
		capital := capitalShare
		interest := interestShare
		if i == installmentCount-1 {
			// Last installment absorbs the rounding remainder.
			used := decimal.NewFromInt(int64(installmentCount - 1))
			capital = principal.Sub(capitalShare.Mul(used))
			interest = totalInterest.Sub(interestShare.Mul(used))
		}
		installments[i] = InstallmentDraft{
			Sequence:        i + 1,
			DueDate:         firstDue.Add(time.Duration(i) * dueDateInterval),
			ScheduledAmount: capital.Add(interest),
			CapitalShare:    capital,
			InterestShare:   interest,
		}
	}

	return &Schedule{
		Principal:        principal,
		RatePercent:      ratePercent,
		TotalInterest:    totalInterest,
		TotalDue:         totalDue,
		InstallmentValue: totalDue.Div(count).Round(2),
		Installments:     installments,
	}, nil
}
