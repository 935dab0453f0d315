package amortization_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prestaflow/lending_backend/internal/utils/amortization"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func TestComputeSchedule_FlatInterest(t *testing.T) {
	firstDue := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	// 1,000,000 over 4 weekly installments at 20% flat.
	sched, err := amortization.ComputeSchedule(d("1000000"), 4, d("20"), firstDue)
	require.NoError(t, err)

	assert.True(t, sched.TotalInterest.Equal(d("200000")), "total interest, got %s", sched.TotalInterest)
	assert.True(t, sched.TotalDue.Equal(d("1200000")), "total due, got %s", sched.TotalDue)
	assert.True(t, sched.InstallmentValue.Equal(d("300000")))
	require.Len(t, sched.Installments, 4)

	for i, inst := range sched.Installments {
		assert.Equal(t, i+1, inst.Sequence)
		assert.True(t, inst.CapitalShare.Equal(d("250000")), "capital of #%d, got %s", i+1, inst.CapitalShare)
		assert.True(t, inst.InterestShare.Equal(d("50000")), "interest of #%d, got %s", i+1, inst.InterestShare)
		assert.True(t, inst.ScheduledAmount.Equal(d("300000")))
		assert.Equal(t, firstDue.AddDate(0, 0, 7*i), inst.DueDate, "due date of #%d", i+1)
	}
}

func TestComputeSchedule_RemainderGoesToLastInstallment(t *testing.T) {
	// 100 / 3 does not divide evenly; the schedule must still sum exactly.
	sched, err := amortization.ComputeSchedule(d("100"), 3, d("10"), time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	sumCapital := decimal.Zero
	sumInterest := decimal.Zero
	sumScheduled := decimal.Zero
	for _, inst := range sched.Installments {
		sumCapital = sumCapital.Add(inst.CapitalShare)
		sumInterest = sumInterest.Add(inst.InterestShare)
		sumScheduled = sumScheduled.Add(inst.ScheduledAmount)
	}
	assert.True(t, sumCapital.Equal(d("100")), "capital sums to %s", sumCapital)
	assert.True(t, sumInterest.Equal(d("10")), "interest sums to %s", sumInterest)
	assert.True(t, sumScheduled.Equal(sched.TotalDue), "scheduled sums to %s, want %s", sumScheduled, sched.TotalDue)

	// First two are the rounded even split, last absorbs the remainder.
	assert.True(t, sched.Installments[0].CapitalShare.Equal(d("33.33")))
	assert.True(t, sched.Installments[1].CapitalShare.Equal(d("33.33")))
	assert.True(t, sched.Installments[2].CapitalShare.Equal(d("33.34")))
}

func TestComputeSchedule_ZeroRate(t *testing.T) {
	sched, err := amortization.ComputeSchedule(d("500"), 5, decimal.Zero, time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.True(t, sched.TotalInterest.IsZero())
	assert.True(t, sched.TotalDue.Equal(d("500")))
	for _, inst := range sched.Installments {
		assert.True(t, inst.InterestShare.IsZero())
		assert.True(t, inst.ScheduledAmount.Equal(inst.CapitalShare))
	}
}

func TestComputeSchedule_DefaultFirstDueDate(t *testing.T) {
	sched, err := amortization.ComputeSchedule(d("1000"), 2, d("5"), time.Time{})
	require.NoError(t, err)

	want := time.Now().UTC().AddDate(0, 0, 7)
	assert.WithinDuration(t, want, sched.Installments[0].DueDate, time.Minute)
}

func TestComputeSchedule_RejectsBadInput(t *testing.T) {
	_, err := amortization.ComputeSchedule(decimal.Zero, 4, d("20"), time.Time{})
	assert.Error(t, err)

	_, err = amortization.ComputeSchedule(d("-5"), 4, d("20"), time.Time{})
	assert.Error(t, err)

	_, err = amortization.ComputeSchedule(d("1000"), 0, d("20"), time.Time{})
	assert.Error(t, err)

	_, err = amortization.ComputeSchedule(d("1000"), 3, d("-1"), time.Time{})
	assert.Error(t, err)
}
