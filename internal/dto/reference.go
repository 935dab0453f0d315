package dto

import (
	"github.com/shopspring/decimal"

	"github.com/prestaflow/lending_backend/internal/core/domain"
)

// PaymentMethodResponse is a catalog payment method with its derived kind.
type PaymentMethodResponse struct {
	PaymentMethodID int64  `json:"payment_method_id"`
	Name            string `json:"name"`
	Kind            string `json:"kind"`
}

// RateResponse is a catalog interest rate.
type RateResponse struct {
	RateID      int64           `json:"rate_id"`
	Name        string          `json:"name"`
	Percent     decimal.Decimal `json:"percent"`
	Description string          `json:"description,omitempty"`
}

// TillResponse is a catalog till.
type TillResponse struct {
	TillID         int64  `json:"till_id"`
	Description    string `json:"description"`
	ExpeditionCode int    `json:"expedition_code"`
	Status         string `json:"status"`
}

// ToPaymentMethodResponse attaches the classification-derived kind.
func ToPaymentMethodResponse(pm *domain.PaymentMethod) PaymentMethodResponse {
	return PaymentMethodResponse{
		PaymentMethodID: pm.PaymentMethodID,
		Name:            pm.Name,
		Kind:            string(domain.ClassifyPaymentMethod(pm.Name)),
	}
}

// ToRateResponse converts a catalog rate.
func ToRateResponse(r *domain.InterestRate) RateResponse {
	return RateResponse{
		RateID:      r.RateID,
		Name:        r.Name,
		Percent:     r.Percent,
		Description: r.Description,
	}
}

// ToTillResponse converts a catalog till.
func ToTillResponse(t *domain.Till) TillResponse {
	return TillResponse{
		TillID:         t.TillID,
		Description:    t.Description,
		ExpeditionCode: t.ExpeditionCode,
		Status:         t.Status,
	}
}
