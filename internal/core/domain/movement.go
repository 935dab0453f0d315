package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementType is catalog reference data ("APERTURA", "VENTA", "Ingreso",
// "Egreso", ...). The row names are free-form; MovementKind is derived from
// them by classification.
type MovementType struct {
	MovementTypeID int64  `json:"movementTypeID"`
	Name           string `json:"name"`
}

// PaymentMethod is catalog reference data ("Efectivo", "Tarjeta", ...).
type PaymentMethod struct {
	PaymentMethodID int64  `json:"paymentMethodID"`
	Name            string `json:"name"`
}

// RegisterMovement is one append-only money event against an open session.
// Movements are never mutated or deleted.
type RegisterMovement struct {
	MovementID      string          `json:"movementID"`
	SessionID       string          `json:"sessionID"`
	MovementTypeID  int64           `json:"movementTypeID"`
	PaymentMethodID int64           `json:"paymentMethodID"`
	Amount          decimal.Decimal `json:"amount"`
	Description     string          `json:"description"`
	RecordedAt      time.Time       `json:"recordedAt"`
}
