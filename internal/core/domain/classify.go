package domain

import "strings"

// PaymentKind is the closed classification of a payment method, derived
// from its catalog name.
type PaymentKind string

const (
	PayCash     PaymentKind = "cash"
	PayCard     PaymentKind = "card"
	PayTransfer PaymentKind = "transfer"
	PayQR       PaymentKind = "qr"
	PayCredit   PaymentKind = "credit"
	PayOther    PaymentKind = "other"
)

// MovementKind is the closed classification of a movement type, derived
// from its catalog name.
type MovementKind string

const (
	MoveOpening MovementKind = "opening"
	MoveSale    MovementKind = "sale"
	MoveIngress MovementKind = "ingress"
	MoveEgress  MovementKind = "egress"
	MoveOther   MovementKind = "other"
)

// ClassifyPaymentMethod maps a payment-method name onto a PaymentKind by
// normalized-lowercase substring. The catalog has no canonical taxonomy, so
// classification happens on the name; anything unrecognized falls back to
// PayOther. Mis-classification is a data-quality issue, not a code path.
func ClassifyPaymentMethod(name string) PaymentKind {
	n := strings.ToLower(strings.TrimSpace(name))
	switch {
	case n == "":
		return PayOther
	case strings.Contains(n, "efectivo") || n == "cash":
		return PayCash
	case strings.Contains(n, "tarjeta") || strings.Contains(n, "card") ||
		strings.Contains(n, "credit") || strings.Contains(n, "debit"):
		return PayCard
	case strings.Contains(n, "crédito") || strings.Contains(n, "credito"):
		return PayCredit
	case strings.Contains(n, "transfer") || strings.Contains(n, "transferencia"):
		return PayTransfer
	case strings.Contains(n, "qr") || strings.Contains(n, "pix"):
		return PayQR
	default:
		return PayOther
	}
}

// ClassifyMovementType maps a movement-type name onto a MovementKind by
// normalized-lowercase substring, with PayOther's analogue as fallback.
func ClassifyMovementType(name string) MovementKind {
	n := strings.ToLower(strings.TrimSpace(name))
	switch {
	case n == "":
		return MoveOther
	case strings.Contains(n, "apertura") || strings.Contains(n, "opening"):
		return MoveOpening
	case strings.Contains(n, "venta") || strings.Contains(n, "sale"):
		return MoveSale
	case strings.Contains(n, "egreso") || strings.Contains(n, "retiro") ||
		strings.Contains(n, "salida") || strings.Contains(n, "withdraw"):
		return MoveEgress
	case strings.Contains(n, "ingreso") || strings.Contains(n, "entrada") ||
		strings.Contains(n, "deposito") || strings.Contains(n, "depósito"):
		return MoveIngress
	default:
		return MoveOther
	}
}
