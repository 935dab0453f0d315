package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/prestaflow/lending_backend/internal/core/domain"
)

func TestClassifyPaymentMethod(t *testing.T) {
	cases := []struct {
		name string
		want domain.PaymentKind
	}{
		{"Efectivo", domain.PayCash},
		{"  EFECTIVO  ", domain.PayCash},
		{"cash", domain.PayCash},
		{"Tarjeta de Débito", domain.PayCard},
		{"Credit Card", domain.PayCard},
		// "Credito" without the accent contains "credit" and lands on card;
		// the accented spelling is what the catalog classifies as credit.
		{"Crédito", domain.PayCredit},
		{"Transferencia Bancaria", domain.PayTransfer},
		{"QR", domain.PayQR},
		{"Pix", domain.PayQR},
		{"Cheque", domain.PayOther},
		{"", domain.PayOther},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, domain.ClassifyPaymentMethod(tc.name), "name=%q", tc.name)
	}
}

func TestClassifyMovementType(t *testing.T) {
	cases := []struct {
		name string
		want domain.MovementKind
	}{
		{"APERTURA", domain.MoveOpening},
		{"Venta", domain.MoveSale},
		{"Ingreso", domain.MoveIngress},
		{"Depósito", domain.MoveIngress},
		{"Egreso", domain.MoveEgress},
		{"Retiro chico", domain.MoveEgress},
		{"Ajuste", domain.MoveOther},
		{"", domain.MoveOther},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, domain.ClassifyMovementType(tc.name), "name=%q", tc.name)
	}
}
