package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitAmounts(t *testing.T) {
	tests := []struct {
		name      string
		terms     PaymentTerms
		total     float64
		deposit   float64
		remaining float64
		wantErr   bool
	}{
		{name: "full payment", terms: PaymentTerms{Type: PAY_FULL}, total: 500, deposit: 500, remaining: 0},
		{name: "twenty percent deposit", terms: PaymentTerms{Type: PAY_DEPOSIT, DepositPercent: 20}, total: 500, deposit: 100, remaining: 400},
		{name: "cash on arrival", terms: PaymentTerms{Type: PAY_CASH}, total: 500, deposit: 0, remaining: 500},
		{name: "zero percent deposit", terms: PaymentTerms{Type: PAY_DEPOSIT}, total: 500, wantErr: true},
		{name: "hundred percent deposit", terms: PaymentTerms{Type: PAY_DEPOSIT, DepositPercent: 100}, total: 500, wantErr: true},
		{name: "unknown type", terms: PaymentTerms{Type: PaymentType("barter")}, total: 500, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deposit, remaining, err := tt.terms.SplitAmounts(tt.total)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.deposit, deposit)
			assert.Equal(t, tt.remaining, remaining)
		})
	}
}

func TestBookingStatusForTerms(t *testing.T) {
	status, err := PaymentTerms{Type: PAY_FULL}.BookingStatus()
	assert.NoError(t, err)
	assert.Equal(t, BOOKING_APPROVED, status)

	status, err = PaymentTerms{Type: PAY_DEPOSIT, DepositPercent: 30}.BookingStatus()
	assert.NoError(t, err)
	assert.Equal(t, BOOKING_PENDING, status)

	status, err = PaymentTerms{Type: PAY_CASH}.BookingStatus()
	assert.NoError(t, err)
	assert.Equal(t, BOOKING_PENDING, status)

	_, err = PaymentTerms{Type: PaymentType("barter")}.BookingStatus()
	assert.Error(t, err)
}
