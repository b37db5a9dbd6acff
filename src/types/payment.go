package types

import "fmt"

// PaymentType is a closed set; the switches below are exhaustive so a new
// variant fails loudly instead of silently defaulting.
type PaymentType string

const (
	PAY_FULL    PaymentType = "full"
	PAY_DEPOSIT PaymentType = "deposit"
	PAY_CASH    PaymentType = "cash"
)

type PaymentTerms struct {
	Type           PaymentType
	DepositPercent uint8
}

// SplitAmounts derives the charge taken at confirmation time and the balance
// still owed to the host from the total price.
func (p PaymentTerms) SplitAmounts(total float64) (deposit float64, remaining float64, err error) {
	switch p.Type {
	case PAY_FULL:
		return total, 0, nil
	case PAY_DEPOSIT:
		if p.DepositPercent == 0 || p.DepositPercent >= 100 {
			return 0, 0, fmt.Errorf("invalid deposit percentage: %d", p.DepositPercent)
		}
		deposit = total * float64(p.DepositPercent) / 100
		return deposit, total - deposit, nil
	case PAY_CASH:
		return 0, total, nil
	}
	return 0, 0, fmt.Errorf("unknown payment type: %s", p.Type)
}

// BookingStatus maps the payment terms to the initial state of the created
// booking: a fully paid stay is auto-approved, anything still owing waits for
// the host.
func (p PaymentTerms) BookingStatus() (BookingStatus, error) {
	switch p.Type {
	case PAY_FULL:
		return BOOKING_APPROVED, nil
	case PAY_DEPOSIT, PAY_CASH:
		return BOOKING_PENDING, nil
	}
	return "", fmt.Errorf("unknown payment type: %s", p.Type)
}
