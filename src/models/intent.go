package models

import (
	"stays/src/types"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReservationIntent is a short-lived lock on a listing's date range while a
// payment is in flight. It is never deleted; terminal rows stay behind as an
// audit trail. The OrderToken is what the payment gateway sees, the internal
// ID never leaves the API.
type ReservationIntent struct {
	ID         uuid.UUID `gorm:"primarykey;type:uuid" json:"id"`
	OrderToken string    `gorm:"uniqueIndex" json:"order_token,omitempty"`

	ListingID  uint `gorm:"index:idx_intents_listing_state" json:"listing_id,omitempty"`
	CustomerID uint `json:"customer_id,omitempty"`
	HostID     uint `json:"host_id,omitempty"`

	StartDate string `gorm:"size:10" json:"start_date,omitempty"`
	EndDate   string `gorm:"size:10" json:"end_date,omitempty"`

	Total           float64             `json:"total,omitempty"`
	Currency        string              `gorm:"default:'usd'" json:"currency,omitempty"`
	PaymentMethod   types.PaymentMethod `json:"payment_method,omitempty"`
	PaymentType     types.PaymentType   `json:"payment_type,omitempty"`
	DepositPercent  uint8               `json:"deposit_percent,omitempty"`
	DepositAmount   float64             `json:"deposit_amount,omitempty"`
	RemainingAmount float64             `json:"remaining_amount,omitempty"`

	Status    types.IntentStatus `gorm:"default:'locked';index:idx_intents_listing_state" json:"status,omitempty"`
	LockedAt  time.Time          `json:"locked_at,omitempty"`
	ExpiresAt time.Time          `gorm:"index:idx_intents_listing_state" json:"expires_at,omitempty"`
	PaidAt    *time.Time         `json:"paid_at,omitempty"`

	BookingID     *uint   `json:"booking_id,omitempty"`
	TransactionID *string `json:"transaction_id,omitempty"`
	FailureReason *string `json:"failure_reason,omitempty"`

	Listing  *Listing `gorm:"foreignKey:listing_id" json:"listing,omitempty"`
	Customer *User    `gorm:"foreignKey:customer_id" json:"-"`
	Booking  *Booking `gorm:"foreignKey:booking_id" json:"booking,omitempty"`

	types.Timestamps
}

func (i *ReservationIntent) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	if i.OrderToken == "" {
		i.OrderToken = uuid.NewString()
	}
	return nil
}

func (i *ReservationIntent) Terms() types.PaymentTerms {
	return types.PaymentTerms{Type: i.PaymentType, DepositPercent: i.DepositPercent}
}

// ExpectedCharge is the amount the gateway callback must report for the
// confirmation to be accepted.
func (i *ReservationIntent) ExpectedCharge() float64 {
	switch i.PaymentType {
	case types.PAY_FULL:
		return i.Total
	case types.PAY_DEPOSIT:
		return i.DepositAmount
	default:
		return 0
	}
}
