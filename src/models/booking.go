package models

import (
	"stays/src/types"

	"github.com/google/uuid"
)

// Booking is the permanent artifact created when a reservation intent is
// confirmed. The unique index on intent_id is the storage-level idempotency
// guard: a replayed confirmation cannot create a second row.
type Booking struct {
	ID       uint      `gorm:"primarykey" json:"id"`
	IntentID uuid.UUID `gorm:"type:uuid;uniqueIndex" json:"intent_id,omitempty"`

	ListingID  uint `json:"listing_id,omitempty"`
	CustomerID uint `json:"customer_id,omitempty"`
	HostID     uint `json:"host_id,omitempty"`

	StartDate string `gorm:"size:10" json:"start_date,omitempty"`
	EndDate   string `gorm:"size:10" json:"end_date,omitempty"`

	Total      float64 `json:"total,omitempty"`
	AmountPaid float64 `json:"amount_paid,omitempty"`
	Balance    float64 `json:"balance,omitempty"`
	Currency   string  `gorm:"default:'usd'" json:"currency,omitempty"`

	Status types.BookingStatus `gorm:"default:'pending'" json:"status,omitempty"`

	Listing  *Listing `gorm:"foreignKey:listing_id" json:"listing,omitempty"`
	Customer *User    `gorm:"foreignKey:customer_id" json:"customer,omitempty"`
	Host     *User    `gorm:"foreignKey:host_id" json:"-"`

	types.Timestamps
}
