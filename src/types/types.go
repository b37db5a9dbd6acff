package types

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"
)

type Timestamps struct {
	CreatedAt time.Time      `gorm:"autoCreateTime:nano" json:"created_at,omitempty"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime:nano" json:"updated_at,omitempty"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty,omitnil"`
}

type IntentStatus string

const (
	INTENT_LOCKED    IntentStatus = "locked"
	INTENT_PAID      IntentStatus = "paid"
	INTENT_EXPIRED   IntentStatus = "expired"
	INTENT_CANCELLED IntentStatus = "cancelled"
	INTENT_FAILED    IntentStatus = "failed"
)

// Terminal reports whether s is one of the one-way exits out of locked.
func (s IntentStatus) Terminal() bool {
	switch s {
	case INTENT_PAID, INTENT_EXPIRED, INTENT_CANCELLED, INTENT_FAILED:
		return true
	}
	return false
}

type BookingStatus string

const (
	BOOKING_PENDING   BookingStatus = "pending"
	BOOKING_APPROVED  BookingStatus = "approved"
	BOOKING_CHECKEDIN BookingStatus = "checked_in"
	BOOKING_COMPLETED BookingStatus = "completed"
	BOOKING_CANCELED  BookingStatus = "canceled"
)

// ActiveBookingStatuses are the states in which a booking still occupies its
// date range on the listing.
func ActiveBookingStatuses() []BookingStatus {
	return []BookingStatus{BOOKING_PENDING, BOOKING_APPROVED, BOOKING_CHECKEDIN}
}

type ListingStatus string

const (
	LISTING_DRAFT    ListingStatus = "draft"
	LISTING_ACTIVE   ListingStatus = "active"
	LISTING_ARCHIVED ListingStatus = "archived"
)

type PaymentMethod string

const (
	PAYMENT_GATEWAY    PaymentMethod = "gateway"
	PAYMENT_ON_ARRIVAL PaymentMethod = "on_arrival"
)

type CreateIntentRequestBody struct {
	ListingID      uint    `json:"listing" binding:"required"`
	StartDate      string  `json:"start_date" binding:"required,stringdate"`
	EndDate        string  `json:"end_date" binding:"required,stringdate,gtedate=StartDate"`
	Total          float64 `json:"total" binding:"required,gt=0"`
	PaymentMethod  string  `json:"payment_method" binding:"required,oneof=gateway on_arrival"`
	PaymentType    string  `json:"payment_type" binding:"required,oneof=full deposit cash"`
	DepositPercent uint8   `json:"deposit_percent,omitempty" binding:"omitempty,gt=0,lt=100"`
	LockMinutes    uint    `json:"lock_minutes,omitempty" binding:"omitempty,gt=0"`
}

type AvailabilityQueryParams struct {
	ListingID uint   `form:"listing" binding:"required"`
	StartDate string `form:"start" binding:"required,stringdate"`
	EndDate   string `form:"end" binding:"required,stringdate,gtedate=StartDate"`
}

type CancelIntentRequestBody struct {
	Reason string `json:"reason" binding:"required"`
}

type ExtendLockRequestBody struct {
	AdditionalMinutes uint `json:"additional_minutes" binding:"required,gt=0"`
}

type ConfirmIntentRequestBody struct {
	TransactionID string  `json:"transaction_id" binding:"required"`
	Amount        float64 `json:"amount"`
}

type IntentURIParams struct {
	ID string `uri:"id" binding:"required,uuid"`
}

type SimpleRequestParams struct {
	ID uint `uri:"id" binding:"required"`
}

type Claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}
