package models

import (
	"stays/src/types"
)

type User struct {
	ID    uint   `gorm:"primarykey" json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Role  string `gorm:"default:'customer'" json:"role,omitempty"`

	Listings []*Listing `gorm:"foreignKey:host_id" json:"listings,omitempty"`
	Bookings []*Booking `gorm:"foreignKey:customer_id" json:"bookings,omitempty"`

	types.Timestamps
}
