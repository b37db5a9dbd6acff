package models

import (
	"stays/src/types"

	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

type Listing struct {
	ID       uint                `gorm:"primarykey" json:"id"`
	Title    string              `json:"title,omitempty"`
	Slug     string              `gorm:"index" json:"slug,omitempty"`
	Location string              `json:"location,omitempty"`
	Nightly  float64             `json:"nightly,omitempty"`
	Currency string              `gorm:"default:'usd'" json:"currency,omitempty"`
	Status   types.ListingStatus `gorm:"default:'active'" json:"status,omitempty"`
	HostID   uint                `json:"host_id,omitempty"`

	Host     *User      `gorm:"foreignKey:host_id" json:"host,omitempty"`
	Bookings []*Booking `json:"bookings,omitempty"`

	types.Timestamps
}

func (l *Listing) BeforeCreate(tx *gorm.DB) error {
	if l.Slug == "" {
		l.Slug = slug.Make(l.Title)
	}
	return nil
}
