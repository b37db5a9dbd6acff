package utils

import (
	"stays/src/models"
	"stays/src/types"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// IsAvailable checks a listing's date range against confirmed bookings first,
// then against other customers' unexpired locks. Ranges are inclusive on both
// ends, so [a,b] and [c,d] collide iff a <= d && c <= b — a checkout and a
// checkin on the same date count as a conflict. Read-only; callers inside a
// write transaction pass their tx so the check shares its snapshot.
func IsAvailable(tx *gorm.DB, listingID uint, startDate string, endDate string, excludeIntentID *uuid.UUID) (*types.AvailabilityCheck, error) {
	var bookingCount int64
	err := tx.
		Model(&models.Booking{}).
		Where("listing_id = ?", listingID).
		Where("status IN ?", types.ActiveBookingStatuses()).
		Where("start_date <= ? AND ? <= end_date", endDate, startDate).
		Count(&bookingCount).
		Error
	if err != nil {
		return nil, err
	}
	if bookingCount > 0 {
		reason := types.REASON_ALREADY_BOOKED
		return &types.AvailabilityCheck{Available: false, Reason: &reason}, nil
	}

	q := tx.
		Model(&models.ReservationIntent{}).
		Where("listing_id = ?", listingID).
		Where("status = ?", types.INTENT_LOCKED).
		Where("expires_at > ?", time.Now()).
		Where("start_date <= ? AND ? <= end_date", endDate, startDate)
	if excludeIntentID != nil {
		q = q.Where("id <> ?", *excludeIntentID)
	}
	var blocking []models.ReservationIntent
	if err := q.Select("expires_at").Find(&blocking).Error; err != nil {
		return nil, err
	}
	if len(blocking) == 0 {
		return &types.AvailabilityCheck{Available: true}, nil
	}

	latest := blocking[0].ExpiresAt
	for _, b := range blocking[1:] {
		if b.ExpiresAt.After(latest) {
			latest = b.ExpiresAt
		}
	}
	retryAfter := int64(time.Until(latest).Seconds())
	if retryAfter < 1 {
		retryAfter = 1
	}
	reason := types.REASON_TEMPORARILY_RESERVED
	return &types.AvailabilityCheck{
		Available:         false,
		Reason:            &reason,
		RetryAfterSeconds: retryAfter,
	}, nil
}
