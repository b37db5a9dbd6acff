package utils

import (
	"stays/src/db"
	"stays/src/models"
	"stays/src/types"
	"time"
)

const ReapReason = "reservation lock expired before payment"

// ReapExpired sweeps every lock whose deadline has passed into the expired
// state in one bulk update. The status+expiry predicate doubles as the race
// guard: an intent a concurrent confirmation just moved to paid is simply not
// matched. Safe to run concurrently with itself.
func ReapExpired() (int64, error) {
	d := db.GetDb()
	res := d.
		Model(&models.ReservationIntent{}).
		Where("status = ? AND expires_at <= ?", types.INTENT_LOCKED, time.Now()).
		Updates(map[string]any{
			"status":         types.INTENT_EXPIRED,
			"failure_reason": ReapReason,
		})
	return res.RowsAffected, res.Error
}
