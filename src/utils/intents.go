package utils

import (
	"errors"
	"log"
	"stays/src/config"
	"stays/src/db"
	"stays/src/lib"
	"stays/src/models"
	"stays/src/types"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CreateIntent places a reservation lock on a listing's date range. The
// listing row is locked FOR UPDATE for the duration of the transaction, which
// serializes concurrent check-then-insert attempts on the same listing: the
// storage layer, not the pre-check, is what arbitrates the race. The
// availability pre-check exists to produce a useful conflict response.
func CreateIntent(customerID uint, body *types.CreateIntentRequestBody) (*models.ReservationIntent, error) {
	terms := types.PaymentTerms{
		Type:           types.PaymentType(body.PaymentType),
		DepositPercent: body.DepositPercent,
	}
	deposit, remaining, err := terms.SplitAmounts(body.Total)
	if err != nil {
		return nil, err
	}

	lockFor := config.DefaultLockDuration()
	if body.LockMinutes > 0 {
		lockFor = time.Duration(body.LockMinutes) * time.Minute
		if lockFor > config.MaxLockDuration() {
			lockFor = config.MaxLockDuration()
		}
	}

	var intent *models.ReservationIntent
	d := db.GetDb()
	err = d.Transaction(func(tx *gorm.DB) error {
		var listing models.Listing
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where(&models.Listing{ID: body.ListingID}).
			First(&listing).
			Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return types.ErrNotFound
			}
			return err
		}

		// Same customer, same listing, lock still live: hand back the held
		// intent instead of stacking a second one (double-click safety).
		var existing models.ReservationIntent
		err := tx.
			Where("listing_id = ? AND customer_id = ? AND status = ? AND expires_at > ?",
				body.ListingID, customerID, types.INTENT_LOCKED, time.Now()).
			First(&existing).
			Error
		if err == nil {
			intent = &existing
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		check, err := IsAvailable(tx, body.ListingID, body.StartDate, body.EndDate, nil)
		if err != nil {
			return err
		}
		if conflict := check.Conflict(); conflict != nil {
			return conflict
		}

		now := time.Now()
		record := models.ReservationIntent{
			ListingID:       body.ListingID,
			CustomerID:      customerID,
			HostID:          listing.HostID,
			StartDate:       body.StartDate,
			EndDate:         body.EndDate,
			Total:           body.Total,
			Currency:        listing.Currency,
			PaymentMethod:   types.PaymentMethod(body.PaymentMethod),
			PaymentType:     terms.Type,
			DepositPercent:  body.DepositPercent,
			DepositAmount:   deposit,
			RemainingAmount: remaining,
			Status:          types.INTENT_LOCKED,
			LockedAt:        now,
			ExpiresAt:       now.Add(lockFor),
		}
		if err := tx.Create(&record).Error; err != nil {
			log.Printf("Error creating ReservationIntent: %s\n", err.Error())
			return err
		}
		intent = &record
		return nil
	})
	if err != nil {
		return nil, err
	}

	lib.CacheOrderToken(intent.OrderToken, intent.ID.String(), time.Until(intent.ExpiresAt))
	return intent, nil
}

// GetIntent fetches an intent by id.
func GetIntent(id uuid.UUID) (*models.ReservationIntent, error) {
	var intent models.ReservationIntent
	d := db.GetDb()
	if err := d.
		Where(&models.ReservationIntent{ID: id}).
		First(&intent).
		Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.ErrNotFound
		}
		return nil, err
	}
	return &intent, nil
}

// FindIntentByOrderToken resolves a gateway callback to the intent it refers
// to, trying the redis cache before the order_token index.
func FindIntentByOrderToken(token string) (*models.ReservationIntent, error) {
	if cached := lib.LookupOrderToken(token); cached != "" {
		if id, err := uuid.Parse(cached); err == nil {
			return GetIntent(id)
		}
	}
	var intent models.ReservationIntent
	d := db.GetDb()
	if err := d.
		Where(&models.ReservationIntent{OrderToken: token}).
		First(&intent).
		Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.ErrNotFound
		}
		return nil, err
	}
	return &intent, nil
}

// ExtendLock pushes an unexpired lock's deadline out by additionalMinutes,
// never past locked_at + MaxLockDuration. The update is guarded on the
// previous expiry so a racing reaper or confirmation wins cleanly.
func ExtendLock(id uuid.UUID, requesterID uint, additionalMinutes uint) (*models.ReservationIntent, error) {
	d := db.GetDb()
	var intent models.ReservationIntent
	err := d.Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where(&models.ReservationIntent{ID: id}).
			First(&intent).
			Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return types.ErrNotFound
			}
			return err
		}
		if intent.CustomerID != requesterID {
			return types.ErrUnauthorized
		}
		if intent.Status.Terminal() {
			return types.ErrInvalidState
		}
		now := time.Now()
		if now.After(intent.ExpiresAt) {
			return types.ErrExpired
		}
		newExpiry := intent.ExpiresAt.Add(time.Duration(additionalMinutes) * time.Minute)
		ceiling := intent.LockedAt.Add(config.MaxLockDuration())
		if newExpiry.After(ceiling) {
			newExpiry = ceiling
		}
		res := tx.
			Model(&models.ReservationIntent{}).
			Where("id = ? AND status = ? AND expires_at = ?", id, types.INTENT_LOCKED, intent.ExpiresAt).
			Update("expires_at", newExpiry)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return types.ErrInvalidState
		}
		intent.ExpiresAt = newExpiry
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &intent, nil
}

// CancelIntent releases a lock on the customer's own request. Only the
// creating customer may cancel, and only while the intent is still locked.
func CancelIntent(id uuid.UUID, requesterID uint, reason string) (*models.ReservationIntent, error) {
	d := db.GetDb()
	var intent models.ReservationIntent
	err := d.Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where(&models.ReservationIntent{ID: id}).
			First(&intent).
			Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return types.ErrNotFound
			}
			return err
		}
		if intent.CustomerID != requesterID {
			return types.ErrUnauthorized
		}
		res := tx.
			Model(&models.ReservationIntent{}).
			Where("id = ? AND status = ?", id, types.INTENT_LOCKED).
			Updates(map[string]any{
				"status":         types.INTENT_CANCELLED,
				"failure_reason": reason,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return types.ErrInvalidState
		}
		intent.Status = types.INTENT_CANCELLED
		intent.FailureReason = &reason
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &intent, nil
}
