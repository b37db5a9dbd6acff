package utils

import (
	"errors"
	"fmt"
	"log"
	"math"
	"stays/src/db"
	"stays/src/lib"
	"stays/src/models"
	"stays/src/types"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const reasonLateArrival = "payment arrived after the lock expired"
const reasonLostRace = "listing became unavailable before confirmation"

// transitionLocked is the compare-and-swap all writers share: it only moves an
// intent that is still locked, so exactly one of {paid, expired, cancelled,
// failed} ever wins.
func transitionLocked(d *gorm.DB, id uuid.UUID, to types.IntentStatus, reason string) error {
	res := d.
		Model(&models.ReservationIntent{}).
		Where("id = ? AND status = ?", id, types.INTENT_LOCKED).
		Updates(map[string]any{
			"status":         to,
			"failure_reason": reason,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return types.ErrInvalidState
	}
	return nil
}

// ConfirmIntent converts a held lock into a permanent booking once the
// gateway reports success. The booking insert and the locked→paid transition
// run in one transaction; the second callback for the same intent finds it no
// longer locked and gets ErrInvalidState instead of a duplicate booking.
func ConfirmIntent(id uuid.UUID, transactionID string, amountPaid float64) (*models.Booking, error) {
	d := db.GetDb()
	var intent models.ReservationIntent
	if err := d.
		Where(&models.ReservationIntent{ID: id}).
		First(&intent).
		Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.ErrNotFound
		}
		return nil, err
	}
	if intent.Status.Terminal() {
		return nil, types.ErrInvalidState
	}

	now := time.Now()
	if now.After(intent.ExpiresAt) {
		if err := transitionLocked(d, id, types.INTENT_EXPIRED, reasonLateArrival); err != nil && !errors.Is(err, types.ErrInvalidState) {
			return nil, err
		}
		return nil, types.ErrExpired
	}

	expected := intent.ExpectedCharge()
	if math.Abs(amountPaid-expected) >= 0.01 {
		// Integrity problem, not an ordinary conflict. The lock is left
		// untouched; the attempt is rejected, never silently corrected.
		log.Printf("[integrity] amount mismatch on intent %s: reported=%.2f expected=%.2f txn=%s\n",
			id.String(), amountPaid, expected, transactionID)
		return nil, types.ErrAmountMismatch
	}

	bookingStatus, err := intent.Terms().BookingStatus()
	if err != nil {
		return nil, err
	}

	var booking models.Booking
	err = d.Transaction(func(tx *gorm.DB) error {
		// Shares the listing-row lock with intent creation, so a confirmation
		// landing at the expiry boundary serializes against a new lock on the
		// same listing instead of committing past it.
		var listing models.Listing
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where(&models.Listing{ID: intent.ListingID}).
			First(&listing).
			Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return types.ErrNotFound
			}
			return err
		}

		check, err := IsAvailable(tx, intent.ListingID, intent.StartDate, intent.EndDate, &intent.ID)
		if err != nil {
			return err
		}
		if !check.Available {
			return types.ErrListingUnavailable
		}

		booking = models.Booking{
			IntentID:   intent.ID,
			ListingID:  intent.ListingID,
			CustomerID: intent.CustomerID,
			HostID:     intent.HostID,
			StartDate:  intent.StartDate,
			EndDate:    intent.EndDate,
			Total:      intent.Total,
			AmountPaid: expected,
			Balance:    intent.RemainingAmount,
			Currency:   intent.Currency,
			Status:     bookingStatus,
		}
		if err := tx.Create(&booking).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) ||
				strings.Contains(err.Error(), "duplicate key") ||
				strings.Contains(err.Error(), "UNIQUE constraint") {
				// A concurrent confirmation already owns this intent's booking.
				return types.ErrInvalidState
			}
			return err
		}
		res := tx.
			Model(&models.ReservationIntent{}).
			Where("id = ? AND status = ?", intent.ID, types.INTENT_LOCKED).
			Updates(map[string]any{
				"status":         types.INTENT_PAID,
				"paid_at":        now,
				"booking_id":     booking.ID,
				"transaction_id": transactionID,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// A racing writer got there first; roll the booking back too.
			return types.ErrInvalidState
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, types.ErrListingUnavailable) {
			if terr := transitionLocked(d, id, types.INTENT_FAILED, reasonLostRace); terr != nil && !errors.Is(terr, types.ErrInvalidState) {
				log.Printf("Error failing intent %s: %s\n", id.String(), terr.Error())
			}
		}
		return nil, err
	}

	go notifyHostOfNewBooking(booking)
	return &booking, nil
}

// FailIntent records a gateway-reported payment failure.
func FailIntent(id uuid.UUID, reason string) error {
	d := db.GetDb()
	var intent models.ReservationIntent
	if err := d.
		Where(&models.ReservationIntent{ID: id}).
		First(&intent).
		Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return types.ErrNotFound
		}
		return err
	}
	return transitionLocked(d, id, types.INTENT_FAILED, reason)
}

// Best effort only; a mail failure never unwinds the confirmation.
func notifyHostOfNewBooking(booking models.Booking) {
	d := db.GetDb()
	var host models.User
	if err := d.
		Where(&models.User{ID: booking.HostID}).
		First(&host).
		Error; err != nil {
		log.Printf("Could not load host %d for booking notification: %s\n", booking.HostID, err.Error())
		return
	}
	subject := fmt.Sprintf("New booking #%d", booking.ID)
	body := fmt.Sprintf("Listing %d was booked from %s to %s. Current status: %s.",
		booking.ListingID, booking.StartDate, booking.EndDate, booking.Status)
	if err := lib.SendMail(host.Email, subject, body); err != nil {
		log.Printf("Error notifying host %d of booking %d: %s\n", host.ID, booking.ID, err.Error())
	}
}
