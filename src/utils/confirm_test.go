package utils

import (
	"log"
	"stays/src/db"
	"stays/src/models"
	"stays/src/types"
	"testing"
	"time"

	"github.com/go-faker/faker/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type ConfirmTestSuite struct {
	suite.Suite
	DB *gorm.DB

	host     models.User
	customer models.User
	other    models.User
	listing  models.Listing
}

func (s *ConfirmTestSuite) SetupSuite() {
	d, err := gorm.Open(sqlite.Open("file:confirmtest?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		log.Fatalf("error opening test database: %s", err.Error())
	}
	inner, err := d.DB()
	if err != nil {
		log.Fatalf("error accessing inner db instance: %s", err.Error())
	}
	inner.SetMaxOpenConns(1)
	if err := d.AutoMigrate(
		&models.User{},
		&models.Listing{},
		&models.ReservationIntent{},
		&models.Booking{},
	); err != nil {
		log.Fatalf("error migration: %s", err.Error())
	}
	db.NewDB(d)
	s.DB = d

	s.host = models.User{Name: faker.Name(), Email: faker.Email(), Role: "host"}
	s.customer = models.User{Name: faker.Name(), Email: faker.Email()}
	s.other = models.User{Name: faker.Name(), Email: faker.Email()}
	s.Require().NoError(d.Create(&s.host).Error)
	s.Require().NoError(d.Create(&s.customer).Error)
	s.Require().NoError(d.Create(&s.other).Error)

	s.listing = models.Listing{
		Title:    "Canal Loft",
		Location: "Amsterdam",
		Nightly:  200,
		HostID:   s.host.ID,
	}
	s.Require().NoError(d.Create(&s.listing).Error)
}

func (s *ConfirmTestSuite) SetupTest() {
	s.DB.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(&models.Booking{})
	s.DB.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(&models.ReservationIntent{})
}

func (s *ConfirmTestSuite) lockRange(start, end string, paymentType string, depositPercent uint8) *models.ReservationIntent {
	intent, err := CreateIntent(s.customer.ID, &types.CreateIntentRequestBody{
		ListingID:      s.listing.ID,
		StartDate:      start,
		EndDate:        end,
		Total:          500,
		PaymentMethod:  "gateway",
		PaymentType:    paymentType,
		DepositPercent: depositPercent,
	})
	s.Require().NoError(err)
	return intent
}

func (s *ConfirmTestSuite) reload(intent *models.ReservationIntent) *models.ReservationIntent {
	fresh, err := GetIntent(intent.ID)
	s.Require().NoError(err)
	return fresh
}

func (s *ConfirmTestSuite) TestConfirmFullPayment() {
	intent := s.lockRange("2025-08-01", "2025-08-05", "full", 0)

	booking, err := ConfirmIntent(intent.ID, "txn_001", 500)
	s.Require().NoError(err)
	assert.Equal(s.T(), types.BOOKING_APPROVED, booking.Status)
	assert.Equal(s.T(), intent.ID, booking.IntentID)
	assert.EqualValues(s.T(), 500, booking.AmountPaid)
	assert.EqualValues(s.T(), 0, booking.Balance)

	fresh := s.reload(intent)
	assert.Equal(s.T(), types.INTENT_PAID, fresh.Status)
	s.Require().NotNil(fresh.PaidAt)
	s.Require().NotNil(fresh.BookingID)
	assert.Equal(s.T(), booking.ID, *fresh.BookingID)
	s.Require().NotNil(fresh.TransactionID)
	assert.Equal(s.T(), "txn_001", *fresh.TransactionID)
}

func (s *ConfirmTestSuite) TestConfirmDeposit() {
	intent := s.lockRange("2025-08-01", "2025-08-05", "deposit", 20)

	booking, err := ConfirmIntent(intent.ID, "txn_002", 100)
	s.Require().NoError(err)
	assert.Equal(s.T(), types.BOOKING_PENDING, booking.Status)
	assert.EqualValues(s.T(), 100, booking.AmountPaid)
	assert.EqualValues(s.T(), 400, booking.Balance)
}

func (s *ConfirmTestSuite) TestConfirmIsIdempotent() {
	intent := s.lockRange("2025-08-01", "2025-08-05", "full", 0)

	_, err := ConfirmIntent(intent.ID, "txn_003", 500)
	s.Require().NoError(err)

	// The gateway retried the callback.
	_, err = ConfirmIntent(intent.ID, "txn_003", 500)
	assert.ErrorIs(s.T(), err, types.ErrInvalidState)

	var count int64
	s.DB.Model(&models.Booking{}).Count(&count)
	assert.EqualValues(s.T(), 1, count)
}

func (s *ConfirmTestSuite) TestConfirmRejectsWrongAmount() {
	intent := s.lockRange("2025-08-01", "2025-08-05", "full", 0)

	_, err := ConfirmIntent(intent.ID, "txn_004", 450)
	assert.ErrorIs(s.T(), err, types.ErrAmountMismatch)

	// The lock is left intact for a corrected retry.
	fresh := s.reload(intent)
	assert.Equal(s.T(), types.INTENT_LOCKED, fresh.Status)

	_, err = ConfirmIntent(intent.ID, "txn_004", 500)
	assert.NoError(s.T(), err)
}

func (s *ConfirmTestSuite) TestConfirmAfterExpiry() {
	intent := s.lockRange("2025-08-01", "2025-08-05", "full", 0)
	s.Require().NoError(s.DB.
		Model(&models.ReservationIntent{}).
		Where("id = ?", intent.ID).
		Update("expires_at", time.Now().Add(-time.Minute)).
		Error)

	_, err := ConfirmIntent(intent.ID, "txn_005", 500)
	assert.ErrorIs(s.T(), err, types.ErrExpired)

	fresh := s.reload(intent)
	assert.Equal(s.T(), types.INTENT_EXPIRED, fresh.Status)

	var count int64
	s.DB.Model(&models.Booking{}).Count(&count)
	assert.EqualValues(s.T(), 0, count)
}

func (s *ConfirmTestSuite) TestReaperWinsOverLateConfirm() {
	intent := s.lockRange("2025-08-01", "2025-08-05", "full", 0)
	s.Require().NoError(s.DB.
		Model(&models.ReservationIntent{}).
		Where("id = ?", intent.ID).
		Update("expires_at", time.Now().Add(-time.Minute)).
		Error)

	count, err := ReapExpired()
	s.Require().NoError(err)
	assert.EqualValues(s.T(), 1, count)

	_, err = ConfirmIntent(intent.ID, "txn_006", 500)
	assert.ErrorIs(s.T(), err, types.ErrInvalidState)

	fresh := s.reload(intent)
	assert.Equal(s.T(), types.INTENT_EXPIRED, fresh.Status)
	s.Require().NotNil(fresh.FailureReason)
	assert.Equal(s.T(), ReapReason, *fresh.FailureReason)
}

func (s *ConfirmTestSuite) TestReaperSkipsPaidIntents() {
	intent := s.lockRange("2025-08-01", "2025-08-05", "full", 0)
	_, err := ConfirmIntent(intent.ID, "txn_007", 500)
	s.Require().NoError(err)

	// Even once the original deadline is behind us, a paid intent stays paid.
	s.Require().NoError(s.DB.
		Model(&models.ReservationIntent{}).
		Where("id = ?", intent.ID).
		Update("expires_at", time.Now().Add(-time.Minute)).
		Error)
	count, err := ReapExpired()
	s.Require().NoError(err)
	assert.EqualValues(s.T(), 0, count)

	fresh := s.reload(intent)
	assert.Equal(s.T(), types.INTENT_PAID, fresh.Status)
}

func (s *ConfirmTestSuite) TestConfirmLosesToNewBooking() {
	intent := s.lockRange("2025-08-01", "2025-08-05", "full", 0)

	// An overlapping booking landed through another channel before the
	// gateway called back.
	rival := models.Booking{
		ListingID:  s.listing.ID,
		CustomerID: s.other.ID,
		HostID:     s.host.ID,
		StartDate:  "2025-08-03",
		EndDate:    "2025-08-08",
		Status:     types.BOOKING_APPROVED,
	}
	s.Require().NoError(s.DB.Create(&rival).Error)

	_, err := ConfirmIntent(intent.ID, "txn_008", 500)
	assert.ErrorIs(s.T(), err, types.ErrListingUnavailable)

	fresh := s.reload(intent)
	assert.Equal(s.T(), types.INTENT_FAILED, fresh.Status)
}

func (s *ConfirmTestSuite) TestConfirmRejectsSecondBookingForIntent() {
	intent := s.lockRange("2025-08-01", "2025-08-05", "full", 0)

	// A booking row already references the intent, as if a concurrent
	// confirmation committed between the status read and the insert. Kept out
	// of the availability window so the unique index is what trips.
	rival := models.Booking{
		IntentID:   intent.ID,
		ListingID:  s.listing.ID,
		CustomerID: s.customer.ID,
		HostID:     s.host.ID,
		StartDate:  "2025-08-01",
		EndDate:    "2025-08-05",
		Status:     types.BOOKING_CANCELED,
	}
	s.Require().NoError(s.DB.Create(&rival).Error)

	_, err := ConfirmIntent(intent.ID, "txn_009", 500)
	assert.ErrorIs(s.T(), err, types.ErrInvalidState)

	var count int64
	s.DB.Model(&models.Booking{}).Count(&count)
	assert.EqualValues(s.T(), 1, count)
}

func (s *ConfirmTestSuite) TestConfirmMissingListing() {
	intent := models.ReservationIntent{
		ListingID:   s.listing.ID + 1000,
		CustomerID:  s.customer.ID,
		HostID:      s.host.ID,
		StartDate:   "2025-08-01",
		EndDate:     "2025-08-05",
		Total:       500,
		PaymentType: types.PAY_FULL,
		Status:      types.INTENT_LOCKED,
		LockedAt:    time.Now(),
		ExpiresAt:   time.Now().Add(15 * time.Minute),
	}
	s.Require().NoError(s.DB.Create(&intent).Error)

	_, err := ConfirmIntent(intent.ID, "txn_010", 500)
	assert.ErrorIs(s.T(), err, types.ErrNotFound)
}

func (s *ConfirmTestSuite) TestFailIntent() {
	intent := s.lockRange("2025-08-01", "2025-08-05", "full", 0)

	s.Require().NoError(FailIntent(intent.ID, "card declined"))

	fresh := s.reload(intent)
	assert.Equal(s.T(), types.INTENT_FAILED, fresh.Status)
	s.Require().NotNil(fresh.FailureReason)
	assert.Equal(s.T(), "card declined", *fresh.FailureReason)

	// The range frees up once the reaper or a failure releases it.
	check, err := IsAvailable(s.DB, s.listing.ID, "2025-08-01", "2025-08-05", nil)
	s.Require().NoError(err)
	assert.True(s.T(), check.Available)
}

func TestConfirmSuite(t *testing.T) {
	suite.Run(t, new(ConfirmTestSuite))
}
