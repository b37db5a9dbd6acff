package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

func GetDSN() string {
	DATABASE_HOST := os.Getenv("DATABASE_HOST")
	DATABASE_PORT := os.Getenv("DATABASE_PORT")
	DATABASE_SSLMODE := os.Getenv("DATABASE_SSLMODE")
	DATABASE_TIMEZONE := os.Getenv("DATABASE_TIMEZONE")
	DATABASE_USER := os.Getenv("DATABASE_USER")
	DATABASE_PASSWORD := os.Getenv("DATABASE_PASSWORD")
	DATABASE_NAME := os.Getenv("DATABASE_NAME")
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s", DATABASE_HOST, DATABASE_USER, DATABASE_PASSWORD, DATABASE_NAME, DATABASE_PORT, DATABASE_SSLMODE, DATABASE_TIMEZONE)
	return dsn
}

const TIME_PARSE_FORMAT = "2006-01-02 15:04:05 -07:00"

// DATE_FORMAT is the calendar-date layout for stay ranges. Dates are stored
// and compared as plain strings, no timezone arithmetic.
const DATE_FORMAT = "2006-01-02"

const (
	DEFAULT_LOCK_MINUTES = 15
	MAX_LOCK_MINUTES     = 30
)

// DefaultLockDuration is how long a new reservation lock is held before the
// reaper may reclaim it. Overridable via LOCK_DURATION_MINUTES, clamped to
// MaxLockDuration.
func DefaultLockDuration() time.Duration {
	env := os.Getenv("LOCK_DURATION_MINUTES")
	mins, err := strconv.Atoi(env)
	if err != nil || mins < 1 {
		mins = DEFAULT_LOCK_MINUTES
	}
	if mins > MAX_LOCK_MINUTES {
		mins = MAX_LOCK_MINUTES
	}
	return time.Duration(mins) * time.Minute
}

// MaxLockDuration is the hard ceiling on total lock lifetime measured from
// locked_at. Extensions never push expires_at past it.
func MaxLockDuration() time.Duration {
	return MAX_LOCK_MINUTES * time.Minute
}

func ReaperInterval() time.Duration {
	env := os.Getenv("REAPER_INTERVAL_SECONDS")
	secs, err := strconv.Atoi(env)
	if err != nil || secs < 1 {
		return 60 * time.Second
	}
	return time.Duration(secs) * time.Second
}
