package service

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// StationContext identifies who is operating which terminal for a given call.
// It always travels explicitly as a value — never ambient state — so several
// stations can hit the same backend without stepping on each other.
type StationContext struct {
	StationID    string
	OperatorName string
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// middayUTC pins a calendar date to 12:00 UTC. Receipts carry a business
// date, not a precise timestamp; midday keeps the calendar day stable across
// timezone rollover at day boundaries.
func middayUTC(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 12, 0, 0, 0, time.UTC)
}

// businessDate resolves an optional YYYY-MM-DD string to its midday-pinned
// time, defaulting to today.
func businessDate(s string) (time.Time, error) {
	if s == "" {
		return middayUTC(time.Now().UTC()), nil
	}
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, err
	}
	return middayUTC(d), nil
}
