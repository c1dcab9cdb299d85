package models

import (
	"strings"
	"time"
)

// Availability status keys. The master list is configurable per deployment;
// these are the defaults seeded by the initial migration.
const (
	StatusNotUpdated = "not_updated"
	StatusAvailable  = "available"
	StatusWorking    = "working"
	StatusBusy       = "busy"
	StatusOnLeave    = "on_leave"
	StatusSickLeave  = "sick_leave"
)

// DefaultStatusKeys is the fallback key set used when the availability
// status master table is empty.
var DefaultStatusKeys = []string{
	StatusNotUpdated, StatusAvailable, StatusWorking,
	StatusBusy, StatusOnLeave, StatusSickLeave,
}

// NormalizeStatusKey lowercases the input and returns fallback when the key
// is not in the allowed set.
func NormalizeStatusKey(key string, allowed []string, fallback string) string {
	key = strings.ToLower(strings.TrimSpace(key))
	for _, k := range allowed {
		if k == key {
			return key
		}
	}
	return fallback
}

// DailyStatus is one row of user_daily_status: one per (user, date).
// Rows are upserted on direct updates and on approval of pending changes;
// the workflow never deletes them.
type DailyStatus struct {
	Daily_Status_ID int       `json:"dailyStatusId" goqu:"skipinsert"`
	User_ID         int       `json:"userId"`
	Status_Date     time.Time `json:"statusDate"`
	Status          string    `json:"status"`
	Notes           string    `json:"notes"`
	Datetime_Create time.Time `json:"datetimeCreate" goqu:"skipinsert"`
	Datetime_Update time.Time `json:"datetimeUpdate" goqu:"skipinsert"`
}

// DailyStatusUpdate is the request body for POST /daily-status.
// Personal_Note is a pointer so "field omitted" and "field emptied" can be
// told apart: an empty string deletes the note for that date.
type DailyStatusUpdate struct {
	Date          string  `json:"date"`
	Status        string  `json:"status"`
	Notes         string  `json:"notes"`
	Personal_Note *string `json:"personalNote"`
	User_ID       int     `json:"userId"` // admin only: act on another user
}
