package models

import "time"

// PersonalNote is a private per-day note stored in user_calendar_notes.
// Owned exclusively by the user; never surfaced to anyone else.
type PersonalNote struct {
	Note_ID         int       `json:"noteId" goqu:"skipinsert"`
	User_ID         int       `json:"userId"`
	Note_Date       time.Time `json:"noteDate"`
	Content         string    `json:"content"`
	Datetime_Create time.Time `json:"datetimeCreate" goqu:"skipinsert"`
	Datetime_Update time.Time `json:"datetimeUpdate" goqu:"skipinsert"`
}
