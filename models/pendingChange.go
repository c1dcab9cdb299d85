package models

import "time"

// PendingChange is the buffered snapshot of a user's proposed status, notes
// and personal note for a date outside the directly-editable window. At most
// one live snapshot per (user, date); a new proposal replaces the previous
// one wholesale.
type PendingChange struct {
	Pending_Change_ID int       `json:"pendingChangeId" goqu:"skipinsert"`
	User_ID           int       `json:"userId"`
	Req_Date          time.Time `json:"reqDate"`
	Status            string    `json:"status"`
	Notes             string    `json:"notes"`
	Personal_Note     string    `json:"personalNote"`
	Datetime_Create   time.Time `json:"datetimeCreate" goqu:"skipinsert"`
	Datetime_Update   time.Time `json:"datetimeUpdate" goqu:"skipinsert"`
}

// PendingTimeLog is one proposed time-log line attached to a snapshot.
// Lines live in their own table and are written in the same transaction as
// the snapshot, so concurrent buffering cannot lose entries.
type PendingTimeLog struct {
	Pending_Time_Log_ID int     `json:"pendingTimeLogId" goqu:"skipinsert"`
	Pending_Change_ID   int     `json:"pendingChangeId"`
	Project_ID          int     `json:"projectId"`
	Task_Type           string  `json:"taskType"`
	Page_ID             *int    `json:"pageId"`
	Environment_ID      *int    `json:"environmentId"`
	Issue_ID            *int    `json:"issueId"`
	Phase_ID            *int    `json:"phaseId"`
	Generic_Category_ID *int    `json:"genericCategoryId"`
	Testing_Type        *string `json:"testingType"`
	Hours               float64 `json:"hours"`
	Description         string  `json:"description"`
	Is_Utilized         bool    `json:"isUtilized"`
}

// PendingTimeLogLine is the wire shape of one proposed line inside
// SavePendingChanges.
type PendingTimeLogLine struct {
	Project_ID          int     `json:"projectId"`
	Task_Type           string  `json:"taskType"`
	Page_IDs            []int   `json:"pageIds"`
	Environment_IDs     []int   `json:"environmentIds"`
	Issue_ID            *int    `json:"issueId"`
	Phase_ID            *int    `json:"phaseId"`
	Generic_Category_ID *int    `json:"genericCategoryId"`
	Testing_Type        string  `json:"testingType"`
	Hours               float64 `json:"hours"`
	Description         string  `json:"description"`
	Is_Utilized         bool    `json:"isUtilized"`
}

// PendingChangeSave is the request body for POST /pending-changes. It
// replaces the prior snapshot for (user, date) wholesale; it does not create
// or touch an edit request.
type PendingChangeSave struct {
	Date          string               `json:"date"`
	Status        string               `json:"status"`
	Notes         string               `json:"notes"`
	Personal_Note string               `json:"personalNote"`
	Pending_Logs  []PendingTimeLogLine `json:"pendingTimeLogs"`
}
