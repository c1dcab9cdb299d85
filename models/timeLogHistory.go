package models

import "time"

// History action type constants for project_time_log_history.
const (
	// HistoryActionCreated records insertion of a time log row.
	HistoryActionCreated = "created"

	// HistoryActionUpdated records an in-place edit (direct or via approval).
	HistoryActionUpdated = "updated"

	// HistoryActionDeleted records removal of a time log row.
	HistoryActionDeleted = "deleted"
)

// TimeLogHistory is one append-only audit row. Rows are never mutated or
// deleted; Time_Log_ID is kept nullable so the audit outlives the log.
type TimeLogHistory struct {
	History_ID      int        `json:"historyId" goqu:"skipinsert"`
	Time_Log_ID     *int       `json:"timeLogId"`
	Project_ID      int        `json:"projectId"`
	User_ID         int        `json:"userId"`
	Action_Type     string     `json:"actionType"`
	Old_Log_Date    *time.Time `json:"oldLogDate"`
	New_Log_Date    *time.Time `json:"newLogDate"`
	Old_Hours       *float64   `json:"oldHours"`
	New_Hours       *float64   `json:"newHours"`
	Old_Description *string    `json:"oldDescription"`
	New_Description *string    `json:"newDescription"`
	Changed_By      int        `json:"changedBy"`
	Context_JSON    *string    `json:"contextJson"`
	Changed_At      time.Time  `json:"changedAt" goqu:"skipinsert"`
}
