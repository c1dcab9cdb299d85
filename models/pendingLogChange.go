package models

import "time"

// PendingLogDeletion is one pending deletion instruction for a specific time
// log, keyed by (user, log). Status mirrors the edit-request lifecycle minus
// "used" (a deletion is applied by the admin, never consumed by the user).
type PendingLogDeletion struct {
	Pending_Log_Deletion_ID int       `json:"pendingLogDeletionId" goqu:"skipinsert"`
	User_ID                 int       `json:"userId"`
	Req_Date                time.Time `json:"reqDate"`
	Log_ID                  int       `json:"logId"`
	Reason                  string    `json:"reason"`
	Status                  string    `json:"status"`
	Datetime_Create         time.Time `json:"datetimeCreate" goqu:"skipinsert"`
	Datetime_Update         time.Time `json:"datetimeUpdate" goqu:"skipinsert"`
}

// PendingLogEdit carries the full proposed replacement values for one time
// log, keyed by (user, log). Omitted fields were already backfilled from the
// existing log at request time, so approval can apply the row as-is.
type PendingLogEdit struct {
	Pending_Log_Edit_ID     int       `json:"pendingLogEditId" goqu:"skipinsert"`
	User_ID                 int       `json:"userId"`
	Req_Date                time.Time `json:"reqDate"`
	Log_ID                  int       `json:"logId"`
	New_Hours               float64   `json:"newHours"`
	New_Description         string    `json:"newDescription"`
	New_Project_ID          int       `json:"newProjectId"`
	New_Task_Type           string    `json:"newTaskType"`
	New_Page_ID             *int      `json:"newPageId"`
	New_Environment_ID      *int      `json:"newEnvironmentId"`
	New_Issue_ID            *int      `json:"newIssueId"`
	New_Phase_ID            *int      `json:"newPhaseId"`
	New_Generic_Category_ID *int      `json:"newGenericCategoryId"`
	New_Testing_Type        *string   `json:"newTestingType"`
	New_Phase_Activity      *string   `json:"newPhaseActivity"`
	New_Generic_Task_Detail *string   `json:"newGenericTaskDetail"`
	New_Is_Utilized         bool      `json:"newIsUtilized"`
	Reason                  string    `json:"reason"`
	Status                  string    `json:"status"`
	Datetime_Create         time.Time `json:"datetimeCreate" goqu:"skipinsert"`
	Datetime_Update         time.Time `json:"datetimeUpdate" goqu:"skipinsert"`
}
