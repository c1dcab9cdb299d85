package models

import "time"

// Canonical task type enum. Every entry point runs its input through
// NormalizeTaskType; the stored value is always one of these.
const (
	TaskPageTesting  = "page_testing"
	TaskProjectPhase = "project_phase"
	TaskGenericTask  = "generic_task"
	TaskRegression   = "regression"
	TaskOther        = "other"
)

// taskTypeAliases maps legacy form values onto the canonical enum.
var taskTypeAliases = map[string]string{
	"regression_testing": TaskRegression,
	"page_qa":            TaskPageTesting,
}

// NormalizeTaskType resolves aliases and falls back to TaskOther for
// anything outside the canonical set.
func NormalizeTaskType(input string) string {
	if canonical, ok := taskTypeAliases[input]; ok {
		return canonical
	}
	switch input {
	case TaskPageTesting, TaskProjectPhase, TaskGenericTask, TaskRegression, TaskOther:
		return input
	}
	return TaskOther
}

// TimeLog is one logged work session in project_time_logs.
type TimeLog struct {
	Time_Log_ID         int       `json:"timeLogId" goqu:"skipinsert"`
	User_ID             int       `json:"userId"`
	Project_ID          int       `json:"projectId"`
	Page_ID             *int      `json:"pageId"`
	Environment_ID      *int      `json:"environmentId"`
	Issue_ID            *int      `json:"issueId"`
	Phase_ID            *int      `json:"phaseId"`
	Generic_Category_ID *int      `json:"genericCategoryId"`
	Task_Type           string    `json:"taskType"`
	Testing_Type        *string   `json:"testingType"`
	Log_Date            time.Time `json:"logDate"`
	Hours_Spent         float64   `json:"hoursSpent"`
	Description         string    `json:"description"`
	Is_Utilized         bool      `json:"isUtilized"`
	Datetime_Create     time.Time `json:"datetimeCreate" goqu:"skipinsert"`
	Datetime_Update     time.Time `json:"datetimeUpdate" goqu:"skipinsert"`
}

// TimeLogCreate is the request body for POST /time-logs.
type TimeLogCreate struct {
	Date               string  `json:"date"`
	Project_ID         int     `json:"projectId"`
	Task_Type          string  `json:"taskType"`
	Page_IDs           []int   `json:"pageIds"`
	Environment_IDs    []int   `json:"environmentIds"`
	Issue_ID           *int    `json:"issueId"`
	Phase_ID           *int    `json:"phaseId"`
	Generic_Category_ID *int   `json:"genericCategoryId"`
	Testing_Type       string  `json:"testingType"`
	Phase_Activity     string  `json:"phaseActivity"`
	Generic_Task_Detail string `json:"genericTaskDetail"`
	Bench_Activity     string  `json:"benchActivity"`
	Hours_Spent        float64 `json:"hoursSpent"`
	Description        string  `json:"description"`
}

// TimeLogEditRequest is the request body for POST /time-logs/:id/edit-request.
// Pointer fields fall back to the existing log values when omitted.
type TimeLogEditRequest struct {
	Date                string   `json:"date"`
	New_Hours           float64  `json:"newHours"`
	New_Description     string   `json:"newDescription"`
	New_Project_ID      int      `json:"newProjectId"`
	New_Task_Type       string   `json:"newTaskType"`
	New_Page_ID         *int     `json:"newPageId"`
	New_Environment_ID  *int     `json:"newEnvironmentId"`
	New_Issue_ID        *int     `json:"newIssueId"`
	New_Phase_ID        *int     `json:"newPhaseId"`
	New_Generic_Category_ID *int `json:"newGenericCategoryId"`
	New_Testing_Type    string   `json:"newTestingType"`
	New_Phase_Activity  string   `json:"newPhaseActivity"`
	New_Generic_Task_Detail string `json:"newGenericTaskDetail"`
	New_Is_Utilized     *bool    `json:"newIsUtilized"`
	Reason              string   `json:"reason"`
}
