package models

import "time"

// BenchProjectCode is the po_number of the sentinel project that absorbs
// off-production / bench hours.
const BenchProjectCode = "OFF-PROD-001"

// Project statuses that keep a project out of the time-log picker.
const (
	ProjectStatusInProgress = "in_progress"
	ProjectStatusCancelled  = "cancelled"
	ProjectStatusArchived   = "archived"
)

type Project struct {
	Project_ID      int       `json:"projectId" goqu:"skipinsert"`
	PO_Number       string    `json:"poNumber"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Status          string    `json:"status"`
	Total_Hours     float64   `json:"totalHours"`
	Created_By      int       `json:"createdBy"`
	Datetime_Create time.Time `json:"datetimeCreate" goqu:"skipinsert"`
	Datetime_Update time.Time `json:"datetimeUpdate" goqu:"skipinsert"`
}

type ProjectPhase struct {
	Phase_ID     int     `json:"phaseId" goqu:"skipinsert"`
	Project_ID   int     `json:"projectId"`
	Phase_Name   string  `json:"phaseName"`
	Actual_Hours float64 `json:"actualHours"`
}

type ProjectPage struct {
	Page_ID    int    `json:"pageId" goqu:"skipinsert"`
	Project_ID int    `json:"projectId"`
	Page_Name  string `json:"pageName"`
}

type Environment struct {
	Environment_ID int    `json:"environmentId" goqu:"skipinsert"`
	Name           string `json:"name"`
}

type Issue struct {
	Issue_ID   int    `json:"issueId" goqu:"skipinsert"`
	Project_ID int    `json:"projectId"`
	Title      string `json:"title"`
}

type GenericCategory struct {
	Category_ID   int    `json:"categoryId" goqu:"skipinsert"`
	Category_Name string `json:"categoryName"`
}
