package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/TeamTrack/initializers"
	"github.com/TeamTrack/models"
	"github.com/TeamTrack/services"
	"github.com/doug-martin/goqu/v9"
)

// GetTimeLogs lists logs for (user, date) with pending edit/deletion markers.
// Admins may query other users via ?user_id=.
func GetTimeLogs(c *gin.Context) {
	currentUser := c.MustGet("currentUser").(models.User)
	isAdmin := c.MustGet("admin").(bool)

	dateStr := c.DefaultQuery("date", now().Format(dateLayout))
	date, err := parseDate(dateStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date", "details": err.Error()})
		return
	}

	targetUser := currentUser.User_ID
	if userParam := c.Query("user_id"); userParam != "" {
		requested, err := strconv.Atoi(userParam)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID", "details": err.Error()})
			return
		}
		if requested != currentUser.User_ID && !isAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "You don't have permission to view this user's time logs"})
			return
		}
		targetUser = requested
	}

	var logs []models.TimeLog
	err = initializers.DB.From("project_time_logs").
		Where(goqu.C("user_id").Eq(targetUser), goqu.C("log_date").Eq(date)).
		Order(goqu.C("time_log_id").Asc()).
		ScanStructs(&logs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch time logs", "details": err.Error()})
		return
	}

	pendingDeletions, pendingEdits, err := pendingLogMarkers(targetUser, dateStr)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch pending changes", "details": err.Error()})
		return
	}

	type timeLogView struct {
		models.TimeLog
		Has_Pending_Deletion bool `json:"hasPendingDeletion"`
		Has_Pending_Edit     bool `json:"hasPendingEdit"`
	}

	views := make([]timeLogView, 0, len(logs))
	var totalHours float64
	for _, entry := range logs {
		views = append(views, timeLogView{
			TimeLog:              entry,
			Has_Pending_Deletion: pendingDeletions[entry.Time_Log_ID],
			Has_Pending_Edit:     pendingEdits[entry.Time_Log_ID],
		})
		totalHours += entry.Hours_Spent
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "timeLogs": views, "totalHours": totalHours})
}

func pendingLogMarkers(userID int, date string) (map[int]bool, map[int]bool, error) {
	var deletionIDs []int
	err := initializers.DB.From("user_pending_log_deletions").
		Select("log_id").
		Where(
			goqu.C("user_id").Eq(userID),
			goqu.C("req_date").Eq(date),
			goqu.C("status").Eq(models.RequestStatusPending),
		).
		ScanVals(&deletionIDs)
	if err != nil {
		return nil, nil, err
	}

	var editIDs []int
	err = initializers.DB.From("user_pending_log_edits").
		Select("log_id").
		Where(
			goqu.C("user_id").Eq(userID),
			goqu.C("req_date").Eq(date),
			goqu.C("status").Eq(models.RequestStatusPending),
		).
		ScanVals(&editIDs)
	if err != nil {
		return nil, nil, err
	}

	deletions := make(map[int]bool, len(deletionIDs))
	for _, id := range deletionIDs {
		deletions[id] = true
	}
	edits := make(map[int]bool, len(editIDs))
	for _, id := range editIDs {
		edits[id] = true
	}
	return deletions, edits, nil
}

// LogTime records work hours for a date.
//
// Dates inside the editable window are written directly. A past date rides
// on an approved edit request if one exists (and consumes it); otherwise the
// submission is buffered into the pending snapshot and an edit request is
// raised automatically, so nothing lands in project_time_logs until an admin
// approves. Future dates are rejected outright.
func LogTime(c *gin.Context) {
	currentUser := c.MustGet("currentUser").(models.User)
	isAdmin := c.MustGet("admin").(bool)

	var create models.TimeLogCreate
	if err := c.ShouldBindJSON(&create); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	date, err := parseDate(create.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date", "details": err.Error()})
		return
	}
	if create.Hours_Spent <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Hours must be greater than zero"})
		return
	}

	today := toDateOnly(now())
	if ClassifyDate(date, today) == dateFuture {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot log time for a future date"})
		return
	}

	create.Task_Type = models.NormalizeTaskType(create.Task_Type)

	// Resolve the project up front so invalid submissions fail the same way
	// on the direct and buffered paths, and buffered lines never carry an
	// unresolvable project.
	projectID, utilized, err := resolveLogProject(initializers.DB, currentUser.User_ID, create)
	switch {
	case err == errProjectRequired:
		c.JSON(http.StatusBadRequest, gin.H{"error": "A project is required"})
		return
	case err == errProjectNotFound:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project"})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve project", "details": err.Error()})
		return
	}

	consumesApproval := false
	if !isAdmin && !IsDirectlyEditable(date, today) {
		var requestStatus string
		found, err := initializers.DB.From("user_edit_requests").
			Select("status").
			Where(
				goqu.C("user_id").Eq(currentUser.User_ID),
				goqu.C("req_date").Eq(date),
				goqu.C("request_type").Eq(models.RequestTypeEdit),
			).
			Order(goqu.C("edit_request_id").Desc()).
			ScanVal(&requestStatus)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check edit requests", "details": err.Error()})
			return
		}
		switch {
		case found && requestStatus == models.RequestStatusApproved:
			consumesApproval = true
		default:
			bufferTimeLog(c, currentUser, create, date, projectID, utilized)
			return
		}
	}

	logIDs, err := writeTimeLogs(currentUser, create, date, projectID, utilized, consumesApproval)
	if err != nil {
		log.Println(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log time", "details": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":    true,
		"message":    "Time logged successfully",
		"timeLogIds": logIDs,
		"buffered":   false,
	})
}

// writeTimeLogs performs the direct path in one transaction: split hours
// across pages, insert the log rows plus their audit entries, refresh
// aggregates, and consume an approval when one was used. The project was
// already resolved and validated by the caller.
func writeTimeLogs(user models.User, create models.TimeLogCreate, date time.Time, projectID int, utilized bool, consumesApproval bool) ([]int, error) {
	tx, err := initializers.DB.Begin()
	if err != nil {
		return nil, err
	}

	var logIDs []int
	err = tx.Wrap(func() error {
		lines := splitTimeLogLines(create)
		batchID := uuid.NewString()
		description := decorateDescription(create)

		for _, line := range lines {
			row := models.TimeLog{
				User_ID:             user.User_ID,
				Project_ID:          projectID,
				Page_ID:             line.pageID,
				Environment_ID:      line.environmentID,
				Issue_ID:            create.Issue_ID,
				Phase_ID:            create.Phase_ID,
				Generic_Category_ID: create.Generic_Category_ID,
				Task_Type:           create.Task_Type,
				Testing_Type:        nilIfEmpty(create.Testing_Type),
				Log_Date:            date,
				Hours_Spent:         line.hours,
				Description:         description,
				Is_Utilized:         utilized,
			}

			var logID int
			inserted, err := tx.Insert("project_time_logs").
				Rows(row).
				Returning("time_log_id").
				Executor().ScanVal(&logID)
			if err != nil {
				return err
			}
			if !inserted {
				return fmt.Errorf("insert returned no id")
			}
			logIDs = append(logIDs, logID)

			if err := recordHistory(tx, models.TimeLogHistory{
				Time_Log_ID:     &logID,
				Project_ID:      projectID,
				User_ID:         user.User_ID,
				Action_Type:     models.HistoryActionCreated,
				New_Log_Date:    &date,
				New_Hours:       &line.hours,
				New_Description: &description,
				Changed_By:      user.User_ID,
			}, batchID, len(lines)); err != nil {
				return err
			}
		}

		if create.Task_Type == models.TaskGenericTask && create.Generic_Category_ID != nil {
			_, err := tx.Insert("user_generic_tasks").
				Rows(goqu.Record{
					"user_id":          user.User_ID,
					"category_id":      *create.Generic_Category_ID,
					"task_description": create.Generic_Task_Detail,
					"hours_spent":      create.Hours_Spent,
					"task_date":        date,
				}).
				Executor().Exec()
			if err != nil {
				return err
			}
		}

		if create.Phase_ID != nil && utilized {
			_, err := tx.Update("project_phases").
				Set(goqu.Record{"actual_hours": goqu.L("actual_hours + ?", create.Hours_Spent)}).
				Where(goqu.C("phase_id").Eq(*create.Phase_ID)).
				Executor().Exec()
			if err != nil {
				return err
			}
		}

		if err := refreshProjectTotal(tx, projectID); err != nil {
			return err
		}

		if consumesApproval {
			_, err := tx.Update("user_edit_requests").
				Set(goqu.Record{
					"status":          models.RequestStatusUsed,
					"datetime_update": goqu.L("NOW()"),
				}).
				Where(
					goqu.C("user_id").Eq(user.User_ID),
					goqu.C("req_date").Eq(date),
					goqu.C("request_type").Eq(models.RequestTypeEdit),
					goqu.C("status").Eq(models.RequestStatusApproved),
				).
				Executor().Exec()
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return logIDs, nil
}

type timeLogLine struct {
	pageID        *int
	environmentID *int
	hours         float64
}

// splitTimeLogLines fans a multi-page submission out into one line per page,
// dividing the hours evenly. Page-less submissions stay a single line.
func splitTimeLogLines(create models.TimeLogCreate) []timeLogLine {
	var envID *int
	if len(create.Environment_IDs) > 0 {
		envID = &create.Environment_IDs[0]
	}

	if len(create.Page_IDs) == 0 {
		return []timeLogLine{{pageID: nil, environmentID: envID, hours: create.Hours_Spent}}
	}

	perPage := create.Hours_Spent / float64(len(create.Page_IDs))
	lines := make([]timeLogLine, 0, len(create.Page_IDs))
	for i := range create.Page_IDs {
		line := timeLogLine{pageID: &create.Page_IDs[i], hours: perPage}
		if i < len(create.Environment_IDs) {
			line.environmentID = &create.Environment_IDs[i]
		} else {
			line.environmentID = envID
		}
		lines = append(lines, line)
	}
	return lines
}

// decorateDescription folds the task-specific detail fields into the stored
// description so the log row reads on its own.
func decorateDescription(create models.TimeLogCreate) string {
	var parts []string
	if create.Bench_Activity != "" {
		parts = append(parts, "[Bench] "+create.Bench_Activity)
	}
	if create.Phase_Activity != "" {
		parts = append(parts, "[Phase] "+create.Phase_Activity)
	}
	if create.Generic_Task_Detail != "" {
		parts = append(parts, create.Generic_Task_Detail)
	}
	if create.Description != "" {
		parts = append(parts, create.Description)
	}
	return strings.Join(parts, " | ")
}

func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// queryRunner is the slice of goqu.Database / goqu.TxDatabase the project
// resolution helpers need, so they work inside and outside a transaction.
type queryRunner interface {
	From(from ...interface{}) *goqu.SelectDataset
	Insert(table interface{}) *goqu.InsertDataset
	Update(table interface{}) *goqu.UpdateDataset
}

var (
	errProjectRequired = errors.New("a project is required")
	errProjectNotFound = errors.New("project not found")
)

// resolveLogProject decides which project a submission lands on and whether
// its hours count as utilized. Bench activity resolves to the off-production
// sentinel; picking the sentinel directly from the project list is bench
// time too and stays out of the utilized aggregates.
func resolveLogProject(db queryRunner, userID int, create models.TimeLogCreate) (int, bool, error) {
	if create.Bench_Activity != "" {
		projectID, err := resolveBenchProject(db, userID)
		return projectID, false, err
	}

	if create.Project_ID <= 0 {
		return 0, false, errProjectRequired
	}

	var poNumber string
	found, err := db.From("projects").
		Select("po_number").
		Where(goqu.C("project_id").Eq(create.Project_ID)).
		ScanVal(&poNumber)
	if err != nil {
		return 0, false, err
	}
	if !found {
		return 0, false, errProjectNotFound
	}
	return create.Project_ID, poNumber != models.BenchProjectCode, nil
}

// resolveBenchProject finds the sentinel off-production project, reactivating
// it when it was cancelled or archived, and creating it when it does not
// exist at all.
func resolveBenchProject(db queryRunner, userID int) (int, error) {
	var project models.Project
	found, err := db.From("projects").
		Where(goqu.C("po_number").Eq(models.BenchProjectCode)).
		ScanStruct(&project)
	if err != nil {
		return 0, err
	}

	if !found {
		// Legacy rows predate the po_number convention.
		found, err = db.From("projects").
			Where(goqu.C("title").ILike("%OFF%PROD%")).
			Order(goqu.C("project_id").Asc()).
			ScanStruct(&project)
		if err != nil {
			return 0, err
		}
	}

	if found {
		if project.Status == models.ProjectStatusCancelled || project.Status == models.ProjectStatusArchived {
			_, err := db.Update("projects").
				Set(goqu.Record{
					"status":          models.ProjectStatusInProgress,
					"datetime_update": goqu.L("NOW()"),
				}).
				Where(goqu.C("project_id").Eq(project.Project_ID)).
				Executor().Exec()
			if err != nil {
				return 0, err
			}
		}
		return project.Project_ID, nil
	}

	var projectID int
	inserted, err := db.Insert("projects").
		Rows(goqu.Record{
			"po_number":   models.BenchProjectCode,
			"title":       "Off Production",
			"description": "Bench and off-production activities",
			"status":      models.ProjectStatusInProgress,
			"created_by":  userID,
		}).
		Returning("project_id").
		Executor().ScanVal(&projectID)
	if err != nil {
		return 0, err
	}
	if !inserted {
		return 0, fmt.Errorf("bench project insert returned no id")
	}
	return projectID, nil
}

// recordHistory appends one audit row. batchID ties together the rows of a
// single multi-page submission.
func recordHistory(tx *goqu.TxDatabase, entry models.TimeLogHistory, batchID string, batchSize int) error {
	if batchID != "" {
		contextJSON, err := json.Marshal(map[string]any{
			"batchId":   batchID,
			"batchSize": batchSize,
		})
		if err != nil {
			return err
		}
		ctx := string(contextJSON)
		entry.Context_JSON = &ctx
	}
	_, err := tx.Insert("project_time_log_history").
		Rows(entry).
		Executor().Exec()
	return err
}

// refreshProjectTotal recomputes projects.total_hours from the utilized logs
// so the denormalized column never drifts.
func refreshProjectTotal(tx *goqu.TxDatabase, projectID int) error {
	var total float64
	_, err := tx.From("project_time_logs").
		Select(goqu.COALESCE(goqu.SUM("hours_spent"), 0)).
		Where(goqu.C("project_id").Eq(projectID), goqu.C("is_utilized").IsTrue()).
		ScanVal(&total)
	if err != nil {
		return err
	}

	_, err = tx.Update("projects").
		Set(goqu.Record{
			"total_hours":     total,
			"datetime_update": goqu.L("NOW()"),
		}).
		Where(goqu.C("project_id").Eq(projectID)).
		Executor().Exec()
	return err
}

// bufferTimeLog stores a past-date submission in the pending tables and
// raises (or refreshes) the matching edit request, then alerts the admins.
// The project is already resolved, so the stored lines apply cleanly later.
func bufferTimeLog(c *gin.Context, user models.User, create models.TimeLogCreate, date time.Time, projectID int, utilized bool) {
	tx, err := initializers.DB.Begin()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction", "details": err.Error()})
		return
	}

	err = tx.Wrap(func() error {
		pendingChangeID, err := ensurePendingSnapshot(tx, user.User_ID, create.Date)
		if err != nil {
			return err
		}

		description := decorateDescription(create)
		for _, line := range splitTimeLogLines(create) {
			_, err := tx.Insert("user_pending_time_logs").
				Rows(goqu.Record{
					"pending_change_id":   pendingChangeID,
					"project_id":          projectID,
					"task_type":           create.Task_Type,
					"page_id":             line.pageID,
					"environment_id":      line.environmentID,
					"issue_id":            create.Issue_ID,
					"phase_id":            create.Phase_ID,
					"generic_category_id": create.Generic_Category_ID,
					"testing_type":        nilIfEmpty(create.Testing_Type),
					"hours":               line.hours,
					"description":         description,
					"is_utilized":         utilized,
				}).
				Executor().Exec()
			if err != nil {
				return err
			}
		}

		if err := ensurePendingEditRequest(tx, user.User_ID, create.Date, models.RequestTypeEdit, "Time log for a past date"); err != nil {
			return err
		}

		return notifyAdminsTx(tx, user, models.NotificationTypeEditRequest,
			fmt.Sprintf("%s logged time for %s pending your approval", user.Full_Name, create.Date),
			"/admin/edit-requests")
	})
	if err != nil {
		log.Println(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to buffer time log", "details": err.Error()})
		return
	}

	go services.AlertAdminsOfEditRequest(user, create.Date, models.RequestTypeEdit)

	c.JSON(http.StatusAccepted, gin.H{
		"success":  true,
		"message":  "Time log saved for admin approval",
		"buffered": true,
	})
}

// DeleteTimeLog removes a log the caller owns. Past dates need an approved
// edit request for that date, which the delete consumes; without one the
// caller is steered to a deletion request that the admin applies.
func DeleteTimeLog(c *gin.Context) {
	currentUser := c.MustGet("currentUser").(models.User)
	isAdmin := c.MustGet("admin").(bool)

	logID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid time log ID", "details": err.Error()})
		return
	}

	var entry models.TimeLog
	found, err := initializers.DB.From("project_time_logs").
		Where(goqu.C("time_log_id").Eq(logID)).
		ScanStruct(&entry)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch time log", "details": err.Error()})
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Time log not found"})
		return
	}
	if entry.User_ID != currentUser.User_ID && !isAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't have permission to delete this time log"})
		return
	}

	today := toDateOnly(now())
	logDate := toDateOnly(entry.Log_Date)

	consumesApproval := false
	if !isAdmin && !IsDirectlyEditable(logDate, today) {
		var requestStatus string
		found, err := initializers.DB.From("user_edit_requests").
			Select("status").
			Where(
				goqu.C("user_id").Eq(currentUser.User_ID),
				goqu.C("req_date").Eq(logDate),
				goqu.C("request_type").Eq(models.RequestTypeEdit),
			).
			Order(goqu.C("edit_request_id").Desc()).
			ScanVal(&requestStatus)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check edit requests", "details": err.Error()})
			return
		}
		if !found || requestStatus != models.RequestStatusApproved {
			c.JSON(http.StatusForbidden, gin.H{"error": "Cannot delete past time logs; submit a deletion request instead"})
			return
		}
		consumesApproval = true
	}

	tx, err := initializers.DB.Begin()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction", "details": err.Error()})
		return
	}

	err = tx.Wrap(func() error {
		if err := deleteTimeLogTx(tx, entry, currentUser.User_ID); err != nil {
			return err
		}
		if consumesApproval {
			_, err := tx.Update("user_edit_requests").
				Set(goqu.Record{
					"status":          models.RequestStatusUsed,
					"datetime_update": goqu.L("NOW()"),
				}).
				Where(
					goqu.C("user_id").Eq(currentUser.User_ID),
					goqu.C("req_date").Eq(logDate),
					goqu.C("request_type").Eq(models.RequestTypeEdit),
					goqu.C("status").Eq(models.RequestStatusApproved),
				).
				Executor().Exec()
			return err
		}
		return nil
	})
	if err != nil {
		log.Println(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete time log", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Time log deleted successfully"})
}

// deleteTimeLogTx removes one log row, writes the audit entry, and refreshes
// phase and project aggregates.
func deleteTimeLogTx(tx *goqu.TxDatabase, entry models.TimeLog, changedBy int) error {
	_, err := tx.Delete("project_time_logs").
		Where(goqu.C("time_log_id").Eq(entry.Time_Log_ID)).
		Executor().Exec()
	if err != nil {
		return err
	}

	logDate := toDateOnly(entry.Log_Date)
	if err := recordHistory(tx, models.TimeLogHistory{
		Time_Log_ID:     &entry.Time_Log_ID,
		Project_ID:      entry.Project_ID,
		User_ID:         entry.User_ID,
		Action_Type:     models.HistoryActionDeleted,
		Old_Log_Date:    &logDate,
		Old_Hours:       &entry.Hours_Spent,
		Old_Description: &entry.Description,
		Changed_By:      changedBy,
	}, "", 0); err != nil {
		return err
	}

	if entry.Phase_ID != nil && entry.Is_Utilized {
		_, err := tx.Update("project_phases").
			Set(goqu.Record{"actual_hours": goqu.L("GREATEST(actual_hours - ?, 0)", entry.Hours_Spent)}).
			Where(goqu.C("phase_id").Eq(*entry.Phase_ID)).
			Executor().Exec()
		if err != nil {
			return err
		}
	}

	return refreshProjectTotal(tx, entry.Project_ID)
}

// RequestLogDeletion files a pending deletion request for a past-date log.
// Admins skip the request entirely and delete the log outright.
func RequestLogDeletion(c *gin.Context) {
	currentUser := c.MustGet("currentUser").(models.User)
	isAdmin := c.MustGet("admin").(bool)

	logID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid time log ID", "details": err.Error()})
		return
	}

	var body struct {
		Reason string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	lookup := initializers.DB.From("project_time_logs").
		Where(goqu.C("time_log_id").Eq(logID))
	if !isAdmin {
		lookup = lookup.Where(goqu.C("user_id").Eq(currentUser.User_ID))
	}

	var entry models.TimeLog
	found, err := lookup.ScanStruct(&entry)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch time log", "details": err.Error()})
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Time log not found"})
		return
	}

	if isAdmin {
		tx, err := initializers.DB.Begin()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction", "details": err.Error()})
			return
		}
		err = tx.Wrap(func() error {
			return deleteTimeLogTx(tx, entry, currentUser.User_ID)
		})
		if err != nil {
			log.Println(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete time log", "details": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Time log deleted successfully"})
		return
	}

	logDate := entry.Log_Date.Format(dateLayout)

	tx, err := initializers.DB.Begin()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction", "details": err.Error()})
		return
	}

	err = tx.Wrap(func() error {
		_, err := tx.Insert("user_pending_log_deletions").
			Rows(goqu.Record{
				"user_id":  currentUser.User_ID,
				"req_date": logDate,
				"log_id":   logID,
				"reason":   body.Reason,
				"status":   models.RequestStatusPending,
			}).
			OnConflict(goqu.DoUpdate("user_id, log_id", goqu.Record{
				"reason":          body.Reason,
				"status":          models.RequestStatusPending,
				"datetime_update": goqu.L("NOW()"),
			})).
			Executor().Exec()
		if err != nil {
			return err
		}

		if err := ensurePendingEditRequest(tx, currentUser.User_ID, logDate, models.RequestTypeDelete, body.Reason); err != nil {
			return err
		}

		return notifyAdminsTx(tx, currentUser, models.NotificationTypeEditRequest,
			fmt.Sprintf("%s requested deletion of a time log from %s", currentUser.Full_Name, logDate),
			"/admin/edit-requests")
	})
	if err != nil {
		log.Println(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save deletion request", "details": err.Error()})
		return
	}

	go services.AlertAdminsOfEditRequest(currentUser, logDate, models.RequestTypeDelete)

	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Deletion request submitted"})
}

// RequestLogEdit files a pending edit for a past-date log. Omitted fields
// are backfilled from the current row so the stored proposal is complete.
func RequestLogEdit(c *gin.Context) {
	currentUser := c.MustGet("currentUser").(models.User)

	logID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid time log ID", "details": err.Error()})
		return
	}

	var body models.TimeLogEditRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	var entry models.TimeLog
	found, err := initializers.DB.From("project_time_logs").
		Where(goqu.C("time_log_id").Eq(logID), goqu.C("user_id").Eq(currentUser.User_ID)).
		ScanStruct(&entry)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch time log", "details": err.Error()})
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Time log not found"})
		return
	}

	if body.New_Hours <= 0 {
		body.New_Hours = entry.Hours_Spent
	}
	if body.New_Description == "" {
		body.New_Description = entry.Description
	}
	if body.New_Project_ID == 0 {
		body.New_Project_ID = entry.Project_ID
	}
	if body.New_Task_Type == "" {
		body.New_Task_Type = entry.Task_Type
	}
	body.New_Task_Type = models.NormalizeTaskType(body.New_Task_Type)
	if body.New_Page_ID == nil {
		body.New_Page_ID = entry.Page_ID
	}
	if body.New_Environment_ID == nil {
		body.New_Environment_ID = entry.Environment_ID
	}
	if body.New_Issue_ID == nil {
		body.New_Issue_ID = entry.Issue_ID
	}
	if body.New_Phase_ID == nil {
		body.New_Phase_ID = entry.Phase_ID
	}
	if body.New_Generic_Category_ID == nil {
		body.New_Generic_Category_ID = entry.Generic_Category_ID
	}
	if body.New_Testing_Type == "" && entry.Testing_Type != nil {
		body.New_Testing_Type = *entry.Testing_Type
	}
	isUtilized := entry.Is_Utilized
	if body.New_Is_Utilized != nil {
		isUtilized = *body.New_Is_Utilized
	}

	logDate := entry.Log_Date.Format(dateLayout)

	tx, err := initializers.DB.Begin()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction", "details": err.Error()})
		return
	}

	err = tx.Wrap(func() error {
		record := goqu.Record{
			"user_id":                 currentUser.User_ID,
			"req_date":                logDate,
			"log_id":                  logID,
			"new_hours":               body.New_Hours,
			"new_description":         body.New_Description,
			"new_project_id":          body.New_Project_ID,
			"new_task_type":           body.New_Task_Type,
			"new_page_id":             body.New_Page_ID,
			"new_environment_id":      body.New_Environment_ID,
			"new_issue_id":            body.New_Issue_ID,
			"new_phase_id":            body.New_Phase_ID,
			"new_generic_category_id": body.New_Generic_Category_ID,
			"new_testing_type":        nilIfEmpty(body.New_Testing_Type),
			"new_phase_activity":      nilIfEmpty(body.New_Phase_Activity),
			"new_generic_task_detail": nilIfEmpty(body.New_Generic_Task_Detail),
			"new_is_utilized":         isUtilized,
			"reason":                  body.Reason,
			"status":                  models.RequestStatusPending,
		}
		update := goqu.Record{}
		for k, v := range record {
			if k == "user_id" || k == "log_id" {
				continue
			}
			update[k] = v
		}
		update["datetime_update"] = goqu.L("NOW()")

		_, err := tx.Insert("user_pending_log_edits").
			Rows(record).
			OnConflict(goqu.DoUpdate("user_id, log_id", update)).
			Executor().Exec()
		if err != nil {
			return err
		}

		if err := ensurePendingEditRequest(tx, currentUser.User_ID, logDate, models.RequestTypeEdit, body.Reason); err != nil {
			return err
		}

		return notifyAdminsTx(tx, currentUser, models.NotificationTypeEditRequest,
			fmt.Sprintf("%s requested changes to a time log from %s", currentUser.Full_Name, logDate),
			"/admin/edit-requests")
	})
	if err != nil {
		log.Println(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save edit request", "details": err.Error()})
		return
	}

	go services.AlertAdminsOfEditRequest(currentUser, logDate, models.RequestTypeEdit)

	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Edit request submitted"})
}
