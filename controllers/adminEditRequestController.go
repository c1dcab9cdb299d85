package controllers

import (
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/TeamTrack/initializers"
	"github.com/TeamTrack/models"
	"github.com/TeamTrack/services"
	"github.com/doug-martin/goqu/v9"
)

type editRequestView struct {
	models.EditRequest
	Full_Name string `json:"fullName"`
	Username  string `json:"username"`
}

// GetEditRequests lists the admin approval queue: all pending requests plus
// decisions from the last 30 days.
func GetEditRequests(c *gin.Context) {
	var pending []editRequestView
	err := initializers.DB.From("user_edit_requests").
		Join(goqu.T("users"), goqu.On(goqu.I("user_edit_requests.user_id").Eq(goqu.I("users.user_id")))).
		Select(goqu.I("user_edit_requests.*"), goqu.I("users.full_name"), goqu.I("users.username")).
		Where(goqu.I("user_edit_requests.status").Eq(models.RequestStatusPending)).
		Order(goqu.I("user_edit_requests.datetime_create").Asc()).
		ScanStructs(&pending)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch edit requests", "details": err.Error()})
		return
	}

	var recent []editRequestView
	err = initializers.DB.From("user_edit_requests").
		Join(goqu.T("users"), goqu.On(goqu.I("user_edit_requests.user_id").Eq(goqu.I("users.user_id")))).
		Select(goqu.I("user_edit_requests.*"), goqu.I("users.full_name"), goqu.I("users.username")).
		Where(
			goqu.I("user_edit_requests.status").Neq(models.RequestStatusPending),
			goqu.I("user_edit_requests.datetime_update").Gt(goqu.L("NOW() - INTERVAL '30 days'")),
		).
		Order(goqu.I("user_edit_requests.datetime_update").Desc()).
		ScanStructs(&recent)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch edit requests", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "pending": pending, "recent": recent})
}

// GetPendingChanges shows an admin what approving a request would change:
// the currently applied data for (user, date) next to the buffered snapshot,
// proposed time-log lines, and per-log edits and deletions.
func GetPendingChanges(c *gin.Context) {
	userID, err := strconv.Atoi(c.Query("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}
	dateStr := c.Query("date")
	if _, err := parseDate(dateStr); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date", "details": err.Error()})
		return
	}

	var current models.DailyStatus
	_, err = initializers.DB.From("user_daily_status").
		Where(goqu.C("user_id").Eq(userID), goqu.C("status_date").Eq(dateStr)).
		ScanStruct(&current)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch current status", "details": err.Error()})
		return
	}

	var currentLogs []models.TimeLog
	err = initializers.DB.From("project_time_logs").
		Where(goqu.C("user_id").Eq(userID), goqu.C("log_date").Eq(dateStr)).
		Order(goqu.C("time_log_id").Asc()).
		ScanStructs(&currentLogs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch current time logs", "details": err.Error()})
		return
	}

	var snapshot models.PendingChange
	snapshotFound, err := initializers.DB.From("user_pending_changes").
		Where(goqu.C("user_id").Eq(userID), goqu.C("req_date").Eq(dateStr)).
		ScanStruct(&snapshot)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch pending changes", "details": err.Error()})
		return
	}

	var pendingLogs []models.PendingTimeLog
	if snapshotFound {
		err = initializers.DB.From("user_pending_time_logs").
			Where(goqu.C("pending_change_id").Eq(snapshot.Pending_Change_ID)).
			Order(goqu.C("pending_time_log_id").Asc()).
			ScanStructs(&pendingLogs)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch pending time logs", "details": err.Error()})
			return
		}
	}

	var pendingEdits []models.PendingLogEdit
	err = initializers.DB.From("user_pending_log_edits").
		Where(
			goqu.C("user_id").Eq(userID),
			goqu.C("req_date").Eq(dateStr),
			goqu.C("status").Eq(models.RequestStatusPending),
		).
		ScanStructs(&pendingEdits)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch pending log edits", "details": err.Error()})
		return
	}

	var pendingDeletions []models.PendingLogDeletion
	err = initializers.DB.From("user_pending_log_deletions").
		Where(
			goqu.C("user_id").Eq(userID),
			goqu.C("req_date").Eq(dateStr),
			goqu.C("status").Eq(models.RequestStatusPending),
		).
		ScanStructs(&pendingDeletions)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch pending log deletions", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":          true,
		"current":          gin.H{"status": current.Status, "notes": current.Notes, "timeLogs": currentLogs},
		"hasSnapshot":      snapshotFound,
		"snapshot":         snapshot,
		"pendingTimeLogs":  pendingLogs,
		"pendingEdits":     pendingEdits,
		"pendingDeletions": pendingDeletions,
	})
}

// RespondToEditRequest records an admin decision on one request.
//
// Approving a request that carries buffered changes (a snapshot, per-log
// edits, or deletions) applies them immediately and marks the request used.
// Approving a bare request leaves it approved so the user's next direct
// write for that date can consume it. Rejection flips any pending per-log
// rows to rejected and leaves the snapshot in place untouched.
func RespondToEditRequest(c *gin.Context) {
	admin := c.MustGet("currentUser").(models.User)

	requestID, err := strconv.Atoi(c.Param("edit_request_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request ID", "details": err.Error()})
		return
	}

	var body models.EditRequestResponse
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if body.Action != models.RequestStatusApproved && body.Action != models.RequestStatusRejected {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Action must be approved or rejected"})
		return
	}

	finalStatus, requester, err := decideEditRequest(requestID, body.Action, admin)
	if err != nil {
		log.Println(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process edit request", "details": err.Error()})
		return
	}
	if finalStatus == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "Edit request not found or already decided"})
		return
	}

	go services.NotifyUserOfDecision(requester, body.Action)

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Edit request " + body.Action, "status": finalStatus})
}

// BulkRespondToEditRequests applies one decision to a batch of requests.
// Each request is processed in its own transaction; one failure does not
// roll back the others.
func BulkRespondToEditRequests(c *gin.Context) {
	admin := c.MustGet("currentUser").(models.User)

	var body models.EditRequestBulkResponse
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if body.Action != models.RequestStatusApproved && body.Action != models.RequestStatusRejected {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Action must be approved or rejected"})
		return
	}
	if len(body.Request_IDs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No request IDs provided"})
		return
	}

	processed := 0
	var failed []int
	for _, requestID := range body.Request_IDs {
		finalStatus, requester, err := decideEditRequest(requestID, body.Action, admin)
		if err != nil || finalStatus == "" {
			if err != nil {
				log.Println(err)
			}
			failed = append(failed, requestID)
			continue
		}
		processed++
		go services.NotifyUserOfDecision(requester, body.Action)
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"processed": processed,
		"failed":    failed,
	})
}

// decideEditRequest runs one decision in a transaction. It returns the final
// request status ("" when the request was missing or already decided) and
// the requesting user for post-commit notification.
func decideEditRequest(requestID int, action string, admin models.User) (string, models.User, error) {
	var finalStatus string
	var requester models.User

	tx, err := initializers.DB.Begin()
	if err != nil {
		return "", requester, err
	}

	err = tx.Wrap(func() error {
		var request models.EditRequest
		found, err := tx.From("user_edit_requests").
			Where(goqu.C("edit_request_id").Eq(requestID), goqu.C("status").Eq(models.RequestStatusPending)).
			ScanStruct(&request)
		if err != nil {
			return err
		}
		if !found {
			return nil
		}

		if _, err := tx.From("users").
			Where(goqu.C("user_id").Eq(request.User_ID)).
			ScanStruct(&requester); err != nil {
			return err
		}

		reqDate := request.Req_Date.Format(dateLayout)

		if action == models.RequestStatusRejected {
			finalStatus = models.RequestStatusRejected
			if err := rejectBufferedChanges(tx, request.User_ID, reqDate); err != nil {
				return err
			}
		} else {
			applied, err := applyBufferedChanges(tx, request, reqDate, admin.User_ID)
			if err != nil {
				return err
			}
			finalStatus = models.RequestStatusApproved
			if applied {
				finalStatus = models.RequestStatusUsed
			}
		}

		_, err = tx.Update("user_edit_requests").
			Set(goqu.Record{
				"status":          finalStatus,
				"datetime_update": goqu.L("NOW()"),
			}).
			Where(goqu.C("edit_request_id").Eq(requestID)).
			Executor().Exec()
		if err != nil {
			return err
		}

		message := fmt.Sprintf("Your %s request for %s was %s", request.Request_Type, reqDate, action)
		_, err = tx.Insert("notifications").
			Rows(goqu.Record{
				"user_id":              request.User_ID,
				"notification_type":    models.NotificationTypeEditRequestResponse,
				"notification_message": message,
				"link":                 "/daily-status?date=" + reqDate,
				"notification_status":  models.NotificationStatusUnread,
				"created_by":           admin.User_ID,
			}).
			Executor().Exec()
		return err
	})
	if err != nil {
		return "", requester, err
	}
	return finalStatus, requester, nil
}

// rejectBufferedChanges flips the pending per-log rows for (user, date) to
// rejected. The snapshot is deliberately left behind so the user can see
// what was turned down.
func rejectBufferedChanges(tx *goqu.TxDatabase, userID int, date string) error {
	for _, table := range []string{"user_pending_log_edits", "user_pending_log_deletions"} {
		_, err := tx.Update(table).
			Set(goqu.Record{
				"status":          models.RequestStatusRejected,
				"datetime_update": goqu.L("NOW()"),
			}).
			Where(
				goqu.C("user_id").Eq(userID),
				goqu.C("req_date").Eq(date),
				goqu.C("status").Eq(models.RequestStatusPending),
			).
			Executor().Exec()
		if err != nil {
			return err
		}
	}
	return nil
}

// applyBufferedChanges applies everything buffered for the request's
// (user, date): the snapshot replaces the day wholesale, per-log edits are
// written through, and pending deletions remove their logs. Returns whether
// anything was applied.
func applyBufferedChanges(tx *goqu.TxDatabase, request models.EditRequest, date string, adminID int) (bool, error) {
	applied := false

	snapshotApplied, err := applySnapshot(tx, request.User_ID, date, adminID)
	if err != nil {
		return false, err
	}
	applied = applied || snapshotApplied

	editsApplied, err := applyPendingLogEdits(tx, request.User_ID, date, adminID)
	if err != nil {
		return false, err
	}
	applied = applied || editsApplied

	deletionsApplied, err := applyPendingLogDeletions(tx, request.User_ID, date, adminID)
	if err != nil {
		return false, err
	}
	applied = applied || deletionsApplied

	return applied, nil
}

// applySnapshot writes the buffered snapshot through: status, notes and
// personal note replace the applied rows, and the proposed time-log lines
// replace the user's logs for that date. The snapshot and its lines are
// removed once applied.
func applySnapshot(tx *goqu.TxDatabase, userID int, date string, adminID int) (bool, error) {
	var snapshot models.PendingChange
	found, err := tx.From("user_pending_changes").
		Where(goqu.C("user_id").Eq(userID), goqu.C("req_date").Eq(date)).
		ScanStruct(&snapshot)
	if err != nil || !found {
		return false, err
	}

	if err := upsertDailyStatus(tx, userID, date, snapshot.Status, snapshot.Notes); err != nil {
		return false, err
	}
	if err := savePersonalNote(tx, userID, date, snapshot.Personal_Note); err != nil {
		return false, err
	}

	var lines []models.PendingTimeLog
	err = tx.From("user_pending_time_logs").
		Where(goqu.C("pending_change_id").Eq(snapshot.Pending_Change_ID)).
		Order(goqu.C("pending_time_log_id").Asc()).
		ScanStructs(&lines)
	if err != nil {
		return false, err
	}

	if len(lines) > 0 {
		var existing []models.TimeLog
		err = tx.From("project_time_logs").
			Where(goqu.C("user_id").Eq(userID), goqu.C("log_date").Eq(date)).
			ScanStructs(&existing)
		if err != nil {
			return false, err
		}
		for _, entry := range existing {
			if err := deleteTimeLogTx(tx, entry, adminID); err != nil {
				return false, err
			}
		}

		logDate, err := parseDate(date)
		if err != nil {
			return false, err
		}
		for _, line := range lines {
			row := models.TimeLog{
				User_ID:             userID,
				Project_ID:          line.Project_ID,
				Page_ID:             line.Page_ID,
				Environment_ID:      line.Environment_ID,
				Issue_ID:            line.Issue_ID,
				Phase_ID:            line.Phase_ID,
				Generic_Category_ID: line.Generic_Category_ID,
				Task_Type:           line.Task_Type,
				Testing_Type:        line.Testing_Type,
				Log_Date:            logDate,
				Hours_Spent:         line.Hours,
				Description:         line.Description,
				Is_Utilized:         line.Is_Utilized,
			}

			var logID int
			inserted, err := tx.Insert("project_time_logs").
				Rows(row).
				Returning("time_log_id").
				Executor().ScanVal(&logID)
			if err != nil {
				return false, err
			}
			if !inserted {
				return false, fmt.Errorf("insert returned no id")
			}

			if err := recordHistory(tx, models.TimeLogHistory{
				Time_Log_ID:     &logID,
				Project_ID:      line.Project_ID,
				User_ID:         userID,
				Action_Type:     models.HistoryActionCreated,
				New_Log_Date:    &logDate,
				New_Hours:       &line.Hours,
				New_Description: &line.Description,
				Changed_By:      adminID,
			}, "", 0); err != nil {
				return false, err
			}

			if line.Phase_ID != nil && line.Is_Utilized {
				_, err := tx.Update("project_phases").
					Set(goqu.Record{"actual_hours": goqu.L("actual_hours + ?", line.Hours)}).
					Where(goqu.C("phase_id").Eq(*line.Phase_ID)).
					Executor().Exec()
				if err != nil {
					return false, err
				}
			}
			if err := refreshProjectTotal(tx, line.Project_ID); err != nil {
				return false, err
			}
		}
	}

	// Lines go with it via ON DELETE CASCADE.
	_, err = tx.Delete("user_pending_changes").
		Where(goqu.C("pending_change_id").Eq(snapshot.Pending_Change_ID)).
		Executor().Exec()
	if err != nil {
		return false, err
	}
	return true, nil
}

// applyPendingLogEdits writes each pending edit for (user, date) through to
// its log row. An edit whose log has since disappeared is marked rejected.
func applyPendingLogEdits(tx *goqu.TxDatabase, userID int, date string, adminID int) (bool, error) {
	var edits []models.PendingLogEdit
	err := tx.From("user_pending_log_edits").
		Where(
			goqu.C("user_id").Eq(userID),
			goqu.C("req_date").Eq(date),
			goqu.C("status").Eq(models.RequestStatusPending),
		).
		ScanStructs(&edits)
	if err != nil {
		return false, err
	}

	applied := false
	for _, edit := range edits {
		var entry models.TimeLog
		found, err := tx.From("project_time_logs").
			Where(goqu.C("time_log_id").Eq(edit.Log_ID)).
			ScanStruct(&entry)
		if err != nil {
			return false, err
		}

		finalStatus := models.RequestStatusRejected
		if found {
			_, err = tx.Update("project_time_logs").
				Set(goqu.Record{
					"project_id":          edit.New_Project_ID,
					"page_id":             edit.New_Page_ID,
					"environment_id":      edit.New_Environment_ID,
					"issue_id":            edit.New_Issue_ID,
					"phase_id":            edit.New_Phase_ID,
					"generic_category_id": edit.New_Generic_Category_ID,
					"task_type":           edit.New_Task_Type,
					"testing_type":        edit.New_Testing_Type,
					"hours_spent":         edit.New_Hours,
					"description":         edit.New_Description,
					"is_utilized":         edit.New_Is_Utilized,
					"datetime_update":     goqu.L("NOW()"),
				}).
				Where(goqu.C("time_log_id").Eq(edit.Log_ID)).
				Executor().Exec()
			if err != nil {
				return false, err
			}

			oldDate := toDateOnly(entry.Log_Date)
			if err := recordHistory(tx, models.TimeLogHistory{
				Time_Log_ID:     &edit.Log_ID,
				Project_ID:      edit.New_Project_ID,
				User_ID:         userID,
				Action_Type:     models.HistoryActionUpdated,
				Old_Log_Date:    &oldDate,
				New_Log_Date:    &oldDate,
				Old_Hours:       &entry.Hours_Spent,
				New_Hours:       &edit.New_Hours,
				Old_Description: &entry.Description,
				New_Description: &edit.New_Description,
				Changed_By:      adminID,
			}, "", 0); err != nil {
				return false, err
			}

			if entry.Phase_ID != nil && entry.Is_Utilized {
				_, err := tx.Update("project_phases").
					Set(goqu.Record{"actual_hours": goqu.L("GREATEST(actual_hours - ?, 0)", entry.Hours_Spent)}).
					Where(goqu.C("phase_id").Eq(*entry.Phase_ID)).
					Executor().Exec()
				if err != nil {
					return false, err
				}
			}
			if edit.New_Phase_ID != nil && edit.New_Is_Utilized {
				_, err := tx.Update("project_phases").
					Set(goqu.Record{"actual_hours": goqu.L("actual_hours + ?", edit.New_Hours)}).
					Where(goqu.C("phase_id").Eq(*edit.New_Phase_ID)).
					Executor().Exec()
				if err != nil {
					return false, err
				}
			}

			if err := refreshProjectTotal(tx, entry.Project_ID); err != nil {
				return false, err
			}
			if edit.New_Project_ID != entry.Project_ID {
				if err := refreshProjectTotal(tx, edit.New_Project_ID); err != nil {
					return false, err
				}
			}

			finalStatus = models.RequestStatusApproved
			applied = true
		}

		_, err = tx.Update("user_pending_log_edits").
			Set(goqu.Record{
				"status":          finalStatus,
				"datetime_update": goqu.L("NOW()"),
			}).
			Where(goqu.C("pending_log_edit_id").Eq(edit.Pending_Log_Edit_ID)).
			Executor().Exec()
		if err != nil {
			return false, err
		}
	}
	return applied, nil
}

// applyPendingLogDeletions removes each log named by a pending deletion for
// (user, date). A deletion whose log is already gone is marked rejected.
func applyPendingLogDeletions(tx *goqu.TxDatabase, userID int, date string, adminID int) (bool, error) {
	var deletions []models.PendingLogDeletion
	err := tx.From("user_pending_log_deletions").
		Where(
			goqu.C("user_id").Eq(userID),
			goqu.C("req_date").Eq(date),
			goqu.C("status").Eq(models.RequestStatusPending),
		).
		ScanStructs(&deletions)
	if err != nil {
		return false, err
	}

	applied := false
	for _, deletion := range deletions {
		var entry models.TimeLog
		found, err := tx.From("project_time_logs").
			Where(goqu.C("time_log_id").Eq(deletion.Log_ID)).
			ScanStruct(&entry)
		if err != nil {
			return false, err
		}

		finalStatus := models.RequestStatusRejected
		if found {
			if err := deleteTimeLogTx(tx, entry, adminID); err != nil {
				return false, err
			}
			finalStatus = models.RequestStatusApproved
			applied = true
		}

		_, err = tx.Update("user_pending_log_deletions").
			Set(goqu.Record{
				"status":          finalStatus,
				"datetime_update": goqu.L("NOW()"),
			}).
			Where(goqu.C("pending_log_deletion_id").Eq(deletion.Pending_Log_Deletion_ID)).
			Executor().Exec()
		if err != nil {
			return false, err
		}
	}
	return applied, nil
}
