package controllers

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/TeamTrack/initializers"
	"github.com/TeamTrack/models"
	"github.com/TeamTrack/services"
	"github.com/doug-martin/goqu/v9"
)

// CheckEditRequest reports the state of the caller's edit request for a
// date, along with whether the date is directly editable right now.
func CheckEditRequest(c *gin.Context) {
	currentUser := c.MustGet("currentUser").(models.User)

	dateStr := c.Query("date")
	if dateStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Date is required"})
		return
	}
	date, err := parseDate(dateStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date", "details": err.Error()})
		return
	}

	today := toDateOnly(now())

	var request models.EditRequest
	found, err := initializers.DB.From("user_edit_requests").
		Where(
			goqu.C("user_id").Eq(currentUser.User_ID),
			goqu.C("req_date").Eq(date),
			goqu.C("request_type").Eq(models.RequestTypeEdit),
		).
		ScanStruct(&request)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check edit requests", "details": err.Error()})
		return
	}

	status := ""
	if found {
		status = request.Status
	}

	c.JSON(http.StatusOK, gin.H{
		"success":          true,
		"directlyEditable": IsDirectlyEditable(date, today),
		"hasRequest":       found,
		"requestStatus":    status,
	})
}

// RequestEdit files an edit request for a past date. Re-filing after a
// rejection or a consumed approval resets the request to pending.
func RequestEdit(c *gin.Context) {
	currentUser := c.MustGet("currentUser").(models.User)

	var body models.EditRequestCreate
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	date, err := parseDate(body.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date", "details": err.Error()})
		return
	}

	today := toDateOnly(now())
	if IsDirectlyEditable(date, today) || date.After(today) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "This date can be edited directly"})
		return
	}

	tx, err := initializers.DB.Begin()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction", "details": err.Error()})
		return
	}

	err = tx.Wrap(func() error {
		if err := ensurePendingEditRequest(tx, currentUser.User_ID, body.Date, models.RequestTypeEdit, body.Reason); err != nil {
			return err
		}
		return notifyAdminsTx(tx, currentUser, models.NotificationTypeEditRequest,
			fmt.Sprintf("%s requested permission to edit %s", currentUser.Full_Name, body.Date),
			"/admin/edit-requests")
	})
	if err != nil {
		log.Println(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save edit request", "details": err.Error()})
		return
	}

	go services.AlertAdminsOfEditRequest(currentUser, body.Date, models.RequestTypeEdit)

	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Edit request submitted"})
}

// SavePendingChanges replaces the caller's buffered snapshot for a date
// wholesale: status, notes, personal note, and the full set of proposed
// time-log lines. It does not create or touch an edit request.
func SavePendingChanges(c *gin.Context) {
	currentUser := c.MustGet("currentUser").(models.User)

	var body models.PendingChangeSave
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if _, err := parseDate(body.Date); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date", "details": err.Error()})
		return
	}

	statusKey := models.NormalizeStatusKey(body.Status, loadStatusKeys(), models.StatusNotUpdated)

	tx, err := initializers.DB.Begin()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction", "details": err.Error()})
		return
	}

	err = tx.Wrap(func() error {
		pendingChangeID, err := replacePendingSnapshot(tx, currentUser.User_ID, body.Date, statusKey, body.Notes, body.Personal_Note)
		if err != nil {
			return err
		}

		for _, line := range body.Pending_Logs {
			line.Task_Type = models.NormalizeTaskType(line.Task_Type)
			if err := insertPendingLines(tx, pendingChangeID, line); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Println(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save pending changes", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Pending changes saved"})
}

// ensurePendingSnapshot returns the snapshot id for (user, date), creating
// an empty one seeded from the currently applied data when none exists yet.
func ensurePendingSnapshot(tx *goqu.TxDatabase, userID int, date string) (int, error) {
	var pendingChangeID int
	found, err := tx.From("user_pending_changes").
		Select("pending_change_id").
		Where(goqu.C("user_id").Eq(userID), goqu.C("req_date").Eq(date)).
		ScanVal(&pendingChangeID)
	if err != nil {
		return 0, err
	}
	if found {
		return pendingChangeID, nil
	}

	var current models.DailyStatus
	_, err = tx.From("user_daily_status").
		Where(goqu.C("user_id").Eq(userID), goqu.C("status_date").Eq(date)).
		ScanStruct(&current)
	if err != nil {
		return 0, err
	}

	var personalNote string
	_, err = tx.From("user_calendar_notes").
		Select("content").
		Where(goqu.C("user_id").Eq(userID), goqu.C("note_date").Eq(date)).
		ScanVal(&personalNote)
	if err != nil {
		return 0, err
	}

	statusKey := current.Status
	if statusKey == "" {
		statusKey = models.StatusNotUpdated
	}

	inserted, err := tx.Insert("user_pending_changes").
		Rows(goqu.Record{
			"user_id":       userID,
			"req_date":      date,
			"status":        statusKey,
			"notes":         current.Notes,
			"personal_note": personalNote,
		}).
		Returning("pending_change_id").
		Executor().ScanVal(&pendingChangeID)
	if err != nil {
		return 0, err
	}
	if !inserted {
		return 0, fmt.Errorf("snapshot insert returned no id")
	}
	return pendingChangeID, nil
}

// replacePendingSnapshot upserts the snapshot row and clears its previous
// time-log lines, returning the snapshot id.
func replacePendingSnapshot(tx *goqu.TxDatabase, userID int, date string, status string, notes string, personalNote string) (int, error) {
	var pendingChangeID int
	inserted, err := tx.Insert("user_pending_changes").
		Rows(goqu.Record{
			"user_id":       userID,
			"req_date":      date,
			"status":        status,
			"notes":         notes,
			"personal_note": personalNote,
		}).
		OnConflict(goqu.DoUpdate("user_id, req_date", goqu.Record{
			"status":          status,
			"notes":           notes,
			"personal_note":   personalNote,
			"datetime_update": goqu.L("NOW()"),
		})).
		Returning("pending_change_id").
		Executor().ScanVal(&pendingChangeID)
	if err != nil {
		return 0, err
	}
	if !inserted {
		return 0, fmt.Errorf("snapshot upsert returned no id")
	}

	_, err = tx.Delete("user_pending_time_logs").
		Where(goqu.C("pending_change_id").Eq(pendingChangeID)).
		Executor().Exec()
	if err != nil {
		return 0, err
	}
	return pendingChangeID, nil
}

// insertPendingLines fans one wire line out into stored rows, one per page,
// splitting the hours evenly the same way a direct submission would.
func insertPendingLines(tx *goqu.TxDatabase, pendingChangeID int, line models.PendingTimeLogLine) error {
	create := models.TimeLogCreate{
		Project_ID:          line.Project_ID,
		Task_Type:           line.Task_Type,
		Page_IDs:            line.Page_IDs,
		Environment_IDs:     line.Environment_IDs,
		Issue_ID:            line.Issue_ID,
		Phase_ID:            line.Phase_ID,
		Generic_Category_ID: line.Generic_Category_ID,
		Testing_Type:        line.Testing_Type,
		Hours_Spent:         line.Hours,
	}
	for _, split := range splitTimeLogLines(create) {
		_, err := tx.Insert("user_pending_time_logs").
			Rows(goqu.Record{
				"pending_change_id":   pendingChangeID,
				"project_id":          line.Project_ID,
				"task_type":           line.Task_Type,
				"page_id":             split.pageID,
				"environment_id":      split.environmentID,
				"issue_id":            line.Issue_ID,
				"phase_id":            line.Phase_ID,
				"generic_category_id": line.Generic_Category_ID,
				"testing_type":        nilIfEmpty(line.Testing_Type),
				"hours":               split.hours,
				"description":         line.Description,
				"is_utilized":         line.Is_Utilized,
			}).
			Executor().Exec()
		if err != nil {
			return err
		}
	}
	return nil
}

// ensurePendingEditRequest upserts the request for (user, date, type) back
// to pending, preserving the unique row.
func ensurePendingEditRequest(tx *goqu.TxDatabase, userID int, date string, requestType string, reason string) error {
	_, err := tx.Insert("user_edit_requests").
		Rows(goqu.Record{
			"user_id":      userID,
			"req_date":     date,
			"request_type": requestType,
			"reason":       reason,
			"status":       models.RequestStatusPending,
		}).
		OnConflict(goqu.DoUpdate("user_id, req_date, request_type", goqu.Record{
			"reason":          reason,
			"status":          models.RequestStatusPending,
			"datetime_update": goqu.L("NOW()"),
		})).
		Executor().Exec()
	return err
}

// notifyAdminsTx inserts one notification row per active admin inside the
// caller's transaction, so the fan-out commits or rolls back with the
// request itself. Email and push delivery happen separately after commit.
func notifyAdminsTx(tx *goqu.TxDatabase, requester models.User, notifType string, message string, link string) error {
	var adminIDs []int
	err := tx.From("users").
		Select("user_id").
		Where(
			goqu.C("role").In(models.RoleAdmin, models.RoleSuperAdmin),
			goqu.C("is_active").IsTrue(),
			goqu.C("deleted").IsFalse(),
			goqu.C("user_id").Neq(requester.User_ID),
		).
		ScanVals(&adminIDs)
	if err != nil {
		return err
	}

	for _, adminID := range adminIDs {
		_, err := tx.Insert("notifications").
			Rows(goqu.Record{
				"user_id":              adminID,
				"notification_type":    notifType,
				"notification_message": message,
				"link":                 link,
				"notification_status":  models.NotificationStatusUnread,
				"created_by":           requester.User_ID,
			}).
			Executor().Exec()
		if err != nil {
			return err
		}
	}
	return nil
}
