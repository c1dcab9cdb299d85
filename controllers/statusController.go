package controllers

import (
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/TeamTrack/initializers"
	"github.com/TeamTrack/models"
	"github.com/doug-martin/goqu/v9"
)

// loadStatusKeys returns the configured availability status keys, falling
// back to the defaults when the master table is empty or unreadable.
func loadStatusKeys() []string {
	var keys []string
	err := initializers.DB.From("availability_statuses").
		Select("status_key").
		Where(goqu.C("is_active").IsTrue()).
		Order(goqu.C("display_order").Asc()).
		ScanVals(&keys)
	if err != nil || len(keys) == 0 {
		return models.DefaultStatusKeys
	}
	return keys
}

// GetDailyStatus returns status, shared notes and the caller's personal note
// for a date. While an edit request is pending, the buffered snapshot is
// returned instead of the applied data so the caller sees what is awaiting
// approval. Admins may query other users via ?user_id=.
func GetDailyStatus(c *gin.Context) {
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
			c.JSON(http.StatusForbidden, gin.H{"error": "You don't have permission to view this user's status"})
			return
		}
		targetUser = requested
	}

	var request models.EditRequest
	requestFound, err := initializers.DB.From("user_edit_requests").
		Where(
			goqu.C("user_id").Eq(targetUser),
			goqu.C("req_date").Eq(date),
			goqu.C("request_type").Eq(models.RequestTypeEdit),
		).
		ScanStruct(&request)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check edit requests", "details": err.Error()})
		return
	}

	hasPendingRequest := requestFound && request.Status == models.RequestStatusPending

	if hasPendingRequest {
		var pending models.PendingChange
		pendingFound, err := initializers.DB.From("user_pending_changes").
			Where(goqu.C("user_id").Eq(targetUser), goqu.C("req_date").Eq(date)).
			ScanStruct(&pending)
		if err == nil && pendingFound {
			c.JSON(http.StatusOK, gin.H{
				"success":      true,
				"status":       pending.Status,
				"notes":        pending.Notes,
				"personalNote": pending.Personal_Note,
				"isPending":    true,
			})
			return
		}
	}

	var status models.DailyStatus
	statusFound, err := initializers.DB.From("user_daily_status").
		Where(goqu.C("user_id").Eq(targetUser), goqu.C("status_date").Eq(date)).
		ScanStruct(&status)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch daily status", "details": err.Error()})
		return
	}

	var personalNote string
	_, err = initializers.DB.From("user_calendar_notes").
		Select("content").
		Where(goqu.C("user_id").Eq(targetUser), goqu.C("note_date").Eq(date)).
		ScanVal(&personalNote)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch personal note", "details": err.Error()})
		return
	}

	statusKey := models.StatusNotUpdated
	notes := ""
	if statusFound {
		statusKey = status.Status
		notes = status.Notes
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"status":       statusKey,
		"notes":        notes,
		"personalNote": personalNote,
		"isPending":    false,
	})
}

// UpdateDailyStatus upserts the status row for (user, date).
//
// Admins acting on another user bypass all gating. Everyone else is held to
// the editable window: today, the previous business day, or a future date.
// Older dates need an approved edit request; the first write that rides on
// an approval consumes it (pending -> approved -> used).
func UpdateDailyStatus(c *gin.Context) {
	currentUser := c.MustGet("currentUser").(models.User)
	isAdmin := c.MustGet("admin").(bool)

	var update models.DailyStatusUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	date, err := parseDate(update.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date", "details": err.Error()})
		return
	}

	today := toDateOnly(now())
	statusKey := models.NormalizeStatusKey(update.Status, loadStatusKeys(), models.StatusNotUpdated)

	targetUser := currentUser.User_ID
	adminOverride := false
	if update.User_ID > 0 && update.User_ID != currentUser.User_ID {
		if !isAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "You don't have permission to update this user's status"})
			return
		}
		targetUser = update.User_ID
		adminOverride = true
	}

	consumesApproval := false
	if !isAdmin && !adminOverride && !CanUpdateStatus(date, today) {
		var approvedStatus string
		approved, err := initializers.DB.From("user_edit_requests").
			Select("status").
			Where(
				goqu.C("user_id").Eq(targetUser),
				goqu.C("req_date").Eq(date),
				goqu.C("request_type").Eq(models.RequestTypeEdit),
				goqu.C("status").Eq(models.RequestStatusApproved),
			).
			ScanVal(&approvedStatus)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check edit requests", "details": err.Error()})
			return
		}
		if !approved {
			c.JSON(http.StatusForbidden, gin.H{"error": "Cannot update past dates without admin approval"})
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
		if err := upsertDailyStatus(tx, targetUser, update.Date, statusKey, update.Notes); err != nil {
			return err
		}

		if update.Personal_Note != nil {
			if err := savePersonalNote(tx, targetUser, update.Date, *update.Personal_Note); err != nil {
				return err
			}
		}

		// Consume the approval on the first direct write it enabled.
		if consumesApproval && date.Before(today) {
			_, err := tx.Update("user_edit_requests").
				Set(goqu.Record{
					"status":          models.RequestStatusUsed,
					"datetime_update": goqu.L("NOW()"),
				}).
				Where(
					goqu.C("user_id").Eq(targetUser),
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
		log.Println(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update daily status", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Status updated successfully"})
}

// upsertDailyStatus writes the (user, date) status row, replacing any
// existing one.
func upsertDailyStatus(tx *goqu.TxDatabase, userID int, date string, status string, notes string) error {
	_, err := tx.Insert("user_daily_status").
		Rows(goqu.Record{
			"user_id":     userID,
			"status_date": date,
			"status":      status,
			"notes":       notes,
		}).
		OnConflict(goqu.DoUpdate("user_id, status_date", goqu.Record{
			"status":          status,
			"notes":           notes,
			"datetime_update": goqu.L("NOW()"),
		})).
		Executor().Exec()
	return err
}

// savePersonalNote upserts the private note for (user, date); an empty
// trimmed note deletes the row instead.
func savePersonalNote(tx *goqu.TxDatabase, userID int, date string, content string) error {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		_, err := tx.Delete("user_calendar_notes").
			Where(goqu.C("user_id").Eq(userID), goqu.C("note_date").Eq(date)).
			Executor().Exec()
		return err
	}

	_, err := tx.Insert("user_calendar_notes").
		Rows(goqu.Record{
			"user_id":   userID,
			"note_date": date,
			"content":   trimmed,
		}).
		OnConflict(goqu.DoUpdate("user_id, note_date", goqu.Record{
			"content":         trimmed,
			"datetime_update": goqu.L("NOW()"),
		})).
		Executor().Exec()
	return err
}
