package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/TeamTrack/initializers"
	"github.com/TeamTrack/models"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func timeLogColumns() []string {
	return []string{
		"time_log_id", "user_id", "project_id", "page_id", "environment_id",
		"issue_id", "phase_id", "generic_category_id", "task_type", "testing_type",
		"log_date", "hours_spent", "description", "is_utilized",
		"datetime_create", "datetime_update",
	}
}

func timeLogRow(rows *sqlmock.Rows, entry models.TimeLog) *sqlmock.Rows {
	now := time.Now()
	return rows.AddRow(
		entry.Time_Log_ID, entry.User_ID, entry.Project_ID, entry.Page_ID, entry.Environment_ID,
		entry.Issue_ID, entry.Phase_ID, entry.Generic_Category_ID, entry.Task_Type, entry.Testing_Type,
		entry.Log_Date, entry.Hours_Spent, entry.Description, entry.Is_Utilized,
		now, now,
	)
}

func projectColumns() []string {
	return []string{
		"project_id", "po_number", "title", "description", "status",
		"total_hours", "created_by", "datetime_create", "datetime_update",
	}
}

func benchProjectRow(rows *sqlmock.Rows, projectID int, status string) *sqlmock.Rows {
	now := time.Now()
	return rows.AddRow(
		projectID, models.BenchProjectCode, "Off Production",
		"Bench and off-production activities", status, 0.0, 1, now, now,
	)
}

func TestSplitTimeLogLines(t *testing.T) {
	t.Run("no pages stays one line", func(t *testing.T) {
		lines := splitTimeLogLines(models.TimeLogCreate{Hours_Spent: 5})
		assert.Len(t, lines, 1)
		assert.Nil(t, lines[0].pageID)
		assert.Equal(t, 5.0, lines[0].hours)
	})

	t.Run("hours split evenly across pages", func(t *testing.T) {
		lines := splitTimeLogLines(models.TimeLogCreate{
			Hours_Spent: 6,
			Page_IDs:    []int{11, 12, 13},
		})
		assert.Len(t, lines, 3)
		total := 0.0
		for _, line := range lines {
			assert.Equal(t, 2.0, line.hours)
			total += line.hours
		}
		assert.Equal(t, 6.0, total)
	})

	t.Run("environments pair with pages by position", func(t *testing.T) {
		lines := splitTimeLogLines(models.TimeLogCreate{
			Hours_Spent:     4,
			Page_IDs:        []int{11, 12},
			Environment_IDs: []int{1},
		})
		assert.Len(t, lines, 2)
		assert.Equal(t, 1, *lines[0].environmentID)
		// Falls back to the first environment when positions run out.
		assert.Equal(t, 1, *lines[1].environmentID)
	})
}

func TestResolveBenchProject(t *testing.T) {
	t.Run("active sentinel found by code is reused", func(t *testing.T) {
		_, mock, cleanup := SetupTestDB(t)
		defer cleanup()

		mock.ExpectQuery("SELECT").WillReturnRows(benchProjectRow(sqlmock.NewRows(projectColumns()), 42, "in_progress"))

		projectID, err := resolveBenchProject(initializers.DB, 1)

		assert.NoError(t, err)
		assert.Equal(t, 42, projectID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("cancelled sentinel is reactivated", func(t *testing.T) {
		_, mock, cleanup := SetupTestDB(t)
		defer cleanup()

		mock.ExpectQuery("SELECT").WillReturnRows(benchProjectRow(sqlmock.NewRows(projectColumns()), 42, "cancelled"))
		mock.ExpectExec("UPDATE \"projects\"").WillReturnResult(sqlmock.NewResult(0, 1))

		projectID, err := resolveBenchProject(initializers.DB, 1)

		assert.NoError(t, err)
		assert.Equal(t, 42, projectID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("legacy row found by title when the code is missing", func(t *testing.T) {
		_, mock, cleanup := SetupTestDB(t)
		defer cleanup()

		mock.ExpectQuery("SELECT").WillReturnRows(sqlmock.NewRows(projectColumns()))
		mock.ExpectQuery("SELECT").WillReturnRows(benchProjectRow(sqlmock.NewRows(projectColumns()), 7, "in_progress"))

		projectID, err := resolveBenchProject(initializers.DB, 1)

		assert.NoError(t, err)
		assert.Equal(t, 7, projectID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("created when no sentinel exists", func(t *testing.T) {
		_, mock, cleanup := SetupTestDB(t)
		defer cleanup()

		mock.ExpectQuery("SELECT").WillReturnRows(sqlmock.NewRows(projectColumns()))
		mock.ExpectQuery("SELECT").WillReturnRows(sqlmock.NewRows(projectColumns()))
		mock.ExpectQuery("INSERT INTO \"projects\"").
			WillReturnRows(sqlmock.NewRows([]string{"project_id"}).AddRow(42))

		projectID, err := resolveBenchProject(initializers.DB, 1)

		assert.NoError(t, err)
		assert.Equal(t, 42, projectID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestLogTime(t *testing.T) {
	postLog := func(user models.User, isAdmin bool, body map[string]interface{}) *httptest.ResponseRecorder {
		payload, _ := json.Marshal(body)
		c, w := SetupTestContext()
		SetAuthenticatedUser(c, user, isAdmin)
		c.Request = httptest.NewRequest("POST", "/time-logs", bytes.NewBuffer(payload))
		c.Request.Header.Set("Content-Type", "application/json")
		LogTime(c)
		return w
	}

	t.Run("direct write inside the window", func(t *testing.T) {
		_, mock, cleanup := SetupTestDB(t)
		defer cleanup()

		restore := SetFixedDate(t, "2024-06-12")
		defer restore()

		mock.ExpectQuery("SELECT").WillReturnRows(sqlmock.NewRows([]string{"po_number"}).AddRow("PO-2024-010"))
		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO \"project_time_logs\"").
			WillReturnRows(sqlmock.NewRows([]string{"time_log_id"}).AddRow(101))
		mock.ExpectExec("INSERT INTO \"project_time_log_history\"").WillReturnResult(sqlmock.NewResult(1, 1))
		// project total refresh
		mock.ExpectQuery("SELECT").WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(4.0))
		mock.ExpectExec("UPDATE \"projects\"").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		w := postLog(MockUser(), false, map[string]interface{}{
			"date":        "2024-06-12",
			"projectId":   10,
			"taskType":    "other",
			"hoursSpent":  4,
			"description": "exploratory testing",
		})

		assert.Equal(t, http.StatusCreated, w.Code)
		var response map[string]interface{}
		_ = json.Unmarshal(w.Body.Bytes(), &response)
		assert.Equal(t, false, response["buffered"])
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("multi-page submission inserts one row per page", func(t *testing.T) {
		_, mock, cleanup := SetupTestDB(t)
		defer cleanup()

		restore := SetFixedDate(t, "2024-06-12")
		defer restore()

		mock.ExpectQuery("SELECT").WillReturnRows(sqlmock.NewRows([]string{"po_number"}).AddRow("PO-2024-010"))
		mock.ExpectBegin()
		for i := 0; i < 3; i++ {
			mock.ExpectQuery("INSERT INTO \"project_time_logs\"").
				WillReturnRows(sqlmock.NewRows([]string{"time_log_id"}).AddRow(101 + i))
			mock.ExpectExec("INSERT INTO \"project_time_log_history\"").WillReturnResult(sqlmock.NewResult(1, 1))
		}
		mock.ExpectQuery("SELECT").WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(6.0))
		mock.ExpectExec("UPDATE \"projects\"").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		w := postLog(MockUser(), false, map[string]interface{}{
			"date":       "2024-06-12",
			"projectId":  10,
			"taskType":   "page_testing",
			"pageIds":    []int{11, 12, 13},
			"hoursSpent": 6,
		})

		assert.Equal(t, http.StatusCreated, w.Code)
		var response map[string]interface{}
		_ = json.Unmarshal(w.Body.Bytes(), &response)
		assert.Len(t, response["timeLogIds"], 3)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("future date rejected", func(t *testing.T) {
		_, _, cleanup := SetupTestDB(t)
		defer cleanup()

		restore := SetFixedDate(t, "2024-06-12")
		defer restore()

		w := postLog(MockUser(), false, map[string]interface{}{
			"date":       "2024-06-20",
			"projectId":  10,
			"hoursSpent": 2,
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("zero hours rejected", func(t *testing.T) {
		_, _, cleanup := SetupTestDB(t)
		defer cleanup()

		restore := SetFixedDate(t, "2024-06-12")
		defer restore()

		w := postLog(MockUser(), false, map[string]interface{}{
			"date":      "2024-06-12",
			"projectId": 10,
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("missing project rejected before any write", func(t *testing.T) {
		_, mock, cleanup := SetupTestDB(t)
		defer cleanup()

		restore := SetFixedDate(t, "2024-06-12")
		defer restore()

		w := postLog(MockUser(), false, map[string]interface{}{
			"date":       "2024-06-12",
			"taskType":   "other",
			"hoursSpent": 2,
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("bench activity resolves the sentinel and stays non-utilized", func(t *testing.T) {
		_, mock, cleanup := SetupTestDB(t)
		defer cleanup()

		restore := SetFixedDate(t, "2024-06-12")
		defer restore()

		// sentinel found active by po_number
		mock.ExpectQuery("SELECT").WillReturnRows(benchProjectRow(sqlmock.NewRows(projectColumns()), 42, "in_progress"))
		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO \"project_time_logs\"").
			WillReturnRows(sqlmock.NewRows([]string{"time_log_id"}).AddRow(101))
		mock.ExpectExec("INSERT INTO \"project_time_log_history\"").WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectQuery("SELECT").WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(0.0))
		mock.ExpectExec("UPDATE \"projects\"").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		w := postLog(MockUser(), false, map[string]interface{}{
			"date":          "2024-06-12",
			"taskType":      "other",
			"benchActivity": "training",
			"hoursSpent":    2,
		})

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("bench submission for a locked date buffers the resolved sentinel", func(t *testing.T) {
		_, mock, cleanup := SetupTestDB(t)
		defer cleanup()

		restore := SetFixedDate(t, "2024-06-12")
		defer restore()

		mock.ExpectQuery("SELECT").WillReturnRows(benchProjectRow(sqlmock.NewRows(projectColumns()), 42, "in_progress"))
		// no edit request
		mock.ExpectQuery("SELECT").WillReturnRows(sqlmock.NewRows([]string{"status"}))
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT").WillReturnRows(sqlmock.NewRows([]string{"pending_change_id"}))
		mock.ExpectQuery("SELECT").WillReturnRows(sqlmock.NewRows([]string{
			"daily_status_id", "user_id", "status_date", "status", "notes", "datetime_create", "datetime_update",
		}))
		mock.ExpectQuery("SELECT").WillReturnRows(sqlmock.NewRows([]string{"content"}))
		mock.ExpectQuery("INSERT INTO \"user_pending_changes\"").
			WillReturnRows(sqlmock.NewRows([]string{"pending_change_id"}).AddRow(3))
		// the stored line must carry the resolved sentinel id, not 0
		mock.ExpectExec("INSERT INTO \"user_pending_time_logs\".*42").WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectExec("INSERT INTO \"user_edit_requests\"").WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectQuery("SELECT").WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(2))
		mock.ExpectExec("INSERT INTO \"notifications\"").WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		w := postLog(MockUser(), false, map[string]interface{}{
			"date":          "2024-06-03",
			"taskType":      "other",
			"benchActivity": "training",
			"hoursSpent":    2,
		})

		assert.Equal(t, http.StatusAccepted, w.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("picking the sentinel from the list is bench time", func(t *testing.T) {
		_, mock, cleanup := SetupTestDB(t)
		defer cleanup()

		restore := SetFixedDate(t, "2024-06-12")
		defer restore()

		mock.ExpectQuery("SELECT").WillReturnRows(sqlmock.NewRows([]string{"po_number"}).AddRow(models.BenchProjectCode))
		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO \"project_time_logs\"").
			WillReturnRows(sqlmock.NewRows([]string{"time_log_id"}).AddRow(101))
		mock.ExpectExec("INSERT INTO \"project_time_log_history\"").WillReturnResult(sqlmock.NewResult(1, 1))
		// the utilized SUM excludes the new row
		mock.ExpectQuery("SELECT").WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(0.0))
		mock.ExpectExec("UPDATE \"projects\"").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		w := postLog(MockUser(), false, map[string]interface{}{
			"date":       "2024-06-12",
			"projectId":  42,
			"taskType":   "other",
			"hoursSpent": 2,
		})

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("past date without approval is buffered", func(t *testing.T) {
		_, mock, cleanup := SetupTestDB(t)
		defer cleanup()

		restore := SetFixedDate(t, "2024-06-12")
		defer restore()

		mock.ExpectQuery("SELECT").WillReturnRows(sqlmock.NewRows([]string{"po_number"}).AddRow("PO-2024-010"))
		// no edit request at all
		mock.ExpectQuery("SELECT").WillReturnRows(sqlmock.NewRows([]string{"status"}))
		mock.ExpectBegin()
		// no existing snapshot: seed one from applied data
		mock.ExpectQuery("SELECT").WillReturnRows(sqlmock.NewRows([]string{"pending_change_id"}))
		mock.ExpectQuery("SELECT").WillReturnRows(sqlmock.NewRows([]string{
			"daily_status_id", "user_id", "status_date", "status", "notes", "datetime_create", "datetime_update",
		}))
		mock.ExpectQuery("SELECT").WillReturnRows(sqlmock.NewRows([]string{"content"}))
		mock.ExpectQuery("INSERT INTO \"user_pending_changes\"").
			WillReturnRows(sqlmock.NewRows([]string{"pending_change_id"}).AddRow(3))
		mock.ExpectExec("INSERT INTO \"user_pending_time_logs\"").WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectExec("INSERT INTO \"user_edit_requests\"").WillReturnResult(sqlmock.NewResult(1, 1))
		// admin fan-out
		mock.ExpectQuery("SELECT").WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(2))
		mock.ExpectExec("INSERT INTO \"notifications\"").WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		w := postLog(MockUser(), false, map[string]interface{}{
			"date":       "2024-06-03",
			"projectId":  10,
			"taskType":   "other",
			"hoursSpent": 3,
		})

		assert.Equal(t, http.StatusAccepted, w.Code)
		var response map[string]interface{}
		_ = json.Unmarshal(w.Body.Bytes(), &response)
		assert.Equal(t, true, response["buffered"])
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("approved request allows direct write for a past date", func(t *testing.T) {
		_, mock, cleanup := SetupTestDB(t)
		defer cleanup()

		restore := SetFixedDate(t, "2024-06-12")
		defer restore()

		mock.ExpectQuery("SELECT").WillReturnRows(sqlmock.NewRows([]string{"po_number"}).AddRow("PO-2024-010"))
		mock.ExpectQuery("SELECT").WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("approved"))
		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO \"project_time_logs\"").
			WillReturnRows(sqlmock.NewRows([]string{"time_log_id"}).AddRow(101))
		mock.ExpectExec("INSERT INTO \"project_time_log_history\"").WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectQuery("SELECT").WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(3.0))
		mock.ExpectExec("UPDATE \"projects\"").WillReturnResult(sqlmock.NewResult(0, 1))
		// approval consumed
		mock.ExpectExec("UPDATE \"user_edit_requests\"").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		w := postLog(MockUser(), false, map[string]interface{}{
			"date":       "2024-06-03",
			"projectId":  10,
			"taskType":   "other",
			"hoursSpent": 3,
		})

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGetTimeLogs(t *testing.T) {
	t.Run("logs with pending markers", func(t *testing.T) {
		_, mock, cleanup := SetupTestDB(t)
		defer cleanup()

		restore := SetFixedDate(t, "2024-06-12")
		defer restore()

		entry := MockTimeLog("2024-06-12")
		mock.ExpectQuery("SELECT").WillReturnRows(timeLogRow(sqlmock.NewRows(timeLogColumns()), entry))
		// pending deletion marker for this log
		mock.ExpectQuery("SELECT").WillReturnRows(sqlmock.NewRows([]string{"log_id"}).AddRow(entry.Time_Log_ID))
		mock.ExpectQuery("SELECT").WillReturnRows(sqlmock.NewRows([]string{"log_id"}))

		c, w := SetupTestContext()
		SetAuthenticatedUser(c, MockUser(), false)
		c.Request = httptest.NewRequest("GET", "/time-logs?date=2024-06-12", nil)

		GetTimeLogs(c)

		assert.Equal(t, http.StatusOK, w.Code)
		var response map[string]interface{}
		_ = json.Unmarshal(w.Body.Bytes(), &response)
		logs := response["timeLogs"].([]interface{})
		assert.Len(t, logs, 1)
		first := logs[0].(map[string]interface{})
		assert.Equal(t, true, first["hasPendingDeletion"])
		assert.Equal(t, false, first["hasPendingEdit"])
		assert.Equal(t, 4.0, response["totalHours"])
	})
}

func TestDeleteTimeLog(t *testing.T) {
	t.Run("delete inside the window", func(t *testing.T) {
		_, mock, cleanup := SetupTestDB(t)
		defer cleanup()

		restore := SetFixedDate(t, "2024-06-12")
		defer restore()

		entry := MockTimeLog("2024-06-12")
		mock.ExpectQuery("SELECT").WillReturnRows(timeLogRow(sqlmock.NewRows(timeLogColumns()), entry))
		mock.ExpectBegin()
		mock.ExpectExec("DELETE FROM \"project_time_logs\"").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO \"project_time_log_history\"").WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectQuery("SELECT").WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(0.0))
		mock.ExpectExec("UPDATE \"projects\"").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		c, w := SetupTestContext()
		SetAuthenticatedUser(c, MockUser(), false)
		c.Params = []gin.Param{{Key: "id", Value: "100"}}
		c.Request = httptest.NewRequest("DELETE", "/time-logs/100", nil)

		DeleteTimeLog(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("past date requires a deletion request", func(t *testing.T) {
		_, mock, cleanup := SetupTestDB(t)
		defer cleanup()

		restore := SetFixedDate(t, "2024-06-12")
		defer restore()

		entry := MockTimeLog("2024-06-03")
		mock.ExpectQuery("SELECT").WillReturnRows(timeLogRow(sqlmock.NewRows(timeLogColumns()), entry))
		// no approved edit request for the date
		mock.ExpectQuery("SELECT").WillReturnRows(sqlmock.NewRows([]string{"status"}))

		c, w := SetupTestContext()
		SetAuthenticatedUser(c, MockUser(), false)
		c.Params = []gin.Param{{Key: "id", Value: "100"}}
		c.Request = httptest.NewRequest("DELETE", "/time-logs/100", nil)

		DeleteTimeLog(c)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("approved edit request allows the delete and is consumed", func(t *testing.T) {
		_, mock, cleanup := SetupTestDB(t)
		defer cleanup()

		restore := SetFixedDate(t, "2024-06-12")
		defer restore()

		entry := MockTimeLog("2024-06-03")
		mock.ExpectQuery("SELECT").WillReturnRows(timeLogRow(sqlmock.NewRows(timeLogColumns()), entry))
		mock.ExpectQuery("SELECT").WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("approved"))
		mock.ExpectBegin()
		mock.ExpectExec("DELETE FROM \"project_time_logs\"").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO \"project_time_log_history\"").WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectQuery("SELECT").WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(0.0))
		mock.ExpectExec("UPDATE \"projects\"").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("UPDATE \"user_edit_requests\"").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		c, w := SetupTestContext()
		SetAuthenticatedUser(c, MockUser(), false)
		c.Params = []gin.Param{{Key: "id", Value: "100"}}
		c.Request = httptest.NewRequest("DELETE", "/time-logs/100", nil)

		DeleteTimeLog(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("cannot delete another user's log", func(t *testing.T) {
		_, mock, cleanup := SetupTestDB(t)
		defer cleanup()

		restore := SetFixedDate(t, "2024-06-12")
		defer restore()

		entry := MockTimeLog("2024-06-12")
		entry.User_ID = 9
		mock.ExpectQuery("SELECT").WillReturnRows(timeLogRow(sqlmock.NewRows(timeLogColumns()), entry))

		c, w := SetupTestContext()
		SetAuthenticatedUser(c, MockUser(), false)
		c.Params = []gin.Param{{Key: "id", Value: "100"}}
		c.Request = httptest.NewRequest("DELETE", "/time-logs/100", nil)

		DeleteTimeLog(c)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestRequestLogDeletion(t *testing.T) {
	t.Run("files a pending deletion and notifies admins", func(t *testing.T) {
		_, mock, cleanup := SetupTestDB(t)
		defer cleanup()

		entry := MockTimeLog("2024-06-03")
		mock.ExpectQuery("SELECT").WillReturnRows(timeLogRow(sqlmock.NewRows(timeLogColumns()), entry))
		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO \"user_pending_log_deletions\"").WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectExec("INSERT INTO \"user_edit_requests\"").WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectQuery("SELECT").WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(2))
		mock.ExpectExec("INSERT INTO \"notifications\"").WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		payload, _ := json.Marshal(map[string]interface{}{"reason": "duplicate entry"})
		c, w := SetupTestContext()
		SetAuthenticatedUser(c, MockUser(), false)
		c.Params = []gin.Param{{Key: "id", Value: "100"}}
		c.Request = httptest.NewRequest("POST", "/time-logs/100/delete-request", bytes.NewBuffer(payload))
		c.Request.Header.Set("Content-Type", "application/json")

		RequestLogDeletion(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("admin deletes outright instead of filing a request", func(t *testing.T) {
		_, mock, cleanup := SetupTestDB(t)
		defer cleanup()

		entry := MockTimeLog("2024-06-03")
		entry.User_ID = 9
		mock.ExpectQuery("SELECT").WillReturnRows(timeLogRow(sqlmock.NewRows(timeLogColumns()), entry))
		mock.ExpectBegin()
		mock.ExpectExec("DELETE FROM \"project_time_logs\"").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO \"project_time_log_history\"").WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectQuery("SELECT").WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(0.0))
		mock.ExpectExec("UPDATE \"projects\"").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		payload, _ := json.Marshal(map[string]interface{}{"reason": "duplicate entry"})
		c, w := SetupTestContext()
		SetAuthenticatedUser(c, MockAdminUser(), true)
		c.Params = []gin.Param{{Key: "id", Value: "100"}}
		c.Request = httptest.NewRequest("POST", "/time-logs/100/delete-request", bytes.NewBuffer(payload))
		c.Request.Header.Set("Content-Type", "application/json")

		RequestLogDeletion(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRequestLogEdit(t *testing.T) {
	t.Run("backfills omitted fields from the existing log", func(t *testing.T) {
		_, mock, cleanup := SetupTestDB(t)
		defer cleanup()

		entry := MockTimeLog("2024-06-03")
		mock.ExpectQuery("SELECT").WillReturnRows(timeLogRow(sqlmock.NewRows(timeLogColumns()), entry))
		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO \"user_pending_log_edits\"").WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectExec("INSERT INTO \"user_edit_requests\"").WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectQuery("SELECT").WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(2))
		mock.ExpectExec("INSERT INTO \"notifications\"").WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		// Only hours provided; project, task type and the rest come from the log.
		payload, _ := json.Marshal(map[string]interface{}{
			"newHours": 2.5,
			"reason":   "logged too much",
		})
		c, w := SetupTestContext()
		SetAuthenticatedUser(c, MockUser(), false)
		c.Params = []gin.Param{{Key: "id", Value: "100"}}
		c.Request = httptest.NewRequest("POST", "/time-logs/100/edit-request", bytes.NewBuffer(payload))
		c.Request.Header.Set("Content-Type", "application/json")

		RequestLogEdit(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("log not found", func(t *testing.T) {
		_, mock, cleanup := SetupTestDB(t)
		defer cleanup()

		mock.ExpectQuery("SELECT").WillReturnRows(sqlmock.NewRows(timeLogColumns()))

		payload, _ := json.Marshal(map[string]interface{}{"newHours": 1})
		c, w := SetupTestContext()
		SetAuthenticatedUser(c, MockUser(), false)
		c.Params = []gin.Param{{Key: "id", Value: "999"}}
		c.Request = httptest.NewRequest("POST", "/time-logs/999/edit-request", bytes.NewBuffer(payload))
		c.Request.Header.Set("Content-Type", "application/json")

		RequestLogEdit(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
