package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestCheckEditRequest(t *testing.T) {
	now := time.Now()

	t.Run("directly editable date with no request", func(t *testing.T) {
		_, mock, cleanup := SetupTestDB(t)
		defer cleanup()

		restore := SetFixedDate(t, "2024-06-12")
		defer restore()

		mock.ExpectQuery("SELECT").WillReturnRows(sqlmock.NewRows(editRequestColumns()))

		c, w := SetupTestContext()
		SetAuthenticatedUser(c, MockUser(), false)
		c.Request = httptest.NewRequest("GET", "/edit-requests/check?date=2024-06-12", nil)

		CheckEditRequest(c)

		assert.Equal(t, http.StatusOK, w.Code)
		var response map[string]interface{}
		_ = json.Unmarshal(w.Body.Bytes(), &response)
		assert.Equal(t, true, response["directlyEditable"])
		assert.Equal(t, false, response["hasRequest"])
	})

	t.Run("locked date with a pending request", func(t *testing.T) {
		_, mock, cleanup := SetupTestDB(t)
		defer cleanup()

		restore := SetFixedDate(t, "2024-06-12")
		defer restore()

		mock.ExpectQuery("SELECT").WillReturnRows(sqlmock.NewRows(editRequestColumns()).
			AddRow(7, 1, now, "edit", "forgot to log", "pending", now, now))

		c, w := SetupTestContext()
		SetAuthenticatedUser(c, MockUser(), false)
		c.Request = httptest.NewRequest("GET", "/edit-requests/check?date=2024-06-03", nil)

		CheckEditRequest(c)

		assert.Equal(t, http.StatusOK, w.Code)
		var response map[string]interface{}
		_ = json.Unmarshal(w.Body.Bytes(), &response)
		assert.Equal(t, false, response["directlyEditable"])
		assert.Equal(t, true, response["hasRequest"])
		assert.Equal(t, "pending", response["requestStatus"])
	})

	t.Run("date is required", func(t *testing.T) {
		_, _, cleanup := SetupTestDB(t)
		defer cleanup()

		c, w := SetupTestContext()
		SetAuthenticatedUser(c, MockUser(), false)
		c.Request = httptest.NewRequest("GET", "/edit-requests/check", nil)

		CheckEditRequest(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestRequestEdit(t *testing.T) {
	postRequest := func(body map[string]interface{}) *httptest.ResponseRecorder {
		payload, _ := json.Marshal(body)
		c, w := SetupTestContext()
		SetAuthenticatedUser(c, MockUser(), false)
		c.Request = httptest.NewRequest("POST", "/edit-requests", bytes.NewBuffer(payload))
		c.Request.Header.Set("Content-Type", "application/json")
		RequestEdit(c)
		return w
	}

	t.Run("past date creates a pending request and alerts admins", func(t *testing.T) {
		_, mock, cleanup := SetupTestDB(t)
		defer cleanup()

		restore := SetFixedDate(t, "2024-06-12")
		defer restore()

		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO \"user_edit_requests\"").WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectQuery("SELECT").WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(2).AddRow(3))
		mock.ExpectExec("INSERT INTO \"notifications\"").WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectExec("INSERT INTO \"notifications\"").WillReturnResult(sqlmock.NewResult(2, 1))
		mock.ExpectCommit()

		w := postRequest(map[string]interface{}{
			"date":   "2024-06-03",
			"reason": "was on site, could not log",
		})

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("directly editable date is refused", func(t *testing.T) {
		_, _, cleanup := SetupTestDB(t)
		defer cleanup()

		restore := SetFixedDate(t, "2024-06-12")
		defer restore()

		w := postRequest(map[string]interface{}{
			"date":   "2024-06-12",
			"reason": "unnecessary",
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("future date is refused", func(t *testing.T) {
		_, _, cleanup := SetupTestDB(t)
		defer cleanup()

		restore := SetFixedDate(t, "2024-06-12")
		defer restore()

		w := postRequest(map[string]interface{}{
			"date":   "2024-06-20",
			"reason": "not needed yet",
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestSavePendingChanges(t *testing.T) {
	t.Run("replaces snapshot and lines wholesale", func(t *testing.T) {
		_, mock, cleanup := SetupTestDB(t)
		defer cleanup()

		mock.ExpectQuery("SELECT").WillReturnRows(statusKeyRows())
		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO \"user_pending_changes\"").
			WillReturnRows(sqlmock.NewRows([]string{"pending_change_id"}).AddRow(3))
		mock.ExpectExec("DELETE FROM \"user_pending_time_logs\"").WillReturnResult(sqlmock.NewResult(0, 2))
		// two pages -> two stored lines
		mock.ExpectExec("INSERT INTO \"user_pending_time_logs\"").WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectExec("INSERT INTO \"user_pending_time_logs\"").WillReturnResult(sqlmock.NewResult(2, 1))
		mock.ExpectCommit()

		payload, _ := json.Marshal(map[string]interface{}{
			"date":   "2024-06-03",
			"status": "working",
			"notes":  "reworked day",
			"pendingTimeLogs": []map[string]interface{}{
				{
					"projectId":  10,
					"taskType":   "page_testing",
					"pageIds":    []int{11, 12},
					"hours":      4,
					"isUtilized": true,
				},
			},
		})
		c, w := SetupTestContext()
		SetAuthenticatedUser(c, MockUser(), false)
		c.Request = httptest.NewRequest("POST", "/pending-changes", bytes.NewBuffer(payload))
		c.Request.Header.Set("Content-Type", "application/json")

		SavePendingChanges(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
