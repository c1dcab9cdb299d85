package controllers

import (
	"net/http"
	"strconv"

	"github.com/TeamTrack/initializers"
	"github.com/TeamTrack/models"
	"github.com/TeamTrack/services"

	"github.com/doug-martin/goqu/v9"
	"github.com/gin-gonic/gin"
)

func GetUserNotifications(c *gin.Context) {
	currentUser := c.MustGet("currentUser").(models.User)

	var notifications []models.Notification
	err := initializers.DB.From("notifications").
		Where(goqu.C("user_id").Eq(currentUser.User_ID)).
		Order(goqu.C("datetime_create").Desc()).
		ScanStructs(&notifications)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, notifications)
}

func ToggleNotificationStatus(c *gin.Context) {
	currentUser := c.MustGet("currentUser").(models.User)

	notificationID, err := strconv.Atoi(c.Param("notification_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid notification ID", "details": err.Error()})
		return
	}

	var currentStatus string
	found, err := initializers.DB.From("notifications").
		Select("notification_status").
		Where(
			goqu.C("notification_id").Eq(notificationID),
			goqu.C("user_id").Eq(currentUser.User_ID),
		).
		ScanVal(&currentStatus)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
		return
	}

	newStatus := models.NotificationStatusRead
	if currentStatus == models.NotificationStatusRead {
		newStatus = models.NotificationStatusUnread
	}

	result, err := initializers.DB.Update("notifications").
		Set(goqu.Record{
			"notification_status": newStatus,
			"datetime_update":     goqu.L("NOW()"),
			"updated_by":          currentUser.User_ID,
		}).
		Where(goqu.C("notification_id").Eq(notificationID)).
		Executor().Exec()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update notification", "details": err.Error()})
		return
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification marked as " + newStatus})
}

func DeleteNotification(c *gin.Context) {
	currentUser := c.MustGet("currentUser").(models.User)

	notificationID, err := strconv.Atoi(c.Param("notification_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid notification ID", "details": err.Error()})
		return
	}

	result, err := initializers.DB.Delete("notifications").
		Where(
			goqu.C("notification_id").Eq(notificationID),
			goqu.C("user_id").Eq(currentUser.User_ID),
		).
		Executor().Exec()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete notification", "details": err.Error()})
		return
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification deleted successfully"})
}

func MarkAllNotificationsAsRead(c *gin.Context) {
	currentUser := c.MustGet("currentUser").(models.User)

	result, err := initializers.DB.Update("notifications").
		Set(goqu.Record{
			"notification_status": models.NotificationStatusRead,
			"datetime_update":     goqu.L("NOW()"),
			"updated_by":          currentUser.User_ID,
		}).
		Where(
			goqu.C("user_id").Eq(currentUser.User_ID),
			goqu.C("notification_status").Eq(models.NotificationStatusUnread),
		).
		Executor().Exec()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark notifications as read", "details": err.Error()})
		return
	}

	rowsAffected, _ := result.RowsAffected()

	c.JSON(http.StatusOK, gin.H{
		"message":      "All notifications marked as read",
		"updatedCount": rowsAffected,
	})
}

type SendNotificationRequest struct {
	UserIDs  []int             `json:"userIds" binding:"required"`
	Title    string            `json:"title" binding:"required"`
	Body     string            `json:"body" binding:"required"`
	Data     map[string]string `json:"data,omitempty"`
	Sound    string            `json:"sound,omitempty"`
	Badge    string            `json:"badge,omitempty"`
	Priority string            `json:"priority,omitempty"`
}

func SendPushNotification(c *gin.Context) {
	var request SendNotificationRequest

	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pushService := services.GetPushNotificationService()
	if pushService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Push notification service not available"})
		return
	}

	payload := services.NotificationPayload{
		Title:    request.Title,
		Body:     request.Body,
		Data:     request.Data,
		Sound:    request.Sound,
		Badge:    request.Badge,
		Priority: request.Priority,
	}

	err := pushService.SendNotificationToUsers(request.UserIDs, payload)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send push notifications", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Push notifications sent successfully",
		"userIds": request.UserIDs,
	})
}
