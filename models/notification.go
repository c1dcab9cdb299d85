package models

import "time"

// Notification type constants
const (
	NotificationTypeEditRequest         = "edit_request"
	NotificationTypeEditRequestResponse = "edit_request_response"
)

// Notification status constants
const (
	NotificationStatusRead   = "READ"
	NotificationStatusUnread = "UNREAD"
)

type Notification struct {
	Notification_ID      int       `json:"notificationId" goqu:"skipinsert"`
	User_ID              int       `json:"userId"`
	Notification_Type    string    `json:"notificationType"`
	Notification_Message string    `json:"notificationMessage"`
	Link                 string    `json:"link"`
	Notification_Status  string    `json:"notificationStatus"`
	Datetime_Create      time.Time `json:"datetimeCreate" goqu:"skipinsert"`
	Datetime_Update      time.Time `json:"datetimeUpdate" goqu:"skipinsert"`
	Created_By           int       `json:"createdBy"`
	Updated_By           int       `json:"updatedBy"`
}
