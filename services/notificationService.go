package services

import (
	"fmt"
	"log"

	"github.com/TeamTrack/initializers"
	"github.com/TeamTrack/models"
	"github.com/doug-martin/goqu/v9"
)

// ListActiveAdmins returns every active, non-deleted admin account.
func ListActiveAdmins() ([]models.User, error) {
	var admins []models.User
	err := initializers.DB.From("users").
		Where(
			goqu.C("role").In(models.RoleAdmin, models.RoleSuperAdmin),
			goqu.C("is_active").IsTrue(),
			goqu.C("deleted").IsFalse(),
		).
		ScanStructs(&admins)
	if err != nil {
		return nil, fmt.Errorf("failed to list admins: %v", err)
	}
	return admins, nil
}

// AlertAdminsOfEditRequest sends email and push to every admin about a new
// change request. Meant to run in a goroutine after the request has
// committed; the in-app notification rows were already written in the same
// transaction as the request itself.
func AlertAdminsOfEditRequest(requester models.User, reqDate string, requestType string) {
	admins, err := ListActiveAdmins()
	if err != nil {
		log.Printf("Failed to alert admins of edit request: %v", err)
		return
	}

	message := fmt.Sprintf("%s requested to change records for %s", requester.Full_Name, reqDate)

	emailSvc := GetEmailService()
	pushSvc := GetPushNotificationService()

	for _, admin := range admins {
		if admin.User_ID == requester.User_ID {
			continue
		}

		if emailSvc != nil && admin.Email != "" {
			if err := emailSvc.SendEditRequestEmail(admin.Email, admin.Full_Name, requester.Full_Name, reqDate, requestType); err != nil {
				log.Printf("Failed to email admin %d: %v", admin.User_ID, err)
			}
		}

		if pushSvc != nil {
			payload := NotificationPayload{
				Title:    "New change request",
				Body:     message,
				Priority: "high",
				Data: map[string]string{
					"type":    models.NotificationTypeEditRequest,
					"reqDate": reqDate,
				},
			}
			if err := pushSvc.SendNotificationToUser(admin.User_ID, payload); err != nil {
				log.Printf("Failed to push to admin %d: %v", admin.User_ID, err)
			}
		}
	}
}

// NotifyUserOfDecision sends email and push to a requester after an admin
// decision. Meant to run in a goroutine after the decision has committed.
func NotifyUserOfDecision(user models.User, decision string) {
	emailSvc := GetEmailService()
	if emailSvc != nil && user.Email != "" {
		if err := emailSvc.SendDecisionEmail(user.Email, user.Full_Name, decision); err != nil {
			log.Printf("Failed to email user %d: %v", user.User_ID, err)
		}
	}

	pushSvc := GetPushNotificationService()
	if pushSvc != nil {
		payload := NotificationPayload{
			Title: "Change request " + decision,
			Body:  fmt.Sprintf("An admin has %s your change request", decision),
			Data: map[string]string{
				"type": models.NotificationTypeEditRequestResponse,
			},
		}
		if err := pushSvc.SendNotificationToUser(user.User_ID, payload); err != nil {
			log.Printf("Failed to push to user %d: %v", user.User_ID, err)
		}
	}
}
