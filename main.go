package main

import (
	"log"

	"github.com/gin-gonic/gin"

	"github.com/TeamTrack/controllers"
	"github.com/TeamTrack/initializers"
	"github.com/TeamTrack/middlewares"
	"github.com/TeamTrack/services"
)

func init() {
	initializers.LoadEnv()
	initializers.ConnectDB()
	initializers.RunMigrations()
	services.InitPushNotificationService()
	services.InitEmailService()
}

func main() {
	router := gin.Default()

	getKey := func(c *gin.Context) string {
		if gin.Mode() == gin.DebugMode {
			return c.FullPath()
		}
		return c.ClientIP()
	}

	router.POST("/login", middlewares.RateLimitMiddleware(2, 2, getKey), controllers.UserLogin)
	router.GET("/ping", middlewares.RateLimitMiddleware(2, 2, getKey), controllers.Ping)

	auth := router.Group("/")
	auth.Use(middlewares.CheckAuth)
	auth.Use(middlewares.RateLimitMiddleware(10, 10, getKey))
	{
		// user routes
		auth.GET("/users/me", controllers.GetUserProfile)
		auth.POST("/users/push-token", controllers.StorePushToken)

		// daily status routes
		auth.GET("/daily-status", controllers.GetDailyStatus)
		auth.POST("/daily-status", controllers.UpdateDailyStatus)

		// time log routes
		auth.GET("/time-logs", controllers.GetTimeLogs)
		auth.POST("/time-logs", controllers.LogTime)
		auth.DELETE("/time-logs/:id", controllers.DeleteTimeLog)
		auth.POST("/time-logs/:id/delete-request", controllers.RequestLogDeletion)
		auth.POST("/time-logs/:id/edit-request", controllers.RequestLogEdit)

		// edit request routes
		auth.GET("/edit-requests/check", controllers.CheckEditRequest)
		auth.POST("/edit-requests", controllers.RequestEdit)
		auth.POST("/pending-changes", controllers.SavePendingChanges)

		// lookup routes for the time log form
		auth.GET("/projects", controllers.GetActiveProjects)
		auth.GET("/projects/:project_id/pages", controllers.GetProjectPages)
		auth.GET("/projects/:project_id/phases", controllers.GetProjectPhases)
		auth.GET("/projects/:project_id/issues", controllers.GetProjectIssues)
		auth.GET("/environments", controllers.GetEnvironments)
		auth.GET("/generic-categories", controllers.GetGenericCategories)

		// notification routes
		auth.GET("/notifications", controllers.GetUserNotifications)
		auth.PATCH("/notifications/mark-all-read", controllers.MarkAllNotificationsAsRead)
		auth.PATCH("/notifications/:notification_id", controllers.ToggleNotificationStatus)
		auth.DELETE("/notifications/:notification_id", controllers.DeleteNotification)

		// admin only routes
		admin := auth.Group("/")
		admin.Use(middlewares.CheckAdmin)
		admin.Use(middlewares.RateLimitMiddleware(5, 5, getKey))
		{
			admin.POST("/users", controllers.UserSignup)

			admin.GET("/admin/edit-requests", controllers.GetEditRequests)
			admin.GET("/admin/pending-changes", controllers.GetPendingChanges)
			admin.PATCH("/admin/edit-requests/:edit_request_id", controllers.RespondToEditRequest)
			admin.POST("/admin/edit-requests/bulk", controllers.BulkRespondToEditRequests)

			// push notification routes
			admin.POST("/notifications/send", controllers.SendPushNotification)
		}
	}

	if err := router.Run(); err != nil {
		log.Fatal(err)
	}
}
