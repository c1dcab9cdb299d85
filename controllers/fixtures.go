package controllers

import (
	"time"

	"github.com/TeamTrack/models"
	"golang.org/x/crypto/bcrypt"
)

// Test fixture data for use in tests

// MockUser creates a sample tester account for testing
func MockUser() models.User {
	return models.User{
		User_ID:         1,
		Username:        "testuser",
		Full_Name:       "Test User",
		Email:           "test@example.com",
		Role:            models.RoleTester,
		Is_Active:       true,
		Created_By:      1,
		Updated_By:      1,
		Datetime_Create: time.Now(),
		Datetime_Update: time.Now(),
	}
}

// MockUserWithPassword creates a sample user with a bcrypt hashed password
// Password is "password123" - use this in tests
func MockUserWithPassword() models.User {
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	user := MockUser()
	user.Password = string(hashedPassword)
	return user
}

// MockAdminUser creates a sample admin account for testing
func MockAdminUser() models.User {
	return models.User{
		User_ID:         2,
		Username:        "adminuser",
		Full_Name:       "Admin User",
		Email:           "admin@example.com",
		Role:            models.RoleAdmin,
		Is_Active:       true,
		Created_By:      1,
		Updated_By:      1,
		Datetime_Create: time.Now(),
		Datetime_Update: time.Now(),
	}
}

// MockProject creates a sample active project for testing
func MockProject() models.Project {
	return models.Project{
		Project_ID:      10,
		PO_Number:       "PO-2024-010",
		Title:           "Sample Project",
		Description:     "A sample project",
		Status:          models.ProjectStatusInProgress,
		Total_Hours:     0,
		Created_By:      2,
		Datetime_Create: time.Now(),
		Datetime_Update: time.Now(),
	}
}

// MockTimeLog creates a sample time log owned by MockUser
func MockTimeLog(date string) models.TimeLog {
	logDate, _ := time.Parse(dateLayout, date)
	return models.TimeLog{
		Time_Log_ID:     100,
		User_ID:         1,
		Project_ID:      10,
		Task_Type:       models.TaskOther,
		Log_Date:        logDate,
		Hours_Spent:     4,
		Description:     "sample work",
		Is_Utilized:     true,
		Datetime_Create: time.Now(),
		Datetime_Update: time.Now(),
	}
}
