package middlewares

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/TeamTrack/initializers"
	"github.com/TeamTrack/models"
	"github.com/doug-martin/goqu/v9"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
)

// Helper function to generate a valid JWT token
func generateValidToken(userID int, role string, expiresIn time.Duration) string {
	secret := os.Getenv("SECRET")
	if secret == "" {
		secret = "test-secret-key"
		os.Setenv("SECRET", secret)
	}

	claims := jwt.MapClaims{
		"id":   float64(userID),
		"exp":  float64(time.Now().Add(expiresIn).Unix()),
		"role": role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, _ := token.SignedString([]byte(secret))
	return tokenString
}

// Helper function to generate an expired token
func generateExpiredToken(userID int) string {
	return generateValidToken(userID, models.RoleTester, -1*time.Hour)
}

// Helper function to generate a token with invalid signature
func generateInvalidSignatureToken(userID int) string {
	claims := jwt.MapClaims{
		"id":   float64(userID),
		"exp":  float64(time.Now().Add(24 * time.Hour).Unix()),
		"role": models.RoleTester,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, _ := token.SignedString([]byte("wrong-secret-key"))
	return tokenString
}

// Setup test database
func setupTestDB(t *testing.T) (sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to create mock database: %v", err)
	}

	goquDB := goqu.New("postgres", db)

	oldDB := initializers.DB
	initializers.DB = goquDB

	cleanup := func() {
		db.Close()
		initializers.DB = oldDB
	}

	return mock, cleanup
}

// Setup test Gin context
func setupTestContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/test", nil)
	return c, w
}

func userColumns() []string {
	return []string{
		"user_id", "username", "password", "full_name", "email", "role",
		"is_active", "created_by", "datetime_create", "updated_by",
		"datetime_update", "deleted",
	}
}

// Test CheckAuth middleware
func TestCheckAuth(t *testing.T) {
	tests := []struct {
		name              string
		authHeader        string
		mockUserLookup    bool
		userExists        bool
		userRole          string
		userActive        bool
		expectedStatus    int
		expectAbort       bool
		expectCurrentUser bool
		expectAdminFlag   bool
	}{
		{
			name:           "missing authorization header",
			authHeader:     "",
			expectedStatus: http.StatusUnauthorized,
			expectAbort:    true,
		},
		{
			name:           "invalid token format - no Bearer prefix",
			authHeader:     "InvalidToken123",
			expectedStatus: http.StatusUnauthorized,
			expectAbort:    true,
		},
		{
			name:           "invalid token format - wrong prefix",
			authHeader:     "Basic " + generateValidToken(1, models.RoleTester, 24*time.Hour),
			expectedStatus: http.StatusUnauthorized,
			expectAbort:    true,
		},
		{
			name:           "invalid JWT signature",
			authHeader:     "Bearer " + generateInvalidSignatureToken(1),
			expectedStatus: http.StatusUnauthorized,
			expectAbort:    true,
		},
		{
			name:           "expired token",
			authHeader:     "Bearer " + generateExpiredToken(1),
			expectedStatus: http.StatusUnauthorized,
			expectAbort:    true,
		},
		{
			name:           "valid token - user not found in database",
			authHeader:     "Bearer " + generateValidToken(999, models.RoleTester, 24*time.Hour),
			mockUserLookup: true,
			expectedStatus: http.StatusUnauthorized,
			expectAbort:    true,
		},
		{
			name:           "valid token - deactivated user",
			authHeader:     "Bearer " + generateValidToken(1, models.RoleTester, 24*time.Hour),
			mockUserLookup: true,
			userExists:     true,
			userRole:       models.RoleTester,
			userActive:     false,
			expectedStatus: http.StatusUnauthorized,
			expectAbort:    true,
		},
		{
			name:              "valid token - tester",
			authHeader:        "Bearer " + generateValidToken(1, models.RoleTester, 24*time.Hour),
			mockUserLookup:    true,
			userExists:        true,
			userRole:          models.RoleTester,
			userActive:        true,
			expectedStatus:    http.StatusOK,
			expectCurrentUser: true,
			expectAdminFlag:   false,
		},
		{
			name:              "valid token - admin role from database",
			authHeader:        "Bearer " + generateValidToken(2, models.RoleAdmin, 24*time.Hour),
			mockUserLookup:    true,
			userExists:        true,
			userRole:          models.RoleAdmin,
			userActive:        true,
			expectedStatus:    http.StatusOK,
			expectCurrentUser: true,
			expectAdminFlag:   true,
		},
		{
			name:              "valid token - super_admin role from database",
			authHeader:        "Bearer " + generateValidToken(3, models.RoleSuperAdmin, 24*time.Hour),
			mockUserLookup:    true,
			userExists:        true,
			userRole:          models.RoleSuperAdmin,
			userActive:        true,
			expectedStatus:    http.StatusOK,
			expectCurrentUser: true,
			expectAdminFlag:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, cleanup := setupTestDB(t)
			defer cleanup()

			if tt.mockUserLookup {
				now := time.Now()
				rows := sqlmock.NewRows(userColumns())
				if tt.userExists {
					rows.AddRow(1, "testuser", "hashedpassword", "Test User",
						"test@example.com", tt.userRole, tt.userActive, 1, now, 1, now, false)
				}
				mock.ExpectQuery("SELECT").WillReturnRows(rows)
			}

			c, w := setupTestContext()

			if tt.authHeader != "" {
				c.Request.Header.Set("Authorization", tt.authHeader)
			}

			CheckAuth(c)

			if tt.expectAbort {
				assert.True(t, c.IsAborted(), "Expected request to be aborted")
				assert.Equal(t, tt.expectedStatus, w.Code)
			} else {
				assert.False(t, c.IsAborted(), "Expected request not to be aborted")
			}

			if tt.expectCurrentUser {
				userVal, exists := c.Get("currentUser")
				assert.True(t, exists, "Expected currentUser to be set")
				user := userVal.(models.User)
				assert.Equal(t, tt.userRole, user.Role)

				adminVal, exists := c.Get("admin")
				assert.True(t, exists, "Expected admin to be set")
				assert.Equal(t, tt.expectAdminFlag, adminVal.(bool))
			} else {
				_, exists := c.Get("currentUser")
				assert.False(t, exists, "Expected currentUser not to be set")
			}
		})
	}
}
