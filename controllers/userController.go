package controllers

import (
	"log"
	"net/http"

	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"

	"github.com/TeamTrack/initializers"
	"github.com/TeamTrack/models"
	"github.com/doug-martin/goqu/v9"
	"golang.org/x/crypto/bcrypt"
)

func UserSignup(c *gin.Context) {
	currentUser := c.MustGet("currentUser").(models.User)

	var user models.UserSignup

	if err := c.ShouldBindJSON(&user); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userCount, err := initializers.DB.From("users").Select("username").Where(goqu.C("username").Eq(user.Username)).Count()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if userCount > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username already exists."})
		return
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	role := user.Role
	switch role {
	case models.RoleAdmin, models.RoleSuperAdmin, models.RoleTester, models.RoleClient:
	default:
		role = models.RoleTester
	}
	// Only a super admin can mint another admin.
	if (role == models.RoleAdmin || role == models.RoleSuperAdmin) && currentUser.Role != models.RoleSuperAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only a super admin can create admin accounts"})
		return
	}

	newUser := models.User{
		Username:   user.Username,
		Password:   string(passwordHash),
		Email:      user.Email,
		Full_Name:  user.Full_Name,
		Role:       role,
		Is_Active:  true,
		Created_By: currentUser.User_ID,
		Updated_By: currentUser.User_ID,
	}

	insert := initializers.DB.Insert("users").Rows(newUser).Executor()
	if _, err := insert.Exec(); err != nil {
		log.Default().Println(insert)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(200, gin.H{
		"message": "User created successfully.",
		"user":    user,
	})
}

func UserLogin(c *gin.Context) {
	var user models.Login

	if err := c.ShouldBindJSON(&user); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var dbUser models.User
	found, err := initializers.DB.From("users").Select("*").
		Where(goqu.C("username").Eq(user.Username), goqu.C("deleted").IsFalse()).
		ScanStruct(&dbUser)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !found || !dbUser.Is_Active {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
		return
	}

	err = bcrypt.CompareHashAndPassword([]byte(dbUser.Password), []byte(user.Password))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid password"})
		return
	}

	generateToken := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":   dbUser.User_ID,
		"exp":  time.Now().Add(time.Hour * 24).Unix(),
		"role": dbUser.Role,
	})

	token, err := generateToken.SignedString([]byte(os.Getenv("SECRET")))

	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to generate token"})
	}

	c.JSON(200, gin.H{
		"message": "User logged in successfully.",
		"token":   token,
		"user":    dbUser,
	})
}

func GetUserProfile(c *gin.Context) {

	user, _ := c.Get("currentUser")

	c.JSON(200, gin.H{
		"user":  user,
		"admin": c.MustGet("admin"),
	})
}

// StorePushToken registers a device token for the caller. Re-registering
// the same token refreshes its platform and timestamp.
func StorePushToken(c *gin.Context) {
	currentUser := c.MustGet("currentUser").(models.User)

	var body models.PushTokenRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	_, err := initializers.DB.Insert("user_push_tokens").
		Rows(goqu.Record{
			"user_id":    currentUser.User_ID,
			"push_token": body.PushToken,
			"platform":   body.Platform,
		}).
		OnConflict(goqu.DoUpdate("user_id, push_token", goqu.Record{
			"platform":   body.Platform,
			"updated_at": goqu.L("NOW()"),
		})).
		Executor().Exec()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store push token", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Push token registered"})
}
