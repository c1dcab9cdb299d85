package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CheckAdmin must run after CheckAuth.
func CheckAdmin(c *gin.Context) {
	isAdmin := c.MustGet("admin").(bool)

	if !isAdmin {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Admin access required"})
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}
}
