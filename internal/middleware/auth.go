package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/UBISmashers/UBIsmashers-sub000/internal/auth"
	"github.com/UBISmashers/UBIsmashers-sub000/internal/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	KeyUserID   = "user_id"
	KeyRole     = "role"
	KeyMemberID = "member_id"
)

func AuthMiddleware(iss *auth.Issuer, db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := Logger(c)

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid Authorization header"})
			return
		}

		claims, err := iss.ParseAccess(strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		var user models.User
		if err := db.WithContext(c.Request.Context()).First(&user, claims.UID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
				return
			}
			log.Error("load user", "error", err, "uid", claims.UID)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}
		if !user.IsActive {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "account is inactive"})
			return
		}

		c.Set(KeyUserID, user.ID)
		c.Set(KeyRole, user.Role)
		if user.MemberID != nil {
			c.Set(KeyMemberID, *user.MemberID)
		}
		c.Next()
	}
}

// RequireRole must run after AuthMiddleware.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, _ := c.Get(KeyRole)
		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	}
}

func IsAdmin(c *gin.Context) bool {
	role, _ := c.Get(KeyRole)
	return role == models.RoleAdmin
}

// MemberID is the caller's linked member, if any.
func MemberID(c *gin.Context) (uint, bool) {
	raw, ok := c.Get(KeyMemberID)
	if !ok {
		return 0, false
	}
	id, ok := raw.(uint)
	return id, ok
}
