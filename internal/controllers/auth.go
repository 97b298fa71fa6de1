package controllers

import (
	"errors"
	"net/http"

	"github.com/UBISmashers/UBIsmashers-sub000/internal/auth"
	"github.com/UBISmashers/UBIsmashers-sub000/internal/models"
	"github.com/UBISmashers/UBIsmashers-sub000/internal/services"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type sessionResponse struct {
	auth.Pair
	User *models.User `json:"user"`
}

func RegisterHandler(db *gorm.DB, iss *auth.Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in services.RegisterInput
		if !bindJSON(c, &in) {
			return
		}
		user, err := services.Register(c.Request.Context(), db, in)
		if err != nil {
			respondError(c, err)
			return
		}
		if !user.IsActive {
			respondError(c, services.ErrInactiveUser)
			return
		}
		pair, err := services.StartSession(c.Request.Context(), db, iss, user)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, sessionResponse{Pair: pair, User: user})
	}
}

func LoginHandler(db *gorm.DB, iss *auth.Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Email    string `json:"email" binding:"required,email"`
			Password string `json:"password" binding:"required"`
		}
		if !bindJSON(c, &req) {
			return
		}

		user, err := services.Authenticate(c.Request.Context(), db, req.Email, req.Password)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
				return
			}
			respondError(c, err)
			return
		}
		if !user.IsActive {
			respondError(c, services.ErrInactiveUser)
			return
		}

		pair, err := services.StartSession(c.Request.Context(), db, iss, user)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, sessionResponse{Pair: pair, User: user})
	}
}

func RefreshHandler(db *gorm.DB, iss *auth.Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			RefreshToken string `json:"refreshToken" binding:"required"`
		}
		if !bindJSON(c, &req) {
			return
		}
		user, pair, err := services.RotateSession(c.Request.Context(), db, iss, req.RefreshToken)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, sessionResponse{Pair: pair, User: user})
	}
}

func LogoutHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		if err := services.EndSession(c.Request.Context(), db, userID); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func MeHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		var user models.User
		if err := db.First(&user, userID).Error; err != nil {
			respondError(c, err)
			return
		}

		resp := gin.H{"user": user}
		if user.MemberID != nil {
			var m models.Member
			if err := db.First(&m, *user.MemberID).Error; err == nil {
				resp["member"] = m
			}
		}
		c.JSON(http.StatusOK, resp)
	}
}
