package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/UBISmashers/UBIsmashers-sub000/internal/auth"
	"github.com/UBISmashers/UBIsmashers-sub000/internal/common"
	"github.com/UBISmashers/UBIsmashers-sub000/internal/middleware"
	"github.com/UBISmashers/UBIsmashers-sub000/internal/services"
	"github.com/UBISmashers/UBIsmashers-sub000/internal/validation"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var statusBySentinel = []struct {
	err    error
	status int
}{
	{services.ErrInvalidAmount, http.StatusBadRequest},
	{services.ErrInvalidMemberCount, http.StatusBadRequest},
	{services.ErrInvalidMember, http.StatusBadRequest},
	{services.ErrInvalidUsage, http.StatusBadRequest},
	{services.ErrInvalidQuantity, http.StatusBadRequest},
	{services.ErrInvalidSlot, http.StatusBadRequest},
	{services.ErrInvalidDate, http.StatusBadRequest},
	{services.ErrNotInventory, http.StatusBadRequest},
	{services.ErrAlreadyPaid, http.StatusConflict},
	{services.ErrDuplicateFee, http.StatusConflict},
	{services.ErrSlotUnavailable, http.StatusConflict},
	{services.ErrSlotOverlap, http.StatusConflict},
	{services.ErrMemberHasDues, http.StatusConflict},
	{services.ErrEmailTaken, http.StatusConflict},
	{services.ErrAlreadyCancelled, http.StatusConflict},
	{services.ErrNotOwner, http.StatusForbidden},
	{services.ErrInactiveUser, http.StatusForbidden},
	{auth.ErrInvalidToken, http.StatusUnauthorized},
}

// respondError maps service errors onto status codes. Unknown errors are
// logged and hidden behind a generic 500.
func respondError(c *gin.Context, err error) {
	for _, s := range statusBySentinel {
		if errors.Is(err, s.err) {
			c.JSON(s.status, gin.H{"error": s.err.Error()})
			return
		}
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	middleware.Logger(c).Error("request failed", "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}

func bindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validation.Message(err)})
		return false
	}
	return true
}

func idParam(c *gin.Context, name string) (uint, bool) {
	id, ok := common.ParseID(c.Param(name))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
	}
	return id, ok
}

func GetUserID(c *gin.Context) (uint, error) {
	userIDRaw, exists := c.Get(middleware.KeyUserID)
	if !exists {
		return 0, fmt.Errorf("user_id not found in context")
	}
	userID, ok := userIDRaw.(uint)
	if !ok {
		return 0, fmt.Errorf("invalid user_id type in context")
	}
	return userID, nil
}

// currentUser reads the authenticated user id, writing a 401 when it is missing.
func currentUser(c *gin.Context) (uint, bool) {
	userID, err := GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return 0, false
	}
	return userID, true
}
