package controllers

import (
	"net/http"

	"github.com/UBISmashers/UBIsmashers-sub000/internal/common"
	"github.com/UBISmashers/UBIsmashers-sub000/internal/models"
	"github.com/UBISmashers/UBIsmashers-sub000/internal/services"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func ListNotifications(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		q := db.Where("user_id = ?", userID)
		if c.Query("unread") == "true" {
			q = q.Where("is_read = ?", false)
		}
		offset, limit := common.Page(c.Query("start"), c.Query("count"))

		var ns []models.Notification
		if err := q.Order("created_at DESC, id DESC").Offset(offset).Limit(limit).Find(&ns).Error; err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, ns)
	}
}

func UnreadCount(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		var n int64
		if err := db.Model(&models.Notification{}).Where("user_id = ? AND is_read = ?", userID, false).Count(&n).Error; err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"count": n})
	}
}

func MarkNotificationRead(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		res := db.Model(&models.Notification{}).Where("id = ? AND user_id = ?", id, userID).Update("is_read", true)
		if res.Error != nil {
			respondError(c, res.Error)
			return
		}
		if res.RowsAffected == 0 {
			respondError(c, gorm.ErrRecordNotFound)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func MarkAllNotificationsRead(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		res := db.Model(&models.Notification{}).Where("user_id = ? AND is_read = ?", userID, false).Update("is_read", true)
		if res.Error != nil {
			respondError(c, res.Error)
			return
		}
		c.JSON(http.StatusOK, gin.H{"updated": res.RowsAffected})
	}
}

func DeleteNotification(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		res := db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Notification{})
		if res.Error != nil {
			respondError(c, res.Error)
			return
		}
		if res.RowsAffected == 0 {
			respondError(c, gorm.ErrRecordNotFound)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// SendNotification targets one user, or every active user when userId is omitted.
func SendNotification(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in services.NotificationInput
		if !bindJSON(c, &in) {
			return
		}
		if in.Type == "" {
			in.Type = services.NotifyAnnouncement
		}

		if in.UserID == nil {
			n, err := services.Broadcast(c.Request.Context(), db, in.Type, in.Title, in.Message)
			if err != nil {
				respondError(c, err)
				return
			}
			c.JSON(http.StatusCreated, gin.H{"sent": n})
			return
		}

		if err := db.First(&models.User{}, *in.UserID).Error; err != nil {
			respondError(c, err)
			return
		}
		n, err := services.Notify(c.Request.Context(), db, *in.UserID, in.Type, in.Title, in.Message)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, n)
	}
}
