package controllers

import (
	"net/http"

	"github.com/UBISmashers/UBIsmashers-sub000/internal/common"
	"github.com/UBISmashers/UBIsmashers-sub000/internal/middleware"
	"github.com/UBISmashers/UBIsmashers-sub000/internal/models"
	"github.com/UBISmashers/UBIsmashers-sub000/internal/services"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func ListBookings(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		q := db.Model(&models.Booking{})
		if date := c.Query("date"); date != "" {
			q = q.Where("date = ?", date)
		}
		if status := c.Query("status"); status != "" {
			q = q.Where("status = ?", status)
		}
		if court := c.Query("court"); court != "" {
			q = q.Where("court = ?", court)
		}
		offset, limit := common.Page(c.Query("start"), c.Query("count"))

		var bookings []models.Booking
		if err := q.Order("date, start_time, court").Offset(offset).Limit(limit).Find(&bookings).Error; err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, bookings)
	}
}

func CreateSlot(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in services.SlotInput
		if !bindJSON(c, &in) {
			return
		}
		b, err := services.CreateSlot(c.Request.Context(), db, in)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, b)
	}
}

// BookSlot books for the caller's member. Admins may name another member or
// leave the booking pending.
func BookSlot(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		var in services.BookInput
		if c.Request.ContentLength > 0 && !bindJSON(c, &in) {
			return
		}

		memberID, linked := middleware.MemberID(c)
		status := models.BookingBooked
		if middleware.IsAdmin(c) {
			if in.MemberID != nil {
				memberID, linked = *in.MemberID, true
			}
			if in.Status != "" {
				status = in.Status
			}
		}
		if !linked {
			c.JSON(http.StatusBadRequest, gin.H{"error": "no member is linked to this account"})
			return
		}

		b, err := services.Book(c.Request.Context(), db, id, memberID, status)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, b)
	}
}

func CancelBooking(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		var memberID *uint
		if mid, linked := middleware.MemberID(c); linked {
			memberID = &mid
		}
		b, err := services.CancelBooking(c.Request.Context(), db, id, memberID, middleware.IsAdmin(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, b)
	}
}

func DeleteBooking(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		res := db.Delete(&models.Booking{}, id)
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
