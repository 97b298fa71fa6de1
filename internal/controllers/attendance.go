package controllers

import (
	"net/http"

	"github.com/UBISmashers/UBIsmashers-sub000/internal/common"
	"github.com/UBISmashers/UBIsmashers-sub000/internal/models"
	"github.com/UBISmashers/UBIsmashers-sub000/internal/services"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func ListAttendance(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		date := c.DefaultQuery("date", common.Today())
		if !common.ValidDate(date) {
			respondError(c, services.ErrInvalidDate)
			return
		}
		var rows []models.Attendance
		if err := db.Where("date = ?", date).Order("member_id").Find(&rows).Error; err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, rows)
	}
}

func MemberAttendance(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		var rows []models.Attendance
		if err := db.Where("member_id = ?", id).Order("date DESC").Find(&rows).Error; err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, rows)
	}
}

func RecordAttendance(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in services.AttendanceInput
		if !bindJSON(c, &in) {
			return
		}
		rows, err := services.RecordAttendance(c.Request.Context(), db, in)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, rows)
	}
}
