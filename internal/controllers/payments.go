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

// ListShares returns expense shares. Members only ever see their own.
func ListShares(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		q := db.Model(&models.ExpenseShare{})

		if middleware.IsAdmin(c) {
			if memberID, ok := common.ParseID(c.Query("memberId")); ok {
				q = q.Where("member_id = ?", memberID)
			}
		} else {
			own, linked := middleware.MemberID(c)
			if !linked {
				c.JSON(http.StatusOK, []models.ExpenseShare{})
				return
			}
			q = q.Where("member_id = ?", own)
		}

		switch c.Query("status") {
		case "paid":
			q = q.Where("paid_status = ?", true)
		case "unpaid":
			q = q.Where("paid_status = ?", false)
		}
		offset, limit := common.Page(c.Query("start"), c.Query("count"))

		var shares []models.ExpenseShare
		if err := q.Preload("Member").Order("id DESC").Offset(offset).Limit(limit).Find(&shares).Error; err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, shares)
	}
}

func MarkSharePaid(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		share, err := services.MarkSharePaid(c.Request.Context(), db, id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, share)
	}
}
