package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/UBISmashers/UBIsmashers-sub000/internal/models"
	"github.com/UBISmashers/UBIsmashers-sub000/internal/services"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func SummaryReport(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, err := services.BuildSummary(c.Request.Context(), db)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, s)
	}
}

func MonthlyReport(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		year := time.Now().Year()
		if raw := c.Query("year"); raw != "" {
			y, err := strconv.Atoi(raw)
			if err != nil || y < 2000 || y > 9999 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid year"})
				return
			}
			year = y
		}
		months, err := services.MonthlyTotals(c.Request.Context(), db, year)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"year": year, "months": months})
	}
}

func BalancesReport(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var members []models.Member
		if err := db.Order("balance DESC, name").Find(&members).Error; err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, members)
	}
}
