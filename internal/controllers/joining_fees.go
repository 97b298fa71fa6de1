package controllers

import (
	"net/http"

	"github.com/UBISmashers/UBIsmashers-sub000/internal/models"
	"github.com/UBISmashers/UBIsmashers-sub000/internal/services"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func ListJoiningFees(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var fees []models.JoiningFee
		if err := db.Preload("Member").Order("date DESC, id DESC").Find(&fees).Error; err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, fees)
	}
}

func CreateJoiningFee(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in services.JoiningFeeInput
		if !bindJSON(c, &in) {
			return
		}
		fee, err := services.CreateJoiningFee(c.Request.Context(), db, in)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, fee)
	}
}

func DeleteJoiningFee(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		if err := services.DeleteJoiningFee(c.Request.Context(), db, id); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
