package controllers

import (
	"net/http"

	"github.com/UBISmashers/UBIsmashers-sub000/internal/models"
	"github.com/UBISmashers/UBIsmashers-sub000/internal/services"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type lotView struct {
	models.Expense
	Remaining int `json:"remaining"`
}

func ListEquipment(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		q := db.Where("is_inventory = ?", true)
		if c.Query("inStock") == "true" {
			q = q.Where("quantity_used < quantity_purchased")
		}
		var lots []models.Expense
		if err := q.Order("date ASC, id ASC").Find(&lots).Error; err != nil {
			respondError(c, err)
			return
		}
		out := make([]lotView, 0, len(lots))
		for i := range lots {
			out = append(out, lotView{Expense: lots[i], Remaining: lots[i].Remaining()})
		}
		c.JSON(http.StatusOK, out)
	}
}

func EquipmentStock(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := services.StockSummary(c.Request.Context(), db)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, items)
	}
}

func CreatePurchase(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in services.PurchaseInput
		if !bindJSON(c, &in) {
			return
		}
		lot, err := services.CreatePurchase(c.Request.Context(), db, in)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, lotView{Expense: *lot, Remaining: lot.Remaining()})
	}
}

func UpdateUsage(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		var req struct {
			QuantityUsed *int `json:"quantityUsed" binding:"required"`
		}
		if !bindJSON(c, &req) {
			return
		}
		lot, err := services.UpdateUsage(c.Request.Context(), db, id, *req.QuantityUsed)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, lotView{Expense: *lot, Remaining: lot.Remaining()})
	}
}

func DeletePurchase(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		if err := services.DeletePurchase(c.Request.Context(), db, id); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
