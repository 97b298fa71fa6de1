package controllers

import (
	"net/http"

	"github.com/UBISmashers/UBIsmashers-sub000/internal/common"
	"github.com/UBISmashers/UBIsmashers-sub000/internal/models"
	"github.com/UBISmashers/UBIsmashers-sub000/internal/services"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ListExpenses supports category, status, from/to date and member filters.
// Inventory lots are listed under /equipment unless inventory=true.
func ListExpenses(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		q := db.Model(&models.Expense{})
		if c.Query("inventory") != "true" {
			q = q.Where("is_inventory = ?", false)
		}
		if cat := c.Query("category"); cat != "" {
			q = q.Where("category = ?", common.NormalizeCategory(cat))
		}
		if status := c.Query("status"); status != "" {
			q = q.Where("status = ?", status)
		}
		if from := c.Query("from"); common.ValidDate(from) {
			q = q.Where("date >= ?", from)
		}
		if to := c.Query("to"); common.ValidDate(to) {
			q = q.Where("date <= ?", to)
		}
		if memberID, ok := common.ParseID(c.Query("memberId")); ok {
			q = q.Where("id IN (?)", db.Model(&models.ExpenseShare{}).Select("expense_id").Where("member_id = ?", memberID))
		}
		offset, limit := common.Page(c.Query("start"), c.Query("count"))

		var expenses []models.Expense
		err := q.Preload("Shares").Order("date DESC, id DESC").Offset(offset).Limit(limit).Find(&expenses).Error
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, expenses)
	}
}

func GetExpense(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		var e models.Expense
		if err := db.Preload("Shares.Member").First(&e, id).Error; err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, e)
	}
}

func CreateExpense(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in services.ExpenseInput
		if !bindJSON(c, &in) {
			return
		}
		e, err := services.CreateExpense(c.Request.Context(), db, in)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, e)
	}
}

func UpdateExpense(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		var patch services.ExpenseUpdate
		if !bindJSON(c, &patch) {
			return
		}
		e, err := services.UpdateExpense(c.Request.Context(), db, id, patch)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, e)
	}
}

func DeleteExpense(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		if err := services.DeleteExpense(c.Request.Context(), db, id); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
