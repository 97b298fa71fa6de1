package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/UBISmashers/UBIsmashers-sub000/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PurchaseInput struct {
	Date              string          `json:"date" binding:"omitempty,datetime=2006-01-02"`
	ItemName          string          `json:"itemName" binding:"required,max=128"`
	Description       string          `json:"description" binding:"max=500"`
	Amount            decimal.Decimal `json:"amount"`
	QuantityPurchased int             `json:"quantityPurchased" binding:"required,gt=0"`
	PaidBy            *uint           `json:"paidBy"`
	SelectedMembers   []uint          `json:"selectedMembers"`
}

// CreatePurchase records an inventory lot. It is split like any expense only
// when members are selected.
func CreatePurchase(ctx context.Context, db *gorm.DB, in PurchaseInput) (*models.Expense, error) {
	return CreateExpense(ctx, db, ExpenseInput{
		Date:              in.Date,
		Category:          models.CategoryEquipment,
		Description:       in.Description,
		Amount:            in.Amount,
		PaidBy:            in.PaidBy,
		SelectedMembers:   in.SelectedMembers,
		IsInventory:       true,
		ItemName:          in.ItemName,
		QuantityPurchased: in.QuantityPurchased,
	})
}

func UpdateUsage(ctx context.Context, db *gorm.DB, id uint, used int) (*models.Expense, error) {
	const op = "services.UpdateUsage"

	var e models.Expense
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&e, id).Error; err != nil {
			return err
		}
		if !e.IsInventory {
			return ErrNotInventory
		}
		if used < 0 || used > e.QuantityPurchased {
			return ErrInvalidUsage
		}
		e.QuantityUsed = used
		return tx.Model(&models.Expense{}).Where("id = ?", e.ID).UpdateColumn("quantity_used", used).Error
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &e, nil
}

// DeletePurchase removes an inventory lot the way DeleteExpense does, and
// refuses ordinary expenses.
func DeletePurchase(ctx context.Context, db *gorm.DB, id uint) error {
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var e models.Expense
		if err := tx.First(&e, id).Error; err != nil {
			return err
		}
		if !e.IsInventory {
			return ErrNotInventory
		}
		return removeExpense(tx, &e)
	})
	if err != nil {
		return fmt.Errorf("services.DeletePurchase: %w", err)
	}
	return nil
}

type StockItem struct {
	ItemName  string `json:"itemName"`
	Purchased int    `json:"purchased"`
	Used      int    `json:"used"`
	Remaining int    `json:"remaining"`
	Lots      int    `json:"lots"`
}

func StockSummary(ctx context.Context, db *gorm.DB) ([]StockItem, error) {
	var lots []models.Expense
	if err := db.WithContext(ctx).Where("is_inventory = ?", true).Find(&lots).Error; err != nil {
		return nil, fmt.Errorf("services.StockSummary: %w", err)
	}

	byName := make(map[string]*StockItem)
	for i := range lots {
		l := &lots[i]
		item, ok := byName[l.ItemName]
		if !ok {
			item = &StockItem{ItemName: l.ItemName}
			byName[l.ItemName] = item
		}
		item.Purchased += l.QuantityPurchased
		item.Used += l.QuantityUsed
		item.Remaining += l.Remaining()
		item.Lots++
	}

	out := make([]StockItem, 0, len(byName))
	for _, item := range byName {
		out = append(out, *item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ItemName < out[j].ItemName })
	return out, nil
}
