package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/UBISmashers/UBIsmashers-sub000/internal/common"
	"github.com/UBISmashers/UBIsmashers-sub000/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const stockItemKeyword = "shuttle"

type ExpenseInput struct {
	Date             string                `json:"date" binding:"omitempty,datetime=2006-01-02"`
	Category         string                `json:"category" binding:"required,max=64"`
	Description      string                `json:"description" binding:"max=500"`
	Amount           decimal.Decimal       `json:"amount"`
	CourtBookingCost *decimal.Decimal      `json:"courtBookingCost"`
	ShuttleCost      *decimal.Decimal      `json:"shuttleCost"`
	ShuttlesUsed     *int                  `json:"shuttlesUsed" binding:"omitempty,gte=0"`
	PaidBy           *uint                 `json:"paidBy"`
	SelectedMembers  []uint                `json:"selectedMembers"`
	PresentMembers   int                   `json:"presentMembers" binding:"gte=0"`
	ReduceFromStock  bool                  `json:"reduceFromStock"`
	Status           *models.ExpenseStatus `json:"status" binding:"omitempty,oneof=pending completed"`

	IsInventory       bool   `json:"-"`
	ItemName          string `json:"-"`
	QuantityPurchased int    `json:"-"`
}

// ExpenseUpdate is a partial edit; nil fields keep the stored value.
type ExpenseUpdate struct {
	Date              *string               `json:"date" binding:"omitempty,datetime=2006-01-02"`
	Category          *string               `json:"category" binding:"omitempty,max=64"`
	Description       *string               `json:"description" binding:"omitempty,max=500"`
	Amount            *decimal.Decimal      `json:"amount"`
	CourtBookingCost  *decimal.Decimal      `json:"courtBookingCost"`
	ShuttleCost       *decimal.Decimal      `json:"shuttleCost"`
	ShuttlesUsed      *int                  `json:"shuttlesUsed" binding:"omitempty,gte=0"`
	PaidBy            *uint                 `json:"paidBy"`
	SelectedMembers   *[]uint               `json:"selectedMembers"`
	PresentMembers    *int                  `json:"presentMembers" binding:"omitempty,gte=0"`
	Status            *models.ExpenseStatus `json:"status" binding:"omitempty,oneof=pending completed"`
	ItemName          *string               `json:"itemName" binding:"omitempty,max=128"`
	QuantityPurchased *int                  `json:"quantityPurchased" binding:"omitempty,gt=0"`
}

func breakdownOf(e *models.Expense) CourtBreakdown {
	return CourtBreakdown{
		CourtBookingCost: e.CourtBookingCost,
		ShuttleCost:      e.ShuttleCost,
		ShuttlesUsed:     e.ShuttlesUsed,
	}
}

// split validates e and fills in its amount, headcount and per-member share.
// It returns the share rows to create. Ids in stored were on the expense
// before this edit; members among them that were deleted since still count
// toward the headcount but get no share.
func split(tx *gorm.DB, e *models.Expense, stored []uint) ([]ShareLine, error) {
	e.Category = common.NormalizeCategory(e.Category)
	e.SelectedMembers = common.UniqueIDs(e.SelectedMembers)
	e.Amount = ResolveAmount(e.Category, e.Amount, breakdownOf(e)).Round(2)

	if !e.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	gone, err := departedMembers(tx, memberRefs(e), stored)
	if err != nil {
		return nil, err
	}

	count := MemberCount(e.SelectedMembers, e.PresentMembers)
	if count == 0 {
		if e.IsInventory {
			e.PresentMembers = 0
			e.PerMemberShare = decimal.Zero
			return nil, nil
		}
		return nil, ErrInvalidMemberCount
	}
	e.PresentMembers = count
	e.PerMemberShare = PerMemberShare(e.Amount, count)

	sharing := e.SelectedMembers
	if len(gone) > 0 {
		sharing = make([]uint, 0, len(e.SelectedMembers))
		for _, id := range e.SelectedMembers {
			if !gone[id] {
				sharing = append(sharing, id)
			}
		}
	}
	return PlanShares(sharing, e.PaidBy, e.PerMemberShare), nil
}

func memberRefs(e *models.Expense) []uint {
	refs := append([]uint{}, e.SelectedMembers...)
	if e.PaidBy != nil {
		refs = append(refs, *e.PaidBy)
	}
	return refs
}

func CreateExpense(ctx context.Context, db *gorm.DB, in ExpenseInput) (*models.Expense, error) {
	const op = "services.CreateExpense"

	e := &models.Expense{
		Date:              in.Date,
		Category:          in.Category,
		Description:       strings.TrimSpace(in.Description),
		Amount:            in.Amount,
		PaidBy:            in.PaidBy,
		PresentMembers:    in.PresentMembers,
		SelectedMembers:   in.SelectedMembers,
		CourtBookingCost:  in.CourtBookingCost,
		ShuttleCost:       in.ShuttleCost,
		ShuttlesUsed:      in.ShuttlesUsed,
		IsInventory:       in.IsInventory,
		ItemName:          strings.TrimSpace(in.ItemName),
		QuantityPurchased: in.QuantityPurchased,
	}
	if e.Date == "" {
		e.Date = common.Today()
	}
	if e.IsInventory {
		e.Category = models.CategoryEquipment
		if e.QuantityPurchased <= 0 {
			return nil, fmt.Errorf("%s: %w", op, ErrInvalidQuantity)
		}
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		plan, err := split(tx, e, nil)
		if err != nil {
			return err
		}

		if in.ReduceFromStock && !e.IsInventory && e.ShuttlesUsed != nil && *e.ShuttlesUsed > 0 {
			drawn, err := drawStock(tx, *e.ShuttlesUsed)
			if err != nil {
				return err
			}
			e.StockDrawn = drawn
		}

		shares := CarryForward(0, nil, plan)
		e.Status = DeriveStatus(shares)
		if in.Status != nil {
			e.Status = *in.Status
		}

		if err := tx.Omit(clause.Associations).Create(e).Error; err != nil {
			return err
		}
		for i := range shares {
			shares[i].ExpenseID = e.ID
		}
		if len(shares) > 0 {
			if err := tx.Create(&shares).Error; err != nil {
				return err
			}
		}
		if err := applyUnpaid(tx, shares, 1); err != nil {
			return err
		}
		e.Shares = shares

		return notifyShares(tx, e, shares)
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return e, nil
}

func UpdateExpense(ctx context.Context, db *gorm.DB, id uint, patch ExpenseUpdate) (*models.Expense, error) {
	const op = "services.UpdateExpense"

	var e models.Expense
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&e, id).Error; err != nil {
			return err
		}
		old, err := sharesOf(tx, e.ID)
		if err != nil {
			return err
		}
		if err := applyUnpaid(tx, old, -1); err != nil {
			return err
		}

		stored := memberRefs(&e)
		if err := mergeExpense(&e, patch); err != nil {
			return err
		}
		plan, err := split(tx, &e, stored)
		if err != nil {
			return err
		}

		if err := tx.Where("expense_id = ?", e.ID).Delete(&models.ExpenseShare{}).Error; err != nil {
			return err
		}
		shares := CarryForward(e.ID, old, plan)
		if len(shares) > 0 {
			if err := tx.Create(&shares).Error; err != nil {
				return err
			}
		}
		if err := applyUnpaid(tx, shares, 1); err != nil {
			return err
		}

		e.Status = DeriveStatus(shares)
		if patch.Status != nil {
			e.Status = *patch.Status
		}
		if err := tx.Omit(clause.Associations).Save(&e).Error; err != nil {
			return err
		}
		e.Shares = shares

		return notifyShares(tx, &e, newShares(old, shares))
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &e, nil
}

func mergeExpense(e *models.Expense, p ExpenseUpdate) error {
	if p.Date != nil {
		e.Date = *p.Date
	}
	if p.Category != nil {
		e.Category = *p.Category
	}
	if p.Description != nil {
		e.Description = strings.TrimSpace(*p.Description)
	}
	if p.Amount != nil {
		e.Amount = *p.Amount
	}
	if p.CourtBookingCost != nil {
		e.CourtBookingCost = p.CourtBookingCost
	}
	if p.ShuttleCost != nil {
		e.ShuttleCost = p.ShuttleCost
	}
	if p.ShuttlesUsed != nil {
		e.ShuttlesUsed = p.ShuttlesUsed
	}
	if p.PaidBy != nil {
		e.PaidBy = p.PaidBy
	}
	if p.SelectedMembers != nil {
		e.SelectedMembers = *p.SelectedMembers
	}
	if p.PresentMembers != nil {
		e.PresentMembers = *p.PresentMembers
	}
	if e.IsInventory {
		e.Category = models.CategoryEquipment
		if p.ItemName != nil {
			e.ItemName = strings.TrimSpace(*p.ItemName)
		}
		if p.QuantityPurchased != nil {
			if *p.QuantityPurchased < e.QuantityUsed {
				return ErrInvalidUsage
			}
			e.QuantityPurchased = *p.QuantityPurchased
		}
	}
	return nil
}

func newShares(old, current []models.ExpenseShare) []models.ExpenseShare {
	had := make(map[uint]struct{}, len(old))
	for _, s := range old {
		had[s.MemberID] = struct{}{}
	}
	var out []models.ExpenseShare
	for _, s := range current {
		if _, ok := had[s.MemberID]; !ok {
			out = append(out, s)
		}
	}
	return out
}

// DeleteExpense removes an expense and its shares, reverting what was still unpaid.
// Stock drawn at creation is not returned to inventory.
func DeleteExpense(ctx context.Context, db *gorm.DB, id uint) error {
	const op = "services.DeleteExpense"

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var e models.Expense
		if err := tx.First(&e, id).Error; err != nil {
			return err
		}
		return removeExpense(tx, &e)
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func removeExpense(tx *gorm.DB, e *models.Expense) error {
	shares, err := sharesOf(tx, e.ID)
	if err != nil {
		return err
	}
	if err := applyUnpaid(tx, shares, -1); err != nil {
		return err
	}
	if err := tx.Where("expense_id = ?", e.ID).Delete(&models.ExpenseShare{}).Error; err != nil {
		return err
	}
	return tx.Delete(e).Error
}

// MarkSharePaid settles one share in full.
func MarkSharePaid(ctx context.Context, db *gorm.DB, shareID uint) (*models.ExpenseShare, error) {
	const op = "services.MarkSharePaid"

	var share models.ExpenseShare
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&share, shareID).Error; err != nil {
			return err
		}
		if share.PaidStatus {
			return ErrAlreadyPaid
		}

		now := time.Now()
		res := tx.Model(&models.ExpenseShare{}).
			Where("id = ? AND paid_status = ?", share.ID, false).
			Updates(map[string]any{"paid_status": true, "paid_at": now})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrAlreadyPaid
		}
		share.PaidStatus = true
		share.PaidAt = &now

		if err := adjustBalance(tx, share.MemberID, share.Amount.Neg()); err != nil {
			return err
		}
		_, err := refreshStatus(tx, share.ExpenseID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &share, nil
}

// drawStock consumes qty units from shuttle lots, oldest first.
func drawStock(tx *gorm.DB, qty int) (int, error) {
	var lots []models.Expense
	err := tx.Where("is_inventory = ? AND quantity_used < quantity_purchased", true).
		Where("LOWER(item_name) LIKE ?", "%"+stockItemKeyword+"%").
		Order("date ASC, id ASC").
		Find(&lots).Error
	if err != nil {
		return 0, err
	}

	draws, drawn := PlanStockDraw(lots, qty)
	for _, d := range draws {
		err := tx.Model(&models.Expense{}).
			Where("id = ?", d.LotID).
			UpdateColumn("quantity_used", gorm.Expr("quantity_used + ?", d.Quantity)).Error
		if err != nil {
			return 0, err
		}
	}
	return drawn, nil
}
