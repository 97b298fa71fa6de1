package services

import (
	"github.com/UBISmashers/UBIsmashers-sub000/internal/common"
	"github.com/UBISmashers/UBIsmashers-sub000/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func adjustBalance(tx *gorm.DB, memberID uint, delta decimal.Decimal) error {
	if delta.IsZero() {
		return nil
	}
	res := tx.Model(&models.Member{}).
		Where("id = ?", memberID).
		UpdateColumn("balance", gorm.Expr("balance + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInvalidMember
	}
	return nil
}

// applyUnpaid adds (sign=1) or removes (sign=-1) the balance impact of unpaid shares.
func applyUnpaid(tx *gorm.DB, shares []models.ExpenseShare, sign int64) error {
	for _, s := range shares {
		if s.PaidStatus {
			continue
		}
		if err := adjustBalance(tx, s.MemberID, s.Amount.Mul(decimal.NewFromInt(sign))); err != nil {
			return err
		}
	}
	return nil
}

func ensureMembers(tx *gorm.DB, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	var n int64
	if err := tx.Model(&models.Member{}).Where("id IN ?", ids).Count(&n).Error; err != nil {
		return err
	}
	if int(n) != len(ids) {
		return ErrInvalidMember
	}
	return nil
}

// departedMembers returns the ids in want with no member row. Only ids already
// stored on the expense may be missing; any other unknown id is ErrInvalidMember.
func departedMembers(tx *gorm.DB, want, stored []uint) (map[uint]bool, error) {
	want = common.UniqueIDs(want)
	if len(want) == 0 {
		return nil, nil
	}
	var found []uint
	if err := tx.Model(&models.Member{}).Where("id IN ?", want).Pluck("id", &found).Error; err != nil {
		return nil, err
	}
	if len(found) == len(want) {
		return nil, nil
	}

	exists := make(map[uint]bool, len(found))
	for _, id := range found {
		exists[id] = true
	}
	known := make(map[uint]bool, len(stored))
	for _, id := range stored {
		known[id] = true
	}
	gone := make(map[uint]bool)
	for _, id := range want {
		if exists[id] {
			continue
		}
		if !known[id] {
			return nil, ErrInvalidMember
		}
		gone[id] = true
	}
	return gone, nil
}

func sharesOf(tx *gorm.DB, expenseID uint) ([]models.ExpenseShare, error) {
	var shares []models.ExpenseShare
	err := tx.Where("expense_id = ?", expenseID).Order("id").Find(&shares).Error
	return shares, err
}

// refreshStatus re-derives an expense's status from its shares.
func refreshStatus(tx *gorm.DB, expenseID uint) (models.ExpenseStatus, error) {
	shares, err := sharesOf(tx, expenseID)
	if err != nil {
		return "", err
	}
	status := DeriveStatus(shares)
	err = tx.Model(&models.Expense{}).Where("id = ?", expenseID).Update("status", status).Error
	return status, err
}
