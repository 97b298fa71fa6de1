package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/UBISmashers/UBIsmashers-sub000/internal/common"
	"github.com/UBISmashers/UBIsmashers-sub000/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type JoiningFeeInput struct {
	MemberID uint            `json:"memberId" binding:"required"`
	Amount   decimal.Decimal `json:"amount"`
	Date     string          `json:"date" binding:"omitempty,datetime=2006-01-02"`
	Note     string          `json:"note" binding:"max=500"`
}

// CreateJoiningFee records a member's advance payment and credits their balance.
func CreateJoiningFee(ctx context.Context, db *gorm.DB, in JoiningFeeInput) (*models.JoiningFee, error) {
	const op = "services.CreateJoiningFee"

	if !in.Amount.IsPositive() {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidAmount)
	}
	fee := &models.JoiningFee{
		MemberID: in.MemberID,
		Amount:   in.Amount.Round(2),
		Date:     in.Date,
		Note:     strings.TrimSpace(in.Note),
	}
	if fee.Date == "" {
		fee.Date = common.Today()
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureMembers(tx, []uint{in.MemberID}); err != nil {
			return err
		}
		var existing models.JoiningFee
		err := tx.Where("member_id = ?", in.MemberID).First(&existing).Error
		if err == nil {
			return ErrDuplicateFee
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := tx.Create(fee).Error; err != nil {
			return err
		}
		return adjustBalance(tx, fee.MemberID, fee.Amount.Neg())
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return fee, nil
}

func DeleteJoiningFee(ctx context.Context, db *gorm.DB, id uint) error {
	const op = "services.DeleteJoiningFee"

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var fee models.JoiningFee
		if err := tx.First(&fee, id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&fee).Error; err != nil {
			return err
		}
		return adjustBalance(tx, fee.MemberID, fee.Amount)
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
