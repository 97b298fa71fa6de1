package services

import (
	"context"
	"fmt"

	"github.com/UBISmashers/UBIsmashers-sub000/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// MemberBalance is what a member owes right now: unpaid shares minus the joining fee.
// Positive means the member owes the club.
func MemberBalance(tx *gorm.DB, memberID uint) (decimal.Decimal, error) {
	var unpaid []models.ExpenseShare
	if err := tx.Where("member_id = ? AND paid_status = ?", memberID, false).Find(&unpaid).Error; err != nil {
		return decimal.Zero, err
	}
	var fees []models.JoiningFee
	if err := tx.Where("member_id = ?", memberID).Find(&fees).Error; err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, s := range unpaid {
		total = total.Add(s.Amount)
	}
	for _, f := range fees {
		total = total.Sub(f.Amount)
	}
	return total, nil
}

// RecalculateBalance rebuilds a stored balance from shares and joining fees.
func RecalculateBalance(ctx context.Context, db *gorm.DB, memberID uint) (*models.Member, error) {
	const op = "services.RecalculateBalance"

	var m models.Member
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&m, memberID).Error; err != nil {
			return err
		}
		balance, err := MemberBalance(tx, m.ID)
		if err != nil {
			return err
		}
		m.Balance = balance
		return tx.Model(&models.Member{}).Where("id = ?", m.ID).UpdateColumn("balance", balance).Error
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &m, nil
}

// SaveMember stores m's profile fields and copies its role and status onto
// the linked login, so promotion, demotion and deactivation apply on the
// next request.
func SaveMember(ctx context.Context, db *gorm.DB, m *models.Member) error {
	const op = "services.SaveMember"

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(m).Select("name", "email", "phone", "role", "status").Updates(m).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).Where("member_id = ?", m.ID).Updates(map[string]any{
			"role":      m.Role,
			"is_active": m.Status == models.MemberActive,
		}).Error
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// DeleteMember refuses while any share is unpaid; otherwise it removes the
// member's attendance, paid shares and joining fee and unlinks their login.
func DeleteMember(ctx context.Context, db *gorm.DB, memberID uint) error {
	const op = "services.DeleteMember"

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m models.Member
		if err := tx.First(&m, memberID).Error; err != nil {
			return err
		}
		var unpaid int64
		if err := tx.Model(&models.ExpenseShare{}).
			Where("member_id = ? AND paid_status = ?", m.ID, false).
			Count(&unpaid).Error; err != nil {
			return err
		}
		if unpaid > 0 {
			return ErrMemberHasDues
		}

		for _, model := range []any{&models.ExpenseShare{}, &models.Attendance{}, &models.JoiningFee{}} {
			if err := tx.Where("member_id = ?", m.ID).Delete(model).Error; err != nil {
				return err
			}
		}
		if err := tx.Model(&models.User{}).Where("member_id = ?", m.ID).Update("member_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&m).Error
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

type Statement struct {
	Member     models.Member         `json:"member"`
	Shares     []models.ExpenseShare `json:"shares"`
	JoiningFee *models.JoiningFee    `json:"joiningFee"`
	Unpaid     decimal.Decimal       `json:"unpaid"`
	Paid       decimal.Decimal       `json:"paid"`
}

func MemberStatement(ctx context.Context, db *gorm.DB, memberID uint) (*Statement, error) {
	const op = "services.MemberStatement"

	db = db.WithContext(ctx)
	st := &Statement{Unpaid: decimal.Zero, Paid: decimal.Zero}
	if err := db.First(&st.Member, memberID).Error; err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := db.Where("member_id = ?", memberID).Order("id DESC").Find(&st.Shares).Error; err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	for _, s := range st.Shares {
		if s.PaidStatus {
			st.Paid = st.Paid.Add(s.Amount)
		} else {
			st.Unpaid = st.Unpaid.Add(s.Amount)
		}
	}

	var fees []models.JoiningFee
	if err := db.Where("member_id = ?", memberID).Limit(1).Find(&fees).Error; err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if len(fees) > 0 {
		st.JoiningFee = &fees[0]
	}
	return st, nil
}
