package services

import (
	"context"
	"fmt"

	"github.com/UBISmashers/UBIsmashers-sub000/internal/models"
	"gorm.io/gorm"
)

const (
	NotifyExpenseShare    = "expense_share"
	NotifyBalanceReminder = "balance_reminder"
	NotifyBooking         = "booking"
	NotifyAnnouncement    = "announcement"
)

type NotificationInput struct {
	UserID  *uint  `json:"userId"`
	Type    string `json:"type" binding:"omitempty,max=32"`
	Title   string `json:"title" binding:"required,max=200"`
	Message string `json:"message" binding:"max=2000"`
}

func Notify(ctx context.Context, db *gorm.DB, userID uint, typ, title, message string) (*models.Notification, error) {
	n := &models.Notification{UserID: userID, Type: typ, Title: title, Message: message}
	if err := db.WithContext(ctx).Create(n).Error; err != nil {
		return nil, fmt.Errorf("services.Notify: %w", err)
	}
	return n, nil
}

// Broadcast sends one notification to every active user and returns how many were created.
func Broadcast(ctx context.Context, db *gorm.DB, typ, title, message string) (int, error) {
	var ids []uint
	if err := db.WithContext(ctx).Model(&models.User{}).Where("is_active = ?", true).Pluck("id", &ids).Error; err != nil {
		return 0, fmt.Errorf("services.Broadcast: %w", err)
	}
	if len(ids) == 0 {
		return 0, nil
	}
	rows := make([]models.Notification, 0, len(ids))
	for _, id := range ids {
		rows = append(rows, models.Notification{UserID: id, Type: typ, Title: title, Message: message})
	}
	if err := db.WithContext(ctx).Create(&rows).Error; err != nil {
		return 0, fmt.Errorf("services.Broadcast: %w", err)
	}
	return len(rows), nil
}

// notifyMembers writes one notification per active user linked to memberIDs.
// Members without a login are skipped.
func notifyMembers(tx *gorm.DB, memberIDs []uint, build func(memberID uint) models.Notification) error {
	if len(memberIDs) == 0 {
		return nil
	}
	var users []models.User
	if err := tx.Where("member_id IN ? AND is_active = ?", memberIDs, true).Find(&users).Error; err != nil {
		return err
	}
	if len(users) == 0 {
		return nil
	}
	rows := make([]models.Notification, 0, len(users))
	for _, u := range users {
		n := build(*u.MemberID)
		n.UserID = u.ID
		rows = append(rows, n)
	}
	return tx.Create(&rows).Error
}

func notifyShares(tx *gorm.DB, e *models.Expense, shares []models.ExpenseShare) error {
	amounts := make(map[uint]string, len(shares))
	ids := make([]uint, 0, len(shares))
	for _, s := range shares {
		if s.PaidStatus {
			continue
		}
		amounts[s.MemberID] = s.Amount.StringFixed(2)
		ids = append(ids, s.MemberID)
	}
	return notifyMembers(tx, ids, func(memberID uint) models.Notification {
		return models.Notification{
			Type:    NotifyExpenseShare,
			Title:   "New expense share",
			Message: fmt.Sprintf("You owe %s for %s on %s", amounts[memberID], describe(e), e.Date),
		}
	})
}

func describe(e *models.Expense) string {
	if e.Description != "" {
		return e.Description
	}
	return e.Category
}
