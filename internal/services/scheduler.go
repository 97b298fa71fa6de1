package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/UBISmashers/UBIsmashers-sub000/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const reminderCooldown = 24 * time.Hour

// StartReminders runs SendBalanceReminders every interval until ctx is done.
func StartReminders(ctx context.Context, db *gorm.DB, interval time.Duration, log *slog.Logger) {
	if interval <= 0 {
		return
	}
	go func() {
		log.Info("reminder scheduler started", slog.Duration("interval", interval))
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				log.Info("reminder scheduler stopped")
				return
			case now := <-ticker.C:
				n, err := SendBalanceReminders(ctx, db, now)
				if err != nil {
					log.Error("send balance reminders", slog.Any("error", err))
					continue
				}
				if n > 0 {
					log.Info("sent balance reminders", slog.Int("count", n))
				}
			}
		}
	}()
}

// SendBalanceReminders notifies active users whose member balance is owed,
// skipping anyone reminded within the last 24 hours.
func SendBalanceReminders(ctx context.Context, db *gorm.DB, now time.Time) (int, error) {
	const op = "services.SendBalanceReminders"

	type row struct {
		UserID  uint
		Balance decimal.Decimal
	}
	var rows []row
	err := db.WithContext(ctx).Model(&models.User{}).
		Select("users.id AS user_id, members.balance AS balance").
		Joins("JOIN members ON members.id = users.member_id").
		Where("users.is_active = ? AND members.balance > 0", true).
		Scan(&rows).Error
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if len(rows) == 0 {
		return 0, nil
	}

	ids := make([]uint, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.UserID)
	}
	var recent []uint
	err = db.WithContext(ctx).Model(&models.Notification{}).
		Where("type = ? AND user_id IN ? AND created_at > ?", NotifyBalanceReminder, ids, now.Add(-reminderCooldown)).
		Distinct().Pluck("user_id", &recent).Error
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	skip := make(map[uint]struct{}, len(recent))
	for _, id := range recent {
		skip[id] = struct{}{}
	}

	var out []models.Notification
	for _, r := range rows {
		if _, ok := skip[r.UserID]; ok {
			continue
		}
		out = append(out, models.Notification{
			UserID:    r.UserID,
			Type:      NotifyBalanceReminder,
			Title:     "Outstanding balance",
			Message:   fmt.Sprintf("You have an outstanding balance of %s", r.Balance.StringFixed(2)),
			CreatedAt: now,
		})
	}
	if len(out) == 0 {
		return 0, nil
	}
	if err := db.WithContext(ctx).Create(&out).Error; err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return len(out), nil
}
