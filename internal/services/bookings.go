package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/UBISmashers/UBIsmashers-sub000/internal/models"
	"gorm.io/gorm"
)

const clockLayout = "15:04"

type SlotInput struct {
	Date      string `json:"date" binding:"required,datetime=2006-01-02"`
	StartTime string `json:"startTime" binding:"required,datetime=15:04"`
	EndTime   string `json:"endTime" binding:"required,datetime=15:04"`
	Court     string `json:"court" binding:"required,max=32"`
	Notes     string `json:"notes" binding:"max=500"`
}

type BookInput struct {
	MemberID *uint                `json:"memberId"`
	Status   models.BookingStatus `json:"status" binding:"omitempty,oneof=booked pending"`
}

func CreateSlot(ctx context.Context, db *gorm.DB, in SlotInput) (*models.Booking, error) {
	const op = "services.CreateSlot"

	start, err1 := time.Parse(clockLayout, in.StartTime)
	end, err2 := time.Parse(clockLayout, in.EndTime)
	if err1 != nil || err2 != nil || !end.After(start) {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidSlot)
	}

	b := &models.Booking{
		Date:      in.Date,
		StartTime: in.StartTime,
		EndTime:   in.EndTime,
		Court:     strings.TrimSpace(in.Court),
		Status:    models.BookingAvailable,
		Notes:     strings.TrimSpace(in.Notes),
	}
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// HH:MM strings order the same way as the times they name.
		var n int64
		err := tx.Model(&models.Booking{}).
			Where("date = ? AND court = ? AND status <> ?", b.Date, b.Court, models.BookingCancelled).
			Where("start_time < ? AND end_time > ?", b.EndTime, b.StartTime).
			Count(&n).Error
		if err != nil {
			return err
		}
		if n > 0 {
			return ErrSlotOverlap
		}
		return tx.Create(b).Error
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return b, nil
}

// Book claims an available slot for memberID.
func Book(ctx context.Context, db *gorm.DB, id, memberID uint, status models.BookingStatus) (*models.Booking, error) {
	const op = "services.Book"

	if status == "" {
		status = models.BookingBooked
	}
	var b models.Booking
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureMembers(tx, []uint{memberID}); err != nil {
			return err
		}
		if err := tx.First(&b, id).Error; err != nil {
			return err
		}
		if b.Status != models.BookingAvailable {
			return ErrSlotUnavailable
		}
		res := tx.Model(&models.Booking{}).
			Where("id = ? AND status = ?", b.ID, models.BookingAvailable).
			Updates(map[string]any{"status": status, "booked_by": memberID})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrSlotUnavailable
		}
		b.Status = status
		b.BookedBy = &memberID

		return notifyMembers(tx, []uint{memberID}, func(uint) models.Notification {
			return models.Notification{
				Type:    NotifyBooking,
				Title:   "Court booked",
				Message: fmt.Sprintf("%s on %s %s-%s", b.Court, b.Date, b.StartTime, b.EndTime),
			}
		})
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &b, nil
}

// CancelBooking cancels a slot. Members may only cancel their own bookings.
func CancelBooking(ctx context.Context, db *gorm.DB, id uint, memberID *uint, admin bool) (*models.Booking, error) {
	const op = "services.CancelBooking"

	var b models.Booking
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&b, id).Error; err != nil {
			return err
		}
		if !admin && (memberID == nil || b.BookedBy == nil || *b.BookedBy != *memberID) {
			return ErrNotOwner
		}
		if b.Status == models.BookingCancelled {
			return ErrAlreadyCancelled
		}
		b.Status = models.BookingCancelled
		return tx.Model(&models.Booking{}).Where("id = ?", b.ID).Update("status", b.Status).Error
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &b, nil
}
