package services

import (
	"context"
	"fmt"

	"github.com/UBISmashers/UBIsmashers-sub000/internal/common"
	"github.com/UBISmashers/UBIsmashers-sub000/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AttendanceRecord struct {
	MemberID  uint `json:"memberId" binding:"required"`
	IsPresent bool `json:"isPresent"`
}

type AttendanceInput struct {
	Date    string             `json:"date" binding:"required,datetime=2006-01-02"`
	Records []AttendanceRecord `json:"records" binding:"required,min=1,dive"`
}

// RecordAttendance upserts one row per (date, member) and refreshes the
// attendance rate of every member touched.
func RecordAttendance(ctx context.Context, db *gorm.DB, in AttendanceInput) ([]models.Attendance, error) {
	const op = "services.RecordAttendance"

	if !common.ValidDate(in.Date) {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidDate)
	}

	byMember := make(map[uint]bool, len(in.Records))
	ids := make([]uint, 0, len(in.Records))
	for _, r := range in.Records {
		if _, ok := byMember[r.MemberID]; !ok {
			ids = append(ids, r.MemberID)
		}
		byMember[r.MemberID] = r.IsPresent
	}
	ids = common.UniqueIDs(ids)

	rows := make([]models.Attendance, 0, len(ids))
	for _, id := range ids {
		rows = append(rows, models.Attendance{Date: in.Date, MemberID: id, IsPresent: byMember[id]})
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureMembers(tx, ids); err != nil {
			return err
		}
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "date"}, {Name: "member_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"is_present", "updated_at"}),
		}).Create(&rows).Error
		if err != nil {
			return err
		}
		for _, id := range ids {
			if err := refreshAttendanceRate(tx, id); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return rows, nil
}

func refreshAttendanceRate(tx *gorm.DB, memberID uint) error {
	var total, present int64
	if err := tx.Model(&models.Attendance{}).Where("member_id = ?", memberID).Count(&total).Error; err != nil {
		return err
	}
	if err := tx.Model(&models.Attendance{}).Where("member_id = ? AND is_present = ?", memberID, true).Count(&present).Error; err != nil {
		return err
	}
	return tx.Model(&models.Member{}).
		Where("id = ?", memberID).
		UpdateColumn("attendance_rate", AttendanceRate(present, total)).Error
}

// AttendanceRate is present/total as a percentage with two decimals.
func AttendanceRate(present, total int64) decimal.Decimal {
	if total <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(present * 100).DivRound(decimal.NewFromInt(total), 2)
}
