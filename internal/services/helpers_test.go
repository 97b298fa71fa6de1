package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/UBISmashers/UBIsmashers-sub000/internal/config"
	"github.com/UBISmashers/UBIsmashers-sub000/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var ctx = context.Background()

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := config.InitDB(config.DatabaseConfig{Driver: "sqlite", DSN: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func seedMembers(t *testing.T, db *gorm.DB, names ...string) []models.Member {
	t.Helper()
	out := make([]models.Member, 0, len(names))
	for _, name := range names {
		m := models.Member{Name: name, Role: models.RoleMember, Status: models.MemberActive}
		require.NoError(t, db.Create(&m).Error)
		out = append(out, m)
	}
	return out
}

// seedLogin gives member m an active user account.
func seedLogin(t *testing.T, db *gorm.DB, m models.Member) models.User {
	t.Helper()
	u := models.User{
		Name:     m.Name,
		Email:    fmt.Sprintf("member%d@club.test", m.ID),
		Password: "x",
		Role:     models.RoleMember,
		MemberID: &m.ID,
		IsActive: true,
	}
	require.NoError(t, db.Create(&u).Error)
	return u
}

func balanceOf(t *testing.T, db *gorm.DB, id uint) string {
	t.Helper()
	var m models.Member
	require.NoError(t, db.First(&m, id).Error)
	return m.Balance.StringFixed(2)
}

func ids(members []models.Member) []uint {
	out := make([]uint, 0, len(members))
	for _, m := range members {
		out = append(out, m.ID)
	}
	return out
}
