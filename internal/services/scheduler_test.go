package services

import (
	"testing"
	"time"

	"github.com/UBISmashers/UBIsmashers-sub000/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendBalanceReminders(t *testing.T) {
	db := newTestDB(t)
	ms, _ := createFourWaySplit(t, db)
	payer := seedLogin(t, db, ms[0])
	owing := seedLogin(t, db, ms[1])
	inactive := seedLogin(t, db, ms[2])
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", inactive.ID).Update("is_active", false).Error)

	now := time.Now()
	n, err := SendBalanceReminders(ctx, db, now)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	var ns []models.Notification
	require.NoError(t, db.Where("type = ?", NotifyBalanceReminder).Find(&ns).Error)
	require.Len(t, ns, 1)
	assert.Equal(t, owing.ID, ns[0].UserID)
	assert.NotEqual(t, payer.ID, ns[0].UserID)
	assert.Contains(t, ns[0].Message, "30.00")

	n, err = SendBalanceReminders(ctx, db, now.Add(time.Hour))
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = SendBalanceReminders(ctx, db, now.Add(25*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestBroadcast(t *testing.T) {
	db := newTestDB(t)
	ms := seedMembers(t, db, "A", "B")
	seedLogin(t, db, ms[0])
	off := seedLogin(t, db, ms[1])
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", off.ID).Update("is_active", false).Error)

	n, err := Broadcast(ctx, db, NotifyAnnouncement, "Club night", "Friday 7pm")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
