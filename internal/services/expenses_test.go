package services

import (
	"testing"

	"github.com/UBISmashers/UBIsmashers-sub000/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func createFourWaySplit(t *testing.T, db *gorm.DB) ([]models.Member, *models.Expense) {
	t.Helper()
	ms := seedMembers(t, db, "A", "B", "C", "D")
	e, err := CreateExpense(ctx, db, ExpenseInput{
		Date:            "2024-05-01",
		Category:        "Court",
		Description:     "Tuesday session",
		Amount:          dec("120"),
		PaidBy:          &ms[0].ID,
		SelectedMembers: ids(ms),
	})
	require.NoError(t, err)
	return ms, e
}

func TestCreateExpenseSplitsAcrossSelected(t *testing.T) {
	db := newTestDB(t)
	ms, e := createFourWaySplit(t, db)

	assertDec(t, "30", e.PerMemberShare)
	assert.Equal(t, 4, e.PresentMembers)
	assert.Equal(t, "court", e.Category)
	assert.Equal(t, models.ExpensePending, e.Status)
	require.Len(t, e.Shares, 3)

	assert.Equal(t, "0.00", balanceOf(t, db, ms[0].ID))
	for _, m := range ms[1:] {
		assert.Equal(t, "30.00", balanceOf(t, db, m.ID), m.Name)
	}

	var stored []models.ExpenseShare
	require.NoError(t, db.Where("expense_id = ?", e.ID).Find(&stored).Error)
	assert.Len(t, stored, 3)
}

func TestCreateExpenseWithoutPayerSharesEveryone(t *testing.T) {
	db := newTestDB(t)
	ms := seedMembers(t, db, "A", "B", "C")

	e, err := CreateExpense(ctx, db, ExpenseInput{Category: "food", Amount: dec("100"), SelectedMembers: ids(ms)})
	require.NoError(t, err)

	assert.Len(t, e.Shares, 3)
	assertDec(t, "33.33", e.PerMemberShare)
	assert.NotEmpty(t, e.Date)
}

func TestCreateExpenseRawCountCreatesNoShares(t *testing.T) {
	db := newTestDB(t)

	e, err := CreateExpense(ctx, db, ExpenseInput{Category: "food", Amount: dec("90"), PresentMembers: 6})
	require.NoError(t, err)

	assertDec(t, "15", e.PerMemberShare)
	assert.Empty(t, e.Shares)
}

func TestCreateExpenseValidation(t *testing.T) {
	db := newTestDB(t)
	ms := seedMembers(t, db, "A")

	_, err := CreateExpense(ctx, db, ExpenseInput{Category: "food", Amount: dec("10")})
	assert.ErrorIs(t, err, ErrInvalidMemberCount)

	_, err = CreateExpense(ctx, db, ExpenseInput{Category: "food", Amount: dec("0"), SelectedMembers: ids(ms)})
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = CreateExpense(ctx, db, ExpenseInput{Category: "food", Amount: dec("10"), SelectedMembers: []uint{ms[0].ID, 999}})
	assert.ErrorIs(t, err, ErrInvalidMember)

	var n int64
	db.Model(&models.Expense{}).Count(&n)
	assert.Zero(t, n)
}

func TestCreateExpenseCourtBreakdown(t *testing.T) {
	db := newTestDB(t)
	ms := seedMembers(t, db, "A", "B", "C")

	e, err := CreateExpense(ctx, db, ExpenseInput{
		Category:         "court",
		Amount:           dec("999"),
		CourtBookingCost: decp("40"),
		ShuttleCost:      decp("5"),
		ShuttlesUsed:     intp(4),
		SelectedMembers:  ids(ms),
	})
	require.NoError(t, err)

	assertDec(t, "60", e.Amount)
	assertDec(t, "20", e.PerMemberShare)
}

func TestCreateExpenseDrawsStockOldestFirst(t *testing.T) {
	db := newTestDB(t)
	ms := seedMembers(t, db, "A", "B")

	newer, err := CreatePurchase(ctx, db, PurchaseInput{Date: "2024-02-01", ItemName: "Shuttlecocks", Amount: dec("50"), QuantityPurchased: 10})
	require.NoError(t, err)
	older, err := CreatePurchase(ctx, db, PurchaseInput{Date: "2024-01-01", ItemName: "Shuttlecocks", Amount: dec("20"), QuantityPurchased: 3})
	require.NoError(t, err)
	_, err = CreatePurchase(ctx, db, PurchaseInput{Date: "2023-12-01", ItemName: "Grip tape", Amount: dec("8"), QuantityPurchased: 4})
	require.NoError(t, err)

	e, err := CreateExpense(ctx, db, ExpenseInput{
		Category:         "court",
		CourtBookingCost: decp("30"),
		ShuttleCost:      decp("2"),
		ShuttlesUsed:     intp(5),
		SelectedMembers:  ids(ms),
		ReduceFromStock:  true,
	})
	require.NoError(t, err)
	assert.Equal(t, 5, e.StockDrawn)

	var lot models.Expense
	require.NoError(t, db.First(&lot, older.ID).Error)
	assert.Equal(t, 3, lot.QuantityUsed)
	require.NoError(t, db.First(&lot, newer.ID).Error)
	assert.Equal(t, 2, lot.QuantityUsed)
}

func TestCreateExpenseStockShortfallIsNotAnError(t *testing.T) {
	db := newTestDB(t)
	ms := seedMembers(t, db, "A", "B")
	_, err := CreatePurchase(ctx, db, PurchaseInput{ItemName: "shuttle tube", Amount: dec("20"), QuantityPurchased: 2})
	require.NoError(t, err)

	e, err := CreateExpense(ctx, db, ExpenseInput{
		Category:        "court",
		ShuttleCost:     decp("3"),
		ShuttlesUsed:    intp(6),
		SelectedMembers: ids(ms),
		ReduceFromStock: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, e.StockDrawn)
}

func TestCreateExpenseNotifiesLinkedMembers(t *testing.T) {
	db := newTestDB(t)
	ms := seedMembers(t, db, "A", "B", "C")
	ub := seedLogin(t, db, ms[1])

	_, err := CreateExpense(ctx, db, ExpenseInput{Category: "food", Description: "Pizza", Amount: dec("30"), PaidBy: &ms[0].ID, SelectedMembers: ids(ms)})
	require.NoError(t, err)

	var ns []models.Notification
	require.NoError(t, db.Find(&ns).Error)
	require.Len(t, ns, 1)
	assert.Equal(t, ub.ID, ns[0].UserID)
	assert.Equal(t, NotifyExpenseShare, ns[0].Type)
	assert.Contains(t, ns[0].Message, "10.00")
}

func TestMarkSharePaid(t *testing.T) {
	db := newTestDB(t)
	ms, e := createFourWaySplit(t, db)

	share := e.Shares[0]
	paid, err := MarkSharePaid(ctx, db, share.ID)
	require.NoError(t, err)
	assert.True(t, paid.PaidStatus)
	assert.NotNil(t, paid.PaidAt)
	assert.Equal(t, "0.00", balanceOf(t, db, share.MemberID))

	_, err = MarkSharePaid(ctx, db, share.ID)
	assert.ErrorIs(t, err, ErrAlreadyPaid)
	assert.Equal(t, "0.00", balanceOf(t, db, share.MemberID))

	for _, s := range e.Shares[1:] {
		_, err := MarkSharePaid(ctx, db, s.ID)
		require.NoError(t, err)
	}
	var stored models.Expense
	require.NoError(t, db.First(&stored, e.ID).Error)
	assert.Equal(t, models.ExpenseCompleted, stored.Status)
	for _, m := range ms {
		assert.Equal(t, "0.00", balanceOf(t, db, m.ID))
	}

	_, err = MarkSharePaid(ctx, db, 9999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUpdateExpenseCarriesPaidStatus(t *testing.T) {
	db := newTestDB(t)
	ms, e := createFourWaySplit(t, db)
	a, b, c, d := ms[0], ms[1], ms[2], ms[3]

	var bShare models.ExpenseShare
	require.NoError(t, db.Where("expense_id = ? AND member_id = ?", e.ID, b.ID).First(&bShare).Error)
	_, err := MarkSharePaid(ctx, db, bShare.ID)
	require.NoError(t, err)

	updated, err := UpdateExpense(ctx, db, e.ID, ExpenseUpdate{Amount: decp("160")})
	require.NoError(t, err)
	assertDec(t, "40", updated.PerMemberShare)
	assert.Equal(t, models.ExpensePending, updated.Status)

	assert.Equal(t, "0.00", balanceOf(t, db, a.ID))
	assert.Equal(t, "0.00", balanceOf(t, db, b.ID))
	assert.Equal(t, "40.00", balanceOf(t, db, c.ID))
	assert.Equal(t, "40.00", balanceOf(t, db, d.ID))

	var bNow models.ExpenseShare
	require.NoError(t, db.Where("expense_id = ? AND member_id = ?", e.ID, b.ID).First(&bNow).Error)
	assert.True(t, bNow.PaidStatus)
	assert.NotNil(t, bNow.PaidAt)

	selected := []uint{a.ID, b.ID, c.ID}
	_, err = UpdateExpense(ctx, db, e.ID, ExpenseUpdate{SelectedMembers: &selected})
	require.NoError(t, err)
	assert.Equal(t, "53.33", balanceOf(t, db, c.ID))
	assert.Equal(t, "0.00", balanceOf(t, db, d.ID))
}

func TestUpdateExpenseDerivesCompleted(t *testing.T) {
	db := newTestDB(t)
	_, e := createFourWaySplit(t, db)
	for _, s := range e.Shares {
		_, err := MarkSharePaid(ctx, db, s.ID)
		require.NoError(t, err)
	}

	desc := "renamed"
	updated, err := UpdateExpense(ctx, db, e.ID, ExpenseUpdate{Description: &desc})
	require.NoError(t, err)
	assert.Equal(t, models.ExpenseCompleted, updated.Status)
	assert.Equal(t, "renamed", updated.Description)

	pending := models.ExpensePending
	updated, err = UpdateExpense(ctx, db, e.ID, ExpenseUpdate{Status: &pending})
	require.NoError(t, err)
	assert.Equal(t, models.ExpensePending, updated.Status)
}

func TestUpdateExpenseRollsBackOnError(t *testing.T) {
	db := newTestDB(t)
	ms, e := createFourWaySplit(t, db)

	selected := []uint{ms[0].ID, 424242}
	_, err := UpdateExpense(ctx, db, e.ID, ExpenseUpdate{SelectedMembers: &selected})
	assert.ErrorIs(t, err, ErrInvalidMember)

	for _, m := range ms[1:] {
		assert.Equal(t, "30.00", balanceOf(t, db, m.ID))
	}
}

func TestUpdateExpenseAfterMembersDeleted(t *testing.T) {
	db := newTestDB(t)
	ms, e := createFourWaySplit(t, db)
	a, b, c, d := ms[0], ms[1], ms[2], ms[3]

	for _, s := range e.Shares {
		if s.MemberID == b.ID {
			_, err := MarkSharePaid(ctx, db, s.ID)
			require.NoError(t, err)
		}
	}
	require.NoError(t, DeleteMember(ctx, db, a.ID))
	require.NoError(t, DeleteMember(ctx, db, b.ID))

	desc := "renamed"
	updated, err := UpdateExpense(ctx, db, e.ID, ExpenseUpdate{Description: &desc})
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Description)
	assert.Equal(t, 4, updated.PresentMembers)
	assertDec(t, "30", updated.PerMemberShare)
	require.Len(t, updated.Shares, 2)
	assert.ElementsMatch(t, []uint{c.ID, d.ID}, []uint{updated.Shares[0].MemberID, updated.Shares[1].MemberID})
	assert.Equal(t, "30.00", balanceOf(t, db, c.ID))
	assert.Equal(t, "30.00", balanceOf(t, db, d.ID))

	stranger := []uint{c.ID, 424242}
	_, err = UpdateExpense(ctx, db, e.ID, ExpenseUpdate{SelectedMembers: &stranger})
	assert.ErrorIs(t, err, ErrInvalidMember)
}

func TestDeleteExpenseRevertsUnpaid(t *testing.T) {
	db := newTestDB(t)
	ms, e := createFourWaySplit(t, db)
	_, err := MarkSharePaid(ctx, db, e.Shares[0].ID)
	require.NoError(t, err)

	require.NoError(t, DeleteExpense(ctx, db, e.ID))

	for _, m := range ms {
		assert.Equal(t, "0.00", balanceOf(t, db, m.ID), m.Name)
	}
	var n int64
	db.Model(&models.ExpenseShare{}).Count(&n)
	assert.Zero(t, n)

	assert.ErrorIs(t, DeleteExpense(ctx, db, e.ID), gorm.ErrRecordNotFound)
}
