package services

import (
	"github.com/UBISmashers/UBIsmashers-sub000/internal/common"
	"github.com/UBISmashers/UBIsmashers-sub000/internal/models"
	"github.com/shopspring/decimal"
)

// CourtBreakdown is the itemised cost of a court session.
type CourtBreakdown struct {
	CourtBookingCost *decimal.Decimal
	ShuttleCost      *decimal.Decimal
	ShuttlesUsed     *int
}

func (b CourtBreakdown) present() bool {
	return b.CourtBookingCost != nil || b.ShuttleCost != nil || b.ShuttlesUsed != nil
}

// Total is courtBookingCost + shuttleCost*shuttlesUsed; missing parts count as zero.
func (b CourtBreakdown) Total() decimal.Decimal {
	total := decimal.Zero
	if b.CourtBookingCost != nil {
		total = total.Add(*b.CourtBookingCost)
	}
	if b.ShuttleCost != nil && b.ShuttlesUsed != nil {
		total = total.Add(b.ShuttleCost.Mul(decimal.NewFromInt(int64(*b.ShuttlesUsed))))
	}
	return total
}

// ResolveAmount returns the amount to split. Court expenses with any breakdown
// field set take the breakdown total instead of the flat amount.
func ResolveAmount(category string, flat decimal.Decimal, b CourtBreakdown) decimal.Decimal {
	if common.NormalizeCategory(category) == models.CategoryCourt && b.present() {
		return b.Total()
	}
	return flat
}

// MemberCount prefers the explicit selection over the raw headcount.
func MemberCount(selected []uint, present int) int {
	if n := len(common.UniqueIDs(selected)); n > 0 {
		return n
	}
	if present < 0 {
		return 0
	}
	return present
}

func PerMemberShare(amount decimal.Decimal, count int) decimal.Decimal {
	if count <= 0 {
		return decimal.Zero
	}
	return amount.DivRound(decimal.NewFromInt(int64(count)), 2)
}

type ShareLine struct {
	MemberID uint
	Amount   decimal.Decimal
}

// PlanShares gives every selected member except the payer one share.
func PlanShares(selected []uint, paidBy *uint, share decimal.Decimal) []ShareLine {
	ids := common.UniqueIDs(selected)
	lines := make([]ShareLine, 0, len(ids))
	for _, id := range ids {
		if paidBy != nil && *paidBy == id {
			continue
		}
		lines = append(lines, ShareLine{MemberID: id, Amount: share})
	}
	return lines
}

// CarryForward builds the replacement share rows for an edited expense,
// keeping paid status and time for members that had a share before.
func CarryForward(expenseID uint, old []models.ExpenseShare, plan []ShareLine) []models.ExpenseShare {
	prev := make(map[uint]models.ExpenseShare, len(old))
	for _, s := range old {
		prev[s.MemberID] = s
	}

	out := make([]models.ExpenseShare, 0, len(plan))
	for _, line := range plan {
		s := models.ExpenseShare{
			ExpenseID: expenseID,
			MemberID:  line.MemberID,
			Amount:    line.Amount,
		}
		if p, ok := prev[line.MemberID]; ok && p.PaidStatus {
			s.PaidStatus = true
			s.PaidAt = p.PaidAt
		}
		out = append(out, s)
	}
	return out
}

// DeriveStatus is completed once nothing is left to collect.
func DeriveStatus(shares []models.ExpenseShare) models.ExpenseStatus {
	for _, s := range shares {
		if !s.PaidStatus {
			return models.ExpensePending
		}
	}
	return models.ExpenseCompleted
}

type StockDraw struct {
	LotID    uint
	Quantity int
}

// PlanStockDraw takes want units from lots in the order given. It returns the
// draws and the total drawn, which is less than want when stock runs out.
func PlanStockDraw(lots []models.Expense, want int) ([]StockDraw, int) {
	var (
		draws []StockDraw
		drawn int
	)
	for i := range lots {
		if drawn >= want {
			break
		}
		left := lots[i].Remaining()
		if left == 0 {
			continue
		}
		take := min(left, want-drawn)
		draws = append(draws, StockDraw{LotID: lots[i].ID, Quantity: take})
		drawn += take
	}
	return draws, drawn
}
