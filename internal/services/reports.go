package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/UBISmashers/UBIsmashers-sub000/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CategoryTotal struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
	Count    int             `json:"count"`
}

type Summary struct {
	TotalExpenses    decimal.Decimal `json:"totalExpenses"`
	InventorySpend   decimal.Decimal `json:"inventorySpend"`
	ByCategory       []CategoryTotal `json:"byCategory"`
	Outstanding      decimal.Decimal `json:"outstanding"`
	Collected        decimal.Decimal `json:"collected"`
	JoiningFeesTotal decimal.Decimal `json:"joiningFeesTotal"`
	MemberCount      int64           `json:"memberCount"`
	ActiveMembers    int64           `json:"activeMembers"`
}

func BuildSummary(ctx context.Context, db *gorm.DB) (*Summary, error) {
	const op = "services.BuildSummary"
	db = db.WithContext(ctx)

	s := &Summary{
		TotalExpenses:    decimal.Zero,
		InventorySpend:   decimal.Zero,
		Outstanding:      decimal.Zero,
		Collected:        decimal.Zero,
		JoiningFeesTotal: decimal.Zero,
	}

	var expenses []models.Expense
	if err := db.Find(&expenses).Error; err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.ByCategory = totalsByCategory(expenses)
	for _, e := range expenses {
		s.TotalExpenses = s.TotalExpenses.Add(e.Amount)
		if e.IsInventory {
			s.InventorySpend = s.InventorySpend.Add(e.Amount)
		}
	}

	var shares []models.ExpenseShare
	if err := db.Find(&shares).Error; err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	for _, sh := range shares {
		if sh.PaidStatus {
			s.Collected = s.Collected.Add(sh.Amount)
		} else {
			s.Outstanding = s.Outstanding.Add(sh.Amount)
		}
	}

	var fees []models.JoiningFee
	if err := db.Find(&fees).Error; err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	for _, f := range fees {
		s.JoiningFeesTotal = s.JoiningFeesTotal.Add(f.Amount)
	}

	if err := db.Model(&models.Member{}).Count(&s.MemberCount).Error; err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := db.Model(&models.Member{}).Where("status = ?", models.MemberActive).Count(&s.ActiveMembers).Error; err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s, nil
}

func totalsByCategory(expenses []models.Expense) []CategoryTotal {
	idx := make(map[string]int)
	var out []CategoryTotal
	for _, e := range expenses {
		i, ok := idx[e.Category]
		if !ok {
			i = len(out)
			idx[e.Category] = i
			out = append(out, CategoryTotal{Category: e.Category, Total: decimal.Zero})
		}
		out[i].Total = out[i].Total.Add(e.Amount)
		out[i].Count++
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out
}

type MonthTotal struct {
	Month string          `json:"month"`
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}

// MonthlyTotals returns twelve entries for year, January first.
func MonthlyTotals(ctx context.Context, db *gorm.DB, year int) ([]MonthTotal, error) {
	prefix := fmt.Sprintf("%04d-", year)

	var expenses []models.Expense
	err := db.WithContext(ctx).Where("date LIKE ?", prefix+"%").Find(&expenses).Error
	if err != nil {
		return nil, fmt.Errorf("services.MonthlyTotals: %w", err)
	}

	out := make([]MonthTotal, 12)
	for i := range out {
		out[i] = MonthTotal{Month: fmt.Sprintf("%s%02d", prefix, i+1), Total: decimal.Zero}
	}
	for _, e := range expenses {
		for i := range out {
			if strings.HasPrefix(e.Date, out[i].Month) {
				out[i].Total = out[i].Total.Add(e.Amount)
				out[i].Count++
				break
			}
		}
	}
	return out, nil
}
