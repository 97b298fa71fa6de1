package controllers

import (
	"net/http"

	"github.com/UBISmashers/UBIsmashers-sub000/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const publicBillsLimit = 50

type publicShare struct {
	MemberName string          `json:"memberName"`
	Amount     decimal.Decimal `json:"amount"`
	Paid       bool            `json:"paid"`
}

type publicBill struct {
	ID             uint                 `json:"id"`
	Date           string               `json:"date"`
	Category       string               `json:"category"`
	Description    string               `json:"description"`
	Amount         decimal.Decimal      `json:"amount"`
	PerMemberShare decimal.Decimal      `json:"perMemberShare"`
	Status         models.ExpenseStatus `json:"status"`
	Shares         []publicShare        `json:"shares"`
}

// PublicBills is the unauthenticated feed of recent bills. It exposes member
// names only, never contact details or balances.
func PublicBills(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var expenses []models.Expense
		err := db.Where("is_inventory = ?", false).
			Preload("Shares.Member").
			Order("date DESC, id DESC").
			Limit(publicBillsLimit).
			Find(&expenses).Error
		if err != nil {
			respondError(c, err)
			return
		}

		bills := make([]publicBill, 0, len(expenses))
		for _, e := range expenses {
			b := publicBill{
				ID:             e.ID,
				Date:           e.Date,
				Category:       e.Category,
				Description:    e.Description,
				Amount:         e.Amount,
				PerMemberShare: e.PerMemberShare,
				Status:         e.Status,
				Shares:         make([]publicShare, 0, len(e.Shares)),
			}
			for _, s := range e.Shares {
				name := ""
				if s.Member != nil {
					name = s.Member.Name
				}
				b.Shares = append(b.Shares, publicShare{MemberName: name, Amount: s.Amount, Paid: s.PaidStatus})
			}
			bills = append(bills, b)
		}
		c.JSON(http.StatusOK, bills)
	}
}
