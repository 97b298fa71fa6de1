package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

type MemberStatus string

const (
	MemberActive   MemberStatus = "active"
	MemberInactive MemberStatus = "inactive"
)

type ExpenseStatus string

const (
	ExpensePending   ExpenseStatus = "pending"
	ExpenseCompleted ExpenseStatus = "completed"
)

type BookingStatus string

const (
	BookingAvailable BookingStatus = "available"
	BookingBooked    BookingStatus = "booked"
	BookingPending   BookingStatus = "pending"
	BookingCancelled BookingStatus = "cancelled"
)

const (
	CategoryCourt     = "court"
	CategoryEquipment = "equipment"
)

type User struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Name           string    `json:"name"`
	Email          string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password       string    `json:"-"`
	Role           Role      `gorm:"size:16;not null;default:member" json:"role"`
	MemberID       *uint     `gorm:"index" json:"memberId"`
	IsActive       bool      `gorm:"not null;default:true" json:"isActive"`
	RefreshTokenID *string   `gorm:"size:64" json:"-"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

type Member struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	Name           string          `gorm:"not null" json:"name"`
	Email          *string         `gorm:"size:255" json:"email"`
	Phone          *string         `gorm:"size:32" json:"phone"`
	Role           Role            `gorm:"size:16;not null;default:member" json:"role"`
	Status         MemberStatus    `gorm:"size:16;not null;default:active" json:"status"`
	Balance        decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"balance"`
	AttendanceRate decimal.Decimal `gorm:"type:numeric(5,2);not null;default:0" json:"attendanceRate"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

type Expense struct {
	ID               uint             `gorm:"primaryKey" json:"id"`
	Date             string           `gorm:"size:10;index;not null" json:"date"`
	Category         string           `gorm:"size:64;index;not null" json:"category"`
	Description      string           `json:"description"`
	Amount           decimal.Decimal  `gorm:"type:numeric(12,2);not null" json:"amount"`
	PaidBy           *uint            `gorm:"index" json:"paidBy"`
	PresentMembers   int              `json:"presentMembers"`
	SelectedMembers  []uint           `gorm:"serializer:json" json:"selectedMembers"`
	PerMemberShare   decimal.Decimal  `gorm:"type:numeric(12,2);not null;default:0" json:"perMemberShare"`
	Status           ExpenseStatus    `gorm:"size:16;not null;default:pending" json:"status"`
	CourtBookingCost *decimal.Decimal `gorm:"type:numeric(12,2)" json:"courtBookingCost,omitempty"`
	ShuttleCost      *decimal.Decimal `gorm:"type:numeric(12,2)" json:"shuttleCost,omitempty"`
	ShuttlesUsed     *int             `json:"shuttlesUsed,omitempty"`
	StockDrawn       int              `json:"stockDrawn"`

	IsInventory       bool   `gorm:"index" json:"isInventory"`
	ItemName          string `json:"itemName,omitempty"`
	QuantityPurchased int    `json:"quantityPurchased,omitempty"`
	QuantityUsed      int    `json:"quantityUsed,omitempty"`

	Shares    []ExpenseShare `gorm:"foreignKey:ExpenseID" json:"shares,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// Remaining is the unconsumed quantity of an inventory lot.
func (e *Expense) Remaining() int {
	if e.QuantityUsed >= e.QuantityPurchased {
		return 0
	}
	return e.QuantityPurchased - e.QuantityUsed
}

type ExpenseShare struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	ExpenseID  uint            `gorm:"not null;uniqueIndex:idx_share_expense_member" json:"expenseId"`
	MemberID   uint            `gorm:"not null;uniqueIndex:idx_share_expense_member;index" json:"memberId"`
	Amount     decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	PaidStatus bool            `gorm:"not null;default:false" json:"paidStatus"`
	PaidAt     *time.Time      `json:"paidAt"`
	Member     *Member         `gorm:"foreignKey:MemberID" json:"member,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
}

type Booking struct {
	ID        uint          `gorm:"primaryKey" json:"id"`
	Date      string        `gorm:"size:10;index;not null" json:"date"`
	StartTime string        `gorm:"size:5;not null" json:"startTime"`
	EndTime   string        `gorm:"size:5;not null" json:"endTime"`
	Court     string        `gorm:"size:32;not null" json:"court"`
	Status    BookingStatus `gorm:"size:16;not null;default:available" json:"status"`
	BookedBy  *uint         `gorm:"index" json:"bookedBy"`
	Notes     string        `json:"notes,omitempty"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

type Attendance struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Date      string    `gorm:"size:10;not null;uniqueIndex:idx_attendance_date_member" json:"date"`
	MemberID  uint      `gorm:"not null;uniqueIndex:idx_attendance_date_member;index" json:"memberId"`
	IsPresent bool      `gorm:"not null" json:"isPresent"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type JoiningFee struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	MemberID  uint            `gorm:"not null;uniqueIndex" json:"memberId"`
	Amount    decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	Date      string          `gorm:"size:10;not null" json:"date"`
	Note      string          `json:"note,omitempty"`
	Member    *Member         `gorm:"foreignKey:MemberID" json:"member,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}

type Notification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"userId"`
	Type      string    `gorm:"size:32;not null" json:"type"`
	Title     string    `gorm:"not null" json:"title"`
	Message   string    `json:"message"`
	IsRead    bool      `gorm:"not null;default:false" json:"isRead"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
}

// All lists every persisted model, in migration order.
func All() []any {
	return []any{
		&User{},
		&Member{},
		&Expense{},
		&ExpenseShare{},
		&Booking{},
		&Attendance{},
		&JoiningFee{},
		&Notification{},
	}
}
