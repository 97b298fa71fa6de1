package controllers

import (
	"net/http"
	"strings"

	"github.com/UBISmashers/UBIsmashers-sub000/internal/common"
	"github.com/UBISmashers/UBIsmashers-sub000/internal/middleware"
	"github.com/UBISmashers/UBIsmashers-sub000/internal/models"
	"github.com/UBISmashers/UBIsmashers-sub000/internal/services"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type memberInput struct {
	Name   *string              `json:"name" binding:"omitempty,min=1,max=128"`
	Email  *string              `json:"email" binding:"omitempty,email"`
	Phone  *string              `json:"phone" binding:"omitempty,max=32"`
	Role   *models.Role         `json:"role" binding:"omitempty,oneof=admin member"`
	Status *models.MemberStatus `json:"status" binding:"omitempty,oneof=active inactive"`
}

func (in memberInput) apply(m *models.Member) {
	if in.Name != nil {
		m.Name = strings.TrimSpace(*in.Name)
	}
	if in.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*in.Email))
		m.Email = &email
	}
	if in.Phone != nil {
		m.Phone = in.Phone
	}
	if in.Role != nil {
		m.Role = *in.Role
	}
	if in.Status != nil {
		m.Status = *in.Status
	}
}

func ListMembers(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		q := db.Model(&models.Member{})
		if status := c.Query("status"); status != "" {
			q = q.Where("status = ?", status)
		}
		if search := strings.TrimSpace(c.Query("q")); search != "" {
			q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(search)+"%")
		}
		offset, limit := common.Page(c.Query("start"), c.Query("count"))

		var members []models.Member
		if err := q.Order("name").Offset(offset).Limit(limit).Find(&members).Error; err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, members)
	}
}

func GetMember(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		var m models.Member
		if err := db.First(&m, id).Error; err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, m)
	}
}

func CreateMember(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in memberInput
		if !bindJSON(c, &in) {
			return
		}
		if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name is a required field"})
			return
		}
		m := models.Member{Role: models.RoleMember, Status: models.MemberActive}
		in.apply(&m)
		if err := db.Create(&m).Error; err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, m)
	}
}

// UpdateMember edits profile fields. Balance and attendance rate are derived
// and cannot be set here.
func UpdateMember(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		var in memberInput
		if !bindJSON(c, &in) {
			return
		}
		var m models.Member
		if err := db.First(&m, id).Error; err != nil {
			respondError(c, err)
			return
		}
		in.apply(&m)
		if err := services.SaveMember(c.Request.Context(), db, &m); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, m)
	}
}

func DeleteMember(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		if err := services.DeleteMember(c.Request.Context(), db, id); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func RecalculateMemberBalance(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		m, err := services.RecalculateBalance(c.Request.Context(), db, id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, m)
	}
}

// MemberStatement is visible to admins and to the member themself.
func MemberStatement(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		if !middleware.IsAdmin(c) {
			own, linked := middleware.MemberID(c)
			if !linked || own != id {
				respondError(c, services.ErrNotOwner)
				return
			}
		}
		st, err := services.MemberStatement(c.Request.Context(), db, id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, st)
	}
}
