package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/UBISmashers/UBIsmashers-sub000/internal/auth"
	"github.com/UBISmashers/UBIsmashers-sub000/internal/config"
	"github.com/UBISmashers/UBIsmashers-sub000/internal/models"
	"gorm.io/gorm"
)

type RegisterInput struct {
	Name     string `json:"name" binding:"required,max=128"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Register creates a login. When a member with the same email exists the login
// is linked to it and takes its role and status; otherwise it is a plain member.
func Register(ctx context.Context, db *gorm.DB, in RegisterInput) (*models.User, error) {
	const op = "services.Register"

	email := normalizeEmail(in.Email)
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	user := &models.User{
		Name:     strings.TrimSpace(in.Name),
		Email:    email,
		Password: hash,
		Role:     models.RoleMember,
		IsActive: true,
	}
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.User{}).Where("email = ?", email).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return ErrEmailTaken
		}

		var members []models.Member
		if err := tx.Where("LOWER(email) = ?", email).Limit(1).Find(&members).Error; err != nil {
			return err
		}
		if len(members) > 0 {
			user.MemberID = &members[0].ID
			user.Role = members[0].Role
			user.IsActive = members[0].Status == models.MemberActive
		}
		active := user.IsActive
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		if active {
			return nil
		}
		// is_active has a database default, so a false value is not inserted.
		return tx.Model(user).Update("is_active", false).Error
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}

// Authenticate returns the user for a correct email/password pair, or
// gorm.ErrRecordNotFound for either mistake.
func Authenticate(ctx context.Context, db *gorm.DB, email, password string) (*models.User, error) {
	var user models.User
	if err := db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&user).Error; err != nil {
		return nil, fmt.Errorf("services.Authenticate: %w", err)
	}
	if !auth.CheckPassword(user.Password, password) {
		return nil, fmt.Errorf("services.Authenticate: %w", gorm.ErrRecordNotFound)
	}
	return &user, nil
}

// StartSession issues a token pair and stores its refresh id, replacing any
// earlier one.
func StartSession(ctx context.Context, db *gorm.DB, iss *auth.Issuer, user *models.User) (auth.Pair, error) {
	pair, err := iss.IssuePair(user)
	if err != nil {
		return auth.Pair{}, fmt.Errorf("services.StartSession: %w", err)
	}
	err = db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", user.ID).
		Update("refresh_token_id", pair.RefreshID).Error
	if err != nil {
		return auth.Pair{}, fmt.Errorf("services.StartSession: %w", err)
	}
	user.RefreshTokenID = &pair.RefreshID
	return pair, nil
}

// RotateSession exchanges a refresh token for a new pair. The presented token
// must carry the refresh id currently stored for the user.
func RotateSession(ctx context.Context, db *gorm.DB, iss *auth.Issuer, refreshToken string) (*models.User, auth.Pair, error) {
	claims, err := iss.ParseRefresh(refreshToken)
	if err != nil {
		return nil, auth.Pair{}, err
	}

	var user models.User
	if err := db.WithContext(ctx).First(&user, claims.UID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, auth.Pair{}, auth.ErrInvalidToken
		}
		return nil, auth.Pair{}, fmt.Errorf("services.RotateSession: %w", err)
	}
	if user.RefreshTokenID == nil || *user.RefreshTokenID != claims.ID {
		return nil, auth.Pair{}, auth.ErrInvalidToken
	}
	if !user.IsActive {
		return nil, auth.Pair{}, ErrInactiveUser
	}

	pair, err := StartSession(ctx, db, iss, &user)
	if err != nil {
		return nil, auth.Pair{}, err
	}
	return &user, pair, nil
}

func EndSession(ctx context.Context, db *gorm.DB, userID uint) error {
	err := db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Update("refresh_token_id", nil).Error
	if err != nil {
		return fmt.Errorf("services.EndSession: %w", err)
	}
	return nil
}

// EnsureAdmin creates the configured bootstrap admin when no admin login exists.
func EnsureAdmin(ctx context.Context, db *gorm.DB, cfg config.AdminConfig, log *slog.Logger) error {
	const op = "services.EnsureAdmin"

	if cfg.Email == "" || cfg.Password == "" {
		return nil
	}
	var n int64
	if err := db.WithContext(ctx).Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&n).Error; err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n > 0 {
		return nil
	}

	email := normalizeEmail(cfg.Email)
	res := db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Update("role", models.RoleAdmin)
	if res.Error != nil {
		return fmt.Errorf("%s: %w", op, res.Error)
	}
	if res.RowsAffected > 0 {
		log.Info("promoted existing user to admin", slog.String("email", email))
		return nil
	}

	hash, err := auth.HashPassword(cfg.Password)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		member := models.Member{
			Name:   cfg.Name,
			Email:  &email,
			Role:   models.RoleAdmin,
			Status: models.MemberActive,
		}
		if err := tx.Create(&member).Error; err != nil {
			return err
		}
		return tx.Create(&models.User{
			Name:     cfg.Name,
			Email:    email,
			Password: hash,
			Role:     models.RoleAdmin,
			MemberID: &member.ID,
			IsActive: true,
		}).Error
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	log.Info("created bootstrap admin", slog.String("email", cfg.Email))
	return nil
}
