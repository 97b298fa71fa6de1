package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/UBISmashers/UBIsmashers-sub000/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

var ErrInvalidToken = errors.New("invalid token")

type Claims struct {
	UID  uint        `json:"uid"`
	Role models.Role `json:"role"`
	Type string      `json:"typ"`
	jwt.RegisteredClaims
}

type Pair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	// RefreshID must be stored on the user; a refresh token is only honoured
	// while its id matches.
	RefreshID string `json:"-"`
}

// Issuer signs and verifies HS256 access and refresh tokens with separate secrets.
type Issuer struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

func NewIssuer(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *Issuer {
	return &Issuer{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		now:           time.Now,
	}
}

func (i *Issuer) IssuePair(user *models.User) (Pair, error) {
	now := i.now()

	access, err := i.sign(i.accessSecret, Claims{
		UID:  user.ID,
		Role: user.Role,
		Type: TypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprint(user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.accessTTL)),
		},
	})
	if err != nil {
		return Pair{}, err
	}

	jti := uuid.NewString()
	refresh, err := i.sign(i.refreshSecret, Claims{
		UID:  user.ID,
		Role: user.Role,
		Type: TypeRefresh,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   fmt.Sprint(user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.refreshTTL)),
		},
	})
	if err != nil {
		return Pair{}, err
	}

	return Pair{AccessToken: access, RefreshToken: refresh, RefreshID: jti}, nil
}

func (i *Issuer) ParseAccess(token string) (*Claims, error) {
	return i.parse(token, i.accessSecret, TypeAccess)
}

func (i *Issuer) ParseRefresh(token string) (*Claims, error) {
	return i.parse(token, i.refreshSecret, TypeRefresh)
}

func (i *Issuer) sign(secret []byte, claims Claims) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := t.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return s, nil
}

func (i *Issuer) parse(tokenString string, secret []byte, typ string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	}, jwt.WithTimeFunc(i.now))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Type != typ || claims.UID == 0 {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
