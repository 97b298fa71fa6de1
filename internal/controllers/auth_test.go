package controllers_test

import (
	"net/http"
	"testing"

	"github.com/UBISmashers/UBIsmashers-sub000/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sessionResp struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	User         struct {
		ID       uint   `json:"id"`
		Role     string `json:"role"`
		Password string `json:"password"`
	} `json:"user"`
}

func TestRegisterLoginRefreshLogout(t *testing.T) {
	s := newServer(t)

	w := s.do(http.MethodPost, "/api/auth/register", "", map[string]any{"name": "Eve", "email": "eve@club.test", "password": "password1"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	reg := decode[sessionResp](t, w)
	assert.Equal(t, "member", reg.User.Role)
	assert.Empty(t, reg.User.Password)

	w = s.do(http.MethodPost, "/api/auth/register", "", map[string]any{"name": "Eve", "email": "eve@club.test", "password": "password1"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(http.MethodPost, "/api/auth/login", "", map[string]any{"email": "eve@club.test", "password": "wrong-pass"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodPost, "/api/auth/login", "", map[string]any{"email": "eve@club.test", "password": "password1"})
	require.Equal(t, http.StatusOK, w.Code)
	login := decode[sessionResp](t, w)

	w = s.do(http.MethodGet, "/api/auth/me", login.AccessToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// logging in again rotated the refresh id issued at registration
	w = s.do(http.MethodPost, "/api/auth/refresh", "", map[string]any{"refreshToken": reg.RefreshToken})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodPost, "/api/auth/refresh", "", map[string]any{"refreshToken": login.RefreshToken})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	refreshed := decode[sessionResp](t, w)

	w = s.do(http.MethodPost, "/api/auth/logout", refreshed.AccessToken, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = s.do(http.MethodPost, "/api/auth/refresh", "", map[string]any{"refreshToken": refreshed.RefreshToken})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegisterValidation(t *testing.T) {
	s := newServer(t)

	w := s.do(http.MethodPost, "/api/auth/register", "", map[string]any{"name": "Eve", "email": "not-an-email", "password": "password1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "email must be a valid email address", errorOf(t, w))

	w = s.do(http.MethodPost, "/api/auth/register", "", map[string]any{"name": "Eve", "email": "eve@club.test", "password": "short"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "password must be at least 8 characters in length", errorOf(t, w))
}

func TestRegisterTakesLinkedMemberRole(t *testing.T) {
	s := newServer(t)

	w := s.asAdmin(http.MethodPost, "/api/members", map[string]any{"name": "Hal", "email": "hal@club.test", "role": "admin"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(http.MethodPost, "/api/auth/register", "", map[string]any{"name": "Hal", "email": "Hal@club.test", "password": "password1"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	reg := decode[sessionResp](t, w)
	assert.Equal(t, "admin", reg.User.Role)
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/reports/summary", reg.AccessToken, nil).Code)

	w = s.asAdmin(http.MethodPost, "/api/members", map[string]any{"name": "Ivy", "email": "ivy@club.test", "status": "inactive"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(http.MethodPost, "/api/auth/register", "", map[string]any{"name": "Ivy", "email": "ivy@club.test", "password": "password1"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	var u models.User
	require.NoError(t, s.db.Where("email = ?", "ivy@club.test").First(&u).Error)
	assert.False(t, u.IsActive)
}

func TestLoginInactiveUser(t *testing.T) {
	s := newServer(t)
	w := s.do(http.MethodPost, "/api/auth/register", "", map[string]any{"name": "Fay", "email": "fay@club.test", "password": "password1"})
	require.Equal(t, http.StatusCreated, w.Code)
	require.NoError(t, s.db.Model(&models.User{}).Where("email = ?", "fay@club.test").Update("is_active", false).Error)

	w = s.do(http.MethodPost, "/api/auth/login", "", map[string]any{"email": "fay@club.test", "password": "password1"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}
