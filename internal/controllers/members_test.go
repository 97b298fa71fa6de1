package controllers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemberCRUD(t *testing.T) {
	s := newServer(t)

	w := s.asAdmin(http.MethodPost, "/api/members", map[string]any{"name": "Gus", "email": "Gus@Club.test"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	m := decode[map[string]any](t, w)
	assert.Equal(t, "gus@club.test", m["email"])
	assert.Equal(t, "active", m["status"])
	id := uint(m["id"].(float64))

	w = s.asAdmin(http.MethodPost, "/api/members", map[string]any{"email": "x@club.test"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.asMember(http.MethodPost, "/api/members", map[string]any{"name": "Nope"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.asAdmin(http.MethodPut, "/api/members/"+itoa(id), map[string]any{"status": "inactive", "balance": 500})
	require.Equal(t, http.StatusOK, w.Code)
	m = decode[map[string]any](t, w)
	assert.Equal(t, "inactive", m["status"])
	assert.Equal(t, "0", m["balance"])

	w = s.asMember(http.MethodGet, "/api/members?status=inactive", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]map[string]any](t, w), 1)

	assert.Equal(t, http.StatusNoContent, s.asAdmin(http.MethodDelete, "/api/members/"+itoa(id), nil).Code)
	assert.Equal(t, http.StatusNotFound, s.asMember(http.MethodGet, "/api/members/"+itoa(id), nil).Code)
}

func TestMemberRoleAndStatusApplyToLogin(t *testing.T) {
	s := newServer(t)
	path := "/api/members/" + itoa(s.memberRow.ID)

	assert.Equal(t, http.StatusForbidden, s.asMember(http.MethodGet, "/api/reports/summary", nil).Code)

	require.Equal(t, http.StatusOK, s.asAdmin(http.MethodPut, path, map[string]any{"role": "admin"}).Code)
	assert.Equal(t, http.StatusOK, s.asMember(http.MethodGet, "/api/reports/summary", nil).Code)

	require.Equal(t, http.StatusOK, s.asAdmin(http.MethodPut, path, map[string]any{"role": "member"}).Code)
	assert.Equal(t, http.StatusForbidden, s.asMember(http.MethodGet, "/api/reports/summary", nil).Code)

	require.Equal(t, http.StatusOK, s.asAdmin(http.MethodPut, path, map[string]any{"status": "inactive"}).Code)
	assert.Equal(t, http.StatusForbidden, s.asMember(http.MethodGet, "/api/members", nil).Code)

	require.Equal(t, http.StatusOK, s.asAdmin(http.MethodPut, path, map[string]any{"status": "active"}).Code)
	assert.Equal(t, http.StatusOK, s.asMember(http.MethodGet, "/api/members", nil).Code)
}

func TestDeleteMemberWithDues(t *testing.T) {
	s := newServer(t)
	w := s.asAdmin(http.MethodPost, "/api/expenses", map[string]any{"category": "food", "amount": 10, "selectedMembers": []uint{s.memberRow.ID}})
	require.Equal(t, http.StatusCreated, w.Code)

	w = s.asAdmin(http.MethodDelete, "/api/members/"+itoa(s.memberRow.ID), nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "member has unpaid shares", errorOf(t, w))
}

func TestMemberStatementAccess(t *testing.T) {
	s := newServer(t)

	assert.Equal(t, http.StatusOK, s.asMember(http.MethodGet, "/api/members/"+itoa(s.memberRow.ID)+"/statement", nil).Code)
	assert.Equal(t, http.StatusForbidden, s.asMember(http.MethodGet, "/api/members/"+itoa(s.adminMember.ID)+"/statement", nil).Code)
	assert.Equal(t, http.StatusOK, s.asAdmin(http.MethodGet, "/api/members/"+itoa(s.memberRow.ID)+"/statement", nil).Code)
}

func TestJoiningFeeEndpoints(t *testing.T) {
	s := newServer(t)

	w := s.asAdmin(http.MethodPost, "/api/joiningFees", map[string]any{"memberId": s.memberRow.ID, "amount": 50})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	fee := decode[map[string]any](t, w)

	w = s.asAdmin(http.MethodPost, "/api/joiningFees", map[string]any{"memberId": s.memberRow.ID, "amount": 50})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.asAdmin(http.MethodGet, "/api/members/"+itoa(s.memberRow.ID), nil)
	assert.Equal(t, "-50", decode[map[string]any](t, w)["balance"])

	w = s.asAdmin(http.MethodPost, "/api/members/"+itoa(s.memberRow.ID)+"/recalculate", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "-50", decode[map[string]any](t, w)["balance"])

	assert.Equal(t, http.StatusForbidden, s.asMember(http.MethodGet, "/api/joiningFees", nil).Code)
	assert.Equal(t, http.StatusNoContent, s.asAdmin(http.MethodDelete, "/api/joiningFees/"+itoa(uint(fee["id"].(float64))), nil).Code)
}
