package controllers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/UBISmashers/UBIsmashers-sub000/internal/auth"
	"github.com/UBISmashers/UBIsmashers-sub000/internal/config"
	"github.com/UBISmashers/UBIsmashers-sub000/internal/middleware"
	"github.com/UBISmashers/UBIsmashers-sub000/internal/models"
	"github.com/UBISmashers/UBIsmashers-sub000/internal/routes"
	"github.com/UBISmashers/UBIsmashers-sub000/internal/validation"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testServer struct {
	t      *testing.T
	db     *gorm.DB
	iss    *auth.Issuer
	router *gin.Engine

	admin       models.User
	adminMember models.Member
	member      models.User
	memberRow   models.Member
}

func newServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, validation.Setup())

	db, err := config.InitDB(config.DatabaseConfig{Driver: "sqlite", DSN: ":memory:"})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	s := &testServer{
		t:   t,
		db:  db,
		iss: auth.NewIssuer("access-secret", "refresh-secret", time.Minute, time.Hour),
	}

	s.router = gin.New()
	s.router.Use(middleware.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))), middleware.Recovery())
	routes.SetupRoutes(s.router, db, sqlDB, s.iss)

	s.adminMember = models.Member{Name: "Admin", Role: models.RoleAdmin, Status: models.MemberActive}
	require.NoError(t, db.Create(&s.adminMember).Error)
	s.admin = models.User{Name: "Admin", Email: "admin@club.test", Role: models.RoleAdmin, MemberID: &s.adminMember.ID, IsActive: true}
	require.NoError(t, db.Create(&s.admin).Error)

	s.memberRow = models.Member{Name: "Bea", Role: models.RoleMember, Status: models.MemberActive}
	require.NoError(t, db.Create(&s.memberRow).Error)
	s.member = models.User{Name: "Bea", Email: "bea@club.test", Role: models.RoleMember, MemberID: &s.memberRow.ID, IsActive: true}
	require.NoError(t, db.Create(&s.member).Error)

	return s
}

func (s *testServer) token(u models.User) string {
	s.t.Helper()
	pair, err := s.iss.IssuePair(&u)
	require.NoError(s.t, err)
	return pair.AccessToken
}

func (s *testServer) do(method, path, token string, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(s.t, err)
		r = bytes.NewBuffer(raw)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) asAdmin(method, path string, body any) *httptest.ResponseRecorder {
	return s.do(method, path, s.token(s.admin), body)
}

func (s *testServer) asMember(method, path string, body any) *httptest.ResponseRecorder {
	return s.do(method, path, s.token(s.member), body)
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func errorOf(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[map[string]string](t, w)["error"]
}
