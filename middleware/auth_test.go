package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/contestly/competition-hub/models"
	"github.com/contestly/competition-hub/repositories"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

const testSecret = "test-secret"

type fakeUserRepo struct {
	users map[string]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*models.User{}}
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) Upsert(ctx context.Context, u *models.User) error {
	if existing, ok := r.users[u.ID]; ok {
		existing.Email = u.Email
		existing.DisplayName = u.DisplayName
		u.Role = existing.Role
		u.CreatedAt = existing.CreatedAt
		return nil
	}
	u.CreatedAt = time.Now()
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func signToken(t *testing.T, sub string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   sub,
		"email": "user@example.com",
		"name":  "Test User",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func echoUserHandler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := GetUserIDFromContext(r.Context()); err != nil {
			t.Errorf("GetUserIDFromContext: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticateRejectsMissingOrBadToken(t *testing.T) {
	auth := NewAuthenticator(testSecret, newFakeUserRepo(), slog.Default())
	handler := auth.Authenticate(echoUserHandler(t))

	tests := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"not bearer", "Basic abc"},
		{"garbage token", "Bearer not.a.jwt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me/dashboard", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", rec.Code)
			}
		})
	}
}

func TestAuthenticateSyncsProfileAndSetsContext(t *testing.T) {
	users := newFakeUserRepo()
	auth := NewAuthenticator(testSecret, users, slog.Default())
	sub := uuid.NewString()

	var gotUser *models.User
	handler := auth.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser, _ = GetUserFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/me/dashboard", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, sub))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if gotUser == nil || gotUser.ID != sub {
		t.Fatalf("context user = %+v, want id %s", gotUser, sub)
	}
	if gotUser.Role != models.RoleUser {
		t.Errorf("role = %q, want user on first sight", gotUser.Role)
	}
	if stored, ok := users.users[sub]; !ok || stored.Email != "user@example.com" {
		t.Errorf("profile not mirrored: %+v", users.users)
	}
}

func TestAuthorizeUsesStoredRole(t *testing.T) {
	users := newFakeUserRepo()
	auth := NewAuthenticator(testSecret, users, slog.Default())
	sub := uuid.NewString()

	handler := auth.Authenticate(Authorize(models.RoleAdmin)(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) },
	)))

	req := httptest.NewRequest(http.MethodPost, "/admin/seed", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, sub))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("plain user status = %d, want 403", rec.Code)
	}

	// Promote locally; the token is unchanged.
	users.users[sub].Role = models.RoleAdmin

	req = httptest.NewRequest(http.MethodPost, "/admin/seed", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, sub))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("admin status = %d, want 200", rec.Code)
	}
}
