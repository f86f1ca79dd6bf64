package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/contestly/competition-hub/models"
	"github.com/contestly/competition-hub/repositories"
	"github.com/golang-jwt/jwt/v4"
)

type contextKey string

const userContextKey contextKey = "user"

const (
	jwtClaimSubject = "sub"
	jwtClaimEmail   = "email"
	jwtClaimName    = "name"
)

var (
	ErrNoUserInContext = errors.New("user not found in context")
)

// Authenticator verifies bearer tokens minted by the external identity
// provider and mirrors the token's profile claims into the local users table.
// Roles are managed locally: whatever the token says, the stored role wins.
type Authenticator struct {
	secret []byte
	users  repositories.UserRepository
	logger *slog.Logger
}

func NewAuthenticator(secret string, users repositories.UserRepository, logger *slog.Logger) *Authenticator {
	return &Authenticator{secret: []byte(secret), users: users, logger: logger}
}

func (a *Authenticator) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || tokenString == "" {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		user, err := a.AuthenticateToken(r.Context(), tokenString)
		if err != nil {
			a.logger.Debug("token rejected", slog.Any("error", err))
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func Authorize(roles ...models.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := GetUserFromContext(r.Context())
			if err != nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			for _, role := range roles {
				if role == user.Role {
					next.ServeHTTP(w, r)
					return
				}
			}

			http.Error(w, "Forbidden", http.StatusForbidden)
		})
	}
}

func GetUserFromContext(ctx context.Context) (*models.User, error) {
	user, ok := ctx.Value(userContextKey).(*models.User)
	if !ok || user == nil {
		return nil, ErrNoUserInContext
	}
	return user, nil
}

func GetUserIDFromContext(ctx context.Context) (string, error) {
	user, err := GetUserFromContext(ctx)
	if err != nil {
		return "", err
	}
	return user.ID, nil
}

func GetUserRoleFromContext(ctx context.Context) (models.UserRole, error) {
	user, err := GetUserFromContext(ctx)
	if err != nil {
		return "", err
	}
	return user.Role, nil
}

// ContextWithUser is used by the websocket handler, which authenticates via
// query parameter, and by tests.
func ContextWithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

func claimString(claims jwt.MapClaims, key string) string {
	s, _ := claims[key].(string)
	return s
}

// AuthenticateToken verifies a raw token string outside of the middleware
// chain and returns the synced local profile. The websocket endpoint uses it
// because browsers cannot set an Authorization header on the upgrade request.
func (a *Authenticator) AuthenticateToken(ctx context.Context, tokenString string) (*models.User, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return a.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	sub, _ := claims[jwtClaimSubject].(string)
	if sub == "" {
		return nil, errors.New("missing sub claim")
	}

	user := &models.User{
		ID:          sub,
		Email:       claimString(claims, jwtClaimEmail),
		DisplayName: claimString(claims, jwtClaimName),
		Role:        models.RoleUser,
	}
	if err := a.users.Upsert(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
