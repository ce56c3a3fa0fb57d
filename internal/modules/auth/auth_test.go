package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/ewpharma/tradelink-backend/internal/modules/user"
	"github.com/ewpharma/tradelink-backend/internal/storage"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeUserRepo struct {
	byEmail map[string]*user.User
}

func (f *fakeUserRepo) CreateUser(_ context.Context, _ *user.User) error { return nil }

func (f *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (*user.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) GetUserByID(_ context.Context, _ string) (*user.User, error) {
	return nil, storage.ErrNotFound
}

func (f *fakeUserRepo) ListUsers(_ context.Context) ([]*user.User, error) { return nil, nil }

func testService(t *testing.T) (Service, *user.User) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)

	u := &user.User{
		ID:           uuid.New(),
		Name:         "Acme Admin",
		Email:        "admin@acme.test",
		PasswordHash: string(hash),
		Role:         "manufacturer",
	}
	repo := &fakeUserRepo{byEmail: map[string]*user.User{u.Email: u}}
	return NewService(repo, "test-signing-key"), u
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	svc, u := testService(t)

	token, identity, err := svc.Login(context.Background(), u.Email, "secret123")
	require.NoError(t, err)
	assert.Equal(t, u.ID, identity.UserID)

	parsed, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, parsed.UserID)
	assert.Equal(t, u.Email, parsed.Email)
	assert.Equal(t, "manufacturer", parsed.Role)
	assert.Equal(t, "Acme Admin", parsed.UserName)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, u := testService(t)

	_, _, err := svc.Login(context.Background(), u.Email, "wrong")
	assert.ErrorIs(t, err, storage.ErrUnauthenticated)

	_, _, err = svc.Login(context.Background(), "nobody@acme.test", "secret123")
	assert.ErrorIs(t, err, storage.ErrUnauthenticated)
}

func TestVerifyRejectsForgedAndExpiredTokens(t *testing.T) {
	svc, u := testService(t)

	// Token signed with a different key.
	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		UserID: u.ID.String(),
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(time.Hour).Unix(),
		},
	})
	forgedString, err := forged.SignedString([]byte("some-other-key"))
	require.NoError(t, err)

	_, err = svc.Verify(forgedString)
	assert.ErrorIs(t, err, storage.ErrUnauthenticated)

	// Token signed correctly but already expired.
	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		UserID: u.ID.String(),
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(-time.Hour).Unix(),
		},
	})
	expiredString, err := expired.SignedString([]byte("test-signing-key"))
	require.NoError(t, err)

	_, err = svc.Verify(expiredString)
	assert.ErrorIs(t, err, storage.ErrUnauthenticated)
}

func TestRequireOwner(t *testing.T) {
	ownerID := uuid.New()

	tests := []struct {
		name     string
		owner    uuid.UUID
		identity *Identity
		wantErr  bool
	}{
		{"matching owner", ownerID, &Identity{UserID: ownerID}, false},
		{"different owner", ownerID, &Identity{UserID: uuid.New()}, true},
		{"zero owner fails closed", uuid.Nil, &Identity{UserID: uuid.Nil}, true},
		{"missing identity", ownerID, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := RequireOwner(tt.owner, tt.identity)
			if tt.wantErr {
				assert.ErrorIs(t, err, storage.ErrForbidden)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCheckAuthMiddleware(t *testing.T) {
	svc, u := testService(t)
	token, _, err := svc.Login(context.Background(), u.Email, "secret123")
	require.NoError(t, err)

	var seen *Identity
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = IdentityFrom(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	handler := CheckAuth(svc)(next)

	t.Run("valid token passes identity through", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, seen)
		assert.Equal(t, u.ID, seen.UserID)
	})

	t.Run("missing header is rejected", func(t *testing.T) {
		seen = nil
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Nil(t, seen)
	})

	t.Run("mangled token is rejected", func(t *testing.T) {
		seen = nil
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer not-a-token")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Nil(t, seen)
	})
}
