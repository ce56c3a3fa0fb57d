package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/ewpharma/tradelink-backend/internal/storage"
	"github.com/ewpharma/tradelink-backend/internal/web"
	"github.com/google/uuid"
)

type contextKey string

const identityKey contextKey = "identity"

// CheckAuth validates the Authorization header and stores the caller
// identity in the request context. Failures answer 403, matching the
// upstream API's status choice for bad credentials.
func CheckAuth(service Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
				web.Fail(w, storage.ErrUnauthenticated, "Authentication failed!")
				return
			}

			identity, err := service.Verify(parts[1])
			if err != nil {
				web.Fail(w, storage.ErrUnauthenticated, "Authentication failed!")
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IdentityFrom extracts the verified caller from the request context.
func IdentityFrom(ctx context.Context) (*Identity, bool) {
	identity, ok := ctx.Value(identityKey).(*Identity)
	return identity, ok
}

// RequireOwner compares a record's owner reference against the caller.
// A zero owner id fails closed: a record with no owner is nobody's to edit.
func RequireOwner(ownerID uuid.UUID, identity *Identity) error {
	if identity == nil || ownerID == uuid.Nil || ownerID != identity.UserID {
		return storage.ErrForbidden
	}
	return nil
}
