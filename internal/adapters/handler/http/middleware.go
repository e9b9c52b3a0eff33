package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/astroarts/contest/internal/adapters/auth"
	"github.com/astroarts/contest/internal/core/domain"
)

type contextKey string

const IdentityKey contextKey = "identity"

// IdentityMiddleware resolves the request's identity from the bearer token.
// Requests without a usable token get a fresh anonymous device identity and
// its token back in the X-Device-Token header, so a first visit needs no
// signup step.
func IdentityMiddleware(tokens *auth.DeviceTokens) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := identityFromRequest(tokens, r)
			if !ok {
				deviceID, err := tokens.Anonymous(r.Context())
				if err != nil {
					http.Error(w, "failed to issue identity", http.StatusInternalServerError)
					return
				}
				identity = domain.Guest(deviceID)

				token, err := tokens.Issue(identity)
				if err != nil {
					http.Error(w, "failed to issue identity", http.StatusInternalServerError)
					return
				}
				w.Header().Set("X-Device-Token", token)
			}

			ctx := context.WithValue(r.Context(), IdentityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func identityFromRequest(tokens *auth.DeviceTokens, r *http.Request) (domain.Identity, bool) {
	header := r.Header.Get("Authorization")
	tokenStr, found := strings.CutPrefix(header, "Bearer ")
	if !found || tokenStr == "" {
		return domain.Identity{}, false
	}

	identity, err := tokens.Parse(tokenStr)
	if err != nil {
		return domain.Identity{}, false
	}
	return identity, true
}

func requestIdentity(r *http.Request) (domain.Identity, bool) {
	identity, ok := r.Context().Value(IdentityKey).(domain.Identity)
	return identity, ok
}
