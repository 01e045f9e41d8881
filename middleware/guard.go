package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"

	keymint "github.com/keymint/keymint"
)

type userContextKey struct{}

// UserContextFromRequest returns the validated user context stored by [Guard].
func UserContextFromRequest(ctx context.Context) (*keymint.UserContext, bool) {
	uc, ok := ctx.Value(userContextKey{}).(*keymint.UserContext)
	return uc, ok
}

// Guard wraps a handler with bearer-token authentication: it extracts the
// Authorization bearer token, validates it through the manager, and maps an
// invalid token to 401. On success the user context is available to the next
// handler via [UserContextFromRequest].
func Guard(manager *keymint.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if manager == nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := keymint.WithClientIP(r.Context(), remoteIP(r))
			uc, err := manager.ValidateToken(ctx, token)
			if err != nil {
				// ErrTokenInvalid and storage failures both end the request
				// here; the status hides which one occurred.
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			ctx = context.WithValue(ctx, userContextKey{}, uc)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireScopes wraps a handler behind [Guard] and additionally demands that
// the validated context carries every listed scope.
func RequireScopes(scopes ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			uc, ok := UserContextFromRequest(r.Context())
			if !ok {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			granted := make(map[string]struct{}, len(uc.Scopes))
			for _, s := range uc.Scopes {
				granted[s] = struct{}{}
			}
			for _, want := range scopes {
				if _, ok := granted[want]; !ok {
					http.Error(w, "forbidden", http.StatusForbidden)
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(value string) (string, bool) {
	const bearer = "Bearer "
	if !strings.HasPrefix(value, bearer) {
		return "", false
	}

	token := value[len(bearer):]
	if token == "" {
		return "", false
	}

	return token, true
}

func remoteIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
