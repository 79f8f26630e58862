package auth

import (
	"net/http"
)

// LocalAuthenticator resolves the acting user from trusted gateway headers.
// Token verification happens upstream; this service only consumes the
// resolved identity.
type LocalAuthenticator struct{}

func NewLocalAuthenticator() (*LocalAuthenticator, error) {
	return &LocalAuthenticator{}, nil
}

func (a *LocalAuthenticator) Authenticator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		username := r.Header.Get("X-Forwarded-User")
		if username == "" {
			http.Error(w, "no user header found", http.StatusUnauthorized)
			return
		}

		user := User{
			Username:     username,
			Organization: r.Header.Get("X-Forwarded-Org"),
			Role:         r.Header.Get("X-Forwarded-Role"),
		}
		if user.Role == "" {
			http.Error(w, "no role header found", http.StatusUnauthorized)
			return
		}

		ctx := NewTokenContext(r.Context(), user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
