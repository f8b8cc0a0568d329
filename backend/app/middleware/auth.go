package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"storyhub/backend/app/services"
	"storyhub/backend/global"
)

type ctxKey int

const IdentityKey ctxKey = 1

type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*services.Identity, error)
}

type Auth struct{ Tokens TokenVerifier }

func (a *Auth) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := a.authenticate(w, r)
		if !ok {
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), IdentityKey, id)))
	})
}

func (a *Auth) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := a.authenticate(w, r)
		if !ok {
			return
		}
		if !id.IsAdmin {
			writeError(w, http.StatusForbidden, "not enough permissions")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), IdentityKey, id)))
	})
}

// Optional attaches the identity when a valid token is present and lets
// anonymous requests through otherwise.
func (a *Auth) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if ok {
			if id, err := a.Tokens.Verify(r.Context(), token); err == nil {
				r = r.WithContext(context.WithValue(r.Context(), IdentityKey, id))
			}
		}
		next.ServeHTTP(w, r)
	})
}

func (a *Auth) authenticate(w http.ResponseWriter, r *http.Request) (*services.Identity, bool) {
	token, ok := bearerToken(r)
	if !ok {
		w.Header().Set("WWW-Authenticate", "Bearer")
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return nil, false
	}
	id, err := a.Tokens.Verify(r.Context(), token)
	if err != nil {
		if errors.Is(err, services.ErrUnauthorized) {
			w.Header().Set("WWW-Authenticate", "Bearer")
			writeError(w, http.StatusUnauthorized, "could not validate credentials")
			return nil, false
		}
		global.Logger.Error().Err(err).Msg("token verification failed")
		writeError(w, http.StatusInternalServerError, "internal error")
		return nil, false
	}
	return id, true
}

func bearerToken(r *http.Request) (string, bool) {
	authz := r.Header.Get("Authorization")
	if !strings.HasPrefix(authz, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer "))
	return token, token != ""
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
