package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"

	"travelbook/pkg/errors"
	apphttp "travelbook/pkg/http"
	"travelbook/pkg/model"
	"travelbook/pkg/token"
)

const claimsKey contextKey = "auth_claims"

// Auth wraps httprouter handles with bearer token checks. Required
// rejects anonymous requests, AdminOnly additionally gates on role.
type Auth struct {
	tokens *token.Manager
}

func NewAuth(tokens *token.Manager) *Auth {
	return &Auth{tokens: tokens}
}

func (a *Auth) Required(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		claims, err := a.authenticate(r)
		if err != nil {
			apphttp.WriteError(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey, claims)
		next(w, r.WithContext(ctx), ps)
	}
}

func (a *Auth) AdminOnly(next httprouter.Handle) httprouter.Handle {
	return a.Required(func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		claims, _ := ClaimsFromContext(r.Context())
		if claims == nil || claims.Role != model.RoleAdmin {
			apphttp.WriteError(w, errors.Forbidden("admin access required"))
			return
		}
		next(w, r, ps)
	})
}

func (a *Auth) authenticate(r *http.Request) (*token.Claims, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return nil, errors.Unauthorized("missing authorization header")
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil, errors.Unauthorized("malformed authorization header")
	}

	claims, err := a.tokens.Verify(parts[1])
	if err != nil {
		return nil, errors.Unauthorized("invalid or expired token")
	}
	return claims, nil
}

func ClaimsFromContext(ctx context.Context) (*token.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*token.Claims)
	return claims, ok
}
