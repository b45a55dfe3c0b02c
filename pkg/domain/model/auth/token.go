package auth

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/paulmccormack00/risk-assessments/pkg/domain/types"
)

// AnonymousUserID is the subject of a request without an identified actor
const AnonymousUserID = "anonymous"

// ErrNoToken is returned when the context carries no token
var ErrNoToken = goerr.New("no auth token in context")

// Token identifies the actor of a request. Authentication itself happens in
// front of this service; Token only carries the result.
type Token struct {
	Sub   string     `json:"sub"`
	Email string     `json:"email,omitempty"`
	Name  string     `json:"name,omitempty"`
	Role  types.Role `json:"role"`
}

// NewToken creates a token for an identified user
func NewToken(sub, email, name string, role types.Role) *Token {
	return &Token{
		Sub:   sub,
		Email: email,
		Name:  name,
		Role:  role,
	}
}

// NewAnonymousUser creates a token for an unidentified actor
func NewAnonymousUser() *Token {
	return &Token{
		Sub:  AnonymousUserID,
		Name: "Anonymous",
		Role: types.RoleUser,
	}
}

// IsAnonymous reports whether the token has no real identity
func (t *Token) IsAnonymous() bool {
	return t == nil || t.Sub == "" || t.Sub == AnonymousUserID
}

// IsAdmin reports whether the actor may change organization settings
func (t *Token) IsAdmin() bool {
	return !t.IsAnonymous() && t.Role == types.RoleAdmin
}

type ctxTokenKey struct{}

// ContextWithToken returns a context carrying token
func ContextWithToken(ctx context.Context, token *Token) context.Context {
	return context.WithValue(ctx, ctxTokenKey{}, token)
}

// TokenFromContext returns the token stored by ContextWithToken
func TokenFromContext(ctx context.Context) (*Token, error) {
	token, ok := ctx.Value(ctxTokenKey{}).(*Token)
	if !ok || token == nil {
		return nil, ErrNoToken
	}
	return token, nil
}
