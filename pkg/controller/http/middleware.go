package http

import (
	"net/http"
	"strings"

	"github.com/paulmccormack00/risk-assessments/pkg/domain/model/auth"
	"github.com/paulmccormack00/risk-assessments/pkg/domain/types"
	"github.com/paulmccormack00/risk-assessments/pkg/utils/logging"
)

// ActorFunc derives the acting user of a request. Authentication happens in
// front of this service; an ActorFunc only reads its result.
type ActorFunc func(r *http.Request) *auth.Token

// AnonymousActor treats every request as unidentified
func AnonymousActor(r *http.Request) *auth.Token {
	return auth.NewAnonymousUser()
}

// StaticActor attributes every request to token. Used for single-user
// deployments without an authenticating proxy.
func StaticActor(token *auth.Token) ActorFunc {
	return func(r *http.Request) *auth.Token {
		return token
	}
}

// Header names read by HeaderActor
const (
	HeaderUser  = "X-Complio-User"
	HeaderEmail = "X-Complio-Email"
	HeaderName  = "X-Complio-Name"
	HeaderRole  = "X-Complio-Role"
)

// HeaderActor reads the actor from headers set by a trusted authenticating
// proxy. Requests without a user header are anonymous and an unknown role
// falls back to user.
func HeaderActor(r *http.Request) *auth.Token {
	sub := strings.TrimSpace(r.Header.Get(HeaderUser))
	if sub == "" {
		return auth.NewAnonymousUser()
	}

	role, err := types.ParseRole(strings.ToLower(strings.TrimSpace(r.Header.Get(HeaderRole))))
	if err != nil {
		role = types.RoleUser
	}
	return auth.NewToken(sub, r.Header.Get(HeaderEmail), r.Header.Get(HeaderName), role)
}

// actorMiddleware stores the request actor in the context and tags the
// request logger with it
func actorMiddleware(actor ActorFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := actor(r)
			if token == nil {
				token = auth.NewAnonymousUser()
			}

			ctx := auth.ContextWithToken(r.Context(), token)
			ctx = logging.With(ctx, logging.From(ctx).With("actor", token.Sub))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
