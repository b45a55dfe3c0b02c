package config

import (
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	httpctrl "github.com/paulmccormack00/risk-assessments/pkg/controller/http"
	"github.com/paulmccormack00/risk-assessments/pkg/domain/model/auth"
	"github.com/paulmccormack00/risk-assessments/pkg/domain/types"
	"github.com/urfave/cli/v3"
)

// Actor selects how the HTTP server identifies the acting user. Login is
// handled by an authenticating proxy in front of the server.
type Actor struct {
	trustedHeaders bool
	noAuthUser     string
	noAuthEmail    string
	noAuthRole     string
}

func (x *Actor) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:        "trusted-headers",
			Category:    "Actor",
			Usage:       "Read the actor from X-Complio-* headers set by an authenticating proxy",
			Sources:     cli.EnvVars("COMPLIO_TRUSTED_HEADERS"),
			Destination: &x.trustedHeaders,
		},
		&cli.StringFlag{
			Name:        "no-auth",
			Category:    "Actor",
			Usage:       "Attribute every request to this user ID (development only)",
			Sources:     cli.EnvVars("COMPLIO_NO_AUTH"),
			Destination: &x.noAuthUser,
		},
		&cli.StringFlag{
			Name:        "no-auth-email",
			Category:    "Actor",
			Usage:       "Email of the --no-auth user",
			Sources:     cli.EnvVars("COMPLIO_NO_AUTH_EMAIL"),
			Destination: &x.noAuthEmail,
		},
		&cli.StringFlag{
			Name:        "no-auth-role",
			Category:    "Actor",
			Usage:       "Role of the --no-auth user [admin|user]",
			Value:       string(types.RoleAdmin),
			Sources:     cli.EnvVars("COMPLIO_NO_AUTH_ROLE"),
			Destination: &x.noAuthRole,
		},
	}
}

func (x Actor) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Bool("trusted_headers", x.trustedHeaders),
		slog.String("no_auth_user", x.noAuthUser),
		slog.String("no_auth_role", x.noAuthRole),
	)
}

// Configure returns the actor resolver for the HTTP server. Without any
// setting all requests are anonymous: they can read and edit assessments but
// cannot validate them or change scoring.
func (x *Actor) Configure() (httpctrl.ActorFunc, error) {
	if x.trustedHeaders && x.noAuthUser != "" {
		return nil, goerr.Wrap(ErrInvalidConfig, "--trusted-headers and --no-auth are mutually exclusive")
	}

	switch {
	case x.trustedHeaders:
		return httpctrl.HeaderActor, nil
	case x.noAuthUser != "":
		role, err := types.ParseRole(x.noAuthRole)
		if err != nil {
			return nil, goerr.Wrap(ErrInvalidConfig, "invalid no-auth role", goerr.V("role", x.noAuthRole))
		}
		return httpctrl.StaticActor(auth.NewToken(x.noAuthUser, x.noAuthEmail, x.noAuthUser, role)), nil
	default:
		return httpctrl.AnonymousActor, nil
	}
}

// IsNoAuthMode reports whether every request runs as a fixed user
func (x *Actor) IsNoAuthMode() bool {
	return x.noAuthUser != ""
}
