package utils

import (
	"github.com/kataras/iris/v12"

	"golang.org/x/exp/slices"
)

const identityContextKey = "wps.identity"

// EnsureIdentity resolves the session cookie once per request and caches the
// identity in the request context.
func EnsureIdentity(ctx iris.Context) (*Identity, error) {
	if v := ctx.Values().Get(identityContextKey); v != nil {
		return v.(*Identity), nil
	}
	ident, err := ResolveSessionToken(ctx.GetCookie(SessionCookieName))
	if err != nil {
		return nil, err
	}
	ctx.Values().Set(identityContextKey, ident)
	return ident, nil
}

// CurrentIdentity returns the caller's identity or nil. It never writes a
// response, so public routes can use it for optional personalization.
func CurrentIdentity(ctx iris.Context) *Identity {
	ident, err := EnsureIdentity(ctx)
	if err != nil {
		return nil
	}
	return ident
}

// RequireSession rejects requests without a resolvable identity. Missing and
// invalid sessions are both 401; the message distinguishes them.
func RequireSession(ctx iris.Context) {
	if _, err := EnsureIdentity(ctx); err != nil {
		switch err {
		case ErrNoSession:
			CreateUnauthenticated(ctx)
		case ErrUserNotFound:
			CreateError(iris.StatusUnauthorized, "Unauthenticated", "No account matches this session.", ctx)
		default:
			CreateError(iris.StatusUnauthorized, "Unauthenticated", "Session is invalid or expired.", ctx)
		}
		return
	}
	ctx.Next()
}

// RequireRoles is the single place role authorization happens. A missing
// identity is 401; a resolved identity with a role outside the accepted set
// is 403, never 401. Roles are matched exactly, there is no hierarchy:
// application_admin does not imply super_admin or vice versa.
func RequireRoles(roles ...string) iris.Handler {
	return func(ctx iris.Context) {
		ident, err := EnsureIdentity(ctx)
		if err != nil {
			if err == ErrNoSession {
				CreateUnauthenticated(ctx)
			} else {
				CreateError(iris.StatusUnauthorized, "Unauthenticated", "Session is invalid or expired.", ctx)
			}
			return
		}
		if !slices.Contains(roles, ident.Role) {
			CreateForbidden(ctx)
			return
		}
		ctx.Next()
	}
}
