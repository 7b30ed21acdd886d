package echoapi

import (
	"github.com/labstack/echo/v4"

	"github.com/trezcool/masomo/core"
	"github.com/trezcool/masomo/core/session"
	"github.com/trezcool/masomo/core/user"
)

// sessionMiddleware restores the token's session. Tokens of signed-out sessions are rejected.
func (s *Server) sessionMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		claims, err := getContextClaims(ctx)
		if err != nil {
			return err
		}
		if claims.Id == "" {
			return errUnauthorized
		}

		mgr := s.newSession(claims.Id)
		state := mgr.Restore()
		if !state.IsAuthenticated() || state.User.ID != claims.Subject {
			return errUnauthorized
		}

		ctx.Set(contextSessionKey, mgr)
		ctx.Set(contextUserKey, *state.User)
		return next(ctx)
	}
}

func (s *Server) newSession(key string) *session.Manager {
	return session.NewManager(s.deps.Auth, s.deps.Stores(key), s.deps.Logger)
}

// roleMiddleware lets through the users holding one of roles; any role when none is given.
func roleMiddleware(roles ...user.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			var state session.State
			if usr, err := getContextUser(ctx); err == nil {
				state.User = &usr
			}
			if err := decisionError(session.Authorize(state, roles...)); err != nil {
				return err
			}
			return next(ctx)
		}
	}
}

func decisionError(d session.Decision) error {
	switch {
	case d.Allowed:
		return nil
	case d.Redirect == session.LoginPath:
		return errUnauthorized
	default:
		return permissionDenied(d.Redirect)
	}
}

// ownStudentOrStaffMiddleware lets students reach their own records only.
func ownStudentOrStaffMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		usr, err := getContextUser(ctx)
		if err != nil {
			return err
		}
		if usr.IsStudent() && ctx.Param("id") != usr.ID {
			return core.ErrPermissionDenied
		}
		return next(ctx)
	}
}
