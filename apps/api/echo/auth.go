package echoapi

import (
	"net/http"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo/core"
	"github.com/trezcool/masomo/core/session"
	"github.com/trezcool/masomo/core/user"
)

const (
	contextTokenKey   = "userToken"
	contextUserKey    = "user"
	contextSessionKey = "session"
)

type authConfig struct {
	jwt      middleware.JWTConfig
	issuer   string
	lifetime time.Duration
}

func newAuthConfig(conf *core.Config) authConfig {
	return authConfig{
		jwt: middleware.JWTConfig{
			SigningKey:    []byte(conf.SecretKey),
			SigningMethod: middleware.AlgorithmHS256,
			ContextKey:    contextTokenKey,
			Claims:        new(Claims),
		},
		issuer:   conf.AppName,
		lifetime: conf.Server.JWTExpirationDelta,
	}
}

// Claims represents the authorization claims transmitted via a JWT.
// The token Id keys the session's identity store; the Role picks the view set.
type Claims struct {
	jwt.StandardClaims
	Name  string    `json:"name,omitempty"`
	Email string    `json:"email,omitempty"`
	Role  user.Role `json:"role,omitempty"`
}

func (conf authConfig) userClaims(usr user.User, sessionKey string) *Claims {
	now := time.Now()
	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Id:        sessionKey,
			Issuer:    conf.issuer,
			Subject:   usr.ID,
			ExpiresAt: now.Add(conf.lifetime).Unix(),
			IssuedAt:  now.Unix(),
		},
		Name:  usr.Name,
		Email: usr.Email,
		Role:  usr.Role,
	}
}

// generateToken signs a JWT for usr's session.
func (conf authConfig) generateToken(usr user.User, sessionKey string) (string, error) {
	method := jwt.GetSigningMethod(conf.jwt.SigningMethod)
	token := jwt.NewWithClaims(method, conf.userClaims(usr, sessionKey))

	ss, err := token.SignedString(conf.jwt.SigningKey)
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(contextTokenKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}

func getContextUser(ctx echo.Context) (user.User, error) {
	if usr, ok := ctx.Get(contextUserKey).(user.User); ok {
		return usr, nil
	}
	return user.User{}, errUnauthorized
}

func getContextSession(ctx echo.Context) (*session.Manager, error) {
	if mgr, ok := ctx.Get(contextSessionKey).(*session.Manager); ok {
		return mgr, nil
	}
	return nil, errUnauthorized
}

type authAPI struct {
	server *Server
}

func registerAuthAPI(g *echo.Group, authed []echo.MiddlewareFunc, server *Server) {
	api := authAPI{server: server}

	ag := g.Group("/auth")
	ag.POST("/login", api.login)
	ag.GET("/roles", api.roles)
	ag.POST("/logout", api.logout, authed...)
	ag.GET("/me", api.me, authed...)
}

func (api *authAPI) login(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	if err := data.Validate(api.server.deps.Validate); err != nil {
		return err
	}

	key := uuid.NewString()
	usr, err := api.server.newSession(key).Login(ctx.Request().Context(), data.Email, data.Password, data.Role)
	if err != nil {
		return err
	}
	token, err := api.server.auth.generateToken(usr, key)
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	return ctx.JSON(http.StatusOK, LoginResponse{Token: token, User: usr})
}

func (api *authAPI) logout(ctx echo.Context) error {
	mgr, err := getContextSession(ctx)
	if err != nil {
		return err
	}
	if err := mgr.Logout(); err != nil {
		return errors.Wrap(err, "signing out")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *authAPI) me(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, usr)
}

func (api *authAPI) roles(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, user.Roles)
}

type (
	LoginRequest struct {
		Email    string    `json:"email" validate:"required,email"`
		Password string    `json:"password"`
		Role     user.Role `json:"role" validate:"required"`
	}

	LoginResponse struct {
		Token string    `json:"token"`
		User  user.User `json:"user"`
	}
)

func (lr *LoginRequest) Validate(validate *validator.Validate) error {
	lr.Email = core.CleanString(lr.Email, true /* lower */)
	return validate.Struct(lr)
}
