package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/fintrack/fintrack/internal/config"
	"github.com/fintrack/fintrack/internal/domain/user"
	"github.com/fintrack/fintrack/internal/http/middlewares"
	"github.com/fintrack/fintrack/internal/observability"
	"github.com/fintrack/fintrack/internal/session"
	"github.com/gin-gonic/gin"
)

type Registrar interface {
	Register(ctx context.Context, name, email, password string) (user.User, error)
}

type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (user.User, error)
}

// SessionManager is the handler-side view of internal/session.Manager.
type SessionManager interface {
	Start(ctx context.Context, u user.User) (session.Session, error)
	Current(ctx context.Context, token string) (session.Identity, error)
	End(ctx context.Context, token string) error
	TTL() time.Duration
}

type AuthHandler struct {
	registrar     Registrar
	authenticator Authenticator
	sessions      SessionManager
	prom          *observability.Prom
	cfg           config.Config
}

func NewAuthHandler(registrar Registrar, authenticator Authenticator, sessions SessionManager, prom *observability.Prom, cfg config.Config) *AuthHandler {
	return &AuthHandler{
		registrar:     registrar,
		authenticator: authenticator,
		sessions:      sessions,
		prom:          prom,
		cfg:           cfg,
	}
}

type registerVM struct {
	Error string
	Name  string
	Email string
}

type loginVM struct {
	Error string
	Email string
}

// Home routes the bare domain: straight to the dashboard with a live
// session, to login without one.
func (h *AuthHandler) Home(ctx *gin.Context) {
	token, err := ctx.Cookie(middlewares.SessionCookieName)

	if err == nil && token != "" {
		if _, err := h.sessions.Current(ctx.Request.Context(), token); err == nil {
			ctx.Redirect(http.StatusFound, "/dashboard")
			return
		}
	}

	ctx.Redirect(http.StatusFound, "/login")
}

func (h *AuthHandler) RegisterForm(ctx *gin.Context) {
	ctx.HTML(http.StatusOK, "register.html", registerVM{})
}

func (h *AuthHandler) Register(ctx *gin.Context) {
	var req user.RegisterRequest

	if err := ctx.ShouldBind(&req); err != nil {
		ctx.HTML(http.StatusBadRequest, "register.html", registerVM{
			Error: FormErrorMessage(err),
			Name:  req.Name,
			Email: req.Email,
		})
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	_, err := h.registrar.Register(cctx, req.Name, req.Email, req.Password)

	if err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			ctx.HTML(http.StatusOK, "register.html", registerVM{
				Error: "That email is already registered.",
				Name:  req.Name,
				Email: req.Email,
			})
			return
		}

		ctx.HTML(http.StatusInternalServerError, "register.html", registerVM{
			Error: "Could not create the account. Try again.",
			Name:  req.Name,
			Email: req.Email,
		})
		return
	}

	ctx.Redirect(http.StatusFound, "/login")
}

func (h *AuthHandler) LoginForm(ctx *gin.Context) {
	ctx.HTML(http.StatusOK, "login.html", loginVM{})
}

func (h *AuthHandler) Login(ctx *gin.Context) {
	var req user.LoginRequest

	if err := ctx.ShouldBind(&req); err != nil {
		ctx.HTML(http.StatusBadRequest, "login.html", loginVM{
			Error: FormErrorMessage(err),
			Email: req.Email,
		})
		return
	}

	// short timeout for the lookup + bcrypt compare
	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	u, err := h.authenticator.Authenticate(cctx, req.Email, req.Password)

	if err != nil {
		h.prom.LoginsTotal.WithLabelValues("failed").Inc()

		// one message for unknown email and wrong password
		ctx.HTML(http.StatusOK, "login.html", loginVM{
			Error: "Email or password is incorrect.",
			Email: req.Email,
		})
		return
	}

	s, err := h.sessions.Start(cctx, u)

	if err != nil {
		ctx.HTML(http.StatusInternalServerError, "login.html", loginVM{
			Error: "Could not start a session. Try again.",
			Email: req.Email,
		})
		return
	}

	h.prom.LoginsTotal.WithLabelValues("ok").Inc()

	h.setSessionCookie(ctx, s)

	ctx.Redirect(http.StatusFound, "/dashboard")
}

func (h *AuthHandler) Logout(ctx *gin.Context) {
	token, err := ctx.Cookie(middlewares.SessionCookieName)

	if err == nil && token != "" {
		// best effort; the cookie is cleared either way
		_ = h.sessions.End(ctx.Request.Context(), token)
	}

	h.clearSessionCookie(ctx)

	ctx.Redirect(http.StatusFound, "/login")
}

// Cookie helpers

func (h *AuthHandler) setSessionCookie(ctx *gin.Context, s session.Session) {
	secure := h.cfg.Env == "prod"

	// zero expiry = browser-session cookie
	maxAge := 0

	if !s.ExpiresAt.IsZero() {
		maxAge = int(time.Until(s.ExpiresAt).Seconds())
	}

	ctx.SetSameSite(http.SameSiteLaxMode)

	ctx.SetCookie(
		middlewares.SessionCookieName,
		s.Token,
		maxAge,
		"/",
		"",
		secure,
		true, // HttpOnly.
	)
}

func (h *AuthHandler) clearSessionCookie(ctx *gin.Context) {
	secure := h.cfg.Env == "prod"
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(
		middlewares.SessionCookieName,
		"",
		-1,
		"/",
		"",
		secure,
		true,
	)
}
