package authhandlers

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	authservice "github.com/Black-And-White-Club/fivem-portal/app/modules/auth/application"
	authdomain "github.com/Black-And-White-Club/fivem-portal/app/modules/auth/domain"
	authmiddleware "github.com/Black-And-White-Club/fivem-portal/app/modules/auth/infrastructure/middleware"
	"github.com/Black-And-White-Club/fivem-portal/app/modules/auth/infrastructure/permissions"
	"github.com/Black-And-White-Club/fivem-portal/app/shared/observability/attr"
	"github.com/Black-And-White-Club/fivem-portal/app/shared/web"
	"go.opentelemetry.io/otel/trace"
)

// Login error codes passed to the front-end as /login?error=.
const (
	LoginErrorDenied      = "access_denied"
	LoginErrorState       = "invalid_state"
	LoginErrorOAuth       = "oauth_failed"
	LoginErrorUnavailable = "login_unavailable"
)

// AuthHandlers implements the Handlers interface.
type AuthHandlers struct {
	service  authservice.Service
	checker  permissions.Checker
	cookies  authmiddleware.Cookies
	stateTTL time.Duration
	logger   *slog.Logger
	tracer   trace.Tracer
}

// NewAuthHandlers creates a new AuthHandlers instance.
func NewAuthHandlers(
	service authservice.Service,
	checker permissions.Checker,
	cookies authmiddleware.Cookies,
	stateTTL time.Duration,
	logger *slog.Logger,
	tracer trace.Tracer,
) Handlers {
	if stateTTL <= 0 {
		stateTTL = authservice.DefaultStateTTL
	}
	return &AuthHandlers{
		service:  service,
		checker:  checker,
		cookies:  cookies,
		stateTTL: stateTTL,
		logger:   logger,
		tracer:   tracer,
	}
}

// MeResponse is the body of GET /api/auth/me.
type MeResponse struct {
	UserID      string   `json:"user_id"`
	DiscordID   string   `json:"discord_id"`
	Username    string   `json:"username"`
	DisplayName string   `json:"display_name"`
	Avatar      string   `json:"avatar,omitempty"`
	InGuild     bool     `json:"in_guild"`
	Roles       []string `json:"roles"`
	Permissions []string `json:"permissions"`
}

// HandleLogin redirects the browser to Discord.
func (h *AuthHandlers) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "AuthHandlers.HandleLogin")
	defer span.End()

	redirect, err := h.service.BeginLogin(ctx, r.URL.Query().Get("return_to"))
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to begin login", attr.Error(err))
		redirectToLogin(w, r, LoginErrorUnavailable)
		return
	}

	h.cookies.SetState(w, redirect.Nonce, h.stateTTL)
	http.Redirect(w, r, redirect.URL, http.StatusFound)
}

// HandleCallback completes the OAuth flow and sets the session cookie.
func (h *AuthHandlers) HandleCallback(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "AuthHandlers.HandleCallback")
	defer span.End()

	q := r.URL.Query()
	nonce := h.cookies.StateNonce(r)
	h.cookies.ClearState(w)

	if oauthErr := q.Get("error"); oauthErr != "" {
		h.logger.InfoContext(ctx, "Discord authorization declined", attr.String("error", oauthErr))
		redirectToLogin(w, r, LoginErrorDenied)
		return
	}

	result, err := h.service.CompleteLogin(ctx, q.Get("code"), q.Get("state"), nonce, authdomain.RequestMeta{
		UserAgent: r.UserAgent(),
		IPAddress: authmiddleware.ClientIP(r),
	})
	if err != nil {
		switch {
		case errors.Is(err, authservice.ErrInvalidState), errors.Is(err, authservice.ErrMissingCode):
			redirectToLogin(w, r, LoginErrorState)
		case errors.Is(err, authservice.ErrOAuthExchange):
			redirectToLogin(w, r, LoginErrorOAuth)
		default:
			h.logger.ErrorContext(ctx, "Login failed", attr.Error(err))
			redirectToLogin(w, r, LoginErrorUnavailable)
		}
		return
	}

	h.cookies.SetSession(w, result.Token, result.ExpiresAt)
	http.Redirect(w, r, authdomain.SanitizeReturnTo(result.ReturnTo), http.StatusFound)
}

// HandleMe returns the current principal with its permissions.
func (h *AuthHandlers) HandleMe(w http.ResponseWriter, r *http.Request) {
	p := authdomain.PrincipalFromContext(r.Context())
	if p == nil {
		web.WriteError(w, http.StatusUnauthorized, web.CodeUnauthorized, "login required")
		return
	}

	web.WriteJSON(w, http.StatusOK, MeResponse{
		UserID:      p.UserID.String(),
		DiscordID:   p.DiscordID,
		Username:    p.Username,
		DisplayName: p.DisplayName(),
		Avatar:      p.Avatar,
		InGuild:     p.InGuild,
		Roles:       p.Roles.Strings(),
		Permissions: h.checker.Permissions(p.Roles),
	})
}

// HandleLogout revokes the session and clears the cookie.
func (h *AuthHandlers) HandleLogout(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "AuthHandlers.HandleLogout")
	defer span.End()

	err := h.service.Logout(ctx, h.cookies.SessionToken(r))
	h.cookies.ClearSession(w)
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to revoke session", attr.Error(err))
		web.WriteError(w, http.StatusInternalServerError, web.CodeInternal, "logout failed")
		return
	}
	web.WriteNoContent(w)
}

func redirectToLogin(w http.ResponseWriter, r *http.Request, code string) {
	http.Redirect(w, r, "/login?error="+url.QueryEscape(code), http.StatusFound)
}
