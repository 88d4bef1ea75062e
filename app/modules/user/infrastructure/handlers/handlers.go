package userhandlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	authdomain "github.com/Black-And-White-Club/fivem-portal/app/modules/auth/domain"
	guildservice "github.com/Black-And-White-Club/fivem-portal/app/modules/guild/application"
	guilddomain "github.com/Black-And-White-Club/fivem-portal/app/modules/guild/domain"
	guilddiscord "github.com/Black-And-White-Club/fivem-portal/app/modules/guild/infrastructure/discord"
	userservice "github.com/Black-And-White-Club/fivem-portal/app/modules/user/application"
	userdb "github.com/Black-And-White-Club/fivem-portal/app/modules/user/infrastructure/repositories"
	"github.com/Black-And-White-Club/fivem-portal/app/shared/observability/attr"
	"github.com/Black-And-White-Club/fivem-portal/app/shared/web"
	"github.com/go-chi/chi/v5"
)

// UserHandlers implements Handlers.
type UserHandlers struct {
	service userservice.Service
	logger  *slog.Logger
}

// NewUserHandlers creates a new UserHandlers.
func NewUserHandlers(service userservice.Service, logger *slog.Logger) Handlers {
	return &UserHandlers{service: service, logger: logger}
}

type setRoleRequest struct {
	Role    string `json:"role" validate:"required"`
	Granted *bool  `json:"granted" validate:"required"`
}

type blacklistRequest struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

// HandleListUsers serves GET /api/admin/users?search=&page=&per_page=.
func (h *UserHandlers) HandleListUsers(w http.ResponseWriter, r *http.Request) {
	page := web.ParsePage(r)
	result, err := h.service.ListUsers(r.Context(), userdb.ListFilter{
		Search: strings.TrimSpace(r.URL.Query().Get("search")),
		Limit:  page.PerPage,
		Offset: page.Offset(),
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	web.WriteList(w, result.Users, page, result.Total)
}

// HandleGetUser serves GET /api/admin/users/{discordID}.
func (h *UserHandlers) HandleGetUser(w http.ResponseWriter, r *http.Request) {
	detail, err := h.service.GetUser(r.Context(), chi.URLParam(r, "discordID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	web.WriteJSON(w, http.StatusOK, detail)
}

// HandleSetRole serves POST /api/admin/users/{discordID}/roles.
func (h *UserHandlers) HandleSetRole(w http.ResponseWriter, r *http.Request) {
	var req setRoleRequest
	if err := web.DecodeAndValidate(r, &req); err != nil {
		web.WriteDecodeError(w, err)
		return
	}

	actor := authdomain.PrincipalFromContext(r.Context())
	err := h.service.SetRole(r.Context(), actor.DiscordID, chi.URLParam(r, "discordID"), guilddomain.Role(req.Role), *req.Granted)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	web.WriteNoContent(w)
}

// HandleBlacklist serves POST /api/admin/users/{discordID}/blacklist.
func (h *UserHandlers) HandleBlacklist(w http.ResponseWriter, r *http.Request) {
	var req blacklistRequest
	if err := web.DecodeAndValidate(r, &req); err != nil {
		web.WriteDecodeError(w, err)
		return
	}

	actor := authdomain.PrincipalFromContext(r.Context())
	entry, err := h.service.Blacklist(r.Context(), actor.DiscordID, chi.URLParam(r, "discordID"), req.Reason)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	web.WriteJSON(w, http.StatusCreated, entry)
}

// HandleUnblacklist serves DELETE /api/admin/users/{discordID}/blacklist.
func (h *UserHandlers) HandleUnblacklist(w http.ResponseWriter, r *http.Request) {
	actor := authdomain.PrincipalFromContext(r.Context())
	if err := h.service.Unblacklist(r.Context(), actor.DiscordID, chi.URLParam(r, "discordID")); err != nil {
		h.writeError(w, r, err)
		return
	}
	web.WriteNoContent(w)
}

// HandleListBlacklist serves GET /api/admin/blacklist?active=true.
func (h *UserHandlers) HandleListBlacklist(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active") != "false"
	entries, err := h.service.ListBlacklist(r.Context(), activeOnly)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	web.WriteJSON(w, http.StatusOK, entries)
}

func (h *UserHandlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, userservice.ErrUserNotFound):
		web.WriteError(w, http.StatusNotFound, web.CodeNotFound, err.Error())
	case errors.Is(err, userservice.ErrRoleNotAssignable), errors.Is(err, userservice.ErrReasonRequired):
		web.WriteError(w, http.StatusBadRequest, web.CodeBadRequest, err.Error())
	case errors.Is(err, userservice.ErrSelfAction):
		web.WriteError(w, http.StatusForbidden, web.CodeForbidden, err.Error())
	case errors.Is(err, userservice.ErrAlreadyBlacklisted),
		errors.Is(err, userservice.ErrNotBlacklisted),
		errors.Is(err, guildservice.ErrNotInGuild):
		web.WriteError(w, http.StatusConflict, web.CodeConflict, err.Error())
	case errors.Is(err, guilddiscord.ErrUnavailable),
		errors.Is(err, guildservice.ErrRoleNotConfigured),
		errors.Is(err, guildservice.ErrRoleNotFound):
		web.WriteError(w, http.StatusServiceUnavailable, web.CodeUnavailable, err.Error())
	default:
		h.logger.ErrorContext(r.Context(), "User admin request failed",
			attr.ExtractCorrelationID(r.Context()),
			attr.String("path", r.URL.Path),
			attr.Error(err),
		)
		web.WriteError(w, http.StatusInternalServerError, web.CodeInternal, "internal error")
	}
}
