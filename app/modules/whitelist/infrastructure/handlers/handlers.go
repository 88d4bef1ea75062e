package whitelisthandlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	authdomain "github.com/Black-And-White-Club/fivem-portal/app/modules/auth/domain"
	guildservice "github.com/Black-And-White-Club/fivem-portal/app/modules/guild/application"
	guilddiscord "github.com/Black-And-White-Club/fivem-portal/app/modules/guild/infrastructure/discord"
	whitelistservice "github.com/Black-And-White-Club/fivem-portal/app/modules/whitelist/application"
	whitelistdomain "github.com/Black-And-White-Club/fivem-portal/app/modules/whitelist/domain"
	whitelistdb "github.com/Black-And-White-Club/fivem-portal/app/modules/whitelist/infrastructure/repositories"
	"github.com/Black-And-White-Club/fivem-portal/app/shared/observability/attr"
	"github.com/Black-And-White-Club/fivem-portal/app/shared/web"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// WhitelistHandlers implements Handlers.
type WhitelistHandlers struct {
	service whitelistservice.Service
	logger  *slog.Logger
}

// NewWhitelistHandlers creates a new WhitelistHandlers.
func NewWhitelistHandlers(service whitelistservice.Service, logger *slog.Logger) Handlers {
	return &WhitelistHandlers{service: service, logger: logger}
}

type noteRequest struct {
	Note string `json:"note" validate:"max=1000"`
}

type reasonRequest struct {
	Reason string `json:"reason" validate:"required,max=1000"`
}

// HandleSubmit serves POST /api/whitelist.
func (h *WhitelistHandlers) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	var form whitelistdomain.Form
	if err := web.DecodeAndValidate(r, &form); err != nil {
		web.WriteDecodeError(w, err)
		return
	}

	req, err := h.service.Submit(r.Context(), authdomain.PrincipalFromContext(r.Context()), form)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	web.WriteJSON(w, http.StatusCreated, req)
}

// HandleGetMine serves GET /api/whitelist/me.
func (h *WhitelistHandlers) HandleGetMine(w http.ResponseWriter, r *http.Request) {
	req, err := h.service.GetMine(r.Context(), authdomain.PrincipalFromContext(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	web.WriteJSON(w, http.StatusOK, req)
}

// HandleList serves GET /api/admin/whitelist?status=&page=&per_page=.
func (h *WhitelistHandlers) HandleList(w http.ResponseWriter, r *http.Request) {
	status := whitelistdomain.Status(r.URL.Query().Get("status"))
	if status != "" && !status.IsValid() {
		web.WriteError(w, http.StatusBadRequest, web.CodeBadRequest, "unknown status")
		return
	}

	page := web.ParsePage(r)
	result, err := h.service.List(r.Context(), whitelistdb.ListFilter{
		Status: status,
		Limit:  page.PerPage,
		Offset: page.Offset(),
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	web.WriteList(w, result.Requests, page, result.Total)
}

// HandleStats serves GET /api/admin/whitelist/stats.
func (h *WhitelistHandlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	web.WriteJSON(w, http.StatusOK, stats)
}

// HandleGet serves GET /api/admin/whitelist/{id}.
func (h *WhitelistHandlers) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := requestID(w, r)
	if !ok {
		return
	}
	req, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	web.WriteJSON(w, http.StatusOK, req)
}

// HandleApprove serves POST /api/admin/whitelist/{id}/approve.
func (h *WhitelistHandlers) HandleApprove(w http.ResponseWriter, r *http.Request) {
	id, ok := requestID(w, r)
	if !ok {
		return
	}
	var body noteRequest
	if r.ContentLength != 0 {
		if err := web.DecodeAndValidate(r, &body); err != nil {
			web.WriteDecodeError(w, err)
			return
		}
	}

	reviewer := authdomain.PrincipalFromContext(r.Context())
	req, err := h.service.Approve(r.Context(), reviewer.DiscordID, id, body.Note)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	web.WriteJSON(w, http.StatusOK, req)
}

// HandleReject serves POST /api/admin/whitelist/{id}/reject.
func (h *WhitelistHandlers) HandleReject(w http.ResponseWriter, r *http.Request) {
	h.handleReasoned(w, r, h.service.Reject)
}

// HandleRevoke serves POST /api/admin/whitelist/{id}/revoke.
func (h *WhitelistHandlers) HandleRevoke(w http.ResponseWriter, r *http.Request) {
	h.handleReasoned(w, r, h.service.Revoke)
}

type reasonedFunc func(ctx context.Context, reviewerDiscordID string, id uuid.UUID, reason string) (*whitelistdb.Request, error)

func (h *WhitelistHandlers) handleReasoned(w http.ResponseWriter, r *http.Request, fn reasonedFunc) {
	id, ok := requestID(w, r)
	if !ok {
		return
	}
	var body reasonRequest
	if err := web.DecodeAndValidate(r, &body); err != nil {
		web.WriteDecodeError(w, err)
		return
	}

	reviewer := authdomain.PrincipalFromContext(r.Context())
	req, err := fn(r.Context(), reviewer.DiscordID, id, body.Reason)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	web.WriteJSON(w, http.StatusOK, req)
}

func requestID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		web.WriteError(w, http.StatusBadRequest, web.CodeBadRequest, "invalid request id")
		return uuid.Nil, false
	}
	return id, true
}

func (h *WhitelistHandlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, whitelistservice.ErrNotFound):
		web.WriteError(w, http.StatusNotFound, web.CodeNotFound, err.Error())
	case errors.Is(err, whitelistservice.ErrReasonRequired):
		web.WriteError(w, http.StatusBadRequest, web.CodeBadRequest, err.Error())
	case errors.Is(err, whitelistservice.ErrBlacklisted), errors.Is(err, whitelistservice.ErrSelfReview):
		web.WriteError(w, http.StatusForbidden, web.CodeForbidden, err.Error())
	case errors.Is(err, whitelistservice.ErrAlreadyWhitelisted),
		errors.Is(err, whitelistservice.ErrPendingExists),
		errors.Is(err, whitelistservice.ErrReapplyCooldown),
		errors.Is(err, whitelistservice.ErrInvalidTransition),
		errors.Is(err, guildservice.ErrNotInGuild):
		web.WriteError(w, http.StatusConflict, web.CodeConflict, err.Error())
	case errors.Is(err, guilddiscord.ErrUnavailable),
		errors.Is(err, guildservice.ErrRoleNotConfigured),
		errors.Is(err, guildservice.ErrRoleNotFound):
		web.WriteError(w, http.StatusServiceUnavailable, web.CodeUnavailable, err.Error())
	default:
		h.logger.ErrorContext(r.Context(), "Whitelist request failed",
			attr.ExtractCorrelationID(r.Context()),
			attr.String("path", r.URL.Path),
			attr.Error(err),
		)
		web.WriteError(w, http.StatusInternalServerError, web.CodeInternal, "internal error")
	}
}
