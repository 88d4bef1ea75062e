package ruleshandlers

import (
	"errors"
	"log/slog"
	"net/http"

	authdomain "github.com/Black-And-White-Club/fivem-portal/app/modules/auth/domain"
	rulesservice "github.com/Black-And-White-Club/fivem-portal/app/modules/rules/application"
	rulesdomain "github.com/Black-And-White-Club/fivem-portal/app/modules/rules/domain"
	"github.com/Black-And-White-Club/fivem-portal/app/shared/observability/attr"
	"github.com/Black-And-White-Club/fivem-portal/app/shared/web"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// RulesHandlers implements Handlers.
type RulesHandlers struct {
	service rulesservice.Service
	logger  *slog.Logger
}

// NewRulesHandlers creates a new RulesHandlers.
func NewRulesHandlers(service rulesservice.Service, logger *slog.Logger) Handlers {
	return &RulesHandlers{service: service, logger: logger}
}

// HandleList serves GET /api/rules.
func (h *RulesHandlers) HandleList(w http.ResponseWriter, r *http.Request) {
	rules, err := h.service.List(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	web.WriteJSON(w, http.StatusOK, rules)
}

// HandleCreate serves POST /api/admin/rules.
func (h *RulesHandlers) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var input rulesdomain.Input
	if err := web.DecodeAndValidate(r, &input); err != nil {
		web.WriteDecodeError(w, err)
		return
	}

	actor := authdomain.PrincipalFromContext(r.Context())
	rule, err := h.service.Create(r.Context(), actor.DiscordID, input)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	web.WriteJSON(w, http.StatusCreated, rule)
}

// HandleUpdate serves PUT /api/admin/rules/{id}.
func (h *RulesHandlers) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		web.WriteError(w, http.StatusBadRequest, web.CodeBadRequest, "invalid rule id")
		return
	}
	var input rulesdomain.Input
	if err := web.DecodeAndValidate(r, &input); err != nil {
		web.WriteDecodeError(w, err)
		return
	}

	actor := authdomain.PrincipalFromContext(r.Context())
	rule, err := h.service.Update(r.Context(), actor.DiscordID, id, input)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	web.WriteJSON(w, http.StatusOK, rule)
}

// HandleDelete serves DELETE /api/admin/rules/{id}.
func (h *RulesHandlers) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		web.WriteError(w, http.StatusBadRequest, web.CodeBadRequest, "invalid rule id")
		return
	}

	actor := authdomain.PrincipalFromContext(r.Context())
	if err := h.service.Delete(r.Context(), actor.DiscordID, id); err != nil {
		h.writeError(w, r, err)
		return
	}
	web.WriteNoContent(w)
}

// HandleReorder serves PUT /api/admin/rules/order.
func (h *RulesHandlers) HandleReorder(w http.ResponseWriter, r *http.Request) {
	var req rulesdomain.Reorder
	if err := web.DecodeAndValidate(r, &req); err != nil {
		web.WriteDecodeError(w, err)
		return
	}

	// validate has already checked each entry is a uuid.
	ids := make([]uuid.UUID, len(req.IDs))
	for i, raw := range req.IDs {
		ids[i] = uuid.MustParse(raw)
	}

	actor := authdomain.PrincipalFromContext(r.Context())
	if err := h.service.Reorder(r.Context(), actor.DiscordID, req.Category, ids); err != nil {
		h.writeError(w, r, err)
		return
	}
	web.WriteNoContent(w)
}

func (h *RulesHandlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, rulesservice.ErrNotFound):
		web.WriteError(w, http.StatusNotFound, web.CodeNotFound, err.Error())
	case errors.Is(err, rulesservice.ErrReorderMismatch):
		web.WriteError(w, http.StatusConflict, web.CodeConflict, err.Error())
	default:
		h.logger.ErrorContext(r.Context(), "Rules request failed",
			attr.ExtractCorrelationID(r.Context()),
			attr.String("path", r.URL.Path),
			attr.Error(err),
		)
		web.WriteError(w, http.StatusInternalServerError, web.CodeInternal, "internal error")
	}
}
