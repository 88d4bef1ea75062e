package activitieshandlers

import (
	"errors"
	"log/slog"
	"net/http"

	activitiesservice "github.com/Black-And-White-Club/fivem-portal/app/modules/activities/application"
	activitiesdomain "github.com/Black-And-White-Club/fivem-portal/app/modules/activities/domain"
	authdomain "github.com/Black-And-White-Club/fivem-portal/app/modules/auth/domain"
	"github.com/Black-And-White-Club/fivem-portal/app/shared/observability/attr"
	"github.com/Black-And-White-Club/fivem-portal/app/shared/web"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// ActivitiesHandlers implements Handlers.
type ActivitiesHandlers struct {
	service activitiesservice.Service
	logger  *slog.Logger
}

// NewActivitiesHandlers creates a new ActivitiesHandlers.
func NewActivitiesHandlers(service activitiesservice.Service, logger *slog.Logger) Handlers {
	return &ActivitiesHandlers{service: service, logger: logger}
}

// HandleListUpcoming serves GET /api/activities?limit=.
func (h *ActivitiesHandlers) HandleListUpcoming(w http.ResponseWriter, r *http.Request) {
	activities, err := h.service.ListUpcoming(r.Context(), web.QueryInt(r, "limit", 0))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	web.WriteJSON(w, http.StatusOK, activities)
}

// HandleListAll serves GET /api/admin/activities?page=&per_page=.
func (h *ActivitiesHandlers) HandleListAll(w http.ResponseWriter, r *http.Request) {
	page := web.ParsePage(r)
	result, err := h.service.ListAll(r.Context(), page.PerPage, page.Offset())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	web.WriteList(w, result.Activities, page, result.Total)
}

// HandleCreate serves POST /api/admin/activities.
func (h *ActivitiesHandlers) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var input activitiesdomain.Input
	if err := web.DecodeAndValidate(r, &input); err != nil {
		web.WriteDecodeError(w, err)
		return
	}

	actor := authdomain.PrincipalFromContext(r.Context())
	activity, err := h.service.Create(r.Context(), actor.DiscordID, input)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	web.WriteJSON(w, http.StatusCreated, activity)
}

// HandleUpdate serves PUT /api/admin/activities/{id}.
func (h *ActivitiesHandlers) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		web.WriteError(w, http.StatusBadRequest, web.CodeBadRequest, "invalid activity id")
		return
	}
	var input activitiesdomain.Input
	if err := web.DecodeAndValidate(r, &input); err != nil {
		web.WriteDecodeError(w, err)
		return
	}

	actor := authdomain.PrincipalFromContext(r.Context())
	activity, err := h.service.Update(r.Context(), actor.DiscordID, id, input)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	web.WriteJSON(w, http.StatusOK, activity)
}

// HandleDelete serves DELETE /api/admin/activities/{id}.
func (h *ActivitiesHandlers) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		web.WriteError(w, http.StatusBadRequest, web.CodeBadRequest, "invalid activity id")
		return
	}

	actor := authdomain.PrincipalFromContext(r.Context())
	if err := h.service.Delete(r.Context(), actor.DiscordID, id); err != nil {
		h.writeError(w, r, err)
		return
	}
	web.WriteNoContent(w)
}

func (h *ActivitiesHandlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, activitiesservice.ErrNotFound):
		web.WriteError(w, http.StatusNotFound, web.CodeNotFound, err.Error())
	case errors.Is(err, activitiesservice.ErrStartInPast),
		errors.Is(err, activitiesservice.ErrEndBeforeStart),
		errors.Is(err, activitiesdomain.ErrInvalidTimezone),
		errors.Is(err, activitiesdomain.ErrUnrecognizedTime):
		web.WriteError(w, http.StatusBadRequest, web.CodeValidation, err.Error())
	default:
		h.logger.ErrorContext(r.Context(), "Activities request failed",
			attr.ExtractCorrelationID(r.Context()),
			attr.String("path", r.URL.Path),
			attr.Error(err),
		)
		web.WriteError(w, http.StatusInternalServerError, web.CodeInternal, "internal error")
	}
}
