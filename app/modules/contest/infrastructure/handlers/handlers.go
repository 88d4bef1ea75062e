package contesthandlers

import (
	"errors"
	"log/slog"
	"net/http"

	authdomain "github.com/Black-And-White-Club/fivem-portal/app/modules/auth/domain"
	contestservice "github.com/Black-And-White-Club/fivem-portal/app/modules/contest/application"
	contestdomain "github.com/Black-And-White-Club/fivem-portal/app/modules/contest/domain"
	"github.com/Black-And-White-Club/fivem-portal/app/shared/observability/attr"
	"github.com/Black-And-White-Club/fivem-portal/app/shared/web"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const (
	// multipartOverhead covers the caption and form boundaries on top of the image itself.
	multipartOverhead = 64 << 10
	multipartMemory   = 4 << 20
)

type entryForm struct {
	Caption string `json:"caption" validate:"max=280"`
}

type voteRequest struct {
	EntryID string `json:"entry_id" validate:"required,uuid"`
}

type phaseRequest struct {
	Phase contestdomain.Phase `json:"phase" validate:"required,oneof=submissions voting closed"`
}

// ContestHandlers implements Handlers.
type ContestHandlers struct {
	service        contestservice.Service
	maxUploadBytes int64
	logger         *slog.Logger
}

// NewContestHandlers creates a new ContestHandlers.
func NewContestHandlers(service contestservice.Service, maxUploadBytes int64, logger *slog.Logger) Handlers {
	return &ContestHandlers{service: service, maxUploadBytes: maxUploadBytes, logger: logger}
}

// HandleList serves GET /api/contests.
func (h *ContestHandlers) HandleList(w http.ResponseWriter, r *http.Request) {
	contests, err := h.service.List(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	web.WriteJSON(w, http.StatusOK, contests)
}

// HandleGet serves GET /api/contests/{id}.
func (h *ContestHandlers) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	detail, err := h.service.Get(r.Context(), id, authdomain.PrincipalFromContext(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	web.WriteJSON(w, http.StatusOK, detail)
}

// HandleSubmitEntry serves POST /api/contests/{id}/entries as multipart/form-data with an
// "image" file and an optional "caption".
func (h *ContestHandlers) HandleSubmitEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes+multipartOverhead)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			web.WriteError(w, http.StatusRequestEntityTooLarge, web.CodeTooLarge, contestservice.ErrImageTooLarge.Error())
			return
		}
		web.WriteError(w, http.StatusBadRequest, web.CodeBadRequest, "expected a multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("image")
	if err != nil {
		web.WriteError(w, http.StatusBadRequest, web.CodeValidation, "image is required")
		return
	}
	defer file.Close()

	form := entryForm{Caption: r.FormValue("caption")}
	if err := web.Validate(&form); err != nil {
		web.WriteDecodeError(w, err)
		return
	}

	view, err := h.service.SubmitEntry(r.Context(), authdomain.PrincipalFromContext(r.Context()), id, contestservice.EntryUpload{
		Caption: form.Caption,
		Size:    header.Size,
		Content: file,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	web.WriteJSON(w, http.StatusCreated, view)
}

// HandleEntryImage serves GET /api/contests/{id}/entries/{entryID}/image.
func (h *ContestHandlers) HandleEntryImage(w http.ResponseWriter, r *http.Request) {
	contestID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	entryID, ok := pathID(w, r, "entryID")
	if !ok {
		return
	}

	img, err := h.service.OpenEntryImage(r.Context(), contestID, entryID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	defer img.Content.Close()

	w.Header().Set("Content-Type", img.Entry.ContentType)
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	http.ServeContent(w, r, "", img.Entry.CreatedAt, img.Content)
}

// HandleVote serves POST /api/contests/{id}/votes.
func (h *ContestHandlers) HandleVote(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req voteRequest
	if err := web.DecodeAndValidate(r, &req); err != nil {
		web.WriteDecodeError(w, err)
		return
	}

	err := h.service.Vote(r.Context(), authdomain.PrincipalFromContext(r.Context()), id, uuid.MustParse(req.EntryID))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	web.WriteNoContent(w)
}

// HandleResults serves GET /api/contests/{id}/results.
func (h *ContestHandlers) HandleResults(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	res, err := h.service.Results(r.Context(), id, authdomain.PrincipalFromContext(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	web.WriteJSON(w, http.StatusOK, res)
}

// HandleCreate serves POST /api/admin/contests.
func (h *ContestHandlers) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var input contestdomain.Input
	if err := web.DecodeAndValidate(r, &input); err != nil {
		web.WriteDecodeError(w, err)
		return
	}

	actor := authdomain.PrincipalFromContext(r.Context())
	contest, err := h.service.Create(r.Context(), actor.DiscordID, input)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	web.WriteJSON(w, http.StatusCreated, contest)
}

// HandleAdvancePhase serves POST /api/admin/contests/{id}/phase.
func (h *ContestHandlers) HandleAdvancePhase(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req phaseRequest
	if err := web.DecodeAndValidate(r, &req); err != nil {
		web.WriteDecodeError(w, err)
		return
	}

	actor := authdomain.PrincipalFromContext(r.Context())
	contest, err := h.service.AdvancePhase(r.Context(), actor.DiscordID, id, req.Phase)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	web.WriteJSON(w, http.StatusOK, contest)
}

// HandleDelete serves DELETE /api/admin/contests/{id}.
func (h *ContestHandlers) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	actor := authdomain.PrincipalFromContext(r.Context())
	if err := h.service.Delete(r.Context(), actor.DiscordID, id); err != nil {
		h.writeError(w, r, err)
		return
	}
	web.WriteNoContent(w)
}

// HandleDeleteEntry serves DELETE /api/admin/contests/{id}/entries/{entryID}.
func (h *ContestHandlers) HandleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	contestID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	entryID, ok := pathID(w, r, "entryID")
	if !ok {
		return
	}
	actor := authdomain.PrincipalFromContext(r.Context())
	if err := h.service.DeleteEntry(r.Context(), actor.DiscordID, contestID, entryID); err != nil {
		h.writeError(w, r, err)
		return
	}
	web.WriteNoContent(w)
}

func pathID(w http.ResponseWriter, r *http.Request, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		web.WriteError(w, http.StatusBadRequest, web.CodeBadRequest, "invalid "+param)
		return uuid.Nil, false
	}
	return id, true
}

func (h *ContestHandlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, contestservice.ErrNotFound),
		errors.Is(err, contestservice.ErrEntryNotFound):
		web.WriteError(w, http.StatusNotFound, web.CodeNotFound, err.Error())
	case errors.Is(err, contestservice.ErrInvalidSchedule),
		errors.Is(err, contestservice.ErrUnknownPhase):
		web.WriteError(w, http.StatusBadRequest, web.CodeValidation, err.Error())
	case errors.Is(err, contestservice.ErrNotParticipant),
		errors.Is(err, contestservice.ErrOwnEntry),
		errors.Is(err, contestservice.ErrResultsHidden):
		web.WriteError(w, http.StatusForbidden, web.CodeForbidden, err.Error())
	case errors.Is(err, contestservice.ErrPhaseReached),
		errors.Is(err, contestservice.ErrSubmissionsClosed),
		errors.Is(err, contestservice.ErrVotingClosed),
		errors.Is(err, contestservice.ErrEntryLimit),
		errors.Is(err, contestservice.ErrAlreadyVoted):
		web.WriteError(w, http.StatusConflict, web.CodeConflict, err.Error())
	case errors.Is(err, contestservice.ErrImageTooLarge):
		web.WriteError(w, http.StatusRequestEntityTooLarge, web.CodeTooLarge, err.Error())
	case errors.Is(err, contestdomain.ErrUnsupportedImage):
		web.WriteError(w, http.StatusUnsupportedMediaType, web.CodeUnsupportedType, err.Error())
	default:
		h.logger.ErrorContext(r.Context(), "Contest request failed",
			attr.ExtractCorrelationID(r.Context()),
			attr.String("path", r.URL.Path),
			attr.Error(err),
		)
		web.WriteError(w, http.StatusInternalServerError, web.CodeInternal, "internal error")
	}
}
