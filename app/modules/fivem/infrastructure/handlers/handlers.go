package fivemhandlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	fivemservice "github.com/Black-And-White-Club/fivem-portal/app/modules/fivem/application"
	fivemdomain "github.com/Black-And-White-Club/fivem-portal/app/modules/fivem/domain"
	"github.com/Black-And-White-Club/fivem-portal/app/shared/observability/attr"
	"github.com/Black-And-White-Club/fivem-portal/app/shared/web"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// FiveMHandlers implements Handlers.
type FiveMHandlers struct {
	service fivemservice.Service
	logger  *slog.Logger
	now     func() time.Time
}

// NewFiveMHandlers creates a new FiveMHandlers.
func NewFiveMHandlers(service fivemservice.Service, logger *slog.Logger) Handlers {
	return &FiveMHandlers{service: service, logger: logger, now: time.Now}
}

// EconomyResponse is the economy dashboard payload.
type EconomyResponse struct {
	Overview     *fivemdomain.EconomyOverview `json:"overview"`
	Distribution []fivemdomain.WealthBucket   `json:"distribution"`
}

// HandlePublicStats serves GET /api/stats.
func (h *FiveMHandlers) HandlePublicStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.PublicStats(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	web.WriteJSON(w, http.StatusOK, stats)
}

// HandleEconomy serves GET /api/dashboard/economy.
func (h *FiveMHandlers) HandleEconomy(w http.ResponseWriter, r *http.Request) {
	overview, err := h.service.EconomyOverview(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	distribution, err := h.service.WealthDistribution(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	web.WriteJSON(w, http.StatusOK, EconomyResponse{Overview: overview, Distribution: distribution})
}

// HandlePlayers serves GET /api/dashboard/players.
func (h *FiveMHandlers) HandlePlayers(w http.ResponseWriter, r *http.Request) {
	overview, err := h.service.PlayerOverview(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	web.WriteJSON(w, http.StatusOK, overview)
}

// HandleRichest serves GET /api/dashboard/richest?limit=.
func (h *FiveMHandlers) HandleRichest(w http.ResponseWriter, r *http.Request) {
	richest, err := h.service.RichestCharacters(r.Context(), web.QueryInt(r, "limit", 0))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	web.WriteJSON(w, http.StatusOK, richest)
}

// HandleJobs serves GET /api/dashboard/jobs.
func (h *FiveMHandlers) HandleJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.service.JobDistribution(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	web.WriteJSON(w, http.StatusOK, jobs)
}

// HandleVehicles serves GET /api/dashboard/vehicles?limit=.
func (h *FiveMHandlers) HandleVehicles(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.VehicleStats(r.Context(), web.QueryInt(r, "limit", 0))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	web.WriteJSON(w, http.StatusOK, stats)
}

// HandleWealthChart serves GET /api/dashboard/charts/wealth.png.
func (h *FiveMHandlers) HandleWealthChart(w http.ResponseWriter, r *http.Request) {
	img, err := h.service.WealthChartPNG(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeBinary(w, "image/png", "", img)
}

// HandleJobChart serves GET /api/dashboard/charts/jobs.png.
func (h *FiveMHandlers) HandleJobChart(w http.ResponseWriter, r *http.Request) {
	img, err := h.service.JobChartPNG(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeBinary(w, "image/png", "", img)
}

// HandleExport serves GET /api/admin/exports/economy.xlsx.
func (h *FiveMHandlers) HandleExport(w http.ResponseWriter, r *http.Request) {
	book, err := h.service.ExportXLSX(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	name := fmt.Sprintf("economy-%s.xlsx", h.now().UTC().Format("20060102"))
	writeBinary(w, xlsxContentType, name, book)
}

func writeBinary(w http.ResponseWriter, contentType, filename string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.Header().Set("Cache-Control", "no-store")
	if filename != "" {
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func (h *FiveMHandlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, fivemservice.ErrUnavailable):
		h.logger.WarnContext(r.Context(), "Game database unavailable", attr.Error(err))
		web.WriteError(w, http.StatusServiceUnavailable, web.CodeUnavailable, "game statistics are temporarily unavailable")
	default:
		h.logger.ErrorContext(r.Context(), "Dashboard request failed", attr.Error(err))
		web.WriteError(w, http.StatusInternalServerError, web.CodeInternal, "internal error")
	}
}
