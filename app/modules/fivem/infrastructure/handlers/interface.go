package fivemhandlers

import "net/http"

// Handlers serves the game dashboards.
type Handlers interface {
	HandlePublicStats(w http.ResponseWriter, r *http.Request)
	HandleEconomy(w http.ResponseWriter, r *http.Request)
	HandlePlayers(w http.ResponseWriter, r *http.Request)
	HandleRichest(w http.ResponseWriter, r *http.Request)
	HandleJobs(w http.ResponseWriter, r *http.Request)
	HandleVehicles(w http.ResponseWriter, r *http.Request)
	HandleWealthChart(w http.ResponseWriter, r *http.Request)
	HandleJobChart(w http.ResponseWriter, r *http.Request)
	HandleExport(w http.ResponseWriter, r *http.Request)
}
