package ruleshandlers

import "net/http"

// Handlers serves the rulebook endpoints.
type Handlers interface {
	HandleList(w http.ResponseWriter, r *http.Request)
	HandleCreate(w http.ResponseWriter, r *http.Request)
	HandleUpdate(w http.ResponseWriter, r *http.Request)
	HandleDelete(w http.ResponseWriter, r *http.Request)
	HandleReorder(w http.ResponseWriter, r *http.Request)
}
