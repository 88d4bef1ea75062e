package contesthandlers

import "net/http"

// Handlers serves the photo contest endpoints.
type Handlers interface {
	HandleList(w http.ResponseWriter, r *http.Request)
	HandleGet(w http.ResponseWriter, r *http.Request)
	HandleSubmitEntry(w http.ResponseWriter, r *http.Request)
	HandleEntryImage(w http.ResponseWriter, r *http.Request)
	HandleVote(w http.ResponseWriter, r *http.Request)
	HandleResults(w http.ResponseWriter, r *http.Request)
	HandleCreate(w http.ResponseWriter, r *http.Request)
	HandleAdvancePhase(w http.ResponseWriter, r *http.Request)
	HandleDelete(w http.ResponseWriter, r *http.Request)
	HandleDeleteEntry(w http.ResponseWriter, r *http.Request)
}
