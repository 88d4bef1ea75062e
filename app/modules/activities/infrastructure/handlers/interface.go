package activitieshandlers

import "net/http"

// Handlers serves the activity calendar endpoints.
type Handlers interface {
	HandleListUpcoming(w http.ResponseWriter, r *http.Request)
	HandleListAll(w http.ResponseWriter, r *http.Request)
	HandleCreate(w http.ResponseWriter, r *http.Request)
	HandleUpdate(w http.ResponseWriter, r *http.Request)
	HandleDelete(w http.ResponseWriter, r *http.Request)
}
