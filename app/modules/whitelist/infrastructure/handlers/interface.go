package whitelisthandlers

import "net/http"

// Handlers serves the applicant and reviewer whitelist endpoints.
type Handlers interface {
	HandleSubmit(w http.ResponseWriter, r *http.Request)
	HandleGetMine(w http.ResponseWriter, r *http.Request)
	HandleList(w http.ResponseWriter, r *http.Request)
	HandleStats(w http.ResponseWriter, r *http.Request)
	HandleGet(w http.ResponseWriter, r *http.Request)
	HandleApprove(w http.ResponseWriter, r *http.Request)
	HandleReject(w http.ResponseWriter, r *http.Request)
	HandleRevoke(w http.ResponseWriter, r *http.Request)
}
