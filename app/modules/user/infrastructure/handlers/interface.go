package userhandlers

import "net/http"

// Handlers serves the admin user management endpoints.
type Handlers interface {
	HandleListUsers(w http.ResponseWriter, r *http.Request)
	HandleGetUser(w http.ResponseWriter, r *http.Request)
	HandleSetRole(w http.ResponseWriter, r *http.Request)
	HandleBlacklist(w http.ResponseWriter, r *http.Request)
	HandleUnblacklist(w http.ResponseWriter, r *http.Request)
	HandleListBlacklist(w http.ResponseWriter, r *http.Request)
}
