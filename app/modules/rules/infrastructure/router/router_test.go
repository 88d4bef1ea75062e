package rulesrouter

import (
	"net/http"
	"net/http/httptest"
	"testing"

	authdomain "github.com/Black-And-White-Club/fivem-portal/app/modules/auth/domain"
	"github.com/Black-And-White-Club/fivem-portal/app/modules/auth/infrastructure/permissions"
	guilddomain "github.com/Black-And-White-Club/fivem-portal/app/modules/guild/domain"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingHandlers struct{ last string }

func (h *recordingHandlers) mark(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		h.last = name
		w.WriteHeader(http.StatusOK)
	}
}

func (h *recordingHandlers) HandleList(w http.ResponseWriter, r *http.Request) {
	h.mark("list")(w, r)
}
func (h *recordingHandlers) HandleCreate(w http.ResponseWriter, r *http.Request) {
	h.mark("create")(w, r)
}
func (h *recordingHandlers) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	h.mark("update")(w, r)
}
func (h *recordingHandlers) HandleDelete(w http.ResponseWriter, r *http.Request) {
	h.mark("delete")(w, r)
}
func (h *recordingHandlers) HandleReorder(w http.ResponseWriter, r *http.Request) {
	h.mark("reorder")(w, r)
}

func TestRulesRouter(t *testing.T) {
	enforcer, err := permissions.NewEnforcer()
	require.NoError(t, err)

	tests := []struct {
		name        string
		method      string
		path        string
		roles       guilddomain.RoleSet
		anonymous   bool
		wantCode    int
		wantHandler string
	}{
		{"public list", http.MethodGet, "/api/rules", nil, true, http.StatusOK, "list"},
		{"staff creates", http.MethodPost, "/api/admin/rules", guilddomain.RoleSet{guilddomain.RoleStaff}, false, http.StatusOK, "create"},
		{"order is not an id", http.MethodPut, "/api/admin/rules/order", guilddomain.RoleSet{guilddomain.RoleStaff}, false, http.StatusOK, "reorder"},
		{"staff updates", http.MethodPut, "/api/admin/rules/abc", guilddomain.RoleSet{guilddomain.RoleStaff}, false, http.StatusOK, "update"},
		{"whitelisted cannot delete", http.MethodDelete, "/api/admin/rules/abc", guilddomain.RoleSet{guilddomain.RoleWhitelisted}, false, http.StatusForbidden, ""},
		{"anonymous cannot create", http.MethodPost, "/api/admin/rules", nil, true, http.StatusUnauthorized, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &recordingHandlers{}
			r := chi.NewRouter()
			if !tt.anonymous {
				r.Use(func(next http.Handler) http.Handler {
					return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
						p := &authdomain.Principal{DiscordID: "900", Roles: tt.roles}
						next.ServeHTTP(w, req.WithContext(authdomain.WithPrincipal(req.Context(), p)))
					})
				})
			}
			NewRulesRouter(h, enforcer).Mount(r)

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantHandler, h.last)
		})
	}
}
