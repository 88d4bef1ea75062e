package userhandlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	authdomain "github.com/Black-And-White-Club/fivem-portal/app/modules/auth/domain"
	guildservice "github.com/Black-And-White-Club/fivem-portal/app/modules/guild/application"
	guilddomain "github.com/Black-And-White-Club/fivem-portal/app/modules/guild/domain"
	userservice "github.com/Black-And-White-Club/fivem-portal/app/modules/user/application"
	userdb "github.com/Black-And-White-Club/fivem-portal/app/modules/user/infrastructure/repositories"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserService struct {
	ListUsersFunc     func(ctx context.Context, filter userdb.ListFilter) (*userservice.UserPage, error)
	GetUserFunc       func(ctx context.Context, discordID string) (*userservice.UserDetail, error)
	SetRoleFunc       func(ctx context.Context, actor, discordID string, role guilddomain.Role, granted bool) error
	BlacklistFunc     func(ctx context.Context, actor, discordID, reason string) (*userdb.BlacklistEntry, error)
	UnblacklistFunc   func(ctx context.Context, actor, discordID string) error
	ListBlacklistFunc func(ctx context.Context, activeOnly bool) ([]userdb.BlacklistEntry, error)
}

var _ userservice.Service = (*fakeUserService)(nil)

func (f *fakeUserService) ListUsers(ctx context.Context, filter userdb.ListFilter) (*userservice.UserPage, error) {
	return f.ListUsersFunc(ctx, filter)
}

func (f *fakeUserService) GetUser(ctx context.Context, discordID string) (*userservice.UserDetail, error) {
	return f.GetUserFunc(ctx, discordID)
}

func (f *fakeUserService) SetRole(ctx context.Context, actor, discordID string, role guilddomain.Role, granted bool) error {
	return f.SetRoleFunc(ctx, actor, discordID, role, granted)
}

func (f *fakeUserService) Blacklist(ctx context.Context, actor, discordID, reason string) (*userdb.BlacklistEntry, error) {
	return f.BlacklistFunc(ctx, actor, discordID, reason)
}

func (f *fakeUserService) Unblacklist(ctx context.Context, actor, discordID string) error {
	return f.UnblacklistFunc(ctx, actor, discordID)
}

func (f *fakeUserService) ListBlacklist(ctx context.Context, activeOnly bool) ([]userdb.BlacklistEntry, error) {
	return f.ListBlacklistFunc(ctx, activeOnly)
}

func (f *fakeUserService) PruneSessions(ctx context.Context) (int64, error) {
	return 0, nil
}

// serve routes req through a chi mux so URL params resolve, with an admin principal attached.
func serve(h Handlers, method, pattern, target, body string) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			p := &authdomain.Principal{DiscordID: "900", Roles: guilddomain.RoleSet{guilddomain.RoleAdmin}}
			next.ServeHTTP(w, req.WithContext(authdomain.WithPrincipal(req.Context(), p)))
		})
	})

	var fn http.HandlerFunc
	switch pattern {
	case "/users":
		fn = h.HandleListUsers
	case "/users/{discordID}":
		fn = h.HandleGetUser
	case "/users/{discordID}/roles":
		fn = h.HandleSetRole
	case "/users/{discordID}/blacklist":
		if method == http.MethodDelete {
			fn = h.HandleUnblacklist
		} else {
			fn = h.HandleBlacklist
		}
	case "/blacklist":
		fn = h.HandleListBlacklist
	}
	r.Method(method, pattern, fn)

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(method, target, reader))
	return rec
}

func newHandlers(svc *fakeUserService) Handlers {
	return NewUserHandlers(svc, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestHandleListUsers(t *testing.T) {
	var got userdb.ListFilter
	h := newHandlers(&fakeUserService{
		ListUsersFunc: func(ctx context.Context, filter userdb.ListFilter) (*userservice.UserPage, error) {
			got = filter
			return &userservice.UserPage{Users: []userdb.User{{ID: uuid.New(), DiscordID: "1"}}, Total: 41}, nil
		},
	})

	rec := serve(h, http.MethodGet, "/users", "/users?search=%20jane%20&page=3&per_page=10", "")
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, userdb.ListFilter{Search: "jane", Limit: 10, Offset: 20}, got)

	var body struct {
		Data []userdb.User `json:"data"`
		Meta struct {
			Page  int `json:"page"`
			Total int `json:"total"`
		} `json:"meta"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Len(t, body.Data, 1)
	assert.Equal(t, 3, body.Meta.Page)
	assert.Equal(t, 41, body.Meta.Total)
}

func TestHandleGetUser(t *testing.T) {
	h := newHandlers(&fakeUserService{
		GetUserFunc: func(ctx context.Context, discordID string) (*userservice.UserDetail, error) {
			if discordID == "404" {
				return nil, userservice.ErrUserNotFound
			}
			return &userservice.UserDetail{User: &userdb.User{DiscordID: discordID}}, nil
		},
	})

	assert.Equal(t, http.StatusOK, serve(h, http.MethodGet, "/users/{discordID}", "/users/111", "").Code)
	assert.Equal(t, http.StatusNotFound, serve(h, http.MethodGet, "/users/{discordID}", "/users/404", "").Code)
}

func TestHandleSetRole(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		svcErr   error
		wantCode int
	}{
		{name: "grant", body: `{"role":"staff","granted":true}`, wantCode: http.StatusNoContent},
		{name: "revoke", body: `{"role":"whitelisted","granted":false}`, wantCode: http.StatusNoContent},
		{name: "missing granted", body: `{"role":"staff"}`, wantCode: http.StatusBadRequest},
		{name: "unknown field", body: `{"role":"staff","granted":true,"x":1}`, wantCode: http.StatusBadRequest},
		{name: "admin not assignable", body: `{"role":"admin","granted":true}`, svcErr: userservice.ErrRoleNotAssignable, wantCode: http.StatusBadRequest},
		{name: "self", body: `{"role":"staff","granted":true}`, svcErr: userservice.ErrSelfAction, wantCode: http.StatusForbidden},
		{name: "not in guild", body: `{"role":"staff","granted":true}`, svcErr: guildservice.ErrNotInGuild, wantCode: http.StatusConflict},
		{name: "unexpected", body: `{"role":"staff","granted":true}`, svcErr: errors.New("boom"), wantCode: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotActor string
			var gotRole guilddomain.Role
			h := newHandlers(&fakeUserService{
				SetRoleFunc: func(ctx context.Context, actor, discordID string, role guilddomain.Role, granted bool) error {
					gotActor = actor
					gotRole = role
					return tt.svcErr
				},
			})

			rec := serve(h, http.MethodPost, "/users/{discordID}/roles", "/users/111/roles", tt.body)
			assert.Equal(t, tt.wantCode, rec.Code)
			if tt.wantCode == http.StatusNoContent {
				assert.Equal(t, "900", gotActor)
				assert.NotEmpty(t, gotRole)
			}
		})
	}
}

func TestHandleBlacklist(t *testing.T) {
	h := newHandlers(&fakeUserService{
		BlacklistFunc: func(ctx context.Context, actor, discordID, reason string) (*userdb.BlacklistEntry, error) {
			if discordID == "222" {
				return nil, userservice.ErrAlreadyBlacklisted
			}
			return &userdb.BlacklistEntry{ID: uuid.New(), DiscordID: discordID, Reason: reason, CreatedBy: actor}, nil
		},
		UnblacklistFunc: func(ctx context.Context, actor, discordID string) error {
			if discordID == "333" {
				return userservice.ErrNotBlacklisted
			}
			return nil
		},
	})

	rec := serve(h, http.MethodPost, "/users/{discordID}/blacklist", "/users/111/blacklist", `{"reason":"RDM"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"RDM"`)

	rec = serve(h, http.MethodPost, "/users/{discordID}/blacklist", "/users/111/blacklist", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "VALIDATION_ERROR")

	rec = serve(h, http.MethodPost, "/users/{discordID}/blacklist", "/users/222/blacklist", `{"reason":"again"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = serve(h, http.MethodDelete, "/users/{discordID}/blacklist", "/users/111/blacklist", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = serve(h, http.MethodDelete, "/users/{discordID}/blacklist", "/users/333/blacklist", "")
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestHandleListBlacklist(t *testing.T) {
	var gotActive []bool
	h := newHandlers(&fakeUserService{
		ListBlacklistFunc: func(ctx context.Context, activeOnly bool) ([]userdb.BlacklistEntry, error) {
			gotActive = append(gotActive, activeOnly)
			return []userdb.BlacklistEntry{}, nil
		},
	})

	assert.Equal(t, http.StatusOK, serve(h, http.MethodGet, "/blacklist", "/blacklist", "").Code)
	assert.Equal(t, http.StatusOK, serve(h, http.MethodGet, "/blacklist", "/blacklist?active=false", "").Code)
	assert.Equal(t, []bool{true, false}, gotActive)
}
