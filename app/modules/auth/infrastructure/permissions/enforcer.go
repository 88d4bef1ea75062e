// Package permissions maps portal roles to permissions with a casbin RBAC model.
package permissions

import (
	_ "embed"
	"fmt"
	"strings"

	authdomain "github.com/Black-And-White-Club/fivem-portal/app/modules/auth/domain"
	guilddomain "github.com/Black-And-White-Club/fivem-portal/app/modules/guild/domain"
	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

//go:embed model.conf
var embeddedModel string

//go:embed policy.csv
var embeddedPolicy string

// Checker decides whether a role set grants a permission.
type Checker interface {
	Allowed(roles guilddomain.RoleSet, perm authdomain.Permission) bool
	Permissions(roles guilddomain.RoleSet) []string
}

// Enforcer wraps a casbin enforcer loaded from the embedded model and policy.
type Enforcer struct {
	enforcer *casbin.SyncedEnforcer
}

var _ Checker = (*Enforcer)(nil)

// NewEnforcer creates the enforcer.
func NewEnforcer() (*Enforcer, error) {
	m, err := model.NewModelFromString(embeddedModel)
	if err != nil {
		return nil, fmt.Errorf("failed to load casbin model: %w", err)
	}

	enforcer, err := casbin.NewSyncedEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("failed to create casbin enforcer: %w", err)
	}
	if err := loadPolicy(enforcer, embeddedPolicy); err != nil {
		return nil, err
	}

	return &Enforcer{enforcer: enforcer}, nil
}

func loadPolicy(enforcer *casbin.SyncedEnforcer, policy string) error {
	for _, line := range strings.Split(policy, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Split(line, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}

		switch rule := parts[1:]; parts[0] {
		case "p":
			if len(rule) != 3 {
				return fmt.Errorf("malformed policy line %q", line)
			}
			if _, err := enforcer.AddPolicy(rule[0], rule[1], rule[2]); err != nil {
				return fmt.Errorf("failed to add policy %v: %w", rule, err)
			}
		case "g":
			if len(rule) != 2 {
				return fmt.Errorf("malformed grouping line %q", line)
			}
			if _, err := enforcer.AddGroupingPolicy(rule[0], rule[1]); err != nil {
				return fmt.Errorf("failed to add grouping policy %v: %w", rule, err)
			}
		default:
			return fmt.Errorf("unknown policy type %q", parts[0])
		}
	}
	return nil
}

// Allowed reports whether any role in roles grants perm. The blacklisted role overrides everything.
func (e *Enforcer) Allowed(roles guilddomain.RoleSet, perm authdomain.Permission) bool {
	if roles.Has(guilddomain.RoleBlacklisted) {
		return false
	}
	for _, role := range roles {
		ok, err := e.enforcer.Enforce(string(role), perm.Object, perm.Action)
		if err == nil && ok {
			return true
		}
	}
	return false
}

// Permissions lists the catalogue entries roles grant, as "object:action".
func (e *Enforcer) Permissions(roles guilddomain.RoleSet) []string {
	perms := make([]string, 0, len(authdomain.AllPermissions))
	for _, p := range authdomain.AllPermissions {
		if e.Allowed(roles, p) {
			perms = append(perms, p.String())
		}
	}
	return perms
}
