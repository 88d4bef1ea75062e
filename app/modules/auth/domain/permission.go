package authdomain

import "strings"

// Permission is an object:action pair checked by the enforcer.
type Permission struct {
	Object string
	Action string
}

func (p Permission) String() string {
	return p.Object + ":" + p.Action
}

// ParsePermission splits "object:action".
func ParsePermission(s string) (Permission, bool) {
	obj, act, ok := strings.Cut(s, ":")
	if !ok || obj == "" || act == "" {
		return Permission{}, false
	}
	return Permission{Object: obj, Action: act}, true
}

var (
	PermWhitelistReview    = Permission{"whitelist", "review"}
	PermWhitelistRevoke    = Permission{"whitelist", "revoke"}
	PermRulesManage        = Permission{"rules", "manage"}
	PermActivitiesManage   = Permission{"activities", "manage"}
	PermContestManage      = Permission{"contest", "manage"}
	PermContestParticipate = Permission{"contest", "participate"}
	PermDashboardRead      = Permission{"dashboard", "read"}
	PermDashboardExport    = Permission{"dashboard", "export"}
	PermUsersRead          = Permission{"users", "read"}
	PermUsersRoles         = Permission{"users", "roles"}
	PermBlacklistManage    = Permission{"blacklist", "manage"}
)

// AllPermissions is the catalogue reported to the front-end.
var AllPermissions = []Permission{
	PermWhitelistReview,
	PermWhitelistRevoke,
	PermRulesManage,
	PermActivitiesManage,
	PermContestManage,
	PermContestParticipate,
	PermDashboardRead,
	PermDashboardExport,
	PermUsersRead,
	PermUsersRoles,
	PermBlacklistManage,
}
