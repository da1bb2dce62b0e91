package permissions

import (
	"context"
	"guestroom/shared/constant"
	"slices"
)

// HostelScope describes which hostels a role can act on.
type HostelScope int

const (
	ScopeNone HostelScope = iota
	ScopeAssigned
	ScopeAll
)

var hostelScopes = map[string]HostelScope{
	constant.RoleAdmin:     ScopeAll,
	constant.RoleManager:   ScopeNone,
	constant.RoleCaretaker: ScopeAssigned,
}

func ScopeOf(role string) HostelScope {
	return hostelScopes[role]
}

// CanAccessHostel reports whether a user with role and assignedHostel may read or mutate
// bookings of hostel. Unknown roles get no access.
func CanAccessHostel(role, assignedHostel, hostel string) bool {
	switch ScopeOf(role) {
	case ScopeAll:
		return true
	case ScopeAssigned:
		return assignedHostel != "" && assignedHostel == hostel
	default:
		return false
	}
}

// VisibleHostels filters hostels down to the ones role may see in listings.
// Managers see hostel names (for vacancy lookups and enquiry review) but not bookings.
func VisibleHostels(role, assignedHostel string, hostels []string) []string {
	switch ScopeOf(role) {
	case ScopeAll:
		return hostels
	case ScopeAssigned:
		if slices.Contains(hostels, assignedHostel) {
			return []string{assignedHostel}
		}

		return []string{}
	default:
		if role == constant.RoleManager {
			return hostels
		}

		return []string{}
	}
}

func callerOf(ctx context.Context) (role, assignedHostel string) {
	role, _ = ctx.Value(constant.ContextKeyUserRole).(string)
	assignedHostel, _ = ctx.Value(constant.ContextKeyHostel).(string)

	return role, assignedHostel
}

// CanAccess applies CanAccessHostel to the caller stored in ctx by the auth middleware.
func CanAccess(ctx context.Context, hostel string) bool {
	role, assignedHostel := callerOf(ctx)

	return CanAccessHostel(role, assignedHostel, hostel)
}

func Visible(ctx context.Context, hostels []string) []string {
	role, assignedHostel := callerOf(ctx)

	return VisibleHostels(role, assignedHostel, hostels)
}
