package entity

import "strings"

// Role rol cerrado de un usuario. Los permisos se derivan del rol (ver rolePermissions).
type Role string

const (
	RoleAdmin      Role = "ADMIN"
	RoleAccountant Role = "ACCOUNTANT"
	RoleDispatcher Role = "DISPATCHER"
	RoleSafety     Role = "SAFETY"
	RoleFleet      Role = "FLEET"
	RoleDriver     Role = "DRIVER"
)

// Permission capacidad verificable contra un rol.
type Permission string

const (
	PermSettlementsView       Permission = "settlements:view"
	PermSettlementsGenerate   Permission = "settlements:generate"
	PermSettlementsAllTenants Permission = "settlements:all_companies"
	PermNotificationsView     Permission = "notifications:view"
	PermActivityLogView       Permission = "activity_log:view"
)

var rolePermissions = map[Role]map[Permission]struct{}{
	RoleAdmin: {
		PermSettlementsView:       {},
		PermSettlementsGenerate:   {},
		PermSettlementsAllTenants: {},
		PermNotificationsView:     {},
		PermActivityLogView:       {},
	},
	RoleAccountant: {
		PermSettlementsView:     {},
		PermSettlementsGenerate: {},
		PermNotificationsView:   {},
	},
	RoleDispatcher: {
		PermSettlementsView:   {},
		PermNotificationsView: {},
	},
	RoleSafety: {
		PermNotificationsView: {},
	},
	RoleFleet: {
		PermNotificationsView: {},
	},
	RoleDriver: {
		PermNotificationsView: {},
	},
}

// ParseRole normaliza y valida un rol. ok=false si no pertenece al catálogo.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	_, ok := rolePermissions[r]
	return r, ok
}

// Can informa si el rol tiene el permiso.
func (r Role) Can(p Permission) bool {
	perms, ok := rolePermissions[r]
	if !ok {
		return false
	}
	_, ok = perms[p]
	return ok
}

// IsAccounting roles que reciben avisos de liquidación (administrador o contador).
func (r Role) IsAccounting() bool {
	return r == RoleAdmin || r == RoleAccountant
}

// AccountingRoles conjunto de roles con capacidad contable.
func AccountingRoles() []Role {
	return []Role{RoleAdmin, RoleAccountant}
}
