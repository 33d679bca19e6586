// Package access holds role permissions and the content entitlement
// predicates. Everything here is pure; persistence lives in the service layer.
package access

import "launchthat.app/portal/internal/model"

var allPermissions = []model.Permission{
	model.PermOrgManage,
	model.PermMembersManage,
	model.PermContentViewPublic,
	model.PermContentViewPrivate,
	model.PermContentEdit,
	model.PermContentManageRules,
	model.PermTagsManage,
	model.PermIntegrationsManage,
	model.PermIntegrationsView,
	model.PermOrdersView,
	model.PermOrdersManage,
	model.PermWebhooksManage,
}

// RolePermissions maps each role to the permissions it holds.
var RolePermissions = map[model.Role]map[model.Permission]bool{
	model.RoleOwner: set(allPermissions...),
	model.RoleAdmin: set(allPermissions...),
	model.RoleEditor: set(
		model.PermContentViewPublic,
		model.PermContentViewPrivate,
		model.PermContentEdit,
		model.PermIntegrationsView,
		model.PermOrdersView,
	),
	model.RoleViewer: set(model.PermContentViewPublic),
}

func set(perms ...model.Permission) map[model.Permission]bool {
	m := make(map[model.Permission]bool, len(perms))
	for _, p := range perms {
		m[p] = true
	}
	return m
}

func HasPermission(role model.Role, perm model.Permission) bool {
	return RolePermissions[role][perm]
}

// Permissions lists the permissions held by role in declaration order.
func Permissions(role model.Role) []model.Permission {
	var out []model.Permission
	for _, p := range allPermissions {
		if HasPermission(role, p) {
			out = append(out, p)
		}
	}
	return out
}

// Allowed reports whether actor may perform an action guarded by perm.
// Platform admins pass every check.
func Allowed(actor model.Actor, perm model.Permission) bool {
	if actor.IsPlatformAdmin() {
		return true
	}
	return HasPermission(actor.Role(), perm)
}

// IsMember reports whether actor has an active membership (or is a platform admin).
func IsMember(actor model.Actor) bool {
	return actor.IsPlatformAdmin() || actor.Role() != ""
}
