package users

import "github.com/northfield/graphweave/schemabuilder"

// RegisterEnums registers the Role enum.
func RegisterEnums(sb *schemabuilder.Schema) {
	sb.Enum(RoleMember, map[string]interface{}{
		"ADMIN":  RoleAdmin,
		"MEMBER": RoleMember,
		"GUEST":  RoleGuest,
	}, "Role for user access control (ADMIN full, MEMBER standard, GUEST limited).")
}