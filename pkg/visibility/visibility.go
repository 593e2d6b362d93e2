package visibility

import (
	"github.com/Zisou1/2MNumerik-backend/pkg/enums"
)

// Editable-field capability table per role. This is deliberately a static
// lookup, kept separate from the mutation gateway's order/line scope table:
// the two vary independently.
var editableFieldsByRole = map[enums.UserRole][]string{
	enums.UserRoleAdmin: {
		"commercial_name",
		"client_display",
		"requested_delivery_at",
		"status",
		"production_stage",
		"workshop",
		"producer_name",
		"estimated_delivery_at",
		"estimated_work_minutes",
		"rush",
		"approved",
		"quantity",
		"unit_price",
		"notes",
	},
	enums.UserRoleCommercial: {
		"commercial_name",
		"client_display",
		"requested_delivery_at",
		"quantity",
		"unit_price",
		"rush",
		"notes",
	},
	enums.UserRoleInfographer: {
		"production_stage",
		"producer_name",
		"approved",
		"notes",
	},
	enums.UserRoleWorkshop: {
		"status",
		"production_stage",
		"workshop",
		"producer_name",
		"estimated_delivery_at",
		"estimated_work_minutes",
		"notes",
	},
}

// EditableFields returns the set of field names the role may edit.
func EditableFields(role enums.UserRole) map[string]struct{} {
	fields := editableFieldsByRole[role]
	set := make(map[string]struct{}, len(fields))
	for _, field := range fields {
		set[field] = struct{}{}
	}
	return set
}

// CanEdit reports whether the role may edit the named field.
func CanEdit(role enums.UserRole, field string) bool {
	_, ok := EditableFields(role)[field]
	return ok
}
