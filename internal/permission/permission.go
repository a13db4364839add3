// Package permission is the static role -> capability table.
package permission

import (
	"fmt"
	"sort"
)

// Role is a user's global role or an organization membership role.
type Role string

const (
	RoleSuperAdmin      Role = "super_admin"
	RoleOwner           Role = "owner"
	RolePropertyManager Role = "property_manager"
	RoleStaff           Role = "staff"
	RoleTenant          Role = "tenant"
	RoleMaintenance     Role = "maintenance"
)

var roles = []Role{RoleSuperAdmin, RoleOwner, RolePropertyManager, RoleStaff, RoleTenant, RoleMaintenance}

// Permission is a capability tag. The set is closed: values outside of
// registered cannot be parsed.
type Permission string

const (
	Wildcard Permission = "*"

	OrganizationRead  Permission = "organization:read"
	OrganizationWrite Permission = "organization:write"
	MembersRead       Permission = "members:read"
	MembersWrite      Permission = "members:write"
	PropertiesRead    Permission = "properties:read"
	PropertiesWrite   Permission = "properties:write"
	PropertiesDelete  Permission = "properties:delete"
	UnitsRead         Permission = "units:read"
	UnitsWrite        Permission = "units:write"
	TenantsRead       Permission = "tenants:read"
	TenantsWrite      Permission = "tenants:write"
	LeasesRead        Permission = "leases:read"
	LeasesWrite       Permission = "leases:write"
	BillingRead       Permission = "billing:read"
	BillingWrite      Permission = "billing:write"
	PaymentsRead      Permission = "payments:read"
	PaymentsWrite     Permission = "payments:write"
	ListingsRead      Permission = "listings:read"
	ListingsWrite     Permission = "listings:write"
	MaintenanceRead   Permission = "maintenance:read"
	MaintenanceWrite  Permission = "maintenance:write"
	CalendarRead      Permission = "calendar:read"
	CalendarWrite     Permission = "calendar:write"
	ExpensesRead      Permission = "expenses:read"
	ExpensesWrite     Permission = "expenses:write"
	VendorsRead       Permission = "vendors:read"
	VendorsWrite      Permission = "vendors:write"
	ApplicationsRead  Permission = "applications:read"
	ApplicationsWrite Permission = "applications:write"
	SubscriptionRead  Permission = "subscription:read"
	SubscriptionWrite Permission = "subscription:write"
	ReportsRead       Permission = "reports:read"
)

var registered = map[Permission]struct{}{
	OrganizationRead: {}, OrganizationWrite: {},
	MembersRead: {}, MembersWrite: {},
	PropertiesRead: {}, PropertiesWrite: {}, PropertiesDelete: {},
	UnitsRead: {}, UnitsWrite: {},
	TenantsRead: {}, TenantsWrite: {},
	LeasesRead: {}, LeasesWrite: {},
	BillingRead: {}, BillingWrite: {},
	PaymentsRead: {}, PaymentsWrite: {},
	ListingsRead: {}, ListingsWrite: {},
	MaintenanceRead: {}, MaintenanceWrite: {},
	CalendarRead: {}, CalendarWrite: {},
	ExpensesRead: {}, ExpensesWrite: {},
	VendorsRead: {}, VendorsWrite: {},
	ApplicationsRead: {}, ApplicationsWrite: {},
	SubscriptionRead: {}, SubscriptionWrite: {},
	ReportsRead: {},
}

// rolePermissions is the published table. Keep it in sync with registered;
// TestTableOnlyUsesRegisteredPermissions guards that.
var rolePermissions = map[Role][]Permission{
	RoleSuperAdmin: {Wildcard},
	RoleOwner:      {Wildcard},
	RolePropertyManager: {
		OrganizationRead, MembersRead,
		PropertiesRead, PropertiesWrite, PropertiesDelete,
		UnitsRead, UnitsWrite,
		TenantsRead, TenantsWrite,
		LeasesRead, LeasesWrite,
		BillingRead, BillingWrite,
		PaymentsRead, PaymentsWrite,
		ListingsRead, ListingsWrite,
		MaintenanceRead, MaintenanceWrite,
		CalendarRead, CalendarWrite,
		ExpensesRead, ExpensesWrite,
		VendorsRead, VendorsWrite,
		ApplicationsRead, ApplicationsWrite,
		SubscriptionRead, ReportsRead,
	},
	RoleStaff: {
		OrganizationRead,
		PropertiesRead, UnitsRead, TenantsRead, LeasesRead,
		BillingRead, PaymentsRead, ListingsRead,
		MaintenanceRead, MaintenanceWrite,
		CalendarRead, CalendarWrite,
		ExpensesRead, VendorsRead, ApplicationsRead,
	},
	RoleTenant: {
		BillingRead, PaymentsRead, LeasesRead,
		MaintenanceRead, MaintenanceWrite,
		CalendarRead,
	},
	RoleMaintenance: {
		MaintenanceRead, MaintenanceWrite,
		PropertiesRead, UnitsRead, VendorsRead,
		CalendarRead,
	},
}

// HasPermission reports whether role grants p: the role's list holds "*" or p.
func HasPermission(role Role, p Permission) bool {
	for _, granted := range rolePermissions[role] {
		if granted == Wildcard || granted == p {
			return true
		}
	}
	return false
}

// PermissionsFor returns a copy of the table row for role.
func PermissionsFor(role Role) []Permission {
	perms := rolePermissions[role]
	out := make([]Permission, len(perms))
	copy(out, perms)
	return out
}

// Registered reports whether p belongs to the closed set.
func Registered(p Permission) bool {
	_, ok := registered[p]
	return ok
}

// All returns every registered permission, sorted.
func All() []Permission {
	out := make([]Permission, 0, len(registered))
	for p := range registered {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ParsePermission rejects strings outside the registered set.
func ParsePermission(s string) (Permission, error) {
	p := Permission(s)
	if !Registered(p) {
		return "", fmt.Errorf("unknown permission %q", s)
	}
	return p, nil
}

// Roles returns every role in the table.
func Roles() []Role {
	out := make([]Role, len(roles))
	copy(out, roles)
	return out
}

func (r Role) Valid() bool {
	_, ok := rolePermissions[r]
	return ok
}

// ParseRole rejects unknown role names.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}
