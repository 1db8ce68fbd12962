// Package domain holds the entity model shared by every functional area:
// the record types stored in the document collections and the pure
// calculators that derive prices, totals and sequence numbers from them.
package domain

// Role classifies a user account.
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleStaff Role = "STAFF"
)

// Permission names one navigable area of the application.
type Permission string

const (
	PermissionDashboard      Permission = "DASHBOARD"
	PermissionInventory      Permission = "INVENTORY"
	PermissionOrderRequests  Permission = "ORDER_REQUESTS"
	PermissionSalesAnalytics Permission = "SALES_ANALYTICS"
	PermissionBarcodePrint   Permission = "BARCODE_PRINT"
	PermissionAdminSettings  Permission = "ADMIN_SETTINGS"
)

// AdminUserID is the reserved id of the primordial administrator. The
// account is seeded on first load and can never be deleted.
const AdminUserID = "1"

// AllPermissions returns every known permission, in sidebar order.
func AllPermissions() []Permission {
	return []Permission{
		PermissionDashboard,
		PermissionInventory,
		PermissionOrderRequests,
		PermissionSalesAnalytics,
		PermissionBarcodePrint,
		PermissionAdminSettings,
	}
}

// User is an application account. Passwords are stored and compared in
// plaintext; this mirrors the deployed data and is an accepted non-goal.
type User struct {
	ID          string       `json:"id"`
	Username    string       `json:"username"`
	Password    string       `json:"password,omitempty"`
	Role        Role         `json:"role"`
	Permissions []Permission `json:"permissions"`
}

// HasPermission reports whether the user may open the given area.
// ADMIN accounts implicitly hold every permission regardless of the
// stored list.
func (u User) HasPermission(p Permission) bool {
	if u.Role == RoleAdmin {
		return true
	}
	for _, perm := range u.Permissions {
		if perm == p {
			return true
		}
	}
	return false
}

// DefaultAdmin returns the seed administrator written when the users
// collection is found empty.
func DefaultAdmin() User {
	return User{
		ID:          AdminUserID,
		Username:    "admin",
		Password:    "admin",
		Role:        RoleAdmin,
		Permissions: AllPermissions(),
	}
}
