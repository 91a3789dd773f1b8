package entity

import "github.com/google/uuid"

type UserRole string

const (
	RoleAdmin   UserRole = "admin"
	RoleManager UserRole = "manager"
	RoleStaff   UserRole = "staff"
	RoleViewer  UserRole = "viewer"
)

type Permission string

const (
	PermissionRead   Permission = "read"
	PermissionUpdate Permission = "update"
	PermissionDelete Permission = "delete"
)

const ResourceBookings = "bookings"

var rolePermissions = map[UserRole][]Permission{
	RoleAdmin:   {PermissionRead, PermissionUpdate, PermissionDelete},
	RoleManager: {PermissionRead, PermissionUpdate, PermissionDelete},
	RoleStaff:   {PermissionRead, PermissionUpdate},
	RoleViewer:  {PermissionRead},
}

type User struct {
	BaseNoDelete
	Email        string     `db:"email"`
	Name         string     `db:"name"`
	PasswordHash string     `db:"password"`
	Role         UserRole   `db:"role"`
	MarinaID     *uuid.UUID `db:"marina_id"`
	IsActive     bool       `db:"is_active"`
}

// AuthContext is the caller identity resolved once per request.
type AuthContext struct {
	UserID   uuid.UUID
	Role     UserRole
	MarinaID *uuid.UUID
}

func NewAuthContext(u *User) AuthContext {
	return AuthContext{UserID: u.ID, Role: u.Role, MarinaID: u.MarinaID}
}

func (a AuthContext) IsAdmin() bool {
	return a.Role == RoleAdmin
}

func (a AuthContext) Can(p Permission) bool {
	for _, granted := range rolePermissions[a.Role] {
		if granted == p {
			return true
		}
	}
	return false
}

// CanAccessMarina restricts non-admin callers to their own marina.
func (a AuthContext) CanAccessMarina(marinaID uuid.UUID) bool {
	if a.IsAdmin() {
		return true
	}
	return a.MarinaID != nil && *a.MarinaID == marinaID
}
