package auth

// Permissions is the capability set a role grants. The frontend uses it to
// hide actions; the API enforces the same matrix through RBACAuthorization.
type Permissions struct {
	CanRead        bool `json:"can_read"`
	CanCreate      bool `json:"can_create"`
	CanEdit        bool `json:"can_edit"`
	CanDelete      bool `json:"can_delete"`
	CanExport      bool `json:"can_export"`
	CanManageUsers bool `json:"can_manage_users"`
}

type PermissionChecker interface {
	CanRead(u *User) bool
	CanCreate(u *User) bool
	CanEdit(u *User) bool
	CanDelete(u *User) bool
	CanExport(u *User) bool
	CanManageUsers(u *User) bool
	HasRole(u *User, required Role) bool
}

type DefaultPermissionChecker struct{}

func NewPermissionChecker() PermissionChecker {
	return &DefaultPermissionChecker{}
}

// HasRole is false for a nil user or an inactive one.
func (c *DefaultPermissionChecker) HasRole(u *User, required Role) bool {
	if u == nil || !u.Active {
		return false
	}
	return u.Role.AtLeast(required)
}

func (c *DefaultPermissionChecker) CanRead(u *User) bool {
	return c.HasRole(u, RoleViewer)
}

func (c *DefaultPermissionChecker) CanCreate(u *User) bool {
	return c.HasRole(u, RoleOperator)
}

func (c *DefaultPermissionChecker) CanEdit(u *User) bool {
	return c.HasRole(u, RoleOperator)
}

func (c *DefaultPermissionChecker) CanDelete(u *User) bool {
	return c.HasRole(u, RoleAdmin)
}

func (c *DefaultPermissionChecker) CanExport(u *User) bool {
	return c.HasRole(u, RoleOperator)
}

func (c *DefaultPermissionChecker) CanManageUsers(u *User) bool {
	return c.HasRole(u, RoleAdmin)
}

// PermissionsFor evaluates the whole matrix for one user.
func PermissionsFor(c PermissionChecker, u *User) Permissions {
	return Permissions{
		CanRead:        c.CanRead(u),
		CanCreate:      c.CanCreate(u),
		CanEdit:        c.CanEdit(u),
		CanDelete:      c.CanDelete(u),
		CanExport:      c.CanExport(u),
		CanManageUsers: c.CanManageUsers(u),
	}
}
