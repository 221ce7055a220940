package models

// EditPermissions is the single application-settings record naming the
// roles allowed to edit parcels.
type EditPermissions struct {
	AllowedRoles []string `json:"allowedRoles"`
}

// Allows reports whether role may edit parcels. An empty role set means
// editing stays admin-only.
func (p EditPermissions) Allows(role string) bool {
	for _, r := range p.AllowedRoles {
		if r == role {
			return true
		}
	}
	return false
}

// EditPermissionsKey is the app_settings key holding the record.
const EditPermissionsKey = "edit_permissions"
