package models

import "github.com/dmitrijs2005/gophadmin/internal/common"

// Permissions returns the de-duplicated permission names granted by all of
// the user's profiles, in first-seen order.
func (u *User) Permissions() []string {
	if u == nil {
		return nil
	}
	seen := make(map[string]struct{})
	var out []string
	for _, p := range u.Profiles {
		for _, perm := range p.Permissions {
			if _, ok := seen[perm.Name]; ok {
				continue
			}
			seen[perm.Name] = struct{}{}
			out = append(out, perm.Name)
		}
	}
	return out
}

// IsSuperAdmin reports whether the user holds the SUPER_ADMIN permission or a
// profile of the same name.
func (u *User) IsSuperAdmin() bool {
	if u == nil {
		return false
	}
	for _, p := range u.Profiles {
		if p.Name == common.PermSuperAdmin {
			return true
		}
		for _, perm := range p.Permissions {
			if perm.Name == common.PermSuperAdmin {
				return true
			}
		}
	}
	return false
}

// HasPermission reports whether the user may perform the named action.
// SUPER_ADMIN grants everything.
func (u *User) HasPermission(name string) bool {
	if u == nil {
		return false
	}
	if u.IsSuperAdmin() {
		return true
	}
	for _, p := range u.Profiles {
		for _, perm := range p.Permissions {
			if perm.Name == name {
				return true
			}
		}
	}
	return false
}

// HasAnyPermission is true when at least one of names is granted. An empty
// list grants nothing.
func (u *User) HasAnyPermission(names ...string) bool {
	for _, n := range names {
		if u.HasPermission(n) {
			return true
		}
	}
	return false
}
