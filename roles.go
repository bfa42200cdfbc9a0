package auth

// IsValid checks if the role is one of the predefined valid roles
func (r UserRole) IsValid() bool {
	switch r {
	case RoleGuest, RoleMember, RoleAdmin, RoleOwner:
		return true
	default:
		return false
	}
}

// CanRead checks if this role can read resources
func (r UserRole) CanRead() bool {
	switch r {
	case RoleGuest, RoleMember, RoleAdmin, RoleOwner:
		return true
	default:
		return false
	}
}

// CanEdit checks if this role can edit resources
func (r UserRole) CanEdit() bool {
	switch r {
	case RoleMember, RoleAdmin, RoleOwner:
		return true
	default:
		return false
	}
}

// CanCreate checks if this role can create resources
func (r UserRole) CanCreate() bool {
	switch r {
	case RoleAdmin, RoleOwner:
		return true
	default:
		return false
	}
}

// CanDelete checks if this role can delete resources
func (r UserRole) CanDelete() bool {
	return r == RoleOwner
}

// IsAtLeast checks if this role meets the minimum required level
func (r UserRole) IsAtLeast(minRole UserRole) bool {
	hierarchy := map[UserRole]int{
		RoleGuest:  0,
		RoleMember: 1,
		RoleAdmin:  2,
		RoleOwner:  3,
	}

	level, ok := hierarchy[r]
	if !ok {
		return false
	}

	min, ok := hierarchy[minRole]
	if !ok {
		return false
	}

	return level >= min
}
