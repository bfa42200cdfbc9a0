package auth

// userIdentity adapts a stored User to the Identity consumed by the token
// service. Role resolution happens here, once, at token-mint time.
type userIdentity struct {
	user *User
}

// NewIdentity wraps a user record as an Identity
func NewIdentity(user *User) Identity {
	return &userIdentity{user: user}
}

func (i *userIdentity) ID() string {
	return i.user.ID.String()
}

func (i *userIdentity) Email() string {
	return i.user.Email
}

func (i *userIdentity) DisplayName() string {
	return i.user.DisplayName
}

func (i *userIdentity) Role() string {
	role := i.user.Role
	if role == "" {
		role = RoleMember
	}
	return string(role)
}
