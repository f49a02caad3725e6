package auth

// userIdentity adapts a *User to the Identity interface.
type userIdentity struct {
	user *User
}

// IdentityFromUser wraps a stored user as an Identity for token issuance.
func IdentityFromUser(user *User) Identity {
	return &userIdentity{user: user}
}

func (i *userIdentity) ID() string {
	if i.user == nil {
		return ""
	}
	return i.user.ID.String()
}

func (i *userIdentity) Username() string {
	if i.user == nil {
		return ""
	}
	return i.user.Username
}

func (i *userIdentity) Email() string {
	if i.user == nil {
		return ""
	}
	return i.user.Email
}

func (i *userIdentity) Roles() []string {
	if i.user == nil {
		return nil
	}
	return i.user.Roles
}
