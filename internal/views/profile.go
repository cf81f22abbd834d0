package views

// ProfileView is the signed-in user's profile as displayed
type ProfileView struct {
	Name        string `json:"name" yaml:"name"`
	Email       string `json:"email" yaml:"email"`
	Role        string `json:"role" yaml:"role"`
	MemberSince string `json:"memberSince,omitempty" yaml:"memberSince,omitempty"`
}

// Profile renders the session user. It returns false when no user is signed in.
func Profile(session Session) (ProfileView, bool) {
	user := session.User()
	if user == nil {
		return ProfileView{}, false
	}
	return ProfileView{
		Name:        user.Name,
		Email:       user.Email,
		Role:        user.RoleLabel(),
		MemberSince: user.CreatedAt,
	}, true
}

// Nav is what the navigation bar offers the current user
type Nav struct {
	SignedIn bool
	Admin    bool
	UserName string
}

// Navigation returns the navigation state for session
func Navigation(session Session) Nav {
	nav := Nav{SignedIn: session.IsAuthenticated(), Admin: session.IsAdmin()}
	if u := session.User(); u != nil {
		nav.UserName = u.Name
	}
	return nav
}
