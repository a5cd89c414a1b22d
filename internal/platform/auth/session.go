package auth

import "context"

// Session is the authenticated caller's identity, resolved once from the
// verified token. Handlers read it instead of reaching into raw claims.
type Session struct {
	UserID string
	Name   string
	Roles  []string
}

func SessionFromContext(ctx context.Context) Session {
	return Session{
		UserID: UserIDFromContext(ctx),
		Name:   userNameFromContext(ctx),
		Roles:  RolesFromContext(ctx),
	}
}

func userNameFromContext(ctx context.Context) string {
	name, _ := ctx.Value(UserNameKey).(string)
	return name
}

func (s Session) HasRole(role string) bool {
	for _, r := range s.Roles {
		if r == role || r == "admin" {
			return true
		}
	}
	return false
}

// Authenticated reports whether the session belongs to a known user.
func (s Session) Authenticated() bool {
	return s.UserID != ""
}
