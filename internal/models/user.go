package models

// AuthSession is the authenticated admin identity returned by the backend
// login endpoint. Token is sent as a bearer credential on every
// authenticated call.
type AuthSession struct {
	ID    ID     `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Token string `json:"token"`
}

// Authenticated reports whether the session carries a token.
func (s *AuthSession) Authenticated() bool {
	return s != nil && s.Token != ""
}
