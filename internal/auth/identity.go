package auth

// Identity is the claim set carried by a session token. It is produced once at
// login or registration and embedded verbatim into every token of the session.
type Identity struct {
	Email    string `json:"email"`
	UserID   string `json:"user_id"`
	Username string `json:"username,omitempty"`
}

func (i Identity) complete() bool {
	return i.Email != "" && i.UserID != ""
}
