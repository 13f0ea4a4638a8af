package model

import "time"

type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Age          int       `json:"age"`
	PasswordHash string    `json:"-"`
	ProfileImage string    `json:"profile_image"`
	CreatedAt    time.Time `json:"created_at"`
}

// PublicUser is the part of a user record that may be shown to other users.
type PublicUser struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	Name         string `json:"name"`
	ProfileImage string `json:"profile_image"`
}

func (u User) Public() PublicUser {
	return PublicUser{
		ID:           u.ID,
		Username:     u.Username,
		Name:         u.Name,
		ProfileImage: u.ProfileImage,
	}
}

// Session is what login and registration hand back to the transport: the
// signed token to place in the cookie and the user it identifies.
type Session struct {
	Token string `json:"-"`
	User  User   `json:"user"`
}
