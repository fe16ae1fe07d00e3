package models

import "time"

// User is the stored account row.
type User struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // never expose the hash
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UserView is the public shape returned by register/login and embedded
// as the owner object on cocktail responses.
type UserView struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// View strips everything but the public fields.
func (u *User) View() UserView {
	return UserView{ID: u.ID, Name: u.Name, Email: u.Email}
}
