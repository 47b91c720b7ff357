package model

import "time"

// Profile is the public slice of a user row, shown on the users page.
type Profile struct {
	ID          UserID  `db:"id" json:"id"`
	Email       string  `db:"email" json:"email"`
	DisplayName string  `db:"display_name" json:"display_name"`
	Biography   *string `db:"biography" json:"biography"`
}

// User is a full user row, password hash included. It never leaves the
// repo/usecase boundary.
type User struct {
	ID           UserID    `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	DisplayName  string    `db:"display_name" json:"display_name"`
	Biography    *string   `db:"biography" json:"biography"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

func (u *User) Profile() Profile {
	return Profile{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Biography:   u.Biography,
	}
}
