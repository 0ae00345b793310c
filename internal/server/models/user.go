// Package models defines server-side data models persisted in the database.
package models

import "time"

// User is a registered account. PasswordHash is an argon2id PHC string and
// never leaves the server.
//
// BookIDs and ProfileBookIDs are back-references to the books the user
// created. They are a convenience cache and never used for authorization.
type User struct {
	ID             string
	UserName       string
	PasswordHash   string
	BookIDs        []string
	ProfileBookIDs []string
	CreatedAt      time.Time
}

// Public returns the projection of u that is safe to show to other users.
func (u *User) Public() *PublicUser {
	return &PublicUser{ID: u.ID, UserName: u.UserName}
}

// OwnedIDs returns the back-reference set for kind.
func (u *User) OwnedIDs(kind Kind) []string {
	if kind == KindProfileBook {
		return u.ProfileBookIDs
	}
	return u.BookIDs
}

// PublicUser is the owner projection attached to shared books.
type PublicUser struct {
	ID       string `json:"id"`
	UserName string `json:"username"`
}
