// Package models holds the client-side view of the API resources.
package models

import "time"

// Family selects a book collection on the server. Its value is the route
// prefix.
type Family string

const (
	FamilyBooks        Family = "books"
	FamilyProfileBooks Family = "profilebooks"
)

type Owner struct {
	ID       string `json:"id"`
	UserName string `json:"username"`
}

// Book is a private book or a shared profile book as rendered by the API.
// Owner is only present for profile books.
type Book struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	PublishYear int       `json:"publishYear"`
	OwnerID     string    `json:"ownerId"`
	Owner       *Owner    `json:"owner,omitempty"`
	CoverKey    string    `json:"coverKey,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// BookInput is the body of create and update requests.
type BookInput struct {
	Title       string `json:"title"`
	Author      string `json:"author"`
	PublishYear int    `json:"publishYear"`
}

type BookList struct {
	Count int     `json:"count"`
	Data  []*Book `json:"data"`
}

// User is the current user as returned by /auth/me.
type User struct {
	ID             string    `json:"id"`
	UserName       string    `json:"username"`
	BookIDs        []string  `json:"bookIds"`
	ProfileBookIDs []string  `json:"profileBookIds"`
	CreatedAt      time.Time `json:"createdAt"`
}

type Session struct {
	Token string `json:"token"`
	User  *Owner `json:"user"`
}

type CoverURL struct {
	Key string `json:"key"`
	URL string `json:"url"`
}
