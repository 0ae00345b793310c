package models

import "time"

// Kind names a book family. Its value doubles as the table name.
type Kind string

const (
	KindBook        Kind = "books"
	KindProfileBook Kind = "profile_books"
)

// Book is a catalog entry. Private books and shared profile books have the
// same shape; the family is determined by where the record is stored.
//
// OwnerID is set at creation and never changes.
type Book struct {
	ID          string
	OwnerID     string
	Owner       *PublicUser
	Title       string
	Author      string
	PublishYear int
	CoverKey    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// OwnerKey implements policy.Resource.
func (b *Book) OwnerKey() string { return b.OwnerID }

// BookFields is user input for create and update. A nil field was not
// provided.
type BookFields struct {
	Title       *string `json:"title" validate:"required,notblank"`
	Author      *string `json:"author" validate:"required,notblank"`
	PublishYear *int    `json:"publishYear" validate:"required,gt=0,lte=9999"`
}
