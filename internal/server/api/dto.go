package api

import (
	"time"

	"github.com/dmitrijs2005/bookkeeper/internal/server/models"
	"github.com/dmitrijs2005/bookkeeper/internal/server/policy"
)

type bookResponse struct {
	ID          string             `json:"id"`
	Title       string             `json:"title"`
	Author      string             `json:"author"`
	PublishYear int                `json:"publishYear"`
	OwnerID     string             `json:"ownerId"`
	Owner       *models.PublicUser `json:"owner,omitempty"`
	CoverKey    string             `json:"coverKey,omitempty"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
}

// newBookResponse renders b. The owner projection is only shown for shared
// books.
func newBookResponse(b *models.Book, vis policy.Visibility) bookResponse {
	r := bookResponse{
		ID:          b.ID,
		Title:       b.Title,
		Author:      b.Author,
		PublishYear: b.PublishYear,
		OwnerID:     b.OwnerID,
		CoverKey:    b.CoverKey,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
	if vis == policy.Shared {
		r.Owner = b.Owner
	}
	return r
}

type listResponse struct {
	Count int            `json:"count"`
	Data  []bookResponse `json:"data"`
}

func newListResponse(books []*models.Book, vis policy.Visibility) listResponse {
	data := make([]bookResponse, 0, len(books))
	for _, b := range books {
		data = append(data, newBookResponse(b, vis))
	}
	return listResponse{Count: len(data), Data: data}
}

type authResponse struct {
	Token string             `json:"token"`
	User  *models.PublicUser `json:"user"`
}

type meResponse struct {
	ID             string    `json:"id"`
	UserName       string    `json:"username"`
	BookIDs        []string  `json:"bookIds"`
	ProfileBookIDs []string  `json:"profileBookIds"`
	CreatedAt      time.Time `json:"createdAt"`
}

func newMeResponse(u *models.User) meResponse {
	r := meResponse{
		ID:             u.ID,
		UserName:       u.UserName,
		BookIDs:        u.BookIDs,
		ProfileBookIDs: u.ProfileBookIDs,
		CreatedAt:      u.CreatedAt,
	}
	if r.BookIDs == nil {
		r.BookIDs = []string{}
	}
	if r.ProfileBookIDs == nil {
		r.ProfileBookIDs = []string{}
	}
	return r
}
