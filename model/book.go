// model/book.go
package model

import (
	"time"

	"github.com/google/uuid"
)

type Book struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	Genre       string    `json:"genre"`
	Description string    `json:"description"`
	AddedBy     uuid.UUID `json:"addedBy"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// BookSummary is the projection returned by search.
type BookSummary struct {
	ID     uuid.UUID `json:"id"`
	Title  string    `json:"title"`
	Author string    `json:"author"`
	Genre  string    `json:"genre"`
}

// BookFilter narrows list results. Author is a case-insensitive substring,
// Genre an exact match; empty fields do not filter.
type BookFilter struct {
	Author string
	Genre  string
}

type BookList struct {
	Books      []Book
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

type BookDetail struct {
	Book         *Book              `json:"book"`
	Reviews      []ReviewWithAuthor `json:"reviews"`
	TotalReviews int64              `json:"totalReviews"`
	Page         int                `json:"page"`
	TotalPages   int                `json:"totalPages"`
}

// AddBookReq represents the add-book payload
// swagger:model AddBookReq
type AddBookReq struct {
	Title       string `json:"title"`
	Author      string `json:"author"`
	Genre       string `json:"genre"`
	Description string `json:"description"`
}
