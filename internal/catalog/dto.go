package catalog

import "time"

// ===== Requests =====

type CreateBookRequest struct {
	Title       string  `json:"title" binding:"required,notblank,max=255"`
	Author      string  `json:"author" binding:"required,notblank,max=255"`
	Description *string `json:"description,omitempty"`
	Year        *int    `json:"year,omitempty" binding:"omitempty,gte=0,lte=9999"`
	ISBN        *string `json:"isbn,omitempty" binding:"omitempty,notblank,max=32"`
	// Copies sets both total and available. Defaults to 1.
	Copies *int `json:"copies,omitempty" binding:"omitempty,gte=0,lte=10000"`
}

// ReplaceBookRequest is the PUT body. Omitted optional fields are cleared.
type ReplaceBookRequest struct {
	Title       string  `json:"title" binding:"required,notblank,max=255"`
	Author      string  `json:"author" binding:"required,notblank,max=255"`
	Description *string `json:"description,omitempty"`
	Year        *int    `json:"year,omitempty" binding:"omitempty,gte=0,lte=9999"`
	ISBN        *string `json:"isbn,omitempty" binding:"omitempty,notblank,max=32"`
}

// BookPatch is the PATCH body; nil fields are left as they are.
type BookPatch struct {
	Title       *string `json:"title,omitempty" binding:"omitempty,notblank,max=255"`
	Author      *string `json:"author,omitempty" binding:"omitempty,notblank,max=255"`
	Description *string `json:"description,omitempty"`
	Year        *int    `json:"year,omitempty" binding:"omitempty,gte=0,lte=9999"`
	ISBN        *string `json:"isbn,omitempty" binding:"omitempty,notblank,max=32"`
}

func (p BookPatch) empty() bool {
	return p.Title == nil && p.Author == nil && p.Description == nil && p.Year == nil && p.ISBN == nil
}

// ===== Responses =====

type BookResponse struct {
	ID              int64     `json:"id"`
	Title           string    `json:"title"`
	Author          string    `json:"author"`
	Description     *string   `json:"description"`
	Year            *int      `json:"year"`
	ISBN            *string   `json:"isbn"`
	TotalCopies     int       `json:"total_copies"`
	AvailableCopies int       `json:"available_copies"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type ListBooksResponse struct {
	Items      []BookResponse `json:"items"`
	Total      int64          `json:"total"`
	NextOffset int            `json:"next_offset"`
}

// ===== Listing helpers =====

type Page struct {
	Limit  int
	Offset int
}

type BookQuery struct {
	// Q matches title or author.
	Q string
}
