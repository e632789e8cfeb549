package readers

import "time"

type CreateReaderRequest struct {
	FullName string `json:"full_name" binding:"required,notblank,max=255"`
	Email    string `json:"email" binding:"required,email,max=255"`
}

// ReaderPatch is the PATCH body; nil fields are left as they are.
type ReaderPatch struct {
	FullName *string `json:"full_name,omitempty" binding:"omitempty,notblank,max=255"`
	Email    *string `json:"email,omitempty" binding:"omitempty,email,max=255"`
}

type ReaderResponse struct {
	ID        int64     `json:"id"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ListReadersResponse struct {
	Items      []ReaderResponse `json:"items"`
	Total      int64            `json:"total"`
	NextOffset int              `json:"next_offset"`
}

type Page struct {
	Limit  int
	Offset int
}
