package catalog

import (
	"database/sql"
	"time"
)

type bookRow struct {
	ID              int64
	Title           string
	Author          string
	Description     sql.NullString
	Year            sql.NullInt64
	ISBN            sql.NullString
	TotalCopies     int
	AvailableCopies int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// bookFields are the descriptive columns PUT replaces. Copy counters are not among them.
type bookFields struct {
	Title       string
	Author      string
	Description *string
	Year        *int
	ISBN        *string
}
