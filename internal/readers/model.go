package readers

import "time"

type readerRow struct {
	ID        int64
	FullName  string
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
