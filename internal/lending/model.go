package lending

import "time"

// Loan is one row of the ledger. ReturnDate is nil while the loan is open.
type Loan struct {
	ID         int64
	BookID     int64
	ReaderID   int64
	BorrowDate time.Time
	DueDate    time.Time
	ReturnDate *time.Time
}

func (l Loan) Open() bool { return l.ReturnDate == nil }

// Stock is the part of a book row the engine reads and writes.
type Stock struct {
	BookID          int64
	TotalCopies     int
	AvailableCopies int
}
