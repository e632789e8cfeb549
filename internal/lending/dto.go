package lending

import (
	"time"

	"github.com/samber/lo"
)

const dateLayout = "2006-01-02"

type LendRequest struct {
	BookID   int64 `json:"book_id" binding:"required,gt=0"`
	ReaderID int64 `json:"reader_id" binding:"required,gt=0"`
}

type ReturnRequest struct {
	BorrowID int64 `json:"borrow_id" binding:"required,gt=0"`
	ReaderID int64 `json:"reader_id" binding:"required,gt=0"`
}

// AdjustCopiesRequest: positive delta adds copies, negative withdraws free ones.
type AdjustCopiesRequest struct {
	Delta int `json:"delta" binding:"required,min=-10000,max=10000"`
}

type LoanResponse struct {
	ID         int64   `json:"id"`
	BookID     int64   `json:"book_id"`
	ReaderID   int64   `json:"reader_id"`
	BorrowDate string  `json:"borrow_date"`
	DueDate    string  `json:"due_date"`
	ReturnDate *string `json:"return_date"`
}

type StockResponse struct {
	BookID          int64 `json:"book_id"`
	TotalCopies     int   `json:"total_copies"`
	AvailableCopies int   `json:"available_copies"`
}

func toLoanResponse(l Loan) LoanResponse {
	return LoanResponse{
		ID:         l.ID,
		BookID:     l.BookID,
		ReaderID:   l.ReaderID,
		BorrowDate: l.BorrowDate.Format(dateLayout),
		DueDate:    l.DueDate.Format(dateLayout),
		ReturnDate: formatDatePtr(l.ReturnDate),
	}
}

func toLoanResponses(loans []Loan) []LoanResponse {
	return lo.Map(loans, func(l Loan, _ int) LoanResponse { return toLoanResponse(l) })
}

func toStockResponse(s Stock) StockResponse {
	return StockResponse{BookID: s.BookID, TotalCopies: s.TotalCopies, AvailableCopies: s.AvailableCopies}
}

func formatDatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	return lo.ToPtr(t.Format(dateLayout))
}
