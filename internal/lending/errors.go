package lending

import (
	"errors"
	"fmt"
	"net/http"

	"library-backend/internal/platform/apierr"
)

const (
	ReasonBookNotFound        = "BOOK_NOT_FOUND"
	ReasonReaderNotFound      = "READER_NOT_FOUND"
	ReasonLoanNotFound        = "LOAN_NOT_FOUND"
	ReasonNoCopiesAvailable   = "NO_COPIES_AVAILABLE"
	ReasonBorrowLimitReached  = "BORROW_LIMIT_REACHED"
	ReasonDuplicateActiveLoan = "DUPLICATE_ACTIVE_LOAN"
	ReasonAlreadyReturned     = "ALREADY_RETURNED"
	ReasonWrongReader         = "WRONG_READER"
	ReasonNoLoans             = "NO_LOANS"
	ReasonInsufficientCopies  = "INSUFFICIENT_COPIES"
	ReasonTooManyCopies       = "TOO_MANY_COPIES"
)

func errBookNotFound() error {
	return apierr.ErrNotFound("Book not found").WithReason(ReasonBookNotFound)
}

func errReaderNotFound() error {
	return apierr.ErrNotFound("Reader not found").WithReason(ReasonReaderNotFound)
}

func errLoanNotFound() error {
	return apierr.ErrNotFound("Borrow record not found").WithReason(ReasonLoanNotFound)
}

func errNoCopies() error {
	return apierr.ErrConflict("No available copies").WithReason(ReasonNoCopiesAvailable)
}

func errBorrowLimit() error {
	return apierr.ErrConflict("Reader has reached the borrow limit (3 books)").WithReason(ReasonBorrowLimitReached)
}

func errDuplicateLoan() error {
	return apierr.ErrConflict("Reader already borrowed this book and has not returned it").WithReason(ReasonDuplicateActiveLoan)
}

func errAlreadyReturned() error {
	return apierr.ErrConflict("Book already returned").WithReason(ReasonAlreadyReturned)
}

func errWrongReader() error {
	return apierr.ErrForbidden("This book was not borrowed by this reader").WithReason(ReasonWrongReader)
}

func errNoLoans() error {
	return apierr.ErrNotFound("Reader has no borrowed books").WithReason(ReasonNoLoans)
}

func errInsufficientCopies() error {
	return apierr.ErrConflict("not enough available copies to remove").WithReason(ReasonInsufficientCopies)
}

func errTooManyCopies() error {
	return apierr.ErrInvalid(fmt.Sprintf("a title may have at most %d copies", MaxCopies)).WithReason(ReasonTooManyCopies)
}

// ReasonOf returns the rule name carried by err, or "".
func ReasonOf(err error) string {
	var api *apierr.APIError
	if errors.As(err, &api) {
		return api.Reason
	}
	return ""
}

// ToHTTPStatus keeps the lending routes' historical mapping: a broken
// business rule is a 400, not a 409.
func ToHTTPStatus(err error) int {
	var api *apierr.APIError
	if errors.As(err, &api) && api.Code == apierr.CodeConflict {
		return http.StatusBadRequest
	}
	return apierr.ToHTTPStatus(err)
}
