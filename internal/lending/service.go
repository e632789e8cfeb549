package lending

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"library-backend/internal/platform/apierr"
	"library-backend/internal/platform/logger"
)

// BorrowLimit is the most open loans a reader may hold at once.
const BorrowLimit = 3

// MaxCopies caps total_copies of a single title, well inside the INT column.
const MaxCopies = 10000

type Clock interface{ Now() time.Time }
type realClock struct{}

func (realClock) Now() time.Time { return time.Now().UTC() }

type Service struct {
	repo       Repository
	clock      Clock
	loanPeriod int
}

func NewService(conn *sql.DB, loanPeriodDays int) *Service {
	return newService(NewStore(conn), realClock{}, loanPeriodDays)
}

func newService(repo Repository, clock Clock, loanPeriodDays int) *Service {
	return &Service{repo: repo, clock: clock, loanPeriod: loanPeriodDays}
}

// today is the current UTC calendar date at midnight.
func (s *Service) today() time.Time {
	y, m, d := s.clock.Now().UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Lend checks, in order: book exists, reader exists, a copy is free, the
// reader is under BorrowLimit, the reader does not already hold this book.
// The decrement and the new loan commit together or not at all.
func (s *Service) Lend(ctx context.Context, bookID, readerID int64) (Loan, error) {
	if bookID <= 0 || readerID <= 0 {
		return Loan{}, apierr.ErrInvalid("book_id and reader_id must be positive")
	}
	log := logger.FromContext(ctx).WithFields(logrus.Fields{"book_id": bookID, "reader_id": readerID})

	borrowed := s.today()
	due := borrowed.AddDate(0, 0, s.loanPeriod)

	var loan Loan
	err := s.repo.WithinTx(ctx, func(ctx context.Context, tx Tx) error {
		// lock order: book, then reader
		stock, err := tx.LockBook(ctx, bookID)
		if errors.Is(err, sql.ErrNoRows) {
			return errBookNotFound()
		}
		if err != nil {
			return err
		}

		err = tx.LockReader(ctx, readerID)
		if errors.Is(err, sql.ErrNoRows) {
			return errReaderNotFound()
		}
		if err != nil {
			return err
		}

		if stock.AvailableCopies < 1 {
			return errNoCopies()
		}

		open, err := tx.CountOpen(ctx, readerID)
		if err != nil {
			return err
		}
		if open >= BorrowLimit {
			return errBorrowLimit()
		}

		dup, err := tx.FindOpen(ctx, readerID, bookID)
		if err != nil {
			return err
		}
		if dup != nil {
			return errDuplicateLoan()
		}

		if err := tx.AdjustCopies(ctx, bookID, -1); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return errNoCopies()
			}
			return err
		}

		loan, err = tx.InsertOpenLoan(ctx, bookID, readerID, borrowed, due)
		if err != nil {
			if apierr.MySQLNumber(err) == apierr.MySQLDuplicateEntry {
				return errDuplicateLoan()
			}
			return err
		}
		return nil
	})
	if err != nil {
		return Loan{}, s.fail(log, "lend", err)
	}

	log.WithField("loan_id", loan.ID).Info("loan created")
	return loan, nil
}

// Return closes an open loan held by readerID and gives the copy back.
func (s *Service) Return(ctx context.Context, loanID, readerID int64) (Loan, error) {
	if loanID <= 0 || readerID <= 0 {
		return Loan{}, apierr.ErrInvalid("borrow_id and reader_id must be positive")
	}
	log := logger.FromContext(ctx).WithFields(logrus.Fields{"loan_id": loanID, "reader_id": readerID})

	returned := s.today()

	var loan Loan
	err := s.repo.WithinTx(ctx, func(ctx context.Context, tx Tx) error {
		// lock order: loan, then book
		cur, err := tx.LockLoan(ctx, loanID)
		if errors.Is(err, sql.ErrNoRows) {
			return errLoanNotFound()
		}
		if err != nil {
			return err
		}
		if !cur.Open() {
			return errAlreadyReturned()
		}
		if cur.ReaderID != readerID {
			return errWrongReader()
		}

		if _, err := tx.LockBook(ctx, cur.BookID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return errBookNotFound()
			}
			return err
		}

		loan, err = tx.CloseLoan(ctx, loanID, returned)
		if errors.Is(err, sql.ErrNoRows) {
			return errAlreadyReturned()
		}
		if err != nil {
			return err
		}

		if err := tx.AdjustCopies(ctx, cur.BookID, 1); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				// counter already at total_copies: ledger and catalog disagree
				return apierr.ErrInternal("copy counter out of range")
			}
			return err
		}
		return nil
	})
	if err != nil {
		return Loan{}, s.fail(log, "return", err)
	}

	log.WithField("book_id", loan.BookID).Info("loan returned")
	return loan, nil
}

// ActiveLoans lists the reader's open loans in id order.
func (s *Service) ActiveLoans(ctx context.Context, readerID int64) ([]Loan, error) {
	return s.listLoans(ctx, readerID, true)
}

// AllLoans lists open and closed loans in id order.
func (s *Service) AllLoans(ctx context.Context, readerID int64) ([]Loan, error) {
	return s.listLoans(ctx, readerID, false)
}

func (s *Service) listLoans(ctx context.Context, readerID int64, onlyOpen bool) ([]Loan, error) {
	if readerID <= 0 {
		return nil, apierr.ErrInvalid("reader_id must be positive")
	}
	loans, err := s.repo.ListLoans(ctx, readerID, onlyOpen)
	if err != nil {
		return nil, s.fail(logger.FromContext(ctx).WithField("reader_id", readerID), "list loans", err)
	}
	if len(loans) == 0 {
		return nil, errNoLoans()
	}
	return loans, nil
}

func (s *Service) GetLoan(ctx context.Context, loanID int64) (Loan, error) {
	if loanID <= 0 {
		return Loan{}, apierr.ErrInvalid("loan_id must be positive")
	}
	loan, err := s.repo.GetLoan(ctx, loanID)
	if errors.Is(err, sql.ErrNoRows) {
		return Loan{}, errLoanNotFound()
	}
	if err != nil {
		return Loan{}, s.fail(logger.FromContext(ctx).WithField("loan_id", loanID), "get loan", err)
	}
	return loan, nil
}

// Overdue lists open loans whose due date is before today. An empty list is not an error.
func (s *Service) Overdue(ctx context.Context) ([]Loan, error) {
	loans, err := s.repo.ListOverdue(ctx, s.today())
	if err != nil {
		return nil, s.fail(logger.FromContext(ctx), "list overdue", err)
	}
	return loans, nil
}

// AdjustCopies adds (delta > 0) or withdraws (delta < 0) physical copies.
// Only free copies can be withdrawn.
func (s *Service) AdjustCopies(ctx context.Context, bookID int64, delta int) (Stock, error) {
	if bookID <= 0 {
		return Stock{}, apierr.ErrInvalid("book_id must be positive")
	}
	if delta == 0 {
		return Stock{}, apierr.ErrInvalid("delta must not be zero")
	}
	if delta < -MaxCopies || delta > MaxCopies {
		return Stock{}, errTooManyCopies()
	}
	log := logger.FromContext(ctx).WithFields(logrus.Fields{"book_id": bookID, "delta": delta})

	var stock Stock
	err := s.repo.WithinTx(ctx, func(ctx context.Context, tx Tx) error {
		cur, err := tx.LockBook(ctx, bookID)
		if errors.Is(err, sql.ErrNoRows) {
			return errBookNotFound()
		}
		if err != nil {
			return err
		}
		if cur.AvailableCopies+delta < 0 {
			return errInsufficientCopies()
		}
		if cur.TotalCopies+delta > MaxCopies {
			return errTooManyCopies()
		}

		stock, err = tx.AdjustTotal(ctx, bookID, delta)
		if errors.Is(err, sql.ErrNoRows) || apierr.MySQLNumber(err) == apierr.MySQLCheckConstraint {
			return errInsufficientCopies()
		}
		if apierr.MySQLNumber(err) == apierr.MySQLOutOfRange {
			return errTooManyCopies()
		}
		return err
	})
	if err != nil {
		return Stock{}, s.fail(log, "adjust copies", err)
	}

	log.WithField("available_copies", stock.AvailableCopies).Info("inventory adjusted")
	return stock, nil
}

// fail logs err once and converts it for the caller. Broken rules are
// expected traffic; anything else is a persistence problem.
func (s *Service) fail(log *logrus.Entry, op string, err error) error {
	if reason := ReasonOf(err); reason != "" {
		log.WithField("reason", reason).Infof("%s rejected", op)
		return err
	}
	var api *apierr.APIError
	if errors.As(err, &api) {
		log.WithError(err).Warnf("%s failed", op)
		return err
	}
	out := apierr.FromStore(err)
	log.WithError(err).Errorf("%s failed", op)
	return out
}
