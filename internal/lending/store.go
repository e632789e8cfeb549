package lending

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"library-backend/internal/platform/db"
)

// CatalogStore is the engine's view of the books table. Only the engine
// writes the copy counters.
type CatalogStore interface {
	// LockBook reads the counters and holds the row until the tx ends.
	LockBook(ctx context.Context, bookID int64) (Stock, error)
	// AdjustCopies moves available_copies by delta, staying within [0, total_copies].
	// sql.ErrNoRows when the book is gone or the bound would be crossed.
	AdjustCopies(ctx context.Context, bookID int64, delta int) error
	// AdjustTotal moves total and available by the same delta, keeping
	// available >= 0 and total <= MaxCopies; sql.ErrNoRows otherwise.
	AdjustTotal(ctx context.Context, bookID int64, delta int) (Stock, error)
}

type LedgerStore interface {
	LockReader(ctx context.Context, readerID int64) error
	CountOpen(ctx context.Context, readerID int64) (int, error)
	// FindOpen returns (nil, nil) when the reader holds no open loan for the book.
	FindOpen(ctx context.Context, readerID, bookID int64) (*Loan, error)
	InsertOpenLoan(ctx context.Context, bookID, readerID int64, borrowed, due time.Time) (Loan, error)
	LockLoan(ctx context.Context, loanID int64) (Loan, error)
	// CloseLoan only closes an open loan; sql.ErrNoRows otherwise.
	CloseLoan(ctx context.Context, loanID int64, returned time.Time) (Loan, error)
}

// Tx is everything one lend/return/adjust needs, bound to a single transaction.
type Tx interface {
	CatalogStore
	LedgerStore
}

type Repository interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	ListLoans(ctx context.Context, readerID int64, onlyOpen bool) ([]Loan, error)
	GetLoan(ctx context.Context, loanID int64) (Loan, error)
	ListOverdue(ctx context.Context, asOf time.Time) ([]Loan, error)
}

type Store struct {
	db *sql.DB
}

func NewStore(conn *sql.DB) *Store { return &Store{db: conn} }

func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error {
	return db.RunInTx(ctx, s.db, db.ReadCommitted, func(ctx context.Context, q db.DBTX) error {
		return fn(ctx, &txStore{q: q})
	})
}

const loanColumns = `id, book_id, reader_id, borrow_date, due_date, return_date`

type scanner interface {
	Scan(dest ...any) error
}

func scanLoan(sc scanner) (Loan, error) {
	var (
		l        Loan
		returned sql.NullTime
	)
	if err := sc.Scan(&l.ID, &l.BookID, &l.ReaderID, &l.BorrowDate, &l.DueDate, &returned); err != nil {
		return Loan{}, err
	}
	if returned.Valid {
		t := returned.Time
		l.ReturnDate = &t
	}
	return l, nil
}

func queryLoans(ctx context.Context, q db.DBTX, query string, args ...any) ([]Loan, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Loan, 0)
	for rows.Next() {
		l, err := scanLoan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (s *Store) ListLoans(ctx context.Context, readerID int64, onlyOpen bool) ([]Loan, error) {
	q := `SELECT ` + loanColumns + ` FROM loans WHERE reader_id = ?`
	if onlyOpen {
		q += ` AND return_date IS NULL`
	}
	q += ` ORDER BY id`
	return queryLoans(ctx, s.db, q, readerID)
}

func (s *Store) GetLoan(ctx context.Context, loanID int64) (Loan, error) {
	const q = `SELECT ` + loanColumns + ` FROM loans WHERE id = ?`
	return scanLoan(s.db.QueryRowContext(ctx, q, loanID))
}

func (s *Store) ListOverdue(ctx context.Context, asOf time.Time) ([]Loan, error) {
	const q = `SELECT ` + loanColumns + `
FROM loans
WHERE return_date IS NULL AND due_date < ?
ORDER BY due_date, id`
	return queryLoans(ctx, s.db, q, asOf)
}

// txStore runs every statement on the transaction handed out by WithinTx.
type txStore struct {
	q db.DBTX
}

func (t *txStore) LockBook(ctx context.Context, bookID int64) (Stock, error) {
	const q = `SELECT id, total_copies, available_copies FROM books WHERE id = ? FOR UPDATE`
	var st Stock
	err := t.q.QueryRowContext(ctx, q, bookID).Scan(&st.BookID, &st.TotalCopies, &st.AvailableCopies)
	return st, err
}

func (t *txStore) AdjustCopies(ctx context.Context, bookID int64, delta int) error {
	const q = `
UPDATE books
SET available_copies = available_copies + ?
WHERE id = ?
  AND available_copies + ? >= 0
  AND available_copies + ? <= total_copies`
	res, err := t.q.ExecContext(ctx, q, delta, bookID, delta, delta)
	if err != nil {
		return err
	}
	return expectOneRow(res)
}

func (t *txStore) AdjustTotal(ctx context.Context, bookID int64, delta int) (Stock, error) {
	const q = `
UPDATE books
SET total_copies = total_copies + ?, available_copies = available_copies + ?
WHERE id = ?
  AND available_copies + ? >= 0
  AND total_copies + ? <= ?`
	res, err := t.q.ExecContext(ctx, q, delta, delta, bookID, delta, delta, MaxCopies)
	if err != nil {
		return Stock{}, err
	}
	if err := expectOneRow(res); err != nil {
		return Stock{}, err
	}
	return t.LockBook(ctx, bookID)
}

func (t *txStore) LockReader(ctx context.Context, readerID int64) error {
	const q = `SELECT id FROM readers WHERE id = ? FOR UPDATE`
	var id int64
	return t.q.QueryRowContext(ctx, q, readerID).Scan(&id)
}

func (t *txStore) CountOpen(ctx context.Context, readerID int64) (int, error) {
	const q = `SELECT COUNT(*) FROM loans WHERE reader_id = ? AND return_date IS NULL`
	var n int
	err := t.q.QueryRowContext(ctx, q, readerID).Scan(&n)
	return n, err
}

func (t *txStore) FindOpen(ctx context.Context, readerID, bookID int64) (*Loan, error) {
	const q = `SELECT ` + loanColumns + `
FROM loans
WHERE reader_id = ? AND book_id = ? AND return_date IS NULL
LIMIT 1`
	l, err := scanLoan(t.q.QueryRowContext(ctx, q, readerID, bookID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (t *txStore) InsertOpenLoan(ctx context.Context, bookID, readerID int64, borrowed, due time.Time) (Loan, error) {
	const q = `INSERT INTO loans (book_id, reader_id, borrow_date, due_date) VALUES (?, ?, ?, ?)`
	res, err := t.q.ExecContext(ctx, q, bookID, readerID, borrowed, due)
	if err != nil {
		return Loan{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Loan{}, err
	}
	return Loan{ID: id, BookID: bookID, ReaderID: readerID, BorrowDate: borrowed, DueDate: due}, nil
}

func (t *txStore) LockLoan(ctx context.Context, loanID int64) (Loan, error) {
	const q = `SELECT ` + loanColumns + ` FROM loans WHERE id = ? FOR UPDATE`
	return scanLoan(t.q.QueryRowContext(ctx, q, loanID))
}

func (t *txStore) CloseLoan(ctx context.Context, loanID int64, returned time.Time) (Loan, error) {
	const q = `UPDATE loans SET return_date = ? WHERE id = ? AND return_date IS NULL`
	res, err := t.q.ExecContext(ctx, q, returned, loanID)
	if err != nil {
		return Loan{}, err
	}
	if err := expectOneRow(res); err != nil {
		return Loan{}, err
	}
	return t.LockLoan(ctx, loanID)
}

// expectOneRow turns "matched nothing" into sql.ErrNoRows.
func expectOneRow(res sql.Result) error {
	aff, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if aff != 1 {
		return sql.ErrNoRows
	}
	return nil
}
