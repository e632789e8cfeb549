package lending

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"
)

// memRepo is an in-memory Repository. One mutex covers a whole transaction,
// and every write inside it records an undo step for rollback.
type memRepo struct {
	mu      sync.Mutex
	books   map[int64]*Stock
	readers map[int64]bool
	loans   []Loan

	// failInsert makes the next InsertOpenLoan fail after the counter moved.
	failInsert error
}

func newMemRepo() *memRepo {
	return &memRepo{books: map[int64]*Stock{}, readers: map[int64]bool{}}
}

func (m *memRepo) addBook(id int64, copies int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.books[id] = &Stock{BookID: id, TotalCopies: copies, AvailableCopies: copies}
}

func (m *memRepo) addReader(id int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readers[id] = true
}

func (m *memRepo) available(id int64) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.books[id].AvailableCopies
}

func (m *memRepo) openCount(bookID int64) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, l := range m.loans {
		if l.BookID == bookID && l.Open() {
			n++
		}
	}
	return n
}

func (m *memRepo) WithinTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	tx := &memTx{m: m}
	if err := fn(ctx, tx); err != nil {
		for i := len(tx.undo) - 1; i >= 0; i-- {
			tx.undo[i]()
		}
		return err
	}
	return nil
}

func (m *memRepo) ListLoans(_ context.Context, readerID int64, onlyOpen bool) ([]Loan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Loan, 0)
	for _, l := range m.loans {
		if l.ReaderID == readerID && (!onlyOpen || l.Open()) {
			out = append(out, l)
		}
	}
	return out, nil
}

func (m *memRepo) GetLoan(_ context.Context, loanID int64) (Loan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if loanID < 1 || int(loanID) > len(m.loans) {
		return Loan{}, sql.ErrNoRows
	}
	return m.loans[loanID-1], nil
}

func (m *memRepo) ListOverdue(_ context.Context, asOf time.Time) ([]Loan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Loan, 0)
	for _, l := range m.loans {
		if l.Open() && l.DueDate.Before(asOf) {
			out = append(out, l)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DueDate.Before(out[j].DueDate) })
	return out, nil
}

type memTx struct {
	m    *memRepo
	undo []func()
}

func (t *memTx) LockBook(_ context.Context, bookID int64) (Stock, error) {
	b, ok := t.m.books[bookID]
	if !ok {
		return Stock{}, sql.ErrNoRows
	}
	return *b, nil
}

func (t *memTx) AdjustCopies(_ context.Context, bookID int64, delta int) error {
	b, ok := t.m.books[bookID]
	if !ok {
		return sql.ErrNoRows
	}
	next := b.AvailableCopies + delta
	if next < 0 || next > b.TotalCopies {
		return sql.ErrNoRows
	}
	prev := b.AvailableCopies
	b.AvailableCopies = next
	t.undo = append(t.undo, func() { b.AvailableCopies = prev })
	return nil
}

func (t *memTx) AdjustTotal(_ context.Context, bookID int64, delta int) (Stock, error) {
	b, ok := t.m.books[bookID]
	if !ok || b.AvailableCopies+delta < 0 || b.TotalCopies+delta > MaxCopies {
		return Stock{}, sql.ErrNoRows
	}
	prev := *b
	b.TotalCopies += delta
	b.AvailableCopies += delta
	t.undo = append(t.undo, func() { *b = prev })
	return *b, nil
}

func (t *memTx) LockReader(_ context.Context, readerID int64) error {
	if !t.m.readers[readerID] {
		return sql.ErrNoRows
	}
	return nil
}

func (t *memTx) CountOpen(_ context.Context, readerID int64) (int, error) {
	n := 0
	for _, l := range t.m.loans {
		if l.ReaderID == readerID && l.Open() {
			n++
		}
	}
	return n, nil
}

func (t *memTx) FindOpen(_ context.Context, readerID, bookID int64) (*Loan, error) {
	for _, l := range t.m.loans {
		if l.ReaderID == readerID && l.BookID == bookID && l.Open() {
			cp := l
			return &cp, nil
		}
	}
	return nil, nil
}

func (t *memTx) InsertOpenLoan(_ context.Context, bookID, readerID int64, borrowed, due time.Time) (Loan, error) {
	if err := t.m.failInsert; err != nil {
		t.m.failInsert = nil
		return Loan{}, err
	}
	l := Loan{
		ID:         int64(len(t.m.loans) + 1),
		BookID:     bookID,
		ReaderID:   readerID,
		BorrowDate: borrowed,
		DueDate:    due,
	}
	t.m.loans = append(t.m.loans, l)
	t.undo = append(t.undo, func() { t.m.loans = t.m.loans[:len(t.m.loans)-1] })
	return l, nil
}

func (t *memTx) LockLoan(_ context.Context, loanID int64) (Loan, error) {
	if loanID < 1 || int(loanID) > len(t.m.loans) {
		return Loan{}, sql.ErrNoRows
	}
	return t.m.loans[loanID-1], nil
}

func (t *memTx) CloseLoan(_ context.Context, loanID int64, returned time.Time) (Loan, error) {
	if loanID < 1 || int(loanID) > len(t.m.loans) {
		return Loan{}, sql.ErrNoRows
	}
	l := &t.m.loans[loanID-1]
	if !l.Open() {
		return Loan{}, sql.ErrNoRows
	}
	r := returned
	l.ReturnDate = &r
	t.undo = append(t.undo, func() { t.m.loans[loanID-1].ReturnDate = nil })
	return *l, nil
}

type fixedClock struct{ t time.Time }

func (c *fixedClock) Now() time.Time { return c.t }
