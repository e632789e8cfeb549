package catalog

import (
	"context"
	"database/sql"
	"errors"

	"github.com/samber/lo"

	"library-backend/internal/platform/apierr"
	"library-backend/internal/platform/logger"
	"library-backend/internal/platform/textutil"
)

const (
	defaultLimit = 50
	maxLimit     = 200
	maxCopies    = 10000
)

type Service struct {
	repo BookRepository
}

func NewService(conn *sql.DB) *Service { return newService(NewStore(conn)) }

func newService(repo BookRepository) *Service { return &Service{repo: repo} }

func toResponse(b bookRow) BookResponse {
	out := BookResponse{
		ID:              b.ID,
		Title:           b.Title,
		Author:          b.Author,
		TotalCopies:     b.TotalCopies,
		AvailableCopies: b.AvailableCopies,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
	if b.Description.Valid {
		out.Description = lo.ToPtr(b.Description.String)
	}
	if b.Year.Valid {
		out.Year = lo.ToPtr(int(b.Year.Int64))
	}
	if b.ISBN.Valid {
		out.ISBN = lo.ToPtr(b.ISBN.String)
	}
	return out
}

// storeErr maps driver errors shared by every write.
func (s *Service) storeErr(ctx context.Context, op string, err error) error {
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return apierr.ErrNotFound("Book not found")
	case apierr.MySQLNumber(err) == apierr.MySQLDuplicateEntry:
		return apierr.ErrConflict("book with this isbn already exists")
	}
	logger.FromContext(ctx).WithError(err).Errorf("catalog: %s", op)
	return apierr.FromStore(err)
}

func normalizePage(p Page) Page {
	if p.Limit <= 0 {
		p.Limit = defaultLimit
	}
	if p.Limit > maxLimit {
		p.Limit = maxLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

func (s *Service) ListBooks(ctx context.Context, q BookQuery, p Page) (ListBooksResponse, error) {
	p = normalizePage(p)
	q.Q = textutil.Clean(q.Q)
	rows, total, err := s.repo.List(ctx, q, p)
	if err != nil {
		return ListBooksResponse{}, s.storeErr(ctx, "list", err)
	}
	next := p.Offset + p.Limit
	if next >= int(total) {
		next = 0
	} // 0 = last page
	return ListBooksResponse{
		Items:      lo.Map(rows, func(b bookRow, _ int) BookResponse { return toResponse(b) }),
		Total:      total,
		NextOffset: next,
	}, nil
}

func (s *Service) GetBook(ctx context.Context, id int64) (BookResponse, error) {
	b, err := s.repo.Get(ctx, id)
	if err != nil {
		return BookResponse{}, s.storeErr(ctx, "get", err)
	}
	return toResponse(*b), nil
}

func (s *Service) CreateBook(ctx context.Context, in CreateBookRequest) (BookResponse, error) {
	copies := 1
	if in.Copies != nil {
		copies = *in.Copies
	}
	if copies < 0 || copies > maxCopies {
		return BookResponse{}, apierr.ErrInvalid("copies must be between 0 and 10000")
	}
	f := bookFields{
		Title:       textutil.Clean(in.Title),
		Author:      textutil.Clean(in.Author),
		Description: in.Description,
		Year:        in.Year,
		ISBN:        textutil.CleanPtr(in.ISBN),
	}
	if f.Title == "" || f.Author == "" {
		return BookResponse{}, apierr.ErrInvalid("title and author are required")
	}

	id, err := s.repo.Insert(ctx, f, copies)
	if err != nil {
		return BookResponse{}, s.storeErr(ctx, "create", err)
	}
	logger.FromContext(ctx).WithField("book_id", id).Info("book created")
	return s.GetBook(ctx, id)
}

func (s *Service) ReplaceBook(ctx context.Context, id int64, in ReplaceBookRequest) (BookResponse, error) {
	f := bookFields{
		Title:       textutil.Clean(in.Title),
		Author:      textutil.Clean(in.Author),
		Description: in.Description,
		Year:        in.Year,
		ISBN:        textutil.CleanPtr(in.ISBN),
	}
	if f.Title == "" || f.Author == "" {
		return BookResponse{}, apierr.ErrInvalid("title and author are required")
	}
	if err := s.repo.Replace(ctx, id, f); err != nil {
		return BookResponse{}, s.storeErr(ctx, "replace", err)
	}
	return s.GetBook(ctx, id)
}

func (s *Service) PatchBook(ctx context.Context, id int64, p BookPatch) (BookResponse, error) {
	p.Title = textutil.CleanPtr(p.Title)
	p.Author = textutil.CleanPtr(p.Author)
	p.ISBN = textutil.CleanPtr(p.ISBN)
	if (p.Title != nil && *p.Title == "") || (p.Author != nil && *p.Author == "") {
		return BookResponse{}, apierr.ErrInvalid("title and author cannot be blank")
	}
	if p.empty() {
		return s.GetBook(ctx, id)
	}
	if err := s.repo.Patch(ctx, id, p); err != nil {
		return BookResponse{}, s.storeErr(ctx, "patch", err)
	}
	return s.GetBook(ctx, id)
}

func (s *Service) DeleteBook(ctx context.Context, id int64) error {
	err := s.repo.Delete(ctx, id)
	if errors.Is(err, ErrHasOpenLoans) {
		return apierr.ErrConflict("book is currently lent out")
	}
	if err != nil {
		return s.storeErr(ctx, "delete", err)
	}
	logger.FromContext(ctx).WithField("book_id", id).Info("book deleted")
	return nil
}
