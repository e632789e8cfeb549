package readers

import (
	"context"
	"database/sql"
	"errors"

	"github.com/samber/lo"

	"library-backend/internal/platform/apierr"
	"library-backend/internal/platform/logger"
	"library-backend/internal/platform/textutil"
)

type Service struct {
	repo ReaderRepository
}

func NewService(conn *sql.DB) *Service { return &Service{repo: NewStore(conn)} }

func toResponse(r readerRow) ReaderResponse {
	return ReaderResponse{
		ID:        r.ID,
		FullName:  r.FullName,
		Email:     r.Email,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func (s *Service) storeErr(ctx context.Context, op string, err error) error {
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return apierr.ErrNotFound("Reader not found")
	case apierr.MySQLNumber(err) == apierr.MySQLDuplicateEntry:
		return apierr.ErrConflict("reader with this email already exists")
	}
	logger.FromContext(ctx).WithError(err).Errorf("readers: %s", op)
	return apierr.FromStore(err)
}

func (s *Service) ListReaders(ctx context.Context, p Page) (ListReadersResponse, error) {
	if p.Limit <= 0 || p.Limit > 200 {
		p.Limit = 50
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	rows, total, err := s.repo.List(ctx, p)
	if err != nil {
		return ListReadersResponse{}, s.storeErr(ctx, "list", err)
	}
	next := p.Offset + p.Limit
	if next >= int(total) {
		next = 0
	}
	return ListReadersResponse{
		Items:      lo.Map(rows, func(r readerRow, _ int) ReaderResponse { return toResponse(r) }),
		Total:      total,
		NextOffset: next,
	}, nil
}

func (s *Service) GetReader(ctx context.Context, id int64) (ReaderResponse, error) {
	r, err := s.repo.Get(ctx, id)
	if err != nil {
		return ReaderResponse{}, s.storeErr(ctx, "get", err)
	}
	return toResponse(*r), nil
}

func (s *Service) CreateReader(ctx context.Context, in CreateReaderRequest) (ReaderResponse, error) {
	name, email := textutil.Clean(in.FullName), textutil.Email(in.Email)
	if name == "" || email == "" {
		return ReaderResponse{}, apierr.ErrInvalid("full_name and email are required")
	}
	id, err := s.repo.Insert(ctx, name, email)
	if err != nil {
		return ReaderResponse{}, s.storeErr(ctx, "create", err)
	}
	logger.FromContext(ctx).WithField("reader_id", id).Info("reader created")
	return s.GetReader(ctx, id)
}

// ReplaceReader is PUT: both fields are required.
func (s *Service) ReplaceReader(ctx context.Context, id int64, in CreateReaderRequest) (ReaderResponse, error) {
	return s.PatchReader(ctx, id, ReaderPatch{FullName: &in.FullName, Email: &in.Email})
}

func (s *Service) PatchReader(ctx context.Context, id int64, p ReaderPatch) (ReaderResponse, error) {
	p.FullName = textutil.CleanPtr(p.FullName)
	if p.Email != nil {
		p.Email = lo.ToPtr(textutil.Email(*p.Email))
	}
	if (p.FullName != nil && *p.FullName == "") || (p.Email != nil && *p.Email == "") {
		return ReaderResponse{}, apierr.ErrInvalid("full_name and email cannot be blank")
	}
	if err := s.repo.Update(ctx, id, p); err != nil {
		return ReaderResponse{}, s.storeErr(ctx, "update", err)
	}
	return s.GetReader(ctx, id)
}

func (s *Service) DeleteReader(ctx context.Context, id int64) error {
	err := s.repo.Delete(ctx, id)
	if errors.Is(err, ErrHasOpenLoans) {
		return apierr.ErrConflict("reader still has borrowed books")
	}
	if err != nil {
		return s.storeErr(ctx, "delete", err)
	}
	logger.FromContext(ctx).WithField("reader_id", id).Info("reader deleted")
	return nil
}
