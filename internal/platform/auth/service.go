package auth

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"library-backend/internal/platform/apierr"
	"library-backend/internal/platform/logger"
	"library-backend/internal/platform/textutil"
)

const (
	RoleLibrarian = "librarian"
	RoleAdmin     = "admin"
)

var (
	ErrAlreadyExists      = errors.New("already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Identity is what the rest of the service knows about the caller.
type Identity struct {
	UserID int64
	Email  string
	Role   string
}

type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

type AuthService interface {
	Register(ctx context.Context, email, password string) (Identity, error)
	Authenticate(ctx context.Context, email, password string) (Identity, error)
	IssueToken(id Identity) (string, time.Time, error)
}

type Service struct {
	store      AccountStore
	secret     []byte
	ttl        time.Duration
	now        func() time.Time
	bcryptCost int
}

func NewService(db *sql.DB, secret []byte, ttl time.Duration) *Service {
	return newService(NewStore(db), secret, ttl)
}

func newService(store AccountStore, secret []byte, ttl time.Duration) *Service {
	return &Service{
		store:      store,
		secret:     secret,
		ttl:        ttl,
		now:        func() time.Time { return time.Now().UTC() },
		bcryptCost: bcrypt.DefaultCost,
	}
}

func (s *Service) Register(ctx context.Context, email, password string) (Identity, error) {
	email = textutil.Email(email)
	exists, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		return Identity{}, err
	}
	if exists != nil {
		return Identity{}, ErrAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return Identity{}, err
	}

	acct := &Account{
		Email:        email,
		PasswordHash: string(hash),
		Role:         RoleLibrarian,
		CreatedAt:    s.now(),
	}
	if err := s.store.Create(ctx, acct); err != nil {
		// lost the race against a concurrent register
		if apierr.MySQLNumber(err) == apierr.MySQLDuplicateEntry {
			return Identity{}, ErrAlreadyExists
		}
		return Identity{}, err
	}
	logger.FromContext(ctx).WithField("user_id", acct.ID).Info("account registered")
	return Identity{UserID: acct.ID, Email: acct.Email, Role: acct.Role}, nil
}

func (s *Service) Authenticate(ctx context.Context, email, password string) (Identity, error) {
	acct, err := s.store.GetByEmail(ctx, textutil.Email(email))
	if err != nil {
		return Identity{}, err
	}
	if acct == nil || acct.IsDisabled {
		return Identity{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(password)); err != nil {
		return Identity{}, ErrInvalidCredentials
	}
	return Identity{UserID: acct.ID, Email: acct.Email, Role: acct.Role}, nil
}

// IssueToken signs an HS256 token for id and returns it with its expiry.
func (s *Service) IssueToken(id Identity) (string, time.Time, error) {
	now := s.now()
	exp := now.Add(s.ttl)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Email: id.Email,
		Role:  id.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(id.UserID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// ParseToken verifies signature, algorithm and expiry and returns the caller identity.
func ParseToken(secret []byte, tokenStr string) (Identity, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil || token == nil || !token.Valid {
		return Identity{}, ErrInvalidCredentials
	}
	uid, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || uid <= 0 {
		return Identity{}, ErrInvalidCredentials
	}
	return Identity{UserID: uid, Email: claims.Email, Role: claims.Role}, nil
}
