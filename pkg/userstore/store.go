package userstore

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bussin-exchange/market-middleware/pkg/user"
)

// ErrUserNotFound is returned when a user lookup finds no matching record.
var ErrUserNotFound = errors.New("user not found")

// ErrSessionNotFound is returned when a session lookup finds no matching
// record or the session has expired.
var ErrSessionNotFound = errors.New("session not found")

// ErrDuplicateUser is returned when an insert collides with the unique
// email or username constraint.
var ErrDuplicateUser = errors.New("email or username already taken")

// ErrVerificationNotFound is returned when no live verification record
// matches the given identifier/value pair.
var ErrVerificationNotFound = errors.New("verification not found")

// Store defines the interface for user, session, account and verification
// persistence.
type Store interface {
	SessionStore
	AccountStore
	VerificationStore

	CreateUser(ctx context.Context, usr *user.User) error
	GetUser(ctx context.Context, opts ...QueryOption) (*user.User, error)
	UserExists(ctx context.Context, email string) (bool, error)
	ListUsers(ctx context.Context) ([]*user.User, error)
	DeleteUser(ctx context.Context, id int64) error

	UpdateProfileImage(ctx context.Context, id int64, imageKey string) error
	SetBanned(ctx context.Context, id int64, banned bool, reason string) error

	CreditBalance(ctx context.Context, id int64, amount decimal.Decimal) error
	DebitBalance(ctx context.Context, id int64, amount decimal.Decimal) error
	RecordRewardClaim(ctx context.Context, id int64, amount decimal.Decimal, loginStreak int) error
}

// SessionStore defines session persistence operations
type SessionStore interface {
	CreateSession(ctx context.Context, s *user.Session) error
	GetSessionByToken(ctx context.Context, token string) (*user.Session, error)
	DeleteSession(ctx context.Context, token string) error
	DeleteExpiredSessions(ctx context.Context) (int64, error)
}

// AccountStore defines linked-credential persistence operations
type AccountStore interface {
	CreateAccount(ctx context.Context, a *user.Account) error
	CreatePasswordAccount(ctx context.Context, userID int64, accountID, plaintext string) error
	ListAccountsByUser(ctx context.Context, userID int64) ([]*user.Account, error)
}

// VerificationStore defines out-of-band confirmation persistence operations
type VerificationStore interface {
	CreateVerification(ctx context.Context, v *user.Verification) error
	ConsumeVerification(ctx context.Context, identifier, value string) (*user.Verification, error)
	DeleteExpiredVerifications(ctx context.Context, now time.Time) (int64, error)
}

// QueryOptions defines options for querying users
type QueryOptions struct {
	ID       *int64
	Email    *string
	Username *string
}

// QueryOption is a functional option for querying users
type QueryOption func(*QueryOptions)

// WithID sets the user id filter
func WithID(id int64) QueryOption {
	return func(opts *QueryOptions) {
		opts.ID = &id
	}
}

// WithEmail sets the email filter
func WithEmail(email string) QueryOption {
	return func(opts *QueryOptions) {
		opts.Email = &email
	}
}

// WithUsername sets the username filter
func WithUsername(username string) QueryOption {
	return func(opts *QueryOptions) {
		opts.Username = &username
	}
}
