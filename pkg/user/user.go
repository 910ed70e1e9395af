// Package user holds the domain model for players of the trading game.
package user

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StartingBalance is the BUSS balance granted to every new user.
var StartingBalance = decimal.RequireFromString("10000.00000000")

// User represents a registered player. BaseCurrencyBalance and
// TotalRewardsClaimed are exact decimals; they must never pass through
// binary floating point.
type User struct {
	ID                  int64
	Name                string
	Email               string
	EmailVerified       bool
	Image               string
	IsAdmin             bool
	IsBanned            bool
	BanReason           string
	BaseCurrencyBalance decimal.Decimal
	Bio                 string
	Username            string
	LastRewardClaim     *time.Time
	TotalRewardsClaimed decimal.Decimal
	LoginStreak         int
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// New creates a User with the default starting balance.
func New(name, email, username string) *User {
	return &User{
		Name:                name,
		Email:               email,
		Username:            username,
		BaseCurrencyBalance: StartingBalance,
		TotalRewardsClaimed: decimal.Zero,
	}
}

// Session is an authentication session bound to exactly one user.
// The token is an opaque value stored server side; sessions are removed
// together with their user.
type Session struct {
	ID        int64
	Token     string
	UserID    int64
	ExpiresAt time.Time
	IPAddress string
	UserAgent string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewSessionToken returns a fresh opaque session token.
func NewSessionToken() string {
	return uuid.NewString()
}

// Account is an external-provider credential linked to a user. For
// password-based accounts only the bcrypt hash is stored.
type Account struct {
	ID                    int64
	AccountID             string
	ProviderID            string
	UserID                int64
	AccessToken           string
	RefreshToken          string
	IDToken               string
	AccessTokenExpiresAt  *time.Time
	RefreshTokenExpiresAt *time.Time
	Scope                 string
	Password              string
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// Verification is an ephemeral identifier/value pair used for out-of-band
// confirmation flows such as email verification. Not owned by a user.
type Verification struct {
	ID         int64
	Identifier string
	Value      string
	ExpiresAt  time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewVerification creates a verification record with a random value.
func NewVerification(identifier string, ttl time.Duration) *Verification {
	return &Verification{
		Identifier: identifier,
		Value:      uuid.NewString(),
		ExpiresAt:  time.Now().Add(ttl),
	}
}
