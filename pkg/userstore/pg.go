package userstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"

	"github.com/bussin-exchange/market-middleware/pkg/pgutil"
	"github.com/bussin-exchange/market-middleware/pkg/user"
)

type pgStore struct {
	db *bun.DB
}

// NewStore creates a new postgres implementation of the user store
func NewStore(db *bun.DB) *pgStore {
	return &pgStore{db: db}
}

func (s *pgStore) CreateUser(ctx context.Context, usr *user.User) error {
	dao := toUserDao(usr)

	_, err := s.db.NewInsert().
		Model(dao).
		Returning("id, created_at, updated_at").
		Exec(ctx)
	if err != nil {
		if pgutil.UniqueViolation(err) {
			return fmt.Errorf("%w: %s / %s", ErrDuplicateUser, usr.Email, usr.Username)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	usr.ID = dao.ID
	usr.CreatedAt = dao.CreatedAt
	usr.UpdatedAt = dao.UpdatedAt
	return nil
}

func (s *pgStore) GetUser(ctx context.Context, opts ...QueryOption) (*user.User, error) {
	options := &QueryOptions{}
	for _, opt := range opts {
		opt(options)
	}

	dao := new(UserDao)
	query := s.db.NewSelect().Model(dao)

	if options.ID != nil {
		query = query.Where("id = ?", *options.ID)
	}
	if options.Email != nil {
		query = query.Where("email = ?", *options.Email)
	}
	if options.Username != nil {
		query = query.Where("username = ?", *options.Username)
	}

	err := query.Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return toUser(dao), nil
}

func (s *pgStore) UserExists(ctx context.Context, email string) (bool, error) {
	exists, err := s.db.NewSelect().
		Model((*UserDao)(nil)).
		Where("email = ?", email).
		Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check user exists: %w", err)
	}
	return exists, nil
}

func (s *pgStore) ListUsers(ctx context.Context) ([]*user.User, error) {
	var daos []UserDao
	err := s.db.NewSelect().Model(&daos).Order("id ASC").Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	users := make([]*user.User, len(daos))
	for i := range daos {
		users[i] = toUser(&daos[i])
	}
	return users, nil
}

// DeleteUser removes the user row. Sessions, accounts, portfolio rows,
// trades, comments, likes and redemptions go with it through the FK
// cascades; coins the user created stay behind with a NULL creator.
func (s *pgStore) DeleteUser(ctx context.Context, id int64) error {
	_, err := s.db.NewDelete().
		Model((*UserDao)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

func (s *pgStore) UpdateProfileImage(ctx context.Context, id int64, imageKey string) error {
	_, err := s.db.NewUpdate().
		Model((*UserDao)(nil)).
		Set("image = ?", imageKey).
		Set("updated_at = NOW()").
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update profile image: %w", err)
	}
	return nil
}

func (s *pgStore) SetBanned(ctx context.Context, id int64, banned bool, reason string) error {
	q := s.db.NewUpdate().
		Model((*UserDao)(nil)).
		Set("is_banned = ?", banned).
		Set("updated_at = NOW()").
		Where("id = ?", id)
	if banned {
		q = q.Set("ban_reason = ?", reason)
	} else {
		q = q.Set("ban_reason = NULL")
	}

	_, err := q.Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update ban state: %w", err)
	}
	return nil
}

// CreditBalance adds amount to the user's base currency balance. The
// arithmetic runs inside postgres on the numeric column so concurrent
// credits never lose updates.
func (s *pgStore) CreditBalance(ctx context.Context, id int64, amount decimal.Decimal) error {
	_, err := s.db.NewUpdate().
		Model((*UserDao)(nil)).
		Set("base_currency_balance = base_currency_balance + ?::DECIMAL", amount.String()).
		Set("updated_at = NOW()").
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to credit balance: %w", err)
	}
	return nil
}

func (s *pgStore) DebitBalance(ctx context.Context, id int64, amount decimal.Decimal) error {
	_, err := s.db.NewUpdate().
		Model((*UserDao)(nil)).
		Set("base_currency_balance = base_currency_balance - ?::DECIMAL", amount.String()).
		Set("updated_at = NOW()").
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to debit balance: %w", err)
	}
	return nil
}

// RecordRewardClaim credits a reward and updates the claim bookkeeping in
// one transaction. The streak value is computed by the caller; this layer
// only persists it.
func (s *pgStore) RecordRewardClaim(ctx context.Context, id int64, amount decimal.Decimal, loginStreak int) error {
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewUpdate().
			Model((*UserDao)(nil)).
			Set("base_currency_balance = base_currency_balance + ?::DECIMAL", amount.String()).
			Set("total_rewards_claimed = total_rewards_claimed + ?::DECIMAL", amount.String()).
			Set("last_reward_claim = NOW()").
			Set("login_streak = ?", loginStreak).
			Set("updated_at = NOW()").
			Where("id = ?", id).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to record reward claim: %w", err)
		}
		rows, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrUserNotFound
		}
		return nil
	})
}

func (s *pgStore) CreateSession(ctx context.Context, sess *user.Session) error {
	dao := toSessionDao(sess)

	_, err := s.db.NewInsert().
		Model(dao).
		Returning("id, created_at, updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	sess.ID = dao.ID
	sess.CreatedAt = dao.CreatedAt
	sess.UpdatedAt = dao.UpdatedAt
	return nil
}

func (s *pgStore) GetSessionByToken(ctx context.Context, token string) (*user.Session, error) {
	dao := new(SessionDao)
	err := s.db.NewSelect().
		Model(dao).
		Where("token = ?", token).
		Where("expires_at > NOW()").
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return toSession(dao), nil
}

func (s *pgStore) DeleteSession(ctx context.Context, token string) error {
	_, err := s.db.NewDelete().
		Model((*SessionDao)(nil)).
		Where("token = ?", token).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (s *pgStore) DeleteExpiredSessions(ctx context.Context) (int64, error) {
	res, err := s.db.NewDelete().
		Model((*SessionDao)(nil)).
		Where("expires_at <= NOW()").
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	return res.RowsAffected()
}

func (s *pgStore) CreateAccount(ctx context.Context, a *user.Account) error {
	dao := toAccountDao(a)

	_, err := s.db.NewInsert().
		Model(dao).
		Returning("id, created_at, updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}

	a.ID = dao.ID
	a.CreatedAt = dao.CreatedAt
	a.UpdatedAt = dao.UpdatedAt
	return nil
}

// CreatePasswordAccount hashes the plaintext with bcrypt before the row is
// written; the plaintext never reaches the database.
func (s *pgStore) CreatePasswordAccount(ctx context.Context, userID int64, accountID, plaintext string) error {
	hash, err := user.HashPassword(plaintext)
	if err != nil {
		return err
	}
	return s.CreateAccount(ctx, &user.Account{
		AccountID:  accountID,
		ProviderID: "credential",
		UserID:     userID,
		Password:   hash,
	})
}

func (s *pgStore) ListAccountsByUser(ctx context.Context, userID int64) ([]*user.Account, error) {
	var daos []AccountDao
	err := s.db.NewSelect().
		Model(&daos).
		Where("user_id = ?", userID).
		Order("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	accounts := make([]*user.Account, len(daos))
	for i := range daos {
		accounts[i] = toAccount(&daos[i])
	}
	return accounts, nil
}

func (s *pgStore) CreateVerification(ctx context.Context, v *user.Verification) error {
	dao := &VerificationDao{
		Identifier: v.Identifier,
		Value:      v.Value,
		ExpiresAt:  v.ExpiresAt,
	}

	_, err := s.db.NewInsert().
		Model(dao).
		Returning("id, created_at, updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create verification: %w", err)
	}

	v.ID = dao.ID
	v.CreatedAt = dao.CreatedAt
	v.UpdatedAt = dao.UpdatedAt
	return nil
}

// ConsumeVerification deletes and returns the matching unexpired record in
// one statement, so a value can only be consumed once.
func (s *pgStore) ConsumeVerification(ctx context.Context, identifier, value string) (*user.Verification, error) {
	dao := new(VerificationDao)
	err := s.db.NewDelete().
		Model(dao).
		Where("identifier = ?", identifier).
		Where("value = ?", value).
		Where("expires_at > NOW()").
		Returning("*").
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrVerificationNotFound
		}
		return nil, fmt.Errorf("failed to consume verification: %w", err)
	}
	return toVerification(dao), nil
}

func (s *pgStore) DeleteExpiredVerifications(ctx context.Context, now time.Time) (int64, error) {
	res, err := s.db.NewDelete().
		Model((*VerificationDao)(nil)).
		Where("expires_at <= ?", now).
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired verifications: %w", err)
	}
	return res.RowsAffected()
}
