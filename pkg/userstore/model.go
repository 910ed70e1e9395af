package userstore

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"

	"github.com/bussin-exchange/market-middleware/pkg/user"
)

// UserDao is a data access object that maps directly to the 'users' table in PostgreSQL.
type UserDao struct {
	bun.BaseModel       `bun:"table:users,alias:u"`
	ID                  int64           `bun:"id,pk,autoincrement"`
	Name                string          `bun:"name,notnull"`
	Email               string          `bun:"email,unique,notnull"`
	EmailVerified       bool            `bun:"email_verified,notnull,default:false"`
	Image               *string         `bun:"image"`
	IsAdmin             bool            `bun:"is_admin,default:false"`
	IsBanned            bool            `bun:"is_banned,default:false"`
	BanReason           *string         `bun:"ban_reason"`
	BaseCurrencyBalance decimal.Decimal `bun:"base_currency_balance,notnull,type:numeric(20,8),default:'10000.00000000'"`
	Bio                 *string         `bun:"bio,type:varchar(160)"`
	Username            string          `bun:"username,unique,notnull,type:varchar(30)"`
	LastRewardClaim     *time.Time      `bun:"last_reward_claim"`
	TotalRewardsClaimed decimal.Decimal `bun:"total_rewards_claimed,notnull,type:numeric(20,8),default:'0.00000000'"`
	LoginStreak         int             `bun:"login_streak,notnull,default:0"`
	CreatedAt           time.Time       `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt           time.Time       `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

// SessionDao maps to the 'sessions' table. Rows cascade with their user.
type SessionDao struct {
	bun.BaseModel `bun:"table:sessions,alias:s"`
	ID            int64     `bun:"id,pk,autoincrement"`
	ExpiresAt     time.Time `bun:"expires_at,notnull"`
	Token         string    `bun:"token,unique,notnull"`
	IPAddress     *string   `bun:"ip_address"`
	UserAgent     *string   `bun:"user_agent"`
	UserID        int64     `bun:"user_id,notnull"`
	CreatedAt     time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt     time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

// AccountDao maps to the 'accounts' table. Rows cascade with their user.
type AccountDao struct {
	bun.BaseModel         `bun:"table:accounts,alias:a"`
	ID                    int64      `bun:"id,pk,autoincrement"`
	AccountID             string     `bun:"account_id,notnull"`
	ProviderID            string     `bun:"provider_id,notnull"`
	UserID                int64      `bun:"user_id,notnull"`
	AccessToken           *string    `bun:"access_token"`
	RefreshToken          *string    `bun:"refresh_token"`
	IDToken               *string    `bun:"id_token"`
	AccessTokenExpiresAt  *time.Time `bun:"access_token_expires_at"`
	RefreshTokenExpiresAt *time.Time `bun:"refresh_token_expires_at"`
	Scope                 *string    `bun:"scope"`
	Password              *string    `bun:"password"`
	CreatedAt             time.Time  `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt             time.Time  `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

// VerificationDao maps to the 'verifications' table. Not owned by a user.
type VerificationDao struct {
	bun.BaseModel `bun:"table:verifications,alias:v"`
	ID            int64     `bun:"id,pk,autoincrement"`
	Identifier    string    `bun:"identifier,notnull"`
	Value         string    `bun:"value,notnull"`
	ExpiresAt     time.Time `bun:"expires_at,notnull"`
	CreatedAt     time.Time `bun:"created_at,nullzero,default:current_timestamp"`
	UpdatedAt     time.Time `bun:"updated_at,nullzero,default:current_timestamp"`
}

func toUserDao(usr *user.User) *UserDao {
	dao := &UserDao{
		ID:                  usr.ID,
		Name:                usr.Name,
		Email:               usr.Email,
		EmailVerified:       usr.EmailVerified,
		IsAdmin:             usr.IsAdmin,
		IsBanned:            usr.IsBanned,
		BaseCurrencyBalance: usr.BaseCurrencyBalance,
		Username:            usr.Username,
		TotalRewardsClaimed: usr.TotalRewardsClaimed,
		LoginStreak:         usr.LoginStreak,
		LastRewardClaim:     usr.LastRewardClaim,
	}

	if usr.Image != "" {
		dao.Image = &usr.Image
	}
	if usr.BanReason != "" {
		dao.BanReason = &usr.BanReason
	}
	if usr.Bio != "" {
		dao.Bio = &usr.Bio
	}

	return dao
}

func toUser(dao *UserDao) *user.User {
	usr := &user.User{
		ID:                  dao.ID,
		Name:                dao.Name,
		Email:               dao.Email,
		EmailVerified:       dao.EmailVerified,
		IsAdmin:             dao.IsAdmin,
		IsBanned:            dao.IsBanned,
		BaseCurrencyBalance: dao.BaseCurrencyBalance,
		Username:            dao.Username,
		TotalRewardsClaimed: dao.TotalRewardsClaimed,
		LoginStreak:         dao.LoginStreak,
		LastRewardClaim:     dao.LastRewardClaim,
		CreatedAt:           dao.CreatedAt,
		UpdatedAt:           dao.UpdatedAt,
	}

	if dao.Image != nil {
		usr.Image = *dao.Image
	}
	if dao.BanReason != nil {
		usr.BanReason = *dao.BanReason
	}
	if dao.Bio != nil {
		usr.Bio = *dao.Bio
	}

	return usr
}

func toSessionDao(s *user.Session) *SessionDao {
	dao := &SessionDao{
		ID:        s.ID,
		ExpiresAt: s.ExpiresAt,
		Token:     s.Token,
		UserID:    s.UserID,
	}
	if s.IPAddress != "" {
		dao.IPAddress = &s.IPAddress
	}
	if s.UserAgent != "" {
		dao.UserAgent = &s.UserAgent
	}
	return dao
}

func toSession(dao *SessionDao) *user.Session {
	s := &user.Session{
		ID:        dao.ID,
		ExpiresAt: dao.ExpiresAt,
		Token:     dao.Token,
		UserID:    dao.UserID,
		CreatedAt: dao.CreatedAt,
		UpdatedAt: dao.UpdatedAt,
	}
	if dao.IPAddress != nil {
		s.IPAddress = *dao.IPAddress
	}
	if dao.UserAgent != nil {
		s.UserAgent = *dao.UserAgent
	}
	return s
}

func toAccountDao(a *user.Account) *AccountDao {
	dao := &AccountDao{
		ID:                    a.ID,
		AccountID:             a.AccountID,
		ProviderID:            a.ProviderID,
		UserID:                a.UserID,
		AccessTokenExpiresAt:  a.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: a.RefreshTokenExpiresAt,
	}
	if a.AccessToken != "" {
		dao.AccessToken = &a.AccessToken
	}
	if a.RefreshToken != "" {
		dao.RefreshToken = &a.RefreshToken
	}
	if a.IDToken != "" {
		dao.IDToken = &a.IDToken
	}
	if a.Scope != "" {
		dao.Scope = &a.Scope
	}
	if a.Password != "" {
		dao.Password = &a.Password
	}
	return dao
}

func toAccount(dao *AccountDao) *user.Account {
	a := &user.Account{
		ID:                    dao.ID,
		AccountID:             dao.AccountID,
		ProviderID:            dao.ProviderID,
		UserID:                dao.UserID,
		AccessTokenExpiresAt:  dao.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: dao.RefreshTokenExpiresAt,
		CreatedAt:             dao.CreatedAt,
		UpdatedAt:             dao.UpdatedAt,
	}
	if dao.AccessToken != nil {
		a.AccessToken = *dao.AccessToken
	}
	if dao.RefreshToken != nil {
		a.RefreshToken = *dao.RefreshToken
	}
	if dao.IDToken != nil {
		a.IDToken = *dao.IDToken
	}
	if dao.Scope != nil {
		a.Scope = *dao.Scope
	}
	if dao.Password != nil {
		a.Password = *dao.Password
	}
	return a
}

func toVerification(dao *VerificationDao) *user.Verification {
	return &user.Verification{
		ID:         dao.ID,
		Identifier: dao.Identifier,
		Value:      dao.Value,
		ExpiresAt:  dao.ExpiresAt,
		CreatedAt:  dao.CreatedAt,
		UpdatedAt:  dao.UpdatedAt,
	}
}
