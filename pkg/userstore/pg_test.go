package userstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/driver/pgdriver"

	"github.com/bussin-exchange/market-middleware/pkg/pgutil"
	mghelper "github.com/bussin-exchange/market-middleware/pkg/pgutil/migrations"
	"github.com/bussin-exchange/market-middleware/pkg/user"
)

func setupStore(t *testing.T) (context.Context, *pgStore, *bun.DB) {
	t.Helper()
	pgutil.RequireDockerAccess(t)

	ctx := context.Background()
	db, cleanup := pgutil.SetupTestDB(t)
	t.Cleanup(cleanup)

	if err := mghelper.CreateSchema(ctx, db, &UserDao{}, &VerificationDao{}); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}
	if err := mghelper.CreateSchemaWithFKs(ctx, db, &SessionDao{},
		`("user_id") REFERENCES "users" ("id") ON DELETE CASCADE`,
	); err != nil {
		t.Fatalf("failed to create sessions schema: %v", err)
	}
	if err := mghelper.CreateSchemaWithFKs(ctx, db, &AccountDao{},
		`("user_id") REFERENCES "users" ("id") ON DELETE CASCADE`,
	); err != nil {
		t.Fatalf("failed to create accounts schema: %v", err)
	}

	return ctx, NewStore(db), db
}

func newTestUser(i int) *user.User {
	return user.New(
		fmt.Sprintf("Player %d", i),
		fmt.Sprintf("player%d@example.com", i),
		fmt.Sprintf("player%d", i),
	)
}

func assertDecimalEqual(t *testing.T, got decimal.Decimal, want string) {
	t.Helper()

	wantDec, err := decimal.NewFromString(want)
	if err != nil {
		t.Fatalf("failed to parse want decimal %q: %v", want, err)
	}
	if !got.Equal(wantDec) {
		t.Fatalf("decimal mismatch: got %s want %s", got.String(), wantDec.String())
	}
}

func TestUserPGStore_CreateUserAndConstraints(t *testing.T) {
	ctx, s, _ := setupStore(t)

	u := newTestUser(1)
	if err := s.CreateUser(ctx, u); err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	if u.ID == 0 {
		t.Fatalf("expected generated id")
	}

	exists, err := s.UserExists(ctx, u.Email)
	if err != nil {
		t.Fatalf("UserExists() failed: %v", err)
	}
	if !exists {
		t.Fatalf("expected user to exist")
	}

	dupEmail := user.New("Other", u.Email, "otherplayer")
	if err := s.CreateUser(ctx, dupEmail); !errors.Is(err, ErrDuplicateUser) {
		t.Fatalf("expected ErrDuplicateUser for duplicate email, got %v", err)
	}

	dupUsername := user.New("Other", "other@example.com", u.Username)
	if err := s.CreateUser(ctx, dupUsername); !errors.Is(err, ErrDuplicateUser) {
		t.Fatalf("expected ErrDuplicateUser for duplicate username, got %v", err)
	}

	tooLong := user.New("Long", "long@example.com", strings.Repeat("x", 31))
	err = s.CreateUser(ctx, tooLong)
	if err == nil {
		t.Fatalf("expected oversized username to fail")
	}
	var pgErr pgdriver.Error
	if !errors.As(err, &pgErr) {
		t.Fatalf("expected postgres error type, got: %v", err)
	}
	if pgErr.Field('C') != "22001" {
		t.Fatalf("expected value-too-long SQLSTATE=22001, got %s (%v)", pgErr.Field('C'), err)
	}
}

func TestUserPGStore_GetUserLookupsAndDelete(t *testing.T) {
	ctx, s, _ := setupStore(t)

	u := newTestUser(2)
	u.Bio = "to the moon"
	if err := s.CreateUser(ctx, u); err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}

	byID, err := s.GetUser(ctx, WithID(u.ID))
	if err != nil {
		t.Fatalf("GetUser(WithID) failed: %v", err)
	}
	if byID.Email != u.Email {
		t.Fatalf("email mismatch: got %s want %s", byID.Email, u.Email)
	}
	if byID.Bio != u.Bio {
		t.Fatalf("bio mismatch: got %q want %q", byID.Bio, u.Bio)
	}

	byEmail, err := s.GetUser(ctx, WithEmail(u.Email))
	if err != nil {
		t.Fatalf("GetUser(WithEmail) failed: %v", err)
	}
	if byEmail.ID != u.ID {
		t.Fatalf("id mismatch: got %d want %d", byEmail.ID, u.ID)
	}

	byUsername, err := s.GetUser(ctx, WithUsername(u.Username))
	if err != nil {
		t.Fatalf("GetUser(WithUsername) failed: %v", err)
	}
	if byUsername.ID != u.ID {
		t.Fatalf("id mismatch: got %d want %d", byUsername.ID, u.ID)
	}

	_, err = s.GetUser(ctx, WithEmail("nobody@example.com"))
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}

	if err := s.DeleteUser(ctx, u.ID); err != nil {
		t.Fatalf("DeleteUser() failed: %v", err)
	}
	if err := s.DeleteUser(ctx, u.ID); err != nil {
		t.Fatalf("DeleteUser() should be idempotent, got: %v", err)
	}
}

func TestUserPGStore_ListUsers(t *testing.T) {
	ctx, s, _ := setupStore(t)

	for i := 10; i < 13; i++ {
		if err := s.CreateUser(ctx, newTestUser(i)); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}

	got, err := s.ListUsers(ctx)
	if err != nil {
		t.Fatalf("ListUsers() failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("unexpected user count: got %d want 3", len(got))
	}
}

func TestUserPGStore_BalanceOperations(t *testing.T) {
	ctx, s, _ := setupStore(t)

	u := newTestUser(3)
	if err := s.CreateUser(ctx, u); err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}

	got, err := s.GetUser(ctx, WithID(u.ID))
	if err != nil {
		t.Fatalf("GetUser() failed: %v", err)
	}
	assertDecimalEqual(t, got.BaseCurrencyBalance, "10000.00000000")

	// Smallest representable step must survive the round trip exactly.
	if err := s.CreditBalance(ctx, u.ID, decimal.RequireFromString("0.00000001")); err != nil {
		t.Fatalf("CreditBalance() failed: %v", err)
	}
	got, err = s.GetUser(ctx, WithID(u.ID))
	if err != nil {
		t.Fatalf("GetUser() failed: %v", err)
	}
	assertDecimalEqual(t, got.BaseCurrencyBalance, "10000.00000001")

	if err := s.DebitBalance(ctx, u.ID, decimal.RequireFromString("2500.50000001")); err != nil {
		t.Fatalf("DebitBalance() failed: %v", err)
	}
	got, err = s.GetUser(ctx, WithID(u.ID))
	if err != nil {
		t.Fatalf("GetUser() failed: %v", err)
	}
	assertDecimalEqual(t, got.BaseCurrencyBalance, "7499.50000000")
}

func TestUserPGStore_RecordRewardClaim(t *testing.T) {
	ctx, s, _ := setupStore(t)

	u := newTestUser(4)
	if err := s.CreateUser(ctx, u); err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}

	reward := decimal.RequireFromString("150.00000000")
	if err := s.RecordRewardClaim(ctx, u.ID, reward, 3); err != nil {
		t.Fatalf("RecordRewardClaim() failed: %v", err)
	}

	got, err := s.GetUser(ctx, WithID(u.ID))
	if err != nil {
		t.Fatalf("GetUser() failed: %v", err)
	}
	assertDecimalEqual(t, got.BaseCurrencyBalance, "10150.00000000")
	assertDecimalEqual(t, got.TotalRewardsClaimed, "150.00000000")
	if got.LoginStreak != 3 {
		t.Fatalf("login streak mismatch: got %d want 3", got.LoginStreak)
	}
	if got.LastRewardClaim == nil {
		t.Fatalf("expected last reward claim to be set")
	}

	if err := s.RecordRewardClaim(ctx, 99999, reward, 1); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound for missing user, got %v", err)
	}
}

func TestUserPGStore_Sessions(t *testing.T) {
	ctx, s, _ := setupStore(t)

	u := newTestUser(5)
	if err := s.CreateUser(ctx, u); err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}

	sess := &user.Session{
		Token:     user.NewSessionToken(),
		UserID:    u.ID,
		ExpiresAt: time.Now().Add(time.Hour),
		IPAddress: "203.0.113.7",
		UserAgent: "test-agent",
	}
	if err := s.CreateSession(ctx, sess); err != nil {
		t.Fatalf("CreateSession() failed: %v", err)
	}

	got, err := s.GetSessionByToken(ctx, sess.Token)
	if err != nil {
		t.Fatalf("GetSessionByToken() failed: %v", err)
	}
	if got.UserID != u.ID {
		t.Fatalf("user mismatch: got %d want %d", got.UserID, u.ID)
	}
	if got.IPAddress != sess.IPAddress {
		t.Fatalf("ip mismatch: got %s want %s", got.IPAddress, sess.IPAddress)
	}

	_, err = s.GetSessionByToken(ctx, "no-such-token")
	if !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}

	expired := &user.Session{
		Token:     user.NewSessionToken(),
		UserID:    u.ID,
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	if err := s.CreateSession(ctx, expired); err != nil {
		t.Fatalf("CreateSession(expired) failed: %v", err)
	}
	_, err = s.GetSessionByToken(ctx, expired.Token)
	if !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected expired session to be invisible, got %v", err)
	}

	deleted, err := s.DeleteExpiredSessions(ctx)
	if err != nil {
		t.Fatalf("DeleteExpiredSessions() failed: %v", err)
	}
	if deleted != 1 {
		t.Fatalf("expected 1 expired session deleted, got %d", deleted)
	}

	if err := s.DeleteSession(ctx, sess.Token); err != nil {
		t.Fatalf("DeleteSession() failed: %v", err)
	}
	_, err = s.GetSessionByToken(ctx, sess.Token)
	if !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected session to be gone, got %v", err)
	}
}

func TestUserPGStore_PasswordAccounts(t *testing.T) {
	ctx, s, _ := setupStore(t)

	u := newTestUser(6)
	if err := s.CreateUser(ctx, u); err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}

	if err := s.CreatePasswordAccount(ctx, u.ID, u.Email, "hunter2hunter2"); err != nil {
		t.Fatalf("CreatePasswordAccount() failed: %v", err)
	}

	accounts, err := s.ListAccountsByUser(ctx, u.ID)
	if err != nil {
		t.Fatalf("ListAccountsByUser() failed: %v", err)
	}
	if len(accounts) != 1 {
		t.Fatalf("unexpected account count: got %d want 1", len(accounts))
	}
	if accounts[0].ProviderID != "credential" {
		t.Fatalf("provider mismatch: got %s want credential", accounts[0].ProviderID)
	}
	if accounts[0].Password == "hunter2hunter2" {
		t.Fatalf("plaintext password must not be stored")
	}
	if !user.CheckPassword(accounts[0].Password, "hunter2hunter2") {
		t.Fatalf("stored hash should verify against the original password")
	}
	if user.CheckPassword(accounts[0].Password, "wrong-password") {
		t.Fatalf("stored hash should not verify against a wrong password")
	}
}

func TestUserPGStore_Verifications(t *testing.T) {
	ctx, s, _ := setupStore(t)

	v := user.NewVerification("verify@example.com", time.Hour)
	if err := s.CreateVerification(ctx, v); err != nil {
		t.Fatalf("CreateVerification() failed: %v", err)
	}

	got, err := s.ConsumeVerification(ctx, v.Identifier, v.Value)
	if err != nil {
		t.Fatalf("ConsumeVerification() failed: %v", err)
	}
	if got.ID != v.ID {
		t.Fatalf("id mismatch: got %d want %d", got.ID, v.ID)
	}

	_, err = s.ConsumeVerification(ctx, v.Identifier, v.Value)
	if !errors.Is(err, ErrVerificationNotFound) {
		t.Fatalf("expected second consume to fail, got %v", err)
	}

	stale := user.NewVerification("stale@example.com", -time.Minute)
	if err := s.CreateVerification(ctx, stale); err != nil {
		t.Fatalf("CreateVerification(stale) failed: %v", err)
	}
	_, err = s.ConsumeVerification(ctx, stale.Identifier, stale.Value)
	if !errors.Is(err, ErrVerificationNotFound) {
		t.Fatalf("expected expired verification to be unconsumable, got %v", err)
	}

	deleted, err := s.DeleteExpiredVerifications(ctx, time.Now())
	if err != nil {
		t.Fatalf("DeleteExpiredVerifications() failed: %v", err)
	}
	if deleted != 1 {
		t.Fatalf("expected 1 expired verification deleted, got %d", deleted)
	}
}

func TestUserPGStore_DeleteUserCascades(t *testing.T) {
	ctx, s, db := setupStore(t)

	u := newTestUser(7)
	if err := s.CreateUser(ctx, u); err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}

	sess := &user.Session{
		Token:     user.NewSessionToken(),
		UserID:    u.ID,
		ExpiresAt: time.Now().Add(time.Hour),
	}
	if err := s.CreateSession(ctx, sess); err != nil {
		t.Fatalf("CreateSession() failed: %v", err)
	}
	if err := s.CreatePasswordAccount(ctx, u.ID, u.Email, "some-password"); err != nil {
		t.Fatalf("CreatePasswordAccount() failed: %v", err)
	}

	if err := s.DeleteUser(ctx, u.ID); err != nil {
		t.Fatalf("DeleteUser() failed: %v", err)
	}

	pgutil.AssertRowCount(t, db, "sessions", 0)
	pgutil.AssertRowCount(t, db, "accounts", 0)
}

func TestUserPGStore_BanAndProfileImage(t *testing.T) {
	ctx, s, _ := setupStore(t)

	u := newTestUser(8)
	if err := s.CreateUser(ctx, u); err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}

	if err := s.UpdateProfileImage(ctx, u.ID, "avatars/8.png"); err != nil {
		t.Fatalf("UpdateProfileImage() failed: %v", err)
	}
	if err := s.SetBanned(ctx, u.ID, true, "market manipulation"); err != nil {
		t.Fatalf("SetBanned() failed: %v", err)
	}

	got, err := s.GetUser(ctx, WithID(u.ID))
	if err != nil {
		t.Fatalf("GetUser() failed: %v", err)
	}
	if got.Image != "avatars/8.png" {
		t.Fatalf("image mismatch: got %s", got.Image)
	}
	if !got.IsBanned || got.BanReason != "market manipulation" {
		t.Fatalf("ban state mismatch: banned=%v reason=%q", got.IsBanned, got.BanReason)
	}

	if err := s.SetBanned(ctx, u.ID, false, ""); err != nil {
		t.Fatalf("SetBanned(unban) failed: %v", err)
	}
	got, err = s.GetUser(ctx, WithID(u.ID))
	if err != nil {
		t.Fatalf("GetUser() failed: %v", err)
	}
	if got.IsBanned || got.BanReason != "" {
		t.Fatalf("expected ban cleared, got banned=%v reason=%q", got.IsBanned, got.BanReason)
	}
}
