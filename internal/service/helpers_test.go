package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/d60-Lab/sleep-social/config"
	"github.com/d60-Lab/sleep-social/internal/auth"
	"github.com/d60-Lab/sleep-social/internal/model"
	"github.com/d60-Lab/sleep-social/internal/repository"
	"github.com/d60-Lab/sleep-social/pkg/database"
)

type testEnv struct {
	db      *gorm.DB
	users   repository.UserRepository
	follows repository.FollowRepository
	records repository.SleepRecordRepository
	tokens  *auth.TokenService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := database.Open(config.DatabaseConfig{Driver: "sqlite", DSN: ":memory:", LogLevel: "silent"})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return &testEnv{
		db:      db,
		users:   repository.NewUserRepository(db),
		follows: repository.NewFollowRepository(db),
		records: repository.NewSleepRecordRepository(db),
		tokens:  auth.NewTokenService("test-secret", 24*time.Hour),
	}
}

func (e *testEnv) authService() AuthService {
	return NewAuthService(e.users, e.tokens, bcrypt.MinCost)
}

func (e *testEnv) user(t *testing.T, name, email string) *model.User {
	t.Helper()
	u := &model.User{Name: name, Email: email, PasswordHash: "hash"}
	require.NoError(t, e.users.Create(context.Background(), u))
	return u
}

func (e *testEnv) follow(t *testing.T, from, to *model.User) {
	t.Helper()
	_, err := e.follows.Create(context.Background(), from.ID, to.ID)
	require.NoError(t, err)
}

// completed inserts a closed record created `ago` before now.
func (e *testEnv) completed(t *testing.T, u *model.User, now time.Time, ago, length time.Duration) {
	t.Helper()
	in := now.Add(-ago)
	out := in.Add(length)
	require.NoError(t, e.db.Create(&model.SleepRecord{
		ID: uuid.NewString(), UserID: u.ID, ClockIn: in, ClockOut: &out, CreatedAt: in,
	}).Error)
}

func (e *testEnv) open(t *testing.T, u *model.User, at time.Time) {
	t.Helper()
	require.NoError(t, e.db.Create(&model.SleepRecord{
		ID: uuid.NewString(), UserID: u.ID, ClockIn: at, CreatedAt: at,
	}).Error)
}
