// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/mail"
	"github.com/taibuivan/yamdb/internal/platform/sec"
	"github.com/taibuivan/yamdb/internal/users/auth"
)

// # In-memory user repository

type memoryUsers struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]*auth.User

	// createHook runs before Create and may simulate a lost race.
	createHook func(user *auth.User) error
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{byID: make(map[int64]*auth.User)}
}

func (repo *memoryUsers) find(match func(*auth.User) bool) (*auth.User, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	for _, user := range repo.byID {
		if match(user) {
			copied := *user
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (repo *memoryUsers) FindByUsername(_ context.Context, username string) (*auth.User, error) {
	return repo.find(func(user *auth.User) bool { return user.Username == username })
}

func (repo *memoryUsers) FindByID(_ context.Context, id int64) (*auth.User, error) {
	return repo.find(func(user *auth.User) bool { return user.ID == id })
}

func (repo *memoryUsers) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	return repo.find(func(user *auth.User) bool { return user.Email == email })
}

func (repo *memoryUsers) Create(_ context.Context, user *auth.User) error {
	if repo.createHook != nil {
		if err := repo.createHook(user); err != nil {
			return err
		}
	}

	repo.mu.Lock()
	defer repo.mu.Unlock()
	for _, existing := range repo.byID {
		if existing.Username == user.Username {
			return apperr.Field(auth.FieldUsername, "Already exists")
		}
		if existing.Email == user.Email {
			return apperr.Field(auth.FieldEmail, "Already exists")
		}
	}

	repo.nextID++
	user.ID = repo.nextID
	user.DateJoined = time.Now()
	copied := *user
	repo.byID[user.ID] = &copied
	return nil
}

func (repo *memoryUsers) TouchLastLogin(_ context.Context, id int64, at time.Time) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	user, ok := repo.byID[id]
	if !ok {
		return apperr.NotFound("User")
	}
	stamp := at.Truncate(time.Microsecond)
	user.LastLoginAt = &stamp
	return nil
}

// # Ledger, tokens and mail

type memoryLedger struct {
	mu   sync.Mutex
	used map[string]bool
}

func (ledger *memoryLedger) Redeem(_ context.Context, code string, ttl time.Duration) (bool, error) {
	ledger.mu.Lock()
	defer ledger.mu.Unlock()
	if ttl <= 0 || ledger.used[code] {
		return false, nil
	}
	if ledger.used == nil {
		ledger.used = make(map[string]bool)
	}
	ledger.used[code] = true
	return true, nil
}

type stubTokens struct{}

func (stubTokens) GenerateAccessToken(identity sec.Identity, _ time.Duration) (string, error) {
	return "token-for-" + identity.Username, nil
}

type channelMailer struct {
	sent chan mail.Message
	fail bool
}

func (mailer *channelMailer) Send(_ context.Context, message mail.Message) error {
	mailer.sent <- message
	if mailer.fail {
		return errors.New("smtp down")
	}
	return nil
}

var codePattern = regexp.MustCompile(`confirmation code: (\S+)`)

// nextCode waits for the detached mail and extracts the code from it.
func (mailer *channelMailer) nextCode(t *testing.T) string {
	t.Helper()
	select {
	case message := <-mailer.sent:
		match := codePattern.FindStringSubmatch(message.Body)
		require.Len(t, match, 2, "no code in %q", message.Body)
		return match[1]
	case <-time.After(2 * time.Second):
		t.Fatal("confirmation mail was not sent")
		return ""
	}
}

// # Fixture

type fixture struct {
	users   *memoryUsers
	mailer  *channelMailer
	service *auth.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	signer, err := sec.NewCodeSigner("test-secret", time.Hour)
	require.NoError(t, err)

	users := newMemoryUsers()
	mailer := &channelMailer{sent: make(chan mail.Message, 8)}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return &fixture{
		users:   users,
		mailer:  mailer,
		service: auth.NewService(users, &memoryLedger{}, signer, stubTokens{}, mailer, "yamdb@yamdb.com", logger),
	}
}
