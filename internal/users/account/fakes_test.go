// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account_test

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/sec"
	"github.com/taibuivan/yamdb/internal/users/account"
	"github.com/taibuivan/yamdb/internal/users/auth"
)

// memoryAccounts is an in-memory [account.Repository].
type memoryAccounts struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]auth.User
}

func newMemoryAccounts(users ...auth.User) *memoryAccounts {
	repository := &memoryAccounts{rows: map[int64]auth.User{}}
	for _, user := range users {
		_ = repository.Create(context.Background(), &user)
	}
	return repository
}

func (m *memoryAccounts) List(_ context.Context, filter account.Filter, limit, offset int) ([]*auth.User, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var matched []*auth.User
	for _, row := range m.rows {
		if strings.Contains(strings.ToLower(row.Username), strings.ToLower(filter.Search)) {
			user := row
			matched = append(matched, &user)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Username < matched[j].Username })

	total := len(matched)
	if offset >= total {
		return []*auth.User{}, total, nil
	}
	return matched[offset:min(offset+limit, total)], total, nil
}

func (m *memoryAccounts) FindByID(_ context.Context, id int64) (*auth.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	row, ok := m.rows[id]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	return &row, nil
}

func (m *memoryAccounts) find(match func(auth.User) bool) (*auth.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, row := range m.rows {
		if match(row) {
			return &row, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (m *memoryAccounts) FindByUsername(_ context.Context, username string) (*auth.User, error) {
	return m.find(func(row auth.User) bool { return row.Username == username })
}

func (m *memoryAccounts) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	return m.find(func(row auth.User) bool { return row.Email == email })
}

func (m *memoryAccounts) Create(_ context.Context, user *auth.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	user.ID = m.nextID
	if user.Role == "" {
		user.Role = sec.RoleUser
	}
	m.rows[user.ID] = *user
	return nil
}

func (m *memoryAccounts) Update(_ context.Context, user *auth.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.rows[user.ID]; !ok {
		return apperr.NotFound("User")
	}
	m.rows[user.ID] = *user
	return nil
}

func (m *memoryAccounts) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.rows[id]; !ok {
		return apperr.NotFound("User")
	}
	delete(m.rows, id)
	return nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// seeded returns a service over two accounts: admin (id 1) and reader (id 2).
func seeded() (*account.Service, *memoryAccounts) {
	repository := newMemoryAccounts(
		auth.User{Username: "admin", Email: "admin@example.com", Role: sec.RoleAdmin},
		auth.User{Username: "reader", Email: "reader@example.com", Role: sec.RoleUser, Bio: "likes films"},
	)
	return account.NewService(repository, quietLogger()), repository
}
