// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package review_test

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/yamdb/internal/core/review"
	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/dberr"
	"github.com/taibuivan/yamdb/internal/platform/sec"
)

// memoryStore implements both repositories over shared maps.
type memoryStore struct {
	mu       sync.Mutex
	clock    time.Time
	titles   map[int64]bool
	reviews  map[int64]review.Review
	comments map[int64]review.Comment
	nextID   int64

	// skipLookup hides existing reviews from FindByAuthor to simulate a lost race.
	skipLookup bool
}

func newMemoryStore(titleIDs ...int64) *memoryStore {
	store := &memoryStore{
		clock:    time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		titles:   map[int64]bool{},
		reviews:  map[int64]review.Review{},
		comments: map[int64]review.Comment{},
	}
	for _, id := range titleIDs {
		store.titles[id] = true
	}
	return store
}

func (m *memoryStore) tick() time.Time {
	m.clock = m.clock.Add(time.Minute)
	m.nextID++
	return m.clock
}

type reviewRepo struct{ *memoryStore }

func (r reviewRepo) TitleExists(_ context.Context, titleID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.titles[titleID] {
		return apperr.NotFound("Title")
	}
	return nil
}

func (r reviewRepo) List(_ context.Context, titleID int64, limit, offset int) ([]*review.Review, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	matched := []*review.Review{}
	for _, row := range r.reviews {
		if row.TitleID == titleID {
			matched = append(matched, &row)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].PubDate.After(matched[j].PubDate) })

	total := len(matched)
	if offset >= total {
		return []*review.Review{}, total, nil
	}
	return matched[offset:min(offset+limit, total)], total, nil
}

func (r reviewRepo) FindByID(_ context.Context, titleID, reviewID int64) (*review.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	row, ok := r.reviews[reviewID]
	if !ok || row.TitleID != titleID {
		return nil, apperr.NotFound("Review")
	}
	return &row, nil
}

func (r reviewRepo) FindByAuthor(_ context.Context, titleID, authorID int64) (*review.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, row := range r.reviews {
		if !r.skipLookup && row.TitleID == titleID && row.AuthorID == authorID {
			return &row, nil
		}
	}
	return nil, apperr.NotFound("Review")
}

func (r reviewRepo) Create(_ context.Context, item *review.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, row := range r.reviews {
		if row.TitleID == item.TitleID && row.AuthorID == item.AuthorID {
			return uniqueViolation()
		}
	}

	item.PubDate = r.tick()
	item.ID = r.nextID
	r.reviews[item.ID] = *item
	return nil
}

func (r reviewRepo) Update(_ context.Context, item *review.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.reviews[item.ID] = *item
	return nil
}

func (r reviewRepo) Delete(_ context.Context, reviewID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.reviews, reviewID)
	for id, comment := range r.comments {
		if comment.ReviewID == reviewID {
			delete(r.comments, id)
		}
	}
	return nil
}

type commentRepo struct{ *memoryStore }

func (c commentRepo) List(_ context.Context, reviewID int64, limit, offset int) ([]*review.Comment, int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	matched := []*review.Comment{}
	for _, row := range c.comments {
		if row.ReviewID == reviewID {
			matched = append(matched, &row)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].PubDate.After(matched[j].PubDate) })

	total := len(matched)
	if offset >= total {
		return []*review.Comment{}, total, nil
	}
	return matched[offset:min(offset+limit, total)], total, nil
}

func (c commentRepo) FindByID(_ context.Context, reviewID, commentID int64) (*review.Comment, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	row, ok := c.comments[commentID]
	if !ok || row.ReviewID != reviewID {
		return nil, apperr.NotFound("Comment")
	}
	return &row, nil
}

func (c commentRepo) Create(_ context.Context, item *review.Comment) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	item.PubDate = c.tick()
	item.ID = c.nextID
	c.comments[item.ID] = *item
	return nil
}

func (c commentRepo) Update(_ context.Context, item *review.Comment) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.comments[item.ID] = *item
	return nil
}

func (c commentRepo) Delete(_ context.Context, commentID int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.comments, commentID)
	return nil
}

func newService(store *memoryStore) *review.Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return review.NewService(reviewRepo{store}, commentRepo{store}, logger)
}

var (
	alice     = &sec.AuthClaims{UserID: 10, Username: "alice", Role: string(sec.RoleUser)}
	bob       = &sec.AuthClaims{UserID: 11, Username: "bob", Role: string(sec.RoleUser)}
	moderator = &sec.AuthClaims{UserID: 12, Username: "mod", Role: string(sec.RoleModerator)}
	admin     = &sec.AuthClaims{UserID: 13, Username: "admin", Role: string(sec.RoleAdmin)}
	root      = &sec.AuthClaims{UserID: 14, Username: "root", Role: string(sec.RoleUser), Superuser: true}
)

// uniqueViolation is what the Postgres repository returns when the author/title index rejects a row.
func uniqueViolation() error {
	return dberr.Wrap(&pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "uq_review_author_title"}, "create_review")
}
