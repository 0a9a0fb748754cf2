// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package title_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/taibuivan/yamdb/internal/core/taxonomy"
	"github.com/taibuivan/yamdb/internal/core/title"
	"github.com/taibuivan/yamdb/internal/platform/apperr"
)

// vocabulary is a read-only in-memory [taxonomy.Repository].
type vocabulary []*taxonomy.Term

func (v vocabulary) List(context.Context, taxonomy.Filter, int, int) ([]*taxonomy.Term, int, error) {
	return v, len(v), nil
}

func (v vocabulary) FindBySlug(_ context.Context, slug string) (*taxonomy.Term, error) {
	for _, term := range v {
		if term.Slug == slug {
			return term, nil
		}
	}
	return nil, apperr.NotFound("Term")
}

func (v vocabulary) FindBySlugs(_ context.Context, slugs []string) ([]*taxonomy.Term, error) {
	found := []*taxonomy.Term{}
	for _, term := range v {
		if slices.Contains(slugs, term.Slug) {
			found = append(found, term)
		}
	}
	return found, nil
}

func (v vocabulary) byID(id int64) *taxonomy.Term {
	for _, term := range v {
		if term.ID == id {
			return term
		}
	}
	return nil
}

func (vocabulary) Create(context.Context, *taxonomy.Term) error { return nil }
func (vocabulary) DeleteBySlug(context.Context, string) error   { return nil }

var (
	categories = vocabulary{
		{ID: 1, Name: "Film", Slug: "film"},
		{ID: 2, Name: "Book", Slug: "book"},
	}
	genres = vocabulary{
		{ID: 1, Name: "Drama", Slug: "drama"},
		{ID: 2, Name: "Comedy", Slug: "comedy"},
	}
)

// memoryTitles is an in-memory [title.Repository] hydrating from the fixed vocabularies.
type memoryTitles struct {
	mu      sync.Mutex
	nextID  int64
	records map[int64]title.Record
}

func newMemoryTitles() *memoryTitles {
	return &memoryTitles{records: map[int64]title.Record{}}
}

func (m *memoryTitles) hydrate(id int64, record title.Record) *title.Title {
	hydrated := &title.Title{ID: id, Name: record.Name, Year: record.Year, Description: record.Description, Genre: []*taxonomy.Term{}}
	if record.CategoryID != nil {
		hydrated.Category = categories.byID(*record.CategoryID)
	}
	for _, genreID := range record.GenreIDs {
		hydrated.Genre = append(hydrated.Genre, genres.byID(genreID))
	}
	return hydrated
}

func (m *memoryTitles) List(_ context.Context, filter title.Filter, limit, offset int) ([]*title.Title, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Mirrors the driver refusing to encode a year into SMALLINT.
	if filter.Year < math.MinInt16 || filter.Year > math.MaxInt16 {
		return nil, 0, fmt.Errorf("unable to encode %d into int2", filter.Year)
	}

	matched := []*title.Title{}
	for id := int64(1); id <= m.nextID; id++ {
		record, ok := m.records[id]
		if !ok || !strings.Contains(strings.ToLower(record.Name), strings.ToLower(filter.Name)) {
			continue
		}
		if filter.Year != 0 && record.Year != filter.Year {
			continue
		}
		matched = append(matched, m.hydrate(id, record))
	}

	total := len(matched)
	if offset >= total {
		return []*title.Title{}, total, nil
	}
	return matched[offset:min(offset+limit, total)], total, nil
}

func (m *memoryTitles) FindByID(_ context.Context, id int64) (*title.Title, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	record, ok := m.records[id]
	if !ok {
		return nil, apperr.NotFound("Title")
	}
	return m.hydrate(id, record), nil
}

func (m *memoryTitles) Create(_ context.Context, record *title.Record) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	m.records[m.nextID] = *record
	return m.nextID, nil
}

func (m *memoryTitles) Update(_ context.Context, id int64, record *title.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.records[id]
	if !ok {
		return apperr.NotFound("Title")
	}
	if record.GenreIDs == nil {
		record.GenreIDs = current.GenreIDs
	}
	m.records[id] = *record
	return nil
}

func (m *memoryTitles) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.records[id]; !ok {
		return apperr.NotFound("Title")
	}
	delete(m.records, id)
	return nil
}

// fixedNow pins the current year to 2024.
func fixedNow() time.Time {
	return time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
}

func newService() *title.Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return title.NewService(newMemoryTitles(), categories, genres, logger).WithClock(fixedNow)
}
