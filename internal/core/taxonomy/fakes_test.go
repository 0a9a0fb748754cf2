// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package taxonomy_test

import (
	"context"
	"io"
	"log/slog"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/taibuivan/yamdb/internal/core/taxonomy"
	"github.com/taibuivan/yamdb/internal/platform/apperr"
)

// memoryTerms is an in-memory [taxonomy.Repository].
type memoryTerms struct {
	mu     sync.Mutex
	nextID int64
	terms  []taxonomy.Term
}

func newMemoryTerms(terms ...taxonomy.Term) *memoryTerms {
	repository := &memoryTerms{}
	for _, term := range terms {
		_ = repository.Create(context.Background(), &term)
	}
	return repository
}

func (m *memoryTerms) List(_ context.Context, filter taxonomy.Filter, limit, offset int) ([]*taxonomy.Term, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	matched := []*taxonomy.Term{}
	for _, term := range m.terms {
		if strings.Contains(strings.ToLower(term.Name), strings.ToLower(filter.Search)) {
			matched = append(matched, &term)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Name < matched[j].Name })

	total := len(matched)
	if offset >= total {
		return []*taxonomy.Term{}, total, nil
	}
	return matched[offset:min(offset+limit, total)], total, nil
}

func (m *memoryTerms) FindBySlug(_ context.Context, slug string) (*taxonomy.Term, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, term := range m.terms {
		if term.Slug == slug {
			return &term, nil
		}
	}
	return nil, apperr.NotFound("Term")
}

func (m *memoryTerms) FindBySlugs(_ context.Context, slugs []string) ([]*taxonomy.Term, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	found := []*taxonomy.Term{}
	for _, term := range m.terms {
		if slices.Contains(slugs, term.Slug) {
			found = append(found, &term)
		}
	}
	return found, nil
}

func (m *memoryTerms) Create(_ context.Context, term *taxonomy.Term) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	term.ID = m.nextID
	m.terms = append(m.terms, *term)
	return nil
}

func (m *memoryTerms) DeleteBySlug(_ context.Context, slug string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, term := range m.terms {
		if term.Slug == slug {
			m.terms = slices.Delete(m.terms, i, i+1)
			return nil
		}
	}
	return apperr.NotFound("Term")
}

func newService(kind taxonomy.Kind, terms ...taxonomy.Term) *taxonomy.Service {
	return taxonomy.NewService(kind, newMemoryTerms(terms...), slog.New(slog.NewTextHandler(io.Discard, nil)))
}
