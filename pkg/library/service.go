// Package library is the service layer: it owns the catalog store, the
// upload capability, and the cached search index, and serves every
// operation the transports expose.
package library

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/hazyhaar/maktaba/pkg/catalog"
	"github.com/hazyhaar/maktaba/pkg/match"
)

// Uploader stores a PDF somewhere and returns an opaque locator for it.
// The service never learns whether that is a cloud drive or local disk.
type Uploader interface {
	Upload(ctx context.Context, name string, r io.Reader) (string, error)
}

// Service serves lookups and administers the catalog. The index is cached
// between lookups and invalidated by every mutation, so a stale index
// never crosses an insert/delete boundary.
type Service struct {
	store    *catalog.Store
	norm     *match.Normalizer
	resolver *match.Resolver
	uploader Uploader
	logger   *slog.Logger

	mu  sync.RWMutex
	idx *match.Index
}

// New builds a Service. uploader may be nil; Add then fails cleanly.
func New(store *catalog.Store, norm *match.Normalizer, resolver *match.Resolver, uploader Uploader, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:    store,
		norm:     norm,
		resolver: resolver,
		uploader: uploader,
		logger:   logger,
	}
}

// index returns the cached index, rebuilding it from a fresh catalog
// snapshot when a mutation (or Reload) dropped it.
func (s *Service) index(ctx context.Context) (*match.Index, error) {
	s.mu.RLock()
	idx := s.idx
	s.mu.RUnlock()
	if idx != nil {
		return idx, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.idx != nil {
		return s.idx, nil
	}

	books, err := s.store.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	pairs := make([]match.Pair, len(books))
	for i, b := range books {
		pairs[i] = match.Pair{Scholar: b.Scholar, Title: b.Title}
	}
	s.idx = match.BuildIndex(s.norm, pairs)
	s.logger.Debug("index rebuilt", "entries", s.idx.Len())
	return s.idx, nil
}

func (s *Service) invalidate() {
	s.mu.Lock()
	s.idx = nil
	s.mu.Unlock()
}

// Reload drops the cached index so the next lookup rereads the catalog.
func (s *Service) Reload() {
	s.invalidate()
	s.logger.Info("catalog index invalidated")
}

// Resolve runs the tiered matcher for a raw query.
func (s *Service) Resolve(ctx context.Context, query string) (match.Pair, bool, error) {
	idx, err := s.index(ctx)
	if err != nil {
		return match.Pair{}, false, err
	}
	p, ok := s.resolver.Resolve(query, idx)
	return p, ok, nil
}

// Suggest returns up to limit ranked alternatives for a failed query.
func (s *Service) Suggest(ctx context.Context, query string, limit int) ([]match.Pair, error) {
	idx, err := s.index(ctx)
	if err != nil {
		return nil, err
	}
	return s.resolver.Suggest(query, idx, limit), nil
}

// Scholars lists the distinct scholar names.
func (s *Service) Scholars(ctx context.Context) ([]string, error) {
	return s.store.Scholars(ctx)
}

// Titles lists one scholar's titles.
func (s *Service) Titles(ctx context.Context, scholar string) ([]string, error) {
	return s.store.TitlesByScholar(ctx, scholar)
}

// Locator returns the stored locator for a pair.
func (s *Service) Locator(ctx context.Context, scholar, title string) (string, bool, error) {
	return s.store.Locator(ctx, scholar, title)
}

// Count returns the catalog size.
func (s *Service) Count(ctx context.Context) (int, error) {
	return s.store.Count(ctx)
}

// Add uploads the PDF, inserts the catalog row, and invalidates the index.
// Nothing is inserted when the upload fails.
func (s *Service) Add(ctx context.Context, scholar, title string, pdf io.Reader) (catalog.Book, error) {
	if s.uploader == nil {
		return catalog.Book{}, fmt.Errorf("no uploader configured")
	}

	locator, err := s.uploader.Upload(ctx, title+".pdf", pdf)
	if err != nil {
		return catalog.Book{}, fmt.Errorf("upload %s: %w", title, err)
	}

	b := catalog.Book{Scholar: scholar, Title: title, URL: locator}
	if err := s.store.Insert(ctx, b); err != nil {
		return catalog.Book{}, err
	}
	s.invalidate()

	s.logger.Info("book added", "scholar", scholar, "title", title)
	return b, nil
}

// AddRow inserts a catalog row with an existing locator (bulk import path)
// and invalidates the index.
func (s *Service) AddRow(ctx context.Context, b catalog.Book) error {
	if err := s.store.Insert(ctx, b); err != nil {
		return err
	}
	s.invalidate()
	return nil
}

// Remove deletes all rows for (scholar, title), invalidates the index, and
// returns the removed count.
func (s *Service) Remove(ctx context.Context, scholar, title string) (int64, error) {
	n, err := s.store.Delete(ctx, scholar, title)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.invalidate()
		s.logger.Info("book removed", "scholar", scholar, "title", title, "rows", n)
	}
	return n, nil
}
