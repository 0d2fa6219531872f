// Package catalog resolves GYG product ids to tour titles.
//
// Lookups are served from an in-memory snapshot so the ingestion path never
// blocks on the catalog store. A Refreshing catalog reloads its snapshot from a
// Source on a fixed interval and keeps the previous snapshot when a reload fails.
package catalog

import (
	"context"
	"fmt"
	"maps"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
)

type Catalog interface {
	Title(productID string) (string, bool)
}

// Source supplies a full productId -> title mapping.
type Source interface {
	Products(ctx context.Context) (map[string]string, error)
}

// Static is a fixed catalog, usually read from the config file.
type Static map[string]string

func (s Static) Title(productID string) (string, bool) {
	title, ok := s[productID]
	return title, ok
}

type Refreshing struct {
	source   Source
	logger   logrus.FieldLogger
	snapshot atomic.Pointer[map[string]string]
}

// NewRefreshing returns a catalog seeded with initial until the first Refresh succeeds.
func NewRefreshing(source Source, initial map[string]string, logger logrus.FieldLogger) *Refreshing {
	r := &Refreshing{source: source, logger: logger}
	seed := maps.Clone(initial)
	if seed == nil {
		seed = map[string]string{}
	}
	r.snapshot.Store(&seed)
	return r
}

func (r *Refreshing) Title(productID string) (string, bool) {
	products := *r.snapshot.Load()
	title, ok := products[productID]
	return title, ok
}

func (r *Refreshing) Len() int {
	return len(*r.snapshot.Load())
}

func (r *Refreshing) Refresh(ctx context.Context) error {
	products, err := r.source.Products(ctx)
	if err != nil {
		return fmt.Errorf("refresh catalog: %w", err)
	}
	next := maps.Clone(products)
	if next == nil {
		next = map[string]string{}
	}
	r.snapshot.Store(&next)
	return nil
}

// Run refreshes the catalog every interval until ctx is canceled.
func (r *Refreshing) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := r.Refresh(ctx); err != nil {
				r.logger.WithError(err).Warn("catalog refresh failed, keeping previous snapshot")
				continue
			}
			r.logger.WithField("products", r.Len()).Debug("catalog refreshed")
		case <-ctx.Done():
			return
		}
	}
}

var (
	_ Catalog = Static(nil)
	_ Catalog = (*Refreshing)(nil)
)
