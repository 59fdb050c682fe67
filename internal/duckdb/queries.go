package duckdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	"github.com/tinytelemetry/marsestate/internal/model"
)

// ErrNotFound is returned by GetListing for unknown ids.
var ErrNotFound = model.ErrNotFound

// queryCtx bounds ctx with the store's configured query timeout.
func (s *Store) queryCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, s.QueryTimeout)
}

// typeFilter returns a WHERE clause and args restricting rows to filter.
func typeFilter(filter model.Filter) (clause string, args []interface{}) {
	if filter == model.ShowAll {
		return "", nil
	}
	return "WHERE type = ?", []interface{}{filter.Value()}
}

// UpsertListings inserts or updates listings in one transaction. Existing
// rows keep their original position in the catalog order.
func (s *Store) UpsertListings(listings []model.Listing) error {
	if len(listings) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := s.queryCtx(context.Background())
	defer cancel()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("duckdb: begin upsert: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO listings (id, img_src, type, price)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			img_src = excluded.img_src,
			type    = excluded.type,
			price   = excluded.price`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("duckdb: prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, l := range listings {
		if _, err := stmt.ExecContext(ctx, l.ID, l.ImgSrcURL, l.Type, l.Price); err != nil {
			tx.Rollback()
			return fmt.Errorf("duckdb: upsert %s: %w", l.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("duckdb: commit upsert: %w", err)
	}
	return nil
}

// ListListings returns the listings matching filter in catalog order.
func (s *Store) ListListings(ctx context.Context, filter model.Filter) ([]model.Listing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := s.queryCtx(ctx)
	defer cancel()

	where, args := typeFilter(filter)
	query := fmt.Sprintf(`
		SELECT id, img_src, type, price
		FROM listings %s
		ORDER BY seq`, where)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := make([]model.Listing, 0)
	for rows.Next() {
		var l model.Listing
		if err := rows.Scan(&l.ID, &l.ImgSrcURL, &l.Type, &l.Price); err != nil {
			log.Printf("duckdb scan error (ListListings): %v", err)
			continue
		}
		results = append(results, l)
	}
	return results, rows.Err()
}

// GetListing returns one listing by id.
func (s *Store) GetListing(ctx context.Context, id string) (model.Listing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := s.queryCtx(ctx)
	defer cancel()

	var l model.Listing
	err := s.db.QueryRowContext(ctx,
		"SELECT id, img_src, type, price FROM listings WHERE id = ?", id,
	).Scan(&l.ID, &l.ImgSrcURL, &l.Type, &l.Price)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Listing{}, ErrNotFound
	}
	if err != nil {
		return model.Listing{}, err
	}
	return l, nil
}

// ListingCount returns the number of stored listings.
func (s *Store) ListingCount() (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := s.queryCtx(context.Background())
	defer cancel()

	var count int64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM listings").Scan(&count)
	return count, err
}

// TypeCounts returns the number of listings per type.
func (s *Store) TypeCounts() (map[string]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := s.queryCtx(context.Background())
	defer cancel()

	rows, err := s.db.QueryContext(ctx, "SELECT type, count FROM listing_type_counts")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var typ string
		var n int64
		if err := rows.Scan(&typ, &n); err != nil {
			log.Printf("duckdb scan error (TypeCounts): %v", err)
			continue
		}
		counts[typ] = n
	}
	return counts, rows.Err()
}
