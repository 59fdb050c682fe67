package model

import "context"

// ListingsFetcher issues the remote request for one filter.
// Implementations own the wire format, endpoint and timeout policy.
type ListingsFetcher interface {
	Fetch(ctx context.Context, filter Filter) ([]Listing, error)
}

// ListingQuerier provides read-only queries on stored listings.
type ListingQuerier interface {
	ListListings(ctx context.Context, filter Filter) ([]Listing, error)
	GetListing(ctx context.Context, id string) (Listing, error)
	ListingCount() (int64, error)
}

// ListingWriter provides write operations for the catalog import.
type ListingWriter interface {
	UpsertListings(listings []Listing) error
}

// ListingStore is the unified contract implemented by the service store.
type ListingStore interface {
	ListingQuerier
	ListingWriter
}
