package model

import (
	"errors"
	"fmt"
)

// Listing is a single real-estate record returned by the listings service.
// It is the canonical type for storage, transport (HTTP, socket RPC) and display.
type Listing struct {
	ID        string  `json:"id" yaml:"id"`
	ImgSrcURL string  `json:"img_src" yaml:"img_src"`
	Type      string  `json:"type" yaml:"type"` // "rent" or "buy"
	Price     float64 `json:"price" yaml:"price"`
}

// Listing types understood by the service.
const (
	TypeRent = "rent"
	TypeBuy  = "buy"
)

// IsRental reports whether the listing is offered for rent.
func (l Listing) IsRental() bool {
	return l.Type == TypeRent
}

// DisplayPrice formats the price the way the overview shows it.
func (l Listing) DisplayPrice() string {
	if l.IsRental() {
		return fmt.Sprintf("$%.0f/month", l.Price)
	}
	return fmt.Sprintf("$%.0f", l.Price)
}

// ErrUnknownFilter is returned by ParseFilter for values outside the filter set.
var ErrUnknownFilter = errors.New("unknown filter")

// ErrNotFound is returned by lookups for a listing id that does not exist.
var ErrNotFound = errors.New("listing not found")

// Filter selects which subset of listings the service returns.
type Filter int

const (
	ShowAll Filter = iota
	ShowRent
	ShowBuy
)

// Filters lists every filter in display order.
var Filters = []Filter{ShowAll, ShowRent, ShowBuy}

// Value returns the wire value sent as the "filter" query parameter.
func (f Filter) Value() string {
	switch f {
	case ShowRent:
		return TypeRent
	case ShowBuy:
		return TypeBuy
	default:
		return "all"
	}
}

func (f Filter) String() string {
	switch f {
	case ShowRent:
		return "SHOW_RENT"
	case ShowBuy:
		return "SHOW_BUY"
	default:
		return "SHOW_ALL"
	}
}

// Title is the human label used by the UI.
func (f Filter) Title() string {
	switch f {
	case ShowRent:
		return "For rent"
	case ShowBuy:
		return "For sale"
	default:
		return "All"
	}
}

// Matches reports whether l belongs to the subset selected by f.
func (f Filter) Matches(l Listing) bool {
	switch f {
	case ShowRent:
		return l.Type == TypeRent
	case ShowBuy:
		return l.Type == TypeBuy
	default:
		return true
	}
}

// ParseFilter maps a wire value back to a Filter. An empty value means ShowAll.
func ParseFilter(v string) (Filter, error) {
	switch v {
	case "", "all":
		return ShowAll, nil
	case TypeRent:
		return ShowRent, nil
	case TypeBuy:
		return ShowBuy, nil
	}
	return ShowAll, fmt.Errorf("%w: %q", ErrUnknownFilter, v)
}

// FetchStatus summarizes the most recent fetch attempt.
type FetchStatus int

const (
	StatusLoading FetchStatus = iota
	StatusError
	StatusDone
)

func (s FetchStatus) String() string {
	switch s {
	case StatusError:
		return "ERROR"
	case StatusDone:
		return "DONE"
	default:
		return "LOADING"
	}
}
