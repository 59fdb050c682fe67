package overview

import (
	"errors"
	"fmt"

	"github.com/tinytelemetry/marsestate/internal/model"
)

// ErrFetchFailed is the only failure kind the controller surfaces.
var ErrFetchFailed = errors.New("fetch failed")

// FetchError wraps whatever the fetcher returned (network, decode, timeout).
type FetchError struct {
	Filter model.Filter
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("overview: fetch %s: %v", e.Filter.Value(), e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Is makes every FetchError match ErrFetchFailed.
func (e *FetchError) Is(target error) bool { return target == ErrFetchFailed }
