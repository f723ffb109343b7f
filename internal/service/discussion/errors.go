package discussion

import "errors"

var (
	// ErrEmptyText rejects comment bodies that are empty after trimming,
	// before any write is attempted.
	ErrEmptyText = errors.New("comment text must not be empty")

	// ErrInvalidRating rejects ratings outside 1..5.
	ErrInvalidRating = errors.New("rating must be between 1 and 5")

	// ErrUnauthenticated is returned when a mutation is attempted without
	// a signed-in viewer.
	ErrUnauthenticated = errors.New("sign in to join the discussion")
)
