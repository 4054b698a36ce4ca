package domain

import "errors"

var (
	// ErrProductNotFound is returned when a product id is not in the current catalog
	ErrProductNotFound = errors.New("product not found in catalog")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrCatalogUnavailable is returned when the catalog source cannot be read
	ErrCatalogUnavailable = errors.New("catalog source unavailable")

	// ErrFeedFailure is returned when the remote catalog feed request fails
	ErrFeedFailure = errors.New("catalog feed request failed")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")
)
