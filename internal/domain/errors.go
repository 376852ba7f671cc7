package domain

import "errors"

var (
	// ErrInvalidInput indicates a malformed id, price or argument.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidURL indicates a URL that does not name an app.
	ErrInvalidURL = errors.New("invalid app URL")
	// ErrAlreadyExists indicates the app is already on the wishlist.
	ErrAlreadyExists = errors.New("app already on wishlist")
	// ErrNotFound indicates the app is not on the wishlist.
	ErrNotFound = errors.New("app not on wishlist")
	// ErrUpdateInProgress indicates a batch refresh is already running.
	ErrUpdateInProgress = errors.New("price update already in progress")
	// ErrPermissionDenied indicates notifications are not authorized.
	ErrPermissionDenied = errors.New("notification permission denied")
)
