package catalog

import "errors"

var (
	// ErrNotFound is returned when an edit or delete target no longer exists.
	ErrNotFound = errors.New("item not found")
	// ErrStore covers constraint violations, connectivity failures and timeouts.
	ErrStore = errors.New("store failure")
	// ErrAccessDenied is returned when a user outside the allow-list asks for the admin panel.
	ErrAccessDenied = errors.New("access denied")
	// ErrValidation marks input that was rejected without touching the store.
	ErrValidation = errors.New("validation failed")
)
