package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")
	ErrUnknownBackend     = fmt.Errorf("unknown cache backend")

	// Authentication errors
	ErrAuthFailed       = fmt.Errorf("authentication failed")
	ErrNotAuthenticated = fmt.Errorf("not authenticated")
	ErrTimeout          = fmt.Errorf("operation timed out")

	// API and service errors
	ErrAPIRequest             = fmt.Errorf("API request failed")
	ErrQuotaExceeded          = fmt.Errorf("quota exceeded")
	ErrDestinationUnavailable = fmt.Errorf("destination listing failed")
	ErrPlaylistNotFound       = fmt.Errorf("playlist not found")
	ErrNoMatch                = fmt.Errorf("no matching video")

	// Cache errors
	ErrCacheIO = fmt.Errorf("cache I/O failed")

	// Input validation errors
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrUserAborted     = fmt.Errorf("aborted by user")
)
