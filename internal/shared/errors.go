package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// User input errors
	ErrInvalidLink     = fmt.Errorf("no video identifier found in link")
	ErrEmptyPlaylist   = fmt.Errorf("playlist is empty")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrMissingArgument = fmt.Errorf("missing required argument")

	// Capacity errors (resolved only by shrinking the playlist)
	ErrTooManyTracks = fmt.Errorf("playlist exceeds the 50 track sharing limit")
	ErrLinkTooLong   = fmt.Errorf("share link exceeds the 8000 character limit")

	// Codec errors
	ErrEncodingFailure = fmt.Errorf("playlist encoding failed")

	// API and service errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrAllProvidersFailed = fmt.Errorf("all shortening providers failed")

	// Storage errors (logged, never surfaced)
	ErrStorageFailure = fmt.Errorf("storage operation failed")
)
