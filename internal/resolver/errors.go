package resolver

import "errors"

// Sentinel errors returned by Resolve.
//
// Callers match them with errors.Is; ErrWebsiteFailed is wrapped with the
// offending URL and status code.
var (
	// ErrWebsiteNotFound means no scheme candidate answered.
	ErrWebsiteNotFound = errors.New("website not found")

	// ErrWebsiteFailed means a candidate answered with a status that is
	// neither a success nor a followable redirect.
	ErrWebsiteFailed = errors.New("website failed")
)
