package shared

import "fmt"

var (
	// Configuration errors
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Authentication errors
	ErrAuthFailed       = fmt.Errorf("authentication failed")
	ErrNotAuthenticated = fmt.Errorf("not authenticated")
	ErrInvalidState     = fmt.Errorf("invalid oauth state")
	ErrNoToken          = fmt.Errorf("no cached token")

	// Remote errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrNoDevice           = fmt.Errorf("target device not found")
	ErrNoActiveSession    = fmt.Errorf("no active playback session")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")

	// Hardware errors
	ErrHardwareUnavailable = fmt.Errorf("gpio hardware unavailable")

	// Input validation errors
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
