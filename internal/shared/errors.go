package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Authentication errors
	ErrNotAuthenticated = fmt.Errorf("not authenticated")

	// API and service errors
	ErrAPIRequest             = fmt.Errorf("API request failed")
	ErrServiceUnavailable     = fmt.Errorf("service unavailable")
	ErrCharacterSheetNotFound = fmt.Errorf("character sheet not found")
	ErrDeleteRejected         = fmt.Errorf("delete rejected by server")
	ErrNoDraft                = fmt.Errorf("no character sheet draft")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrUnknownField    = fmt.Errorf("unknown field")
	ErrUnknownFormat   = fmt.Errorf("unknown format")
)
