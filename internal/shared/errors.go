package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Authentication and session errors
	ErrUnauthenticated  = fmt.Errorf("not authenticated")
	ErrInvalidArgument  = fmt.Errorf("invalid argument")
	ErrRegistryRace     = fmt.Errorf("session registry race detected")
	ErrAuthFailed       = fmt.Errorf("authentication failed")
	ErrWeakCredentials  = fmt.Errorf("credentials do not meet requirements")
	ErrDuplicateAccount = fmt.Errorf("account already exists")

	// Persistence errors
	ErrNotFound        = fmt.Errorf("record not found")
	ErrDuplicate       = fmt.Errorf("record already exists")
	ErrDatabaseFailure = fmt.Errorf("database operation failed")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
