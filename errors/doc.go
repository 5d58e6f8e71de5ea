/*
Package errors provides semantic error types for the localstore library.

The package defines common error scenarios with specific types that can be
checked using the standard errors.Is() function or the provided helper functions.

Common Errors:

	var (
	    ErrInitialization  = errors.New("storage initialization failed")
	    ErrSerialization   = errors.New("serialization failed")
	    ErrInvalidInput    = errors.New("invalid input")
	    ErrEmptyResult     = errors.New("sequence contains no matching element")
	    ErrAmbiguousResult = errors.New("sequence contains more than one matching element")
	)

Usage:

	// Check error type
	if err := store.Init(ctx); err != nil {
	    if errors.IsInitialization(err) {
	        // Backend could not be opened; fall back to empty collections
	    }
	    return err
	}

	// Create typed errors
	err := errors.NewInitializationError("sqlite", "appdata", cause)
	err := errors.NewSerializationError("users", cause)
	err := errors.NewValidationError("id", "must not be empty")

Absent entities are never modeled as errors: lookups return nil (or empty
sequences) instead. The error types implement the error interface and support
wrapping, making them compatible with Go's standard error handling patterns.
*/
package errors
