// internal/engine/errors.go
package engine

import (
	"errors"
	"fmt"

	"github.com/solaunch/launchpad/internal/curve"
	"github.com/solaunch/launchpad/internal/fees"
	"github.com/solaunch/launchpad/internal/migration"
	"github.com/solaunch/launchpad/internal/pool"
	"github.com/solaunch/launchpad/internal/registry"
)

// ErrUnauthorizedClaimant rejects a claim by a caller that does not own
// the requested fee bucket.
var ErrUnauthorizedClaimant = errors.New("caller is not authorized for the requested fee bucket")

// ValidationError reports bad input. No state was touched.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// MintError wraps a token-minting collaborator failure during launch.
// No pool is registered when it is returned.
type MintError struct {
	Err error
}

func (e *MintError) Error() string {
	return fmt.Sprintf("token mint failed: %v", e.Err)
}

func (e *MintError) Unwrap() error { return e.Err }

// IsDomainError reports whether err is a domain-rule rejection rather
// than a collaborator failure. Domain errors are not retryable; the
// request itself is wrong for the pool's current state.
func IsDomainError(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr) ||
		errors.Is(err, pool.ErrNotActive) ||
		errors.Is(err, pool.ErrAllocationExhausted) ||
		errors.Is(err, pool.ErrThresholdNotReached) ||
		errors.Is(err, curve.ErrInsufficientOutput) ||
		errors.Is(err, curve.ErrZeroAmount) ||
		errors.Is(err, fees.ErrUnknownBucket) ||
		errors.Is(err, registry.ErrPoolNotFound) ||
		errors.Is(err, ErrUnauthorizedClaimant)
}

// IsCollaboratorError reports whether err came from an external
// collaborator (mint, payout, AMM factory). These are the only errors
// worth retrying.
func IsCollaboratorError(err error) bool {
	var mintErr *MintError
	var transferErr *fees.TransferError
	var creationErr *migration.CreationError
	return errors.As(err, &mintErr) ||
		errors.As(err, &transferErr) ||
		errors.As(err, &creationErr)
}
