package dem

import "errors"

// Fatal contract violations are detected before any engine call; numerical
// instability inside a fit demotes the offending candidate instead of
// aborting, except on the very first evaluation (no valid baseline exists).
var (
	// ErrInvalidBounds reports a lower bound exceeding its upper bound, or
	// bound vectors whose length does not match the parameter vector.
	ErrInvalidBounds = errors.New("invalid bounds")

	// ErrInvalidParameters reports a parameter vector of the wrong arity for
	// the chosen model, or an initial guess outside the declared bounds.
	ErrInvalidParameters = errors.New("invalid parameters")

	// ErrNumericalInstability reports a non-finite density or spectrum
	// produced by the numerical engine.
	ErrNumericalInstability = errors.New("numerical instability")

	// ErrNoEngine reports that no numerical engine implementation has been
	// registered (import dem/diffusion for the default).
	ErrNoEngine = errors.New("no numerical engine registered")

	// ErrUnknownModel reports a model name absent from the registry.
	ErrUnknownModel = errors.New("unknown demographic model")
)
