package errs

import "github.com/cockroachdb/errors"

// ErrorKind identifies a kind of internal error.
// fully support for errors.Is and errors.As.
type ErrorKind string

const (
	// PhaseError is returned when an operation is attempted outside of its time window,
	// or a one-shot operation is repeated.
	PhaseError = ErrorKind("Phase Error")

	// EligibilityError is returned when a caller fails the whitelist predicate or registers twice.
	EligibilityError = ErrorKind("Eligibility Error")

	// InsufficientFunds is returned when a payment does not match the required amount.
	InsufficientFunds = ErrorKind("Insufficient Funds")

	// CapacityError is returned when a per-wallet maximum or a remaining quantity is exceeded.
	CapacityError = ErrorKind("Capacity Error")

	// DoubleClaim is returned when a settled booking is claimed again.
	DoubleClaim = ErrorKind("Double Claim")

	// ArithmeticInvariant signals an accounting bug. It must never be observed in correct operation.
	ArithmeticInvariant = ErrorKind("Arithmetic Invariant Violation")

	// NotFound is returned when a requested item is not found.
	NotFound = ErrorKind("Not Found")

	// InvalidArgument is returned when an argument is invalid.
	InvalidArgument = ErrorKind("Invalid Argument")

	// Unauthorized is returned when the caller is not allowed to perform an administrative operation.
	Unauthorized = ErrorKind("Unauthorized")

	// Closed is returned when a component is used after shutdown.
	Closed = ErrorKind("Closed")

	// Timeout is returned when an operation did not finish in time.
	Timeout = ErrorKind("Timeout")

	OverflowUint128 = ErrorKind("overflow uint128")
)

// Error satisfies the error interface and prints human-readable errors.
func (e ErrorKind) Error() string {
	return string(e)
}

// kinds in the order they are reported by KindOf.
var kinds = []ErrorKind{
	PhaseError,
	EligibilityError,
	DoubleClaim,
	CapacityError,
	InsufficientFunds,
	ArithmeticInvariant,
	OverflowUint128,
	NotFound,
	InvalidArgument,
	Unauthorized,
	Closed,
	Timeout,
}

// KindOf returns the primary kind of err. An error may be marked with more than one kind,
// the first kind in the taxonomy order wins.
func KindOf(err error) (ErrorKind, bool) {
	if err == nil {
		return "", false
	}
	for _, kind := range kinds {
		if errors.Is(err, kind) {
			return kind, true
		}
	}
	return "", false
}
