package domain

import "errors"

// Validation errors. Inputs that fail these checks are rejected at the boundary
// instead of producing NaN or Inf results.
var (
	ErrInvalidHorizon       = errors.New("horizon must be a non-negative whole number of months")
	ErrDegenerateRate       = errors.New("monthly rate of -100% is undefined")
	ErrNonFiniteRate        = errors.New("rate must be a finite number")
	ErrNegativeContribution = errors.New("contribution must not be negative")
	ErrInvalidFrequency     = errors.New("unknown step-up frequency")
	ErrUnknownCategory      = errors.New("unknown category")
	ErrInvalidGoal          = errors.New("invalid goal")
	ErrInvalidPlan          = errors.New("invalid plan")
)

// ErrGoalAchieved is returned when an already achieved goal is marked achieved again.
var ErrGoalAchieved = errors.New("goal already achieved")

var validationErrors = []error{
	ErrInvalidHorizon,
	ErrDegenerateRate,
	ErrNonFiniteRate,
	ErrNegativeContribution,
	ErrInvalidFrequency,
	ErrUnknownCategory,
	ErrInvalidGoal,
	ErrInvalidPlan,
}

// IsValidation reports whether err wraps one of the input validation errors.
func IsValidation(err error) bool {
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// ErrNotFound indicates that a stored plan or goal does not exist.
var ErrNotFound = errors.New("not found")
