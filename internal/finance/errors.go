package finance

import "fmt"

// ValidationError reports an assumption outside its declared range, or an
// inconsistent debt/equity split.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid assumption %q: %s", e.Field, e.Reason)
}

// NonConvergenceError reports a solver that exhausted its iteration budget or
// could not bracket a root. The last residual and the iteration count are
// kept for diagnostics; the partial value is never returned.
type NonConvergenceError struct {
	Solver     string
	Iterations int
	Residual   float64
}

func (e *NonConvergenceError) Error() string {
	return fmt.Sprintf("%s solver did not converge after %d iterations (last residual %g)",
		e.Solver, e.Iterations, e.Residual)
}
