// Package rerrors classifies render-pipeline failures into the taxonomy
// spec §7 names (InputError, NumericalAnomaly, AssertionViolation, IOError),
// as thin sentinel wrapper types over plain errors rather than a full custom
// error package — the render core itself still returns and wraps ordinary
// errors with fmt.Errorf; only the driver/CLI boundary classifies them, to
// decide an exit code and a user-facing message.
package rerrors

import "fmt"

// Kind is one of the four taxonomy buckets spec §7 defines.
type Kind int

const (
	// KindInput covers missing files, malformed scenes, unknown BSDF/emitter
	// types, dangling id references, unsupported feature combinations.
	// Reported to the user; aborts before rendering.
	KindInput Kind = iota
	// KindNumericalAnomaly covers NaN/Inf throughput or radiance discarded
	// at accumulation time. Non-fatal: surfaced as a warning counter.
	KindNumericalAnomaly
	// KindAssertionViolation covers invariant breaches (non-normalized
	// direction, non-positive pdf on a returned sample). Fatal in
	// development builds; the sample is discarded and counted otherwise.
	KindAssertionViolation
	// KindIO covers texture/image decode or write failures. Reported and
	// aborted.
	KindIO
)

func (k Kind) String() string {
	switch k {
	case KindInput:
		return "InputError"
	case KindNumericalAnomaly:
		return "NumericalAnomaly"
	case KindAssertionViolation:
		return "AssertionViolation"
	case KindIO:
		return "IOError"
	default:
		return "UnknownError"
	}
}

// Error wraps an underlying error with its taxonomy Kind and implements
// Unwrap so errors.Is/As still sees through to the original cause.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string { return fmt.Sprintf("%s: %v", e.Kind, e.Err) }
func (e *Error) Unwrap() error { return e.Err }

func Input(err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: KindInput, Err: err}
}

func Numerical(err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: KindNumericalAnomaly, Err: err}
}

func Assertion(err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: KindAssertionViolation, Err: err}
}

func IO(err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: KindIO, Err: err}
}

// Inputf/IOf mirror fmt.Errorf, classifying the formatted error directly —
// the common case at a parse/load boundary.
func Inputf(format string, args ...interface{}) error {
	return &Error{Kind: KindInput, Err: fmt.Errorf(format, args...)}
}

func IOf(format string, args ...interface{}) error {
	return &Error{Kind: KindIO, Err: fmt.Errorf(format, args...)}
}

// ExitCode maps a classified (or unclassified) error to a process exit
// code. Unclassified errors default to 1, matching the teacher's plain
// os.Exit(1) on any failure.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var classified *Error
	if e, ok := err.(*Error); ok {
		classified = e
	} else {
		return 1
	}
	switch classified.Kind {
	case KindInput:
		return 2
	case KindIO:
		return 3
	case KindAssertionViolation:
		return 4
	default:
		return 1
	}
}
