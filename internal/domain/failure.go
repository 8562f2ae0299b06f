package domain

import "fmt"

// UnitError is the failure detail captured for a unit: the kind of the first error, its
// message and the invocation that raised it.
type UnitError struct {
	Kind       ErrorKind  `json:"kind"`
	Message    string     `json:"message"`
	Invocation Invocation `json:"invocation"`
	Err        error      `json:"-"`
}

// NewUnitError captures err as raised by the given invocation.
func NewUnitError(invocation Invocation, err error) *UnitError {
	msg := err.Error()
	if msg == "" {
		msg = "test failed with no failure message"
	}
	return &UnitError{
		Kind:       KindOf(err),
		Message:    msg,
		Invocation: invocation,
		Err:        err,
	}
}

func (e *UnitError) Error() string {
	return fmt.Sprintf("%s in %s: %s", e.Kind, e.Invocation, e.Message)
}

func (e *UnitError) Unwrap() error { return e.Err }

// TestFailure is the stored form of a failed or not-run unit, as shown by the failure viewer.
type TestFailure struct {
	ClassName  string     `json:"class_name"`
	TestName   string     `json:"test_name"`
	Outcome    Outcome    `json:"outcome"`
	Kind       ErrorKind  `json:"kind,omitempty"`
	Invocation Invocation `json:"invocation,omitempty"`
	Message    string     `json:"message"`
	Output     string     `json:"output,omitempty"`
	Resolved   bool       `json:"resolved,omitempty"` // Track if the failure is marked as resolved
}
