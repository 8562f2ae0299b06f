package domain

// Invocation identifies which part of a unit's lifecycle raised an error.
type Invocation string

const (
	InvocationConstruct Invocation = "construct"
	InvocationPreTest   Invocation = "pre_test"
	InvocationTest      Invocation = "test"
	InvocationPostTest  Invocation = "post_test"
)

// UnitID identifies one test unit for reporting.
type UnitID struct {
	ClassName string
	TestName  string
}

func (u UnitID) String() string {
	return u.ClassName + ":" + u.TestName
}
