// Package elevation checks whether the process may write machine-wide state.
package elevation

// Checker reports whether the current process runs with administrator rights.
type Checker interface {
	Elevated() (bool, error)
}

// CheckFunc adapts a function to Checker.
type CheckFunc func() (bool, error)

// Elevated implements Checker.
func (f CheckFunc) Elevated() (bool, error) { return f() }

// Fixed returns a Checker that always answers v.
func Fixed(v bool) Checker {
	return CheckFunc(func() (bool, error) { return v, nil })
}

// Current checks the running process.
var Current Checker = CheckFunc(isElevated)
