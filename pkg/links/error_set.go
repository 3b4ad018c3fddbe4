package links

import (
	"fmt"
	"strings"
)

// ErrorSet is a collection of errors reported together, such as all problems found in a registry.
type ErrorSet []error

func (e ErrorSet) String() string {
	if e == nil {
		return "<nil ErrorSet>"
	}

	if len(e) == 0 {
		return "<empty ErrorSet>"
	}

	if len(e) == 1 {
		return e[0].Error()
	}

	s := make([]string, 0, len(e)+1)
	s = append(s, fmt.Sprintf("Multiple Errors[%d]", len(e)))
	for _, er := range e {
		s = append(s, er.Error())
	}

	return strings.Join(s, "\n")
}

func (e ErrorSet) Error() string {
	return e.String()
}

// Unwrap exposes members of the set to [errors.Is] and [errors.As].
func (e ErrorSet) Unwrap() []error {
	return e
}

// AsMultiErrorOrNil returns nil if there are no non-nil errors given, otherwise an [ErrorSet] of non-nil errors.
func AsMultiErrorOrNil(e ...error) error {
	if len(e) == 0 {
		return nil
	}

	nonNilErrors := ErrorSet{}
	for _, er := range e {
		if er != nil {
			nonNilErrors = append(nonNilErrors, er)
		}
	}

	if len(nonNilErrors) == 0 {
		return nil
	}

	return nonNilErrors
}
