package grace

import (
	"log"
)

// fatal terminates the process, replaced in tests.
var fatal = log.Fatal

// FatalOnError logs an error, with instructions if it is actionable, and terminates the process using [log.Fatal] if err is not nil.
// Cancellation is reported as any other error: a command interrupted before it finished has not succeeded.
func FatalOnError(err error) {
	if err != nil {
		fatal(Explain(err))
	}
}
