package executor

import "fmt"

// CommandError is returned when a command could not be started or its
// output could not be wired. A command that ran and exited non-zero is not a
// CommandError; its *exec.ExitError is returned alongside the Result instead.
type CommandError struct {
	Cmd   string
	Stage string
	Cause error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("failed to %s %s: %v", e.Stage, e.Cmd, e.Cause)
}

func (e *CommandError) Unwrap() error {
	return e.Cause
}

// Spawn reports that the process never ran.
func (e *CommandError) Spawn() bool {
	return e.Stage == "start"
}
