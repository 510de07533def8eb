package cli

// CommandError signals a command failure with a specific exit code.
// Commands return it after printing their own output; main centralizes
// exit handling instead of commands calling os.Exit directly.
//
// Exit codes: 1 when the batch contains invalid invoices, 2 for usage,
// configuration, and batch-loading failures.
type CommandError struct {
	exitCode int
}

// NewCommandError creates a CommandError with the given exit code.
func NewCommandError(exitCode int) *CommandError {
	return &CommandError{exitCode: exitCode}
}

func (e *CommandError) Error() string {
	return "command failed"
}

// ExitCode returns the exit code associated with this error.
func (e *CommandError) ExitCode() int {
	return e.exitCode
}
