package timer

import (
	"fmt"
)

// MissingTriggerError indicates a present declaration with none of the
// scheduling fields set, leaving the timer with nothing to fire on.
type MissingTriggerError struct {
	Name string
}

// Error implements the error interface.
func (e *MissingTriggerError) Error() string {
	return fmt.Sprintf("timer %s: ensure is present but no timer trigger is set (on_calendar, on_active_sec, on_boot_sec, on_start_up_sec, on_unit_active_sec, on_unit_inactive_sec)", e.Name)
}

// MissingCommandError indicates a present declaration without a command
// for the backing service unit to execute.
type MissingCommandError struct {
	Name string
}

// Error implements the error interface.
func (e *MissingCommandError) Error() string {
	return fmt.Sprintf("timer %s: ensure is present but no command is set", e.Name)
}

// IsMissingTriggerError checks if an error is a MissingTriggerError.
func IsMissingTriggerError(err error) bool {
	_, ok := err.(*MissingTriggerError)
	return ok
}

// IsMissingCommandError checks if an error is a MissingCommandError.
func IsMissingCommandError(err error) bool {
	_, ok := err.(*MissingCommandError)
	return ok
}
