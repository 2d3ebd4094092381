package lifecycle

import "errors"

var (
	// ErrNotFound indicates the feature or subtask does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDependencyUnresolved indicates a transition to in_progress or
	// completed while an upstream dependency is not completed.
	ErrDependencyUnresolved = errors.New("dependencies are not resolved")
	// ErrMissingBlockedReason indicates a blocked transition without a reason.
	ErrMissingBlockedReason = errors.New("blocked status requires a blocked reason")
	// ErrTerminalSubtask indicates an attempted transition out of completed.
	ErrTerminalSubtask = errors.New("completed subtasks cannot change status")
)
