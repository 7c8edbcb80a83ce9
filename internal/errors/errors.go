package errors

import (
	"errors"
	"fmt"
	"os"

	"github.com/julianstephens/sprintdeck/internal/logger"
)

var (
	// ErrSaveFailed is returned when the local store could not persist a
	// snapshot; in-memory state is kept and the next autosave retries.
	ErrSaveFailed = errors.New("save failed")
	// ErrProtectedSprint is returned when deleting or archiving a priority
	// or backlog sprint is attempted.
	ErrProtectedSprint = errors.New("priority and backlog sprints cannot be deleted or archived")
	// ErrInvalidFormat is returned when an import payload fails validation.
	ErrInvalidFormat = errors.New("invalid file format")
	// ErrNoData is returned when an export is requested with nothing stored.
	ErrNoData = errors.New("no data to export")
	// ErrBackupNotFound is returned when restoring an unknown backup id.
	ErrBackupNotFound = errors.New("backup not found")
	// ErrBackupCorrupt is returned when a selected backup cannot be parsed.
	ErrBackupCorrupt = errors.New("backup is corrupted")
)

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}

// Fatalf logs and formats an error message, then exits the program with exit code 1
func Fatalf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logger.Error("Command execution failed", "error", msg)
	fmt.Fprintf(os.Stderr, "%s\n", Formatf(format, args...))
	os.Exit(1)
}
