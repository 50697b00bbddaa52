package services

import (
	"errors"
	"fmt"
	"strings"
)

// Error categories. Input errors describe bad caller data and are never
// retried; resource errors are fatal before any output is written; processing
// errors abort the job after partial work that must be cleaned up.
var (
	ErrInput      = errors.New("input error")
	ErrResource   = errors.New("resource error")
	ErrProcessing = errors.New("processing error")
	ErrTimeout    = errors.New("timeout")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided category marker for later classification. The marker
// should be one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrProcessing
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// ExitCode maps a classified error to the process exit code the CLI shell
// should use: 2 for input errors, 3 for resource errors, 1 otherwise.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrInput):
		return 2
	case errors.Is(err, ErrResource):
		return 3
	default:
		return 1
	}
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "pipeline failure"
	}
	return strings.Join(parts, ": ")
}
