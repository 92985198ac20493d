package updater_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/vvka-141/updater/pkg/updater"
)

func TestExitCodeForError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil error", nil, updater.ExitSuccess},
		{"general error", errors.New("something went wrong"), updater.ExitGeneralError},
		{"accepts args", errors.New("accepts between 1 and 2 arg(s), received 0"), updater.ExitGeneralError},
		{"connection failed", fmt.Errorf("open session: %w", updater.ErrConnectionFailed), updater.ExitGeneralError},
		{"execution failed", fmt.Errorf("query %q: %w", "schools", updater.ErrExecutionFailed), updater.ExitGeneralError},
		{"capacity exceeded", updater.ErrBatchCapacityExceeded, updater.ExitGeneralError},
		{"invalid key", updater.ErrInvalidKey, updater.ExitGeneralError},
		{"upload failed is advisory", fmt.Errorf("status 500: %w", updater.ErrUploadFailed), updater.ExitSuccess},
		{"reload failed is advisory", updater.ErrReloadFailed, updater.ExitSuccess},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := updater.ExitCodeForError(tt.err); got != tt.want {
				t.Errorf("ExitCodeForError(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestIsAdvisory(t *testing.T) {
	if !updater.IsAdvisory(fmt.Errorf("wrapped: %w", updater.ErrReloadFailed)) {
		t.Error("reload failure should be advisory")
	}
	if updater.IsAdvisory(updater.ErrMalformedQueryLine) {
		t.Error("malformed query line must be fatal")
	}
	if updater.IsAdvisory(nil) {
		t.Error("nil is not advisory")
	}
}
