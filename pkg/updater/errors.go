package updater

import (
	"errors"
)

// Sentinel errors for the pipeline's failure kinds.
// Callers distinguish them with errors.Is().
//
// Example usage:
//
//	report, err := svc.Run(ctx, cfg)
//	if errors.Is(err, updater.ErrConnectionFailed) {
//	    // database unreachable, nothing was uploaded
//	}
var (
	// ErrInvalidConfig indicates the run configuration is missing or invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrConfigNotFound indicates the configuration file does not exist.
	ErrConfigNotFound = errors.New("config file not found")

	// ErrMalformedQueryLine indicates a query file line has no ": " delimiter.
	ErrMalformedQueryLine = errors.New("malformed query line")

	// ErrDuplicateQuery indicates two query lines share a name.
	ErrDuplicateQuery = errors.New("duplicate query name")

	// ErrConnectionFailed indicates the database connection could not be established.
	ErrConnectionFailed = errors.New("connection failed")

	// ErrExecutionFailed indicates a query failed to execute or materialize.
	ErrExecutionFailed = errors.New("execution failed")

	// ErrMixedColumn indicates a column holds values of two different kinds.
	ErrMixedColumn = errors.New("mixed value kinds in column")

	// ErrRowWidth indicates a row length does not match the column count.
	ErrRowWidth = errors.New("row width does not match columns")

	// ErrUnsupportedValue indicates a dataset value has no column kind.
	ErrUnsupportedValue = errors.New("unsupported value type")

	// ErrCorruptArtifact indicates artifact bytes could not be decoded.
	ErrCorruptArtifact = errors.New("corrupt artifact")

	// ErrInvalidKey indicates the encryption key is malformed.
	ErrInvalidKey = errors.New("invalid encryption key")

	// ErrDecryptionFailed indicates a ciphertext failed authentication.
	ErrDecryptionFailed = errors.New("decryption failed")

	// ErrBatchCapacityExceeded indicates more artifacts than upload slots.
	ErrBatchCapacityExceeded = errors.New("batch capacity exceeded")

	// ErrUploadFailed indicates the upload request did not succeed. Advisory.
	ErrUploadFailed = errors.New("upload failed")

	// ErrReloadFailed indicates the reload request did not succeed. Advisory.
	ErrReloadFailed = errors.New("reload failed")
)

// IsAdvisory reports whether err is a non-fatal failure that is only logged.
func IsAdvisory(err error) bool {
	return errors.Is(err, ErrUploadFailed) || errors.Is(err, ErrReloadFailed)
}

// ExitCodeForError returns the process exit code for an error returned by the CLI.
// Returns ExitSuccess (0) for nil and advisory errors, ExitGeneralError (1) otherwise.
func ExitCodeForError(err error) int {
	if err == nil || IsAdvisory(err) {
		return ExitSuccess
	}
	return ExitGeneralError
}
