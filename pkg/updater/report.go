package updater

// CallResult records the outcome of one outbound HTTP call.
// A zero CallResult means the call was never attempted.
type CallResult struct {
	// Step is "upload" or "reload"
	Step string

	// StatusCode is the HTTP status, 0 when no response was received
	StatusCode int

	// Body is the (truncated) response body of a failed call
	Body string

	// Err wraps ErrUploadFailed or ErrReloadFailed when the call did not succeed
	Err error
}

// Attempted reports whether the call was issued.
func (r CallResult) Attempted() bool {
	return r.Step != ""
}

// OK reports whether the call was issued and succeeded.
func (r CallResult) OK() bool {
	return r.Attempted() && r.Err == nil
}

// RunReport summarizes one pipeline execution.
type RunReport struct {
	// RunID identifies the run in logs and request headers
	RunID string

	// Queries lists the executed query names in production order
	Queries []string

	// Artifacts lists the assigned slot fields in order
	Artifacts []string

	// Upload and Reload are zero when the step did not run (dry run)
	Upload CallResult
	Reload CallResult
}
