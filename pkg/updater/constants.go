package updater

// Exit codes returned by updater_app.
// Every fatal pipeline condition maps to ExitGeneralError; advisory
// upload/reload failures still exit with ExitSuccess.
const (
	ExitSuccess      = 0 // Run completed (upload/reload may have reported failures)
	ExitGeneralError = 1 // Usage, config, query, key, database or capacity failure
	ExitPanic        = 3 // Internal panic (unexpected crash)
)

const (
	// DefaultMaxArtifacts is the number of upload slots the ingestion service expects.
	DefaultMaxArtifacts = 2

	// DefaultQueriesPath is read when neither the CLI nor the config names a query file.
	DefaultQueriesPath = "queries.txt"

	// DefaultSSLMode is used when db_params does not specify sslmode.
	DefaultSSLMode = "prefer"

	// DefaultPort is the PostgreSQL port used when db_params omits it.
	DefaultPort = 5432

	// UploadPath and ReloadPath are appended to api_url.
	UploadPath = "upload-dataframes/"
	ReloadPath = "reload-resources/"

	// APIKeyHeader carries the shared secret on upload requests.
	// The ingestion service reads it with this exact lower-case name.
	APIKeyHeader = "api_key"

	// RunIDHeader correlates requests of one run in the service logs.
	RunIDHeader = "X-Run-ID"

	// SlotFieldPrefix prefixes the 1-indexed multipart field names (file1, file2, ...).
	SlotFieldPrefix = "file"

	// MaxErrorBodyLength bounds how much of a failed response body is kept for logging.
	MaxErrorBodyLength = 2048
)
