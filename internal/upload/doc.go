// Package upload delivers encrypted artifact batches to the ingestion service.
//
// A batch goes out as one multipart/form-data POST to
// <api_url>upload-dataframes/ with one file part per slot, followed by a
// GET to <api_url>reload-resources/ that makes the service pick up the new
// data. Neither call is retried and neither failure is fatal: outcomes are
// returned as updater.CallResult values for the caller to log.
//
// For dry runs, WriteDir stores the same batch as files instead.
package upload
