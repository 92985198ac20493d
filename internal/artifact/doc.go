// Package artifact converts datasets to and from their binary artifact form.
//
// An artifact is an Apache Arrow IPC stream: one schema message followed by
// one record batch. Each field carries its dataset kind in the field
// metadata key "updater.kind", so columns that hold only nulls keep their
// identity and every dataset built with updater.NewDataset decodes back to
// an identical value.
//
// Kind to Arrow type mapping:
//
//	null      -> utf8 (all null)
//	bool      -> boolean
//	int       -> int64
//	float     -> float64
//	string    -> utf8
//	bytes     -> binary
//	timestamp -> timestamp[us, tz=UTC]
package artifact
