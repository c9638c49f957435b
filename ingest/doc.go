// Package ingest loads input corpora from disk and turns them into the
// validated, contiguously indexed records the pipeline consumes. Rows whose
// text is empty after trimming are dropped at load time, so downstream
// components never see them.
package ingest
