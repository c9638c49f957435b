// Package export writes pipeline results to Parquet, one file for the
// embedded vectors and one for the failure manifest.
package export
