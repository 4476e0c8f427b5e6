// Package storage provides the CSV input and output layer for the batch
// commands.
//
// The storage package handles:
//   - Reading input CSVs with required-column validation
//   - Writing output CSVs with a header row and per-row flushing
//
// ReadRecords treats a missing file or missing columns as a setup error so
// callers can abort before processing any row. RowWriter truncates the
// output file on creation and appends one row per processed input record.
package storage
