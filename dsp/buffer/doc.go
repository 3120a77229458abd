// Package buffer provides the reusable float64 block type and pool used by
// the record driver: one pooled block per channel and record, and one
// long-lived accumulator when channels are merged.
package buffer
