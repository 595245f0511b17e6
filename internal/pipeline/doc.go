// Package pipeline orchestrates one batch: it assigns output names up
// front, creates the batch workspace, fans rows out to a bounded worker
// pool, sequences download → splice per row under a dispatch-relative
// deadline, and collects exactly one result per row.
//
// No row failure ever aborts the batch: worker panics are caught at the
// runner boundary and become FAILED results. The only batch-level failures
// are workspace creation and pre-flight runtime validation.
package pipeline
