package pipeline

// Status is the outcome of processing one row.
type Status string

const (
	StatusSuccess Status = "SUCCESS"
	StatusFailed  Status = "FAILED"
)

// TaskResult is the outcome of processing one input row. Created exactly
// once per row and never mutated; the final result list is sorted by
// Index.
type TaskResult struct {
	// Index is copied from the input row and orders the final report.
	Index int
	// PID is the row's raw identifier.
	PID string
	// OutputFilename was assigned before processing started, so it is
	// present whether or not the row succeeded.
	OutputFilename string
	Status         Status
	// Error is empty iff Status is SUCCESS.
	Error string
	// DurationSec is the wall-clock time spent on this row.
	DurationSec float64
	// OutputPath points to an existing file in the batch workspace iff
	// Status is SUCCESS; empty otherwise.
	OutputPath string
}
