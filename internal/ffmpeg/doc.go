// Package ffmpeg builds and executes the ffmpeg invocation that splices a
// source video with the endcard: probe both inputs, pick target bitrates,
// build the normalization filter graph, and run a single bounded encode.
//
// The subprocess is bounded by the caller's context deadline; a deadline
// hit surfaces as an error matching context.DeadlineExceeded, distinct from
// PipelineError (which carries the last line of ffmpeg's stderr).
package ffmpeg
