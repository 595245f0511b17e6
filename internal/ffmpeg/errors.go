package ffmpeg

import "strings"

// PipelineError is a non-timeout ffmpeg failure. Message is derived from
// the tool's diagnostic output; the last stderr line is almost always the
// actual cause, so that is what users see.
type PipelineError struct {
	Message string
}

func (e *PipelineError) Error() string { return e.Message }

// newPipelineError builds a PipelineError from captured stderr, falling
// back to a generic message when ffmpeg produced no diagnostics.
func newPipelineError(stderr string) *PipelineError {
	msg := lastLine(stderr)
	if msg == "" {
		msg = "ffmpeg 执行失败"
	}
	return &PipelineError{Message: msg}
}

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	lines := strings.Split(s, "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}
