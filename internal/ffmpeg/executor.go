package ffmpeg

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
)

// ErrTimeout marks a splice that exceeded its wall-clock budget. It wraps
// context.DeadlineExceeded so callers can match either.
var ErrTimeout = fmt.Errorf("ffmpeg 处理超时: %w", context.DeadlineExceeded)

// Execute runs the built argument slice under ctx. Stderr is captured
// silently for error reporting. When the context deadline kills the
// subprocess the result is ErrTimeout, not a PipelineError.
func Execute(ctx context.Context, args []string) error {
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)

	var stderrBuf bytes.Buffer
	cmd.Stderr = &stderrBuf

	err := cmd.Run()
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return ErrTimeout
	}
	return newPipelineError(stderrBuf.String())
}
