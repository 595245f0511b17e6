// Package fetch downloads remote videos to local storage with a byte cap,
// capped linear retry backoff, and a wall-clock budget supplied through the
// caller's context deadline.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"sync/atomic"
	"time"
)

// ErrSizeLimit marks a download rejected for exceeding the configured size
// cap, whether announced by Content-Length or discovered while streaming.
var ErrSizeLimit = errors.New("源视频超过大小限制")

// Per-attempt client limits, independent of the overall budget.
const (
	connectTimeout = 10 * time.Second
	headerTimeout  = 15 * time.Second
	chunkSize      = 256 * 1024
	maxBackoff     = 2 * time.Second
)

// readStallTimeout bounds inactivity between body reads within one
// attempt. Variable so tests can tighten it.
var readStallTimeout = 15 * time.Second

// errStalled marks an attempt whose body reads stopped making progress.
// Retryable, unlike a spent row budget.
var errStalled = errors.New("下载读取超时")

// Error wraps the last underlying failure after all attempts are exhausted.
type Error struct {
	URL      string
	Attempts int
	Err      error
}

func (e *Error) Error() string { return fmt.Sprintf("下载失败: %v", e.Err) }

func (e *Error) Unwrap() error { return e.Err }

var client = &http.Client{
	Transport: &http.Transport{
		DialContext:           (&net.Dialer{Timeout: connectTimeout}).DialContext,
		ResponseHeaderTimeout: headerTimeout,
	},
}

// Download streams url into destination. It makes up to retries+1 attempts,
// deleting the partial file after each failed one and sleeping
// min(attempt, 2) seconds between attempts. An attempt whose body reads
// stall for readStallTimeout fails and is retried like any other attempt
// failure. A context deadline hit is a timeout, returned immediately
// without further attempts; every other exhausted failure is wrapped in
// *Error.
func Download(ctx context.Context, url, destination string, maxBytes int64, retries int) error {
	if retries < 0 {
		retries = 0
	}
	attempts := retries + 1

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		err := downloadOnce(ctx, url, destination, maxBytes)
		if err == nil {
			return nil
		}
		os.Remove(destination)
		lastErr = err

		// The budget is gone; retrying cannot help.
		if ctxErr := budgetError(ctx, err); ctxErr != nil {
			return ctxErr
		}
		if attempt == attempts {
			break
		}

		backoff := time.Duration(attempt) * time.Second
		if backoff > maxBackoff {
			backoff = maxBackoff
		}
		select {
		case <-ctx.Done():
			return timeoutErr(ctx.Err())
		case <-time.After(backoff):
		}
	}

	return &Error{URL: url, Attempts: attempts, Err: lastErr}
}

func downloadOnce(ctx context.Context, url, destination string, maxBytes int64) error {
	attemptCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	// Early reject on an announced oversize body. ContentLength is -1 when
	// the header is absent or unparseable, which permissively skips the
	// check; the streaming cap below still applies.
	if resp.ContentLength > maxBytes {
		return ErrSizeLimit
	}

	out, err := os.Create(destination)
	if err != nil {
		return err
	}

	// The watchdog aborts the transfer once reads stop making progress;
	// copyCapped re-arms it after every chunk. Headers are already bounded
	// by the transport's ResponseHeaderTimeout, so it starts here.
	var stalled atomic.Bool
	watchdog := time.AfterFunc(readStallTimeout, func() {
		stalled.Store(true)
		cancel()
	})
	defer watchdog.Stop()

	copyErr := copyCapped(ctx, out, resp.Body, maxBytes, watchdog, &stalled)
	closeErr := out.Close()
	if copyErr != nil {
		return copyErr
	}
	return closeErr
}

// copyCapped streams src into dst in fixed-size chunks, failing once the
// cumulative size exceeds maxBytes, the context deadline passes, or the
// stall watchdog fires. ctx is the row budget, not the attempt context.
func copyCapped(ctx context.Context, dst io.Writer, src io.Reader, maxBytes int64, watchdog *time.Timer, stalled *atomic.Bool) error {
	buf := make([]byte, chunkSize)
	var written int64

	for {
		n, readErr := src.Read(buf)
		if n > 0 {
			watchdog.Reset(readStallTimeout)
			written += int64(n)
			if written > maxBytes {
				return ErrSizeLimit
			}
			if err := ctx.Err(); err != nil {
				return timeoutErr(err)
			}
			if _, err := dst.Write(buf[:n]); err != nil {
				return err
			}
		}
		if readErr == io.EOF {
			return nil
		}
		if readErr != nil {
			if err := ctx.Err(); err != nil {
				return timeoutErr(err)
			}
			if stalled.Load() {
				return errStalled
			}
			return readErr
		}
	}
}

// budgetError reports whether err (or the context itself) means the row's
// budget is spent, returning the canonical timeout error if so.
func budgetError(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return err
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return timeoutErr(ctxErr)
	}
	return nil
}

func timeoutErr(ctxErr error) error {
	return fmt.Errorf("下载超时: %w", ctxErr)
}
