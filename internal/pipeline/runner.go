package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/backmassage/splicer/internal/check"
	"github.com/backmassage/splicer/internal/config"
	"github.com/backmassage/splicer/internal/fetch"
	"github.com/backmassage/splicer/internal/ffmpeg"
	"github.com/backmassage/splicer/internal/input"
)

// Fetcher downloads a remote video to dest, bounded by ctx's deadline.
type Fetcher interface {
	Fetch(ctx context.Context, url, dest string, maxBytes int64, retries int) error
}

// Splicer concatenates source with the endcard into output, bounded by
// ctx's deadline.
type Splicer interface {
	Splice(ctx context.Context, source, endcard, output string) error
}

// FetchFunc adapts a function to the Fetcher interface.
type FetchFunc func(ctx context.Context, url, dest string, maxBytes int64, retries int) error

func (f FetchFunc) Fetch(ctx context.Context, url, dest string, maxBytes int64, retries int) error {
	return f(ctx, url, dest, maxBytes, retries)
}

// SpliceFunc adapts a function to the Splicer interface.
type SpliceFunc func(ctx context.Context, source, endcard, output string) error

func (f SpliceFunc) Splice(ctx context.Context, source, endcard, output string) error {
	return f(ctx, source, endcard, output)
}

// Options customizes a Runner. Zero values select the real fetcher, the
// real ffmpeg splicer, the standard runtime validation, and no callbacks.
type Options struct {
	Fetcher  Fetcher
	Splicer  Splicer
	Validate func(*config.Config) []string

	// OnLog receives each user-facing log line; OnProgress receives
	// (completed, total) after each row. Both are invoked from the
	// single collector goroutine, in completion order, so callers need
	// no locking of their own.
	OnLog      func(line string)
	OnProgress func(completed, total int)
}

// Runner owns one batch execution.
type Runner struct {
	cfg  *config.Config
	opts Options
}

// New builds a Runner for cfg, filling in defaults for unset options.
func New(cfg *config.Config, opts Options) *Runner {
	if opts.Fetcher == nil {
		opts.Fetcher = FetchFunc(fetch.Download)
	}
	if opts.Splicer == nil {
		opts.Splicer = SpliceFunc(ffmpeg.Concat)
	}
	if opts.Validate == nil {
		opts.Validate = func(c *config.Config) []string { return check.ValidateRuntime(c) }
	}
	return &Runner{cfg: cfg, opts: opts}
}

// Run processes every row and returns exactly one result per row, sorted
// by index, plus the workspace holding the output files. The caller owns
// workspace teardown (it is nil when nothing was processed). Only
// workspace creation can fail the batch as a whole; pre-flight validation
// failures mark every row FAILED instead of erroring.
func (r *Runner) Run(ctx context.Context, rows []input.Row) ([]TaskResult, *Workspace, error) {
	if len(rows) == 0 {
		return nil, nil, nil
	}

	// Names are assigned before anything can fail, so every row has one.
	names := input.AssignOutputFilenames(rows)
	total := len(rows)

	if errs := r.opts.Validate(r.cfg); len(errs) > 0 {
		return r.failAll(rows, names, strings.Join(errs, "; ")), nil, nil
	}

	ws, err := NewWorkspace()
	if err != nil {
		return nil, nil, fmt.Errorf("无法创建工作目录: %w", err)
	}

	log.Info().
		Str("batch_id", ws.BatchID).
		Int("workers", r.cfg.MaxWorkers).
		Msg("batch dispatch")
	r.emit(fmt.Sprintf("批次开始，共 %d 条，工作目录: %s", total, ws.Root))

	sem := make(chan struct{}, r.cfg.MaxWorkers)
	resultCh := make(chan TaskResult)

	for _, row := range rows {
		go func(row input.Row) {
			sem <- struct{}{}
			defer func() { <-sem }()
			resultCh <- r.safeProcess(ctx, row, names[row.Index], ws)
		}(row)
	}

	// Single collector: results are recorded and callbacks invoked here,
	// in completion order, never concurrently.
	results := make([]TaskResult, 0, total)
	for completed := 1; completed <= total; completed++ {
		res := <-resultCh
		results = append(results, res)

		if res.Status == StatusSuccess {
			r.emit(fmt.Sprintf("[%d/%d] pid=%s 成功 -> %s", completed, total, res.PID, res.OutputFilename))
		} else {
			r.emit(fmt.Sprintf("[%d/%d] pid=%s 失败 -> %s", completed, total, res.PID, res.Error))
		}
		if r.opts.OnProgress != nil {
			r.opts.OnProgress(completed, total)
		}
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Index < results[j].Index })
	r.emit("批次处理完成")
	return results, ws, nil
}

// safeProcess shields the batch from anything a worker might panic on;
// an escaped panic becomes a FAILED result instead of taking down the run.
func (r *Runner) safeProcess(ctx context.Context, row input.Row, filename string, ws *Workspace) (res TaskResult) {
	defer func() {
		if p := recover(); p != nil {
			log.Error().Int("index", row.Index).Interface("panic", p).Msg("worker panic")
			res = TaskResult{
				Index:          row.Index,
				PID:            row.PIDRaw,
				OutputFilename: filename,
				Status:         StatusFailed,
				Error:          fmt.Sprintf("内部错误: %v", p),
			}
		}
	}()
	return r.processRow(ctx, row, filename, ws)
}

// processRow runs one row: fetch, then splice, under a single deadline
// computed from dispatch time. The downloaded file is transient and always
// removed; the output file is the deliverable and stays.
func (r *Runner) processRow(ctx context.Context, row input.Row, filename string, ws *Workspace) TaskResult {
	start := time.Now()
	outputPath := ws.OutputPath(filename)
	downloadPath := ws.DownloadPath(row.Index)

	rowCtx, cancel := context.WithTimeout(ctx, r.cfg.TaskTimeout())
	defer cancel()
	defer os.Remove(downloadPath)

	err := rowCtx.Err()
	if err == nil {
		err = r.opts.Fetcher.Fetch(rowCtx, row.VideoURL, downloadPath, r.cfg.MaxBytes(), r.cfg.DownloadRetries)
	}
	if err == nil {
		// Budget re-check between stages: a download that barely fit
		// must not start an encode with nothing left.
		err = rowCtx.Err()
	}
	if err == nil {
		err = r.opts.Splicer.Splice(rowCtx, downloadPath, r.cfg.EndcardPath, outputPath)
	}

	result := TaskResult{
		Index:          row.Index,
		PID:            row.PIDRaw,
		OutputFilename: filename,
		DurationSec:    time.Since(start).Seconds(),
	}

	switch {
	case err == nil:
		result.Status = StatusSuccess
		result.OutputPath = outputPath
	case errors.Is(err, context.DeadlineExceeded):
		result.Status = StatusFailed
		result.Error = fmt.Sprintf("超时：超过 %d 秒", r.cfg.TaskTimeoutSec)
	case errors.Is(err, context.Canceled):
		result.Status = StatusFailed
		result.Error = "任务已取消"
	default:
		result.Status = StatusFailed
		result.Error = err.Error()
	}
	return result
}

// failAll marks every row FAILED with the same message without touching
// the network or the filesystem. Used when pre-flight validation fails.
func (r *Runner) failAll(rows []input.Row, names map[int]string, msg string) []TaskResult {
	total := len(rows)
	results := make([]TaskResult, 0, total)

	for completed, row := range rows {
		results = append(results, TaskResult{
			Index:          row.Index,
			PID:            row.PIDRaw,
			OutputFilename: names[row.Index],
			Status:         StatusFailed,
			Error:          msg,
		})
		r.emit(fmt.Sprintf("[%d/%d] pid=%s 失败 -> %s", completed+1, total, row.PIDRaw, msg))
		if r.opts.OnProgress != nil {
			r.opts.OnProgress(completed+1, total)
		}
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Index < results[j].Index })
	return results
}

// emit sends a user-facing line to both the structured log and the OnLog
// callback.
func (r *Runner) emit(line string) {
	log.Info().Msg(line)
	if r.opts.OnLog != nil {
		r.opts.OnLog(line)
	}
}
