package ffmpeg

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/backmassage/splicer/internal/planner"
	"github.com/backmassage/splicer/internal/probe"
)

func testPlan(t *testing.T) *planner.ConcatPlan {
	t.Helper()
	src := &probe.VideoProbe{Width: 1080, Height: 1920, DurationSec: 10, HasAudio: true}
	end := &probe.VideoProbe{Width: 1920, Height: 1080, DurationSec: 3, HasAudio: true}
	plan, err := planner.BuildConcatPlan(src, end, "src.mp4", "end.mp4")
	if err != nil {
		t.Fatalf("BuildConcatPlan() error = %v", err)
	}
	return plan
}

func TestBuild_ArgumentSkeleton(t *testing.T) {
	args := Build(testPlan(t), EncodeSettings{VideoBitrate: 4_500_000, AudioBitrate: 128_000}, "out.mp4")

	joined := strings.Join(args, " ")
	for _, want := range []string{
		"ffmpeg -y -hide_banner -nostdin -loglevel error",
		"-i src.mp4 -i end.mp4",
		"-map [v] -map [a]",
		"-c:v libx264",
		"-b:v 4500000 -maxrate 4500000 -bufsize 9000000",
		"-pix_fmt yuv420p",
		"-c:a aac -b:a 128000",
		"-movflags +faststart",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("args missing %q:\n%s", want, joined)
		}
	}

	if args[len(args)-1] != "out.mp4" {
		t.Errorf("output path must be the final argument, got %q", args[len(args)-1])
	}
}

func TestBuild_FilterComplexIncluded(t *testing.T) {
	args := Build(testPlan(t), EncodeSettings{VideoBitrate: 1, AudioBitrate: 1}, "out.mp4")

	for i, a := range args {
		if a == "-filter_complex" {
			if !strings.Contains(args[i+1], "concat=n=2:v=1:a=1") {
				t.Errorf("filter graph missing concat stage: %s", args[i+1])
			}
			return
		}
	}
	t.Error("args missing -filter_complex")
}

func TestNewPipelineError_LastLine(t *testing.T) {
	err := newPipelineError("frame=  100\nsomething recoverable\n[out#0] Error writing trailer\n")
	if err.Message != "[out#0] Error writing trailer" {
		t.Errorf("Message = %q, want last stderr line", err.Message)
	}

	if got := newPipelineError("  \n "); got.Message != "ffmpeg 执行失败" {
		t.Errorf("empty stderr Message = %q, want generic fallback", got.Message)
	}
}

func TestErrTimeout_MatchesDeadlineExceeded(t *testing.T) {
	if !errors.Is(ErrTimeout, context.DeadlineExceeded) {
		t.Error("ErrTimeout must match context.DeadlineExceeded")
	}
}
