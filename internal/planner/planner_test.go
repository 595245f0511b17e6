package planner

import (
	"errors"
	"strings"
	"testing"

	"github.com/backmassage/splicer/internal/probe"
)

// --- Helper builders ---

func probeWith(videoBR, audioBR, formatBR int64) *probe.VideoProbe {
	return &probe.VideoProbe{
		Width: 1080, Height: 1920, DurationSec: 12.0,
		HasAudio:      audioBR > 0,
		VideoBitRate:  videoBR,
		AudioBitRate:  audioBR,
		FormatBitRate: formatBR,
	}
}

// --- Video bitrate policy ---

func TestSelectVideoBitrate(t *testing.T) {
	tests := []struct {
		name    string
		videoBR int64
		audioBR int64
		fmtBR   int64
		want    int64
	}{
		{"stream bitrate wins over everything", 4_500_000, 128_000, 5_000_000, 4_500_000},
		{"format minus audio fallback", 0, 128_000, 2_000_000, 1_872_000},
		{"format alone when no audio bitrate", 0, 0, 1_500_000, 1_500_000},
		{"default when nothing reported", 0, 0, 0, DefaultVideoBitrate},
		{"floor on low stream bitrate", 50_000, 64_000, 120_000, MinVideoBitrate},
		{"floor on format minus audio", 0, 900_000, 1_000_000, MinVideoBitrate},
		{"floor on tiny format bitrate", 0, 0, 200_000, MinVideoBitrate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := probeWith(tt.videoBR, tt.audioBR, tt.fmtBR)
			if got := SelectVideoBitrate(p); got != tt.want {
				t.Errorf("SelectVideoBitrate() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSelectVideoBitrate_NeverBelowFloor(t *testing.T) {
	// The floor holds no matter which policy branch fires.
	probes := []*probe.VideoProbe{
		probeWith(1, 0, 0),
		probeWith(0, 299_999, 300_000),
		probeWith(0, 0, 1),
		probeWith(0, 0, 0),
	}
	for _, p := range probes {
		if got := SelectVideoBitrate(p); got < MinVideoBitrate {
			t.Errorf("SelectVideoBitrate(%+v) = %d, below floor %d", p, got, MinVideoBitrate)
		}
	}
}

func TestSelectAudioBitrate(t *testing.T) {
	if got := SelectAudioBitrate(probeWith(2_000_000, 96_000, 2_100_000)); got != 96_000 {
		t.Errorf("SelectAudioBitrate() = %d, want source value 96000", got)
	}
	if got := SelectAudioBitrate(probeWith(2_000_000, 0, 2_100_000)); got != DefaultAudioBitrate {
		t.Errorf("SelectAudioBitrate() = %d, want default %d", got, DefaultAudioBitrate)
	}
}

// --- Concat plan ---

func srcProbe() *probe.VideoProbe {
	return &probe.VideoProbe{Width: 1080, Height: 1920, DurationSec: 12.0, HasAudio: true}
}

func endcardProbe() *probe.VideoProbe {
	return &probe.VideoProbe{Width: 1920, Height: 1080, DurationSec: 3.0, HasAudio: true}
}

func TestBuildConcatPlan_BothWithAudio(t *testing.T) {
	plan, err := BuildConcatPlan(srcProbe(), endcardProbe(), "in.mp4", "end.mp4")
	if err != nil {
		t.Fatalf("BuildConcatPlan() error = %v", err)
	}

	wantInputs := []string{"-i", "in.mp4", "-i", "end.mp4"}
	if len(plan.InputArgs) != len(wantInputs) {
		t.Fatalf("InputArgs = %v, want %v", plan.InputArgs, wantInputs)
	}
	for i := range wantInputs {
		if plan.InputArgs[i] != wantInputs[i] {
			t.Fatalf("InputArgs = %v, want %v", plan.InputArgs, wantInputs)
		}
	}

	fc := plan.FilterComplex
	for _, part := range []string{
		"[0:v]setsar=1[v0]",
		"scale=1080:1920:force_original_aspect_ratio=decrease",
		"pad=1080:1920:(ow-iw)/2:(oh-ih)/2:black",
		"[0:a]aformat=sample_fmts=fltp:sample_rates=48000:channel_layouts=stereo[a0]",
		"[1:a]aformat=sample_fmts=fltp:sample_rates=48000:channel_layouts=stereo[a1]",
		"[v0][a0][v1][a1]concat=n=2:v=1:a=1[v][a]",
	} {
		if !strings.Contains(fc, part) {
			t.Errorf("FilterComplex missing %q:\n%s", part, fc)
		}
	}
}

func TestBuildConcatPlan_SilentSource(t *testing.T) {
	src := srcProbe()
	src.HasAudio = false

	plan, err := BuildConcatPlan(src, endcardProbe(), "in.mp4", "end.mp4")
	if err != nil {
		t.Fatalf("BuildConcatPlan() error = %v", err)
	}

	joined := strings.Join(plan.InputArgs, " ")
	if !strings.Contains(joined, "anullsrc=channel_layout=stereo:sample_rate=48000") {
		t.Errorf("InputArgs missing silence source: %v", plan.InputArgs)
	}
	if !strings.Contains(joined, "-t 12.000") {
		t.Errorf("silence length should match source duration: %v", plan.InputArgs)
	}
	// Silence is input 2 (after the two file inputs) and feeds pad a0.
	if !strings.Contains(plan.FilterComplex, "[2:a]atrim=0:12.000,asetpts=N/SR/TB[a0]") {
		t.Errorf("FilterComplex missing silence trim for source:\n%s", plan.FilterComplex)
	}
}

func TestBuildConcatPlan_BothSilent(t *testing.T) {
	src := srcProbe()
	src.HasAudio = false
	end := endcardProbe()
	end.HasAudio = false

	plan, err := BuildConcatPlan(src, end, "in.mp4", "end.mp4")
	if err != nil {
		t.Fatalf("BuildConcatPlan() error = %v", err)
	}

	// Two silence sources: input 2 for the source, input 3 for the endcard.
	if !strings.Contains(plan.FilterComplex, "[2:a]atrim=0:12.000") ||
		!strings.Contains(plan.FilterComplex, "[3:a]atrim=0:3.000") {
		t.Errorf("FilterComplex silence inputs misnumbered:\n%s", plan.FilterComplex)
	}
}

func TestBuildConcatPlan_SilentWithUnknownDuration(t *testing.T) {
	src := srcProbe()
	src.HasAudio = false
	src.DurationSec = 0

	_, err := BuildConcatPlan(src, endcardProbe(), "in.mp4", "end.mp4")
	if !errors.Is(err, ErrSourceDurationUnknown) {
		t.Errorf("BuildConcatPlan() error = %v, want ErrSourceDurationUnknown", err)
	}

	end := endcardProbe()
	end.HasAudio = false
	end.DurationSec = 0
	_, err = BuildConcatPlan(srcProbe(), end, "in.mp4", "end.mp4")
	if !errors.Is(err, ErrEndcardDurationUnknown) {
		t.Errorf("BuildConcatPlan() error = %v, want ErrEndcardDurationUnknown", err)
	}
}
