package planner

import (
	"errors"
	"fmt"
	"strings"

	"github.com/backmassage/splicer/internal/probe"
)

// Silent segments fail the plan when their duration is unknown: silence of
// indeterminate length cannot be synthesized, and concat needs both
// segments to carry audio.
var (
	ErrSourceDurationUnknown  = errors.New("源视频无音轨且无法获取时长")
	ErrEndcardDurationUnknown = errors.New("落版视频无音轨且无法获取时长")
)

// ConcatPlan describes the ffmpeg inputs and filter graph for one splice.
// InputArgs lists every "-i" (and the lavfi silence sources, when needed)
// in graph order; FilterComplex is the full semicolon-joined graph ending
// in the [v] and [a] output pads.
type ConcatPlan struct {
	InputArgs     []string
	FilterComplex string
}

// BuildConcatPlan computes the normalization + concat filter graph for
// source (input 0) and endcard (input 1).
//
// Video: the source keeps its geometry (SAR normalized to 1); the endcard
// is scaled to fit inside the source's exact resolution, centered, and
// letterboxed with black padding. Identical frame geometry on both
// segments is a hard requirement of the concat filter.
//
// Audio: segments with audio are reformatted to fltp/48kHz/stereo;
// silent segments get synthesized silence of the segment's duration run
// through the same normalization, so concat always sees two audio pads.
func BuildConcatPlan(src, endcard *probe.VideoProbe, srcPath, endcardPath string) (*ConcatPlan, error) {
	inputArgs := []string{"-i", srcPath, "-i", endcardPath}

	filterParts := []string{
		"[0:v]setsar=1[v0]",
		fmt.Sprintf(
			"[1:v]scale=%d:%d:force_original_aspect_ratio=decrease,"+
				"pad=%d:%d:(ow-iw)/2:(oh-ih)/2:black,setsar=1[v1]",
			src.Width, src.Height, src.Width, src.Height,
		),
	}

	// Silence sources are appended after the two file inputs, so the
	// first one (if any) is input 2.
	nextInput := 2

	if src.HasAudio {
		filterParts = append(filterParts,
			"[0:a]aformat=sample_fmts=fltp:sample_rates=48000:channel_layouts=stereo[a0]")
	} else {
		if src.DurationSec <= 0 {
			return nil, ErrSourceDurationUnknown
		}
		inputArgs = appendSilenceInput(inputArgs, src.DurationSec)
		filterParts = append(filterParts, silenceFilter(nextInput, src.DurationSec, "a0"))
		nextInput++
	}

	if endcard.HasAudio {
		filterParts = append(filterParts,
			"[1:a]aformat=sample_fmts=fltp:sample_rates=48000:channel_layouts=stereo[a1]")
	} else {
		if endcard.DurationSec <= 0 {
			return nil, ErrEndcardDurationUnknown
		}
		inputArgs = appendSilenceInput(inputArgs, endcard.DurationSec)
		filterParts = append(filterParts, silenceFilter(nextInput, endcard.DurationSec, "a1"))
	}

	// Fixed order: source segment first, endcard second.
	filterParts = append(filterParts, "[v0][a0][v1][a1]concat=n=2:v=1:a=1[v][a]")

	return &ConcatPlan{
		InputArgs:     inputArgs,
		FilterComplex: strings.Join(filterParts, ";"),
	}, nil
}

func appendSilenceInput(args []string, durationSec float64) []string {
	return append(args,
		"-f", "lavfi",
		"-t", fmt.Sprintf("%.3f", durationSec),
		"-i", "anullsrc=channel_layout=stereo:sample_rate=48000",
	)
}

func silenceFilter(inputIdx int, durationSec float64, outPad string) string {
	return fmt.Sprintf("[%d:a]atrim=0:%.3f,asetpts=N/SR/TB[%s]", inputIdx, durationSec, outPad)
}
