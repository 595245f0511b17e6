package ffmpeg

import (
	"strconv"

	"github.com/backmassage/splicer/internal/planner"
)

// EncodeSettings are the per-splice output parameters computed from the
// source probe.
type EncodeSettings struct {
	VideoBitrate int64 // bits/sec
	AudioBitrate int64 // bits/sec
}

// Build constructs the complete ffmpeg argument slice for one splice.
// The shape is fixed: preamble, inputs, filter graph, explicit output pad
// maps, H.264/AAC codecs with explicit rate control, 4:2:0 pixel format,
// and faststart so the output plays during progressive download.
func Build(plan *planner.ConcatPlan, settings EncodeSettings, outputPath string) []string {
	args := make([]string, 0, 32)

	// --- Preamble ---
	args = append(args, "ffmpeg", "-y", "-hide_banner", "-nostdin", "-loglevel", "error")

	// --- Inputs (two files plus any lavfi silence sources) ---
	args = append(args, plan.InputArgs...)

	// --- Filter graph and output maps ---
	args = append(args,
		"-filter_complex", plan.FilterComplex,
		"-map", "[v]",
		"-map", "[a]",
	)

	// --- Video codec with explicit rate control ---
	vb := strconv.FormatInt(settings.VideoBitrate, 10)
	args = append(args,
		"-c:v", "libx264",
		"-b:v", vb,
		"-maxrate", vb,
		"-bufsize", strconv.FormatInt(settings.VideoBitrate*2, 10),
		"-pix_fmt", "yuv420p",
	)

	// --- Audio codec ---
	args = append(args,
		"-c:a", "aac",
		"-b:a", strconv.FormatInt(settings.AudioBitrate, 10),
	)

	// --- Container opts ---
	args = append(args, "-movflags", "+faststart")

	// --- Output ---
	args = append(args, outputPath)

	return args
}
