package ffmpeg

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/backmassage/splicer/internal/display"
	"github.com/backmassage/splicer/internal/planner"
	"github.com/backmassage/splicer/internal/probe"
)

// Concat splices sourcePath and endcardPath into outputPath: probe both
// inputs, pick target bitrates from the source, build the normalization
// filter graph, and run one bounded ffmpeg encode. The whole sequence,
// probes included, runs under ctx's deadline.
//
// Probe and plan failures propagate as-is; subprocess failures become
// PipelineError or ErrTimeout (see Execute).
func Concat(ctx context.Context, sourcePath, endcardPath, outputPath string) error {
	if err := ctx.Err(); err != nil {
		return ErrTimeout
	}

	srcProbe, err := probe.Probe(ctx, sourcePath)
	if err != nil {
		return err
	}
	endProbe, err := probe.Probe(ctx, endcardPath)
	if err != nil {
		return err
	}

	plan, err := planner.BuildConcatPlan(srcProbe, endProbe, sourcePath, endcardPath)
	if err != nil {
		return err
	}

	settings := EncodeSettings{
		VideoBitrate: planner.SelectVideoBitrate(srcProbe),
		AudioBitrate: planner.SelectAudioBitrate(srcProbe),
	}

	log.Debug().
		Str("source", sourcePath).
		Str("resolution", srcProbe.Resolution()).
		Str("video_bitrate", display.FormatBitrateLabel(settings.VideoBitrate/1000)).
		Str("audio_bitrate", display.FormatBitrateLabel(settings.AudioBitrate/1000)).
		Msg("splice plan ready")

	return Execute(ctx, Build(plan, settings, outputPath))
}
