package planner

import "github.com/backmassage/splicer/internal/probe"

// Bitrate policy constants (bits/sec).
const (
	// MinVideoBitrate is the floor below which output quality is
	// unacceptable regardless of how poor the source is.
	MinVideoBitrate = 300_000

	// DefaultVideoBitrate applies when the source reports no usable
	// bitrate at any level.
	DefaultVideoBitrate = 2_500_000

	// DefaultAudioBitrate applies when the source audio stream reports
	// no bitrate (or there is no audio stream at all).
	DefaultAudioBitrate = 128_000
)

// SelectVideoBitrate picks the target video bitrate for the re-encode.
// Matching the source (with a floor) preserves perceived quality without
// wasting bandwidth on low-bitrate sources or degrading high-bitrate ones.
//
// Preference order:
//  1. the source video stream's own bitrate
//  2. container bitrate minus audio bitrate (both must be reported)
//  3. container bitrate alone
//  4. DefaultVideoBitrate
func SelectVideoBitrate(p *probe.VideoProbe) int64 {
	switch {
	case p.VideoBitRate > 0:
		return max(p.VideoBitRate, MinVideoBitrate)
	case p.FormatBitRate > 0 && p.AudioBitRate > 0:
		return max(p.FormatBitRate-p.AudioBitRate, MinVideoBitrate)
	case p.FormatBitRate > 0:
		return max(p.FormatBitRate, MinVideoBitrate)
	default:
		return DefaultVideoBitrate
	}
}

// SelectAudioBitrate picks the target audio bitrate: the source's reported
// audio bitrate, else the fixed default.
func SelectAudioBitrate(p *probe.VideoProbe) int64 {
	if p.AudioBitRate > 0 {
		return p.AudioBitRate
	}
	return DefaultAudioBitrate
}
