package probe

import "strconv"

// VideoProbe holds the per-file facts the splicing pipeline needs. It is
// produced fresh for every Probe call and never cached.
//
// Bitrates are in bits/sec; 0 means "unknown / not reported by ffprobe".
// DurationSec may be 0 when neither the container nor the video stream
// reports a parseable duration.
type VideoProbe struct {
	Width       int
	Height      int
	DurationSec float64
	HasAudio    bool

	// VideoBitRate is the first video stream's bit_rate.
	VideoBitRate int64
	// AudioBitRate is the first audio stream's bit_rate.
	AudioBitRate int64
	// FormatBitRate is the container-level bit_rate.
	FormatBitRate int64
}

// Resolution returns "WxH" for logging.
func (p *VideoProbe) Resolution() string {
	return strconv.Itoa(p.Width) + "x" + strconv.Itoa(p.Height)
}
