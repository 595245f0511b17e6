package probe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// Validation failures surfaced after a successful ffprobe run. Callers can
// match these with errors.Is; user-facing messages mirror the tool's UI
// language.
var (
	ErrNoVideoStream = errors.New("输入文件缺少视频轨")
	ErrNoResolution  = errors.New("无法获取视频分辨率")
)

// Probe runs a single ffprobe JSON call against path and extracts the
// stream and container facts the concat pipeline needs. One call replaces
// separate resolution/duration/bitrate queries.
func Probe(ctx context.Context, path string) (*VideoProbe, error) {
	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "error",
		"-print_format", "json",
		"-show_streams", "-show_format",
		path,
	)

	out, err := cmd.Output()
	if err != nil {
		// A deadline hit kills the child, so the raw error is an
		// ExitError ("signal: killed"); classify it as a timeout.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("ffprobe 处理超时: %w", ctxErr)
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return nil, fmt.Errorf("ffprobe 失败: %s", lastLine(string(exitErr.Stderr)))
		}
		return nil, fmt.Errorf("ffprobe %q: %w", path, err)
	}

	return ParseJSON(out)
}

// ParseJSON converts raw ffprobe JSON output into a VideoProbe.
// Exported for testing without a real ffprobe binary.
func ParseJSON(data []byte) (*VideoProbe, error) {
	var raw ffprobeOutput
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.New("ffprobe 输出无法解析")
	}
	return buildProbe(&raw)
}

// --- ffprobe JSON wire types ---

type ffprobeOutput struct {
	Format  ffprobeFormat   `json:"format"`
	Streams []ffprobeStream `json:"streams"`
}

type ffprobeFormat struct {
	Duration string `json:"duration"`
	BitRate  string `json:"bit_rate"`
}

type ffprobeStream struct {
	CodecType string `json:"codec_type"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Duration  string `json:"duration"`
	BitRate   string `json:"bit_rate"`
}

// --- Conversion from wire types to the domain type ---

func buildProbe(raw *ffprobeOutput) (*VideoProbe, error) {
	var video, audio *ffprobeStream
	for i := range raw.Streams {
		s := &raw.Streams[i]
		switch s.CodecType {
		case "video":
			if video == nil {
				video = s
			}
		case "audio":
			if audio == nil {
				audio = s
			}
		}
	}

	if video == nil {
		return nil, ErrNoVideoStream
	}
	if video.Width <= 0 || video.Height <= 0 {
		return nil, ErrNoResolution
	}

	// Container duration wins; the video stream's own duration is the
	// fallback. Unparseable values degrade to 0 ("unknown").
	duration := parseFloat(raw.Format.Duration)
	if duration == 0 {
		duration = parseFloat(video.Duration)
	}

	p := &VideoProbe{
		Width:         video.Width,
		Height:        video.Height,
		DurationSec:   duration,
		HasAudio:      audio != nil,
		VideoBitRate:  parseInt64(video.BitRate),
		FormatBitRate: parseInt64(raw.Format.BitRate),
	}
	if audio != nil {
		p.AudioBitRate = parseInt64(audio.BitRate)
	}
	return p, nil
}

// --- Numeric parsing helpers (ffprobe returns numbers as strings) ---

func parseInt64(s string) int64 {
	s = strings.TrimSpace(s)
	n, _ := strconv.ParseInt(s, 10, 64)
	return n
}

func parseFloat(s string) float64 {
	s = strings.TrimSpace(s)
	f, _ := strconv.ParseFloat(s, 64)
	return f
}

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.LastIndex(s, "\n"); idx >= 0 {
		s = s[idx+1:]
	}
	return strings.TrimSpace(s)
}
