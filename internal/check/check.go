// Package check provides pre-batch runtime validation and the --check
// diagnostics mode for the external tool dependencies (ffmpeg, ffprobe)
// and the endcard asset.
package check

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/backmassage/splicer/internal/config"
)

// ValidateRuntime checks everything a batch needs before any row runs:
// the endcard asset must be a regular file, and both external tools must
// resolve on PATH. It returns all problems at once (not just the first)
// so the user can fix the whole environment in one pass. A non-empty
// result must block every row from being processed.
func ValidateRuntime(cfg *config.Config) []string {
	var errs []string

	if fi, err := os.Stat(cfg.EndcardPath); err != nil || fi.IsDir() {
		errs = append(errs, fmt.Sprintf("落版视频不存在: %s", cfg.EndcardPath))
	}
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		errs = append(errs, "未找到 ffmpeg 可执行文件")
	}
	if _, err := exec.LookPath("ffprobe"); err != nil {
		errs = append(errs, "未找到 ffprobe 可执行文件")
	}

	return errs
}

// RunCheck runs the interactive --check flow: tool versions plus minimal
// test encodes for the codecs the splice pipeline uses. Informational
// only; it does not stop on failure. Returns false if anything failed.
func RunCheck(cfg *config.Config) bool {
	log.Info().Msg("=== System Check ===")

	ok := checkTool("ffmpeg")
	ok = checkTool("ffprobe") && ok
	ok = checkEncoder("libx264", x264TestArgs()) && ok
	ok = checkEncoder("aac", aacTestArgs()) && ok

	if fi, err := os.Stat(cfg.EndcardPath); err != nil || fi.IsDir() {
		log.Error().Str("path", cfg.EndcardPath).Msg("endcard asset missing")
		ok = false
	} else {
		log.Info().Str("path", cfg.EndcardPath).Msg("endcard asset found")
	}

	return ok
}

// checkTool verifies the tool is on PATH and logs its version line.
func checkTool(name string) bool {
	if _, err := exec.LookPath(name); err != nil {
		log.Error().Str("tool", name).Msg("not found on PATH")
		return false
	}
	out, err := exec.Command(name, "-version").Output()
	if err != nil {
		log.Warn().Str("tool", name).Err(err).Msg("found but -version failed")
		return true
	}
	firstLine := strings.TrimSpace(string(out))
	if idx := strings.Index(firstLine, "\n"); idx > 0 {
		firstLine = firstLine[:idx]
	}
	log.Info().Str("tool", name).Str("version", firstLine).Msg("ok")
	return true
}

// checkEncoder runs a minimal test encode to verify the encoder works.
func checkEncoder(name string, args []string) bool {
	if runSilent("ffmpeg", args...) {
		log.Info().Str("encoder", name).Msg("test encode ok")
		return true
	}
	log.Error().Str("encoder", name).Msg("test encode failed")
	return false
}

func x264TestArgs() []string {
	return []string{
		"-hide_banner", "-nostdin", "-loglevel", "error",
		"-f", "lavfi", "-i", "color=black:s=256x256:d=0.1",
		"-c:v", "libx264", "-pix_fmt", "yuv420p",
		"-f", "null", "-",
	}
}

func aacTestArgs() []string {
	return []string{
		"-hide_banner", "-nostdin", "-loglevel", "error",
		"-f", "lavfi", "-i", "sine=frequency=1000:duration=0.1",
		"-c:a", "aac", "-f", "null", "-",
	}
}

// runSilent runs a command and reports whether it exits with status 0.
func runSilent(name string, args ...string) bool {
	cmd := exec.Command(name, args...)
	cmd.Stdout = nil
	cmd.Stderr = nil
	return cmd.Run() == nil
}
