package input

import "strings"

const invalidFilenameChars = `<>:"/\|?*`

// SanitizePID derives a filesystem-safe name from a raw pid: characters
// illegal in filenames and control characters become "_", trailing spaces
// and dots are trimmed (Windows rejects them), and a fully-emptied pid
// falls back to "pid".
func SanitizePID(raw string) string {
	pid := strings.TrimSpace(raw)

	var b strings.Builder
	b.Grow(len(pid))
	for _, r := range pid {
		if strings.ContainsRune(invalidFilenameChars, r) || r < 32 || r == 127 {
			b.WriteRune('_')
		} else {
			b.WriteRune(r)
		}
	}

	cleaned := strings.TrimRight(b.String(), " .")
	if cleaned == "" {
		return "pid"
	}
	return cleaned
}
