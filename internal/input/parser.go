package input

import (
	"encoding/csv"
	"io"
	"net/url"
	"strings"
)

// Row-level validation messages, mirrored in the final report.
const (
	msgEmptyPID      = "pid 不能为空"
	msgEmptyURL      = "video_url 不能为空"
	msgInvalidURL    = "video_url 非法：仅支持公开 http/https 链接"
	msgBadLineFormat = "输入格式错误：需为 pid,video_url"
	msgCSVNoHeaders  = "CSV 缺少必需表头: pid,video_url"
)

// IsValidPublicVideoURL reports whether raw is an http/https URL with a
// non-empty host.
func IsValidPublicVideoURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// ParseCombined parses "pid,video_url" lines. Blank lines are skipped but
// every non-blank line consumes an index, valid or not.
func ParseCombined(text string) ([]Row, []ParseFailure) {
	var rows []Row
	var failures []ParseFailure
	index := 0

	for _, rawLine := range strings.Split(text, "\n") {
		line := strings.TrimSpace(rawLine)
		if line == "" {
			continue
		}

		pidRaw, videoURL, found := strings.Cut(line, ",")
		if !found {
			failures = append(failures, ParseFailure{Index: index, PIDRaw: line, Error: msgBadLineFormat})
			index++
			continue
		}

		pidRaw = strings.TrimSpace(pidRaw)
		videoURL = strings.TrimSpace(videoURL)
		rows, failures = appendRow(rows, failures, index, pidRaw, videoURL)
		index++
	}

	return rows, failures
}

// ParseSplit pairs pid lines with url lines positionally. A line pair that
// is blank on both sides is skipped without consuming an index.
func ParseSplit(pidText, urlText string) ([]Row, []ParseFailure) {
	pidLines := splitTrimmed(pidText)
	urlLines := splitTrimmed(urlText)

	n := len(pidLines)
	if len(urlLines) > n {
		n = len(urlLines)
	}

	var rows []Row
	var failures []ParseFailure
	index := 0

	for i := 0; i < n; i++ {
		var pidRaw, videoURL string
		if i < len(pidLines) {
			pidRaw = pidLines[i]
		}
		if i < len(urlLines) {
			videoURL = urlLines[i]
		}
		if pidRaw == "" && videoURL == "" {
			continue
		}

		rows, failures = appendRow(rows, failures, index, pidRaw, videoURL)
		index++
	}

	return rows, failures
}

// ParseCSV reads rows from a CSV stream with required headers "pid" and
// "video_url" (case-insensitive, any column order). A leading UTF-8 BOM is
// tolerated. When the headers are missing, every data row becomes a
// failure so the user sees what was ignored and why.
func ParseCSV(r io.Reader) ([]Row, []ParseFailure) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	table, err := reader.ReadAll()
	if err != nil || len(table) == 0 {
		if err != nil {
			return nil, []ParseFailure{{Index: 0, Error: "CSV 解析失败: " + err.Error()}}
		}
		return nil, nil
	}

	header := table[0]
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\uFEFF")
	}

	pidCol, urlCol := -1, -1
	for i, col := range header {
		switch strings.ToLower(strings.TrimSpace(col)) {
		case "pid":
			pidCol = i
		case "video_url":
			urlCol = i
		}
	}

	if pidCol < 0 || urlCol < 0 {
		return nil, headerFailures(table)
	}

	var rows []Row
	var failures []ParseFailure
	index := 0

	for _, record := range table[1:] {
		if allBlank(record) {
			continue
		}

		var pidRaw, videoURL string
		if pidCol < len(record) {
			pidRaw = strings.TrimSpace(record[pidCol])
		}
		if urlCol < len(record) {
			videoURL = strings.TrimSpace(record[urlCol])
		}

		rows, failures = appendRow(rows, failures, index, pidRaw, videoURL)
		index++
	}

	return rows, failures
}

// --- helpers ---

func appendRow(rows []Row, failures []ParseFailure, index int, pidRaw, videoURL string) ([]Row, []ParseFailure) {
	if msg := validateRow(pidRaw, videoURL); msg != "" {
		return rows, append(failures, ParseFailure{Index: index, PIDRaw: pidRaw, Error: msg})
	}
	return append(rows, Row{
		Index:        index,
		PIDRaw:       pidRaw,
		PIDSanitized: SanitizePID(pidRaw),
		VideoURL:     videoURL,
	}), failures
}

func validateRow(pidRaw, videoURL string) string {
	if pidRaw == "" {
		return msgEmptyPID
	}
	if videoURL == "" {
		return msgEmptyURL
	}
	if !IsValidPublicVideoURL(videoURL) {
		return msgInvalidURL
	}
	return ""
}

func splitTrimmed(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = strings.TrimSpace(l)
	}
	return out
}

func allBlank(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func headerFailures(table [][]string) []ParseFailure {
	var failures []ParseFailure
	index := 0
	for _, record := range table[1:] {
		if allBlank(record) {
			continue
		}
		pidRaw := ""
		if len(record) > 0 {
			pidRaw = strings.TrimSpace(record[0])
		}
		failures = append(failures, ParseFailure{Index: index, PIDRaw: pidRaw, Error: msgCSVNoHeaders})
		index++
	}
	if index == 0 && !allBlank(table[0]) {
		pidRaw := ""
		if len(table[0]) > 0 {
			pidRaw = strings.TrimSpace(table[0][0])
		}
		failures = append(failures, ParseFailure{Index: 0, PIDRaw: pidRaw, Error: msgCSVNoHeaders})
	}
	return failures
}
