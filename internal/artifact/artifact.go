// Package artifact packages a finished batch for delivery: the result CSV
// plus the downloadable payload (csv, single mp4, or zip) chosen from the
// shape of the result set.
package artifact

import (
	"archive/zip"
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/backmassage/splicer/internal/pipeline"
)

// utf8BOM makes the CSV open cleanly in spreadsheet tools that sniff
// encoding from the first bytes.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Artifact is one downloadable deliverable.
type Artifact struct {
	MIME     string
	Filename string
	Data     []byte
}

// BuildResultCSV renders the per-row report: one line per result, ordered
// by index, with durations at millisecond precision.
func BuildResultCSV(results []pipeline.TaskResult) []byte {
	ordered := sortByIndex(results)

	var buf bytes.Buffer
	buf.Write(utf8BOM)

	w := csv.NewWriter(&buf)
	w.UseCRLF = true
	w.Write([]string{"pid", "output_filename", "status", "error", "duration_sec"})
	for _, res := range ordered {
		w.Write([]string{
			res.PID,
			res.OutputFilename,
			string(res.Status),
			res.Error,
			fmt.Sprintf("%.3f", res.DurationSec),
		})
	}
	w.Flush()

	return buf.Bytes()
}

// BuildDownloadArtifact picks the payload shape from the result set: an
// empty batch or a single failed row delivers just the report CSV, a single
// successful row delivers its mp4 directly, and anything larger delivers a
// timestamped zip of the successful outputs plus the report.
func BuildDownloadArtifact(results []pipeline.TaskResult) (Artifact, error) {
	ordered := sortByIndex(results)
	resultCSV := BuildResultCSV(ordered)

	csvArtifact := Artifact{MIME: "text/csv", Filename: "result.csv", Data: resultCSV}

	if len(ordered) == 0 {
		return csvArtifact, nil
	}

	if len(ordered) == 1 {
		single := ordered[0]
		if single.Status == pipeline.StatusSuccess && single.OutputPath != "" {
			data, err := os.ReadFile(single.OutputPath)
			if err == nil {
				return Artifact{MIME: "video/mp4", Filename: single.OutputFilename, Data: data}, nil
			}
		}
		return csvArtifact, nil
	}

	var buf bytes.Buffer
	archive := zip.NewWriter(&buf)

	for _, res := range ordered {
		if res.Status != pipeline.StatusSuccess || res.OutputPath == "" {
			continue
		}
		data, err := os.ReadFile(res.OutputPath)
		if err != nil {
			// The row already reported success; a vanished output file
			// drops out of the archive rather than failing the batch.
			continue
		}
		if err := writeZipEntry(archive, res.OutputFilename, data); err != nil {
			return Artifact{}, err
		}
	}

	if err := writeZipEntry(archive, "result.csv", resultCSV); err != nil {
		return Artifact{}, err
	}
	if err := archive.Close(); err != nil {
		return Artifact{}, fmt.Errorf("无法生成压缩包: %w", err)
	}

	name := fmt.Sprintf("results-%s.zip", time.Now().Format("01-02-15-04"))
	return Artifact{MIME: "application/zip", Filename: name, Data: buf.Bytes()}, nil
}

func writeZipEntry(archive *zip.Writer, name string, data []byte) error {
	f, err := archive.Create(name)
	if err != nil {
		return fmt.Errorf("无法生成压缩包: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("无法生成压缩包: %w", err)
	}
	return nil
}

func sortByIndex(results []pipeline.TaskResult) []pipeline.TaskResult {
	ordered := make([]pipeline.TaskResult, len(results))
	copy(ordered, results)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Index < ordered[j].Index })
	return ordered
}
