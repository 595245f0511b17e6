package artifact

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/backmassage/splicer/internal/pipeline"
)

func writeOutput(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestBuildResultCSV(t *testing.T) {
	results := []pipeline.TaskResult{
		{Index: 1, PID: "b", OutputFilename: "b.mp4", Status: pipeline.StatusFailed, Error: "下载失败: HTTP 404", DurationSec: 1.5},
		{Index: 0, PID: "a", OutputFilename: "a.mp4", Status: pipeline.StatusSuccess, DurationSec: 12.3456},
	}

	payload := BuildResultCSV(results)

	require.True(t, bytes.HasPrefix(payload, []byte{0xEF, 0xBB, 0xBF}), "payload must start with a UTF-8 BOM")

	lines := strings.Split(strings.TrimRight(string(payload[3:]), "\r\n"), "\r\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "pid,output_filename,status,error,duration_sec", lines[0])
	assert.Equal(t, "a,a.mp4,SUCCESS,,12.346", lines[1])
	assert.Equal(t, "b,b.mp4,FAILED,下载失败: HTTP 404,1.500", lines[2])
}

func TestBuildResultCSVEmpty(t *testing.T) {
	payload := BuildResultCSV(nil)
	assert.Equal(t, "pid,output_filename,status,error,duration_sec\r\n", string(payload[3:]))
}

func TestDownloadArtifactEmptyBatch(t *testing.T) {
	art, err := BuildDownloadArtifact(nil)
	require.NoError(t, err)
	assert.Equal(t, "text/csv", art.MIME)
	assert.Equal(t, "result.csv", art.Filename)
}

func TestDownloadArtifactSingleFailure(t *testing.T) {
	art, err := BuildDownloadArtifact([]pipeline.TaskResult{
		{Index: 0, PID: "a", OutputFilename: "a.mp4", Status: pipeline.StatusFailed, Error: "超时：超过 180 秒"},
	})
	require.NoError(t, err)
	assert.Equal(t, "text/csv", art.MIME)
	assert.Equal(t, "result.csv", art.Filename)
	assert.Contains(t, string(art.Data), "超时：超过 180 秒")
}

func TestDownloadArtifactSingleSuccess(t *testing.T) {
	path := writeOutput(t, "a.mp4", []byte("mp4-bytes"))
	art, err := BuildDownloadArtifact([]pipeline.TaskResult{
		{Index: 0, PID: "a", OutputFilename: "a.mp4", Status: pipeline.StatusSuccess, OutputPath: path},
	})
	require.NoError(t, err)
	assert.Equal(t, "video/mp4", art.MIME)
	assert.Equal(t, "a.mp4", art.Filename)
	assert.Equal(t, []byte("mp4-bytes"), art.Data)
}

func TestDownloadArtifactSingleSuccessMissingFile(t *testing.T) {
	art, err := BuildDownloadArtifact([]pipeline.TaskResult{
		{Index: 0, PID: "a", OutputFilename: "a.mp4", Status: pipeline.StatusSuccess, OutputPath: "/nonexistent/a.mp4"},
	})
	require.NoError(t, err)
	assert.Equal(t, "text/csv", art.MIME)
}

func TestDownloadArtifactZip(t *testing.T) {
	path := writeOutput(t, "a.mp4", []byte("mp4-bytes"))
	art, err := BuildDownloadArtifact([]pipeline.TaskResult{
		{Index: 0, PID: "a", OutputFilename: "a.mp4", Status: pipeline.StatusSuccess, OutputPath: path, DurationSec: 3.2},
		{Index: 1, PID: "b", OutputFilename: "b.mp4", Status: pipeline.StatusFailed, Error: "下载失败: HTTP 500"},
	})
	require.NoError(t, err)

	assert.Equal(t, "application/zip", art.MIME)
	assert.Regexp(t, regexp.MustCompile(`^results-\d{2}-\d{2}-\d{2}-\d{2}\.zip$`), art.Filename)

	r, err := zip.NewReader(bytes.NewReader(art.Data), int64(len(art.Data)))
	require.NoError(t, err)

	var names []string
	for _, f := range r.File {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"a.mp4", "result.csv"}, names)

	rc, err := r.Open("result.csv")
	require.NoError(t, err)
	defer rc.Close()
	var buf bytes.Buffer
	_, err = buf.ReadFrom(rc)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "下载失败: HTTP 500")
}

func TestDownloadArtifactZipAllFailed(t *testing.T) {
	art, err := BuildDownloadArtifact([]pipeline.TaskResult{
		{Index: 0, PID: "a", OutputFilename: "a.mp4", Status: pipeline.StatusFailed, Error: "x"},
		{Index: 1, PID: "b", OutputFilename: "b.mp4", Status: pipeline.StatusFailed, Error: "y"},
	})
	require.NoError(t, err)
	assert.Equal(t, "application/zip", art.MIME)

	r, err := zip.NewReader(bytes.NewReader(art.Data), int64(len(art.Data)))
	require.NoError(t, err)
	require.Len(t, r.File, 1)
	assert.Equal(t, "result.csv", r.File[0].Name)
}
