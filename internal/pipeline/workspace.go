package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

const workspacePrefix = "video_splice_"

// Workspace is the isolated temporary area one batch owns: a downloads
// subdirectory for transient source videos and an outputs subdirectory for
// the deliverables. Rows never share paths — both are keyed by row index
// or pre-assigned filename — so workers need no filesystem coordination.
//
// The runner creates the workspace; the caller tears it down with Cleanup
// once the batch artifact has been built from the output files.
type Workspace struct {
	// BatchID identifies this batch in logs.
	BatchID     string
	Root        string
	DownloadDir string
	OutputDir   string
}

// NewWorkspace creates a fresh batch workspace under the system temp dir.
func NewWorkspace() (*Workspace, error) {
	root, err := os.MkdirTemp("", workspacePrefix)
	if err != nil {
		return nil, err
	}

	ws := &Workspace{
		BatchID:     uuid.NewString(),
		Root:        root,
		DownloadDir: filepath.Join(root, "downloads"),
		OutputDir:   filepath.Join(root, "outputs"),
	}

	for _, dir := range []string{ws.DownloadDir, ws.OutputDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			os.RemoveAll(root)
			return nil, err
		}
	}
	return ws, nil
}

// DownloadPath returns the row-scoped transient download path.
func (w *Workspace) DownloadPath(index int) string {
	return filepath.Join(w.DownloadDir, fmt.Sprintf("%d.mp4", index))
}

// OutputPath returns the path for a pre-assigned output filename.
func (w *Workspace) OutputPath(filename string) string {
	return filepath.Join(w.OutputDir, filename)
}

// Cleanup removes the whole workspace, outputs included. Call only after
// the batch artifact has been built.
func (w *Workspace) Cleanup() error {
	return os.RemoveAll(w.Root)
}
