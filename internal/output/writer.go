package output

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"

	"github.com/quantmind-br/dirscribe-go/internal/domain"
	"github.com/quantmind-br/dirscribe-go/internal/utils"
)

// Header opens every artifact
const Header = "Source code files structure\n\n"

// TreeRenderer renders the directory tree placed under the header
type TreeRenderer interface {
	Render() string
}

// Writer assembles the consolidated artifact and persists it
type Writer struct {
	parallel bool
	workers  int
	progress io.Writer
	logger   *utils.Logger
}

// WriterOptions contains options for the writer
type WriterOptions struct {
	// Parallel reads files on a pool of Workers goroutines.
	// The artifact is identical either way.
	Parallel bool
	Workers  int
	// Progress receives a progress bar while files are read; nil disables it
	Progress io.Writer
	Logger   *utils.Logger
}

// NewWriter creates a new artifact writer
func NewWriter(opts WriterOptions) *Writer {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	return &Writer{
		parallel: opts.Parallel,
		workers:  opts.Workers,
		progress: opts.Progress,
		logger:   opts.Logger,
	}
}

// Write renders the header, tree and every file section in list order, then
// creates or truncates outputPath with the result. A file that cannot be
// read or is not valid UTF-8 gets an error marker in place of its content.
// It returns the number of file sections written.
func (w *Writer) Write(ctx context.Context, root string, files []domain.FileEntry, tree TreeRenderer, outputPath string) (int, error) {
	contents, err := w.readAll(ctx, files)
	if err != nil {
		return 0, err
	}

	var buf bytes.Buffer
	buf.WriteString(Header)
	buf.WriteString(tree.Render())
	buf.WriteString("\n\n")

	for i, f := range files {
		buf.WriteString("Name: " + f.Name + "\n")
		buf.WriteString("Path: " + f.RelPath + "\n")
		buf.WriteString("```\n")
		buf.WriteString(contents[i])
		buf.WriteString("\n```\n\n")
	}

	if err := utils.EnsureDir(outputPath); err != nil {
		return 0, fmt.Errorf("%w: %w", domain.ErrWriteFailed, err)
	}
	if err := os.WriteFile(outputPath, buf.Bytes(), 0644); err != nil {
		return 0, fmt.Errorf("%w: %w", domain.ErrWriteFailed, err)
	}

	if w.logger != nil {
		w.logger.Info().
			Str("root", root).
			Str("output", outputPath).
			Int("files", len(files)).
			Int("bytes", buf.Len()).
			Msg("Artifact written")
	}

	return len(files), nil
}

func (w *Writer) readAll(ctx context.Context, files []domain.FileEntry) ([]string, error) {
	contents := make([]string, len(files))

	var bar *progressbar.ProgressBar
	if w.progress != nil && len(files) > 0 {
		bar = utils.NewProgressBarTo(w.progress, len(files), utils.DescReading)
		defer bar.Finish()
	}

	read := func(i int) {
		contents[i] = w.readContent(files[i])
		if bar != nil {
			_ = bar.Add(1)
		}
	}

	if !w.parallel {
		for i := range files {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			read(i)
		}
		return contents, nil
	}

	indices := make([]int, len(files))
	for i := range indices {
		indices[i] = i
	}
	utils.ParallelForEach(ctx, indices, w.workers, func(_ context.Context, i int) error {
		read(i)
		return nil
	})
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return contents, nil
}

func (w *Writer) readContent(f domain.FileEntry) string {
	content, err := ReadUTF8(f.Path)
	if err != nil {
		if w.logger != nil {
			w.logger.Warn().Err(err).Str("path", f.RelPath).Msg("Failed to read file")
		}
		return "[Error reading file: " + err.Error() + "]\n"
	}
	return content
}

// ReadUTF8 reads a file and rejects content that is not valid UTF-8
func ReadUTF8(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrFileRead, err)
	}
	if _, _, err := transform.Bytes(encoding.UTF8Validator, data); err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrFileRead, err)
	}
	return string(data), nil
}
