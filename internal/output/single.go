package output

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rmarkov/snapfold/internal/services/clipboard"
	"github.com/rmarkov/snapfold/internal/services/stream"
)

// singleRenderer accumulates the whole snapshot and writes one unchunked
// artifact: the rendered tree under its heading followed by every file block.
type singleRenderer struct {
	outputDirectory string
	projectName     string
	stderr          io.Writer
	copier          clipboard.Copier
	builder         strings.Builder
	artifactNames   []string
	summary         *stream.SummaryEvent
	flushed         bool
}

// NewSingleRenderer constructs the renderer for single-file mode. When copier
// is non-nil the combined text is additionally copied to the clipboard on
// Flush.
func NewSingleRenderer(outputDirectory, projectName string, copier clipboard.Copier, stderr io.Writer) StreamRenderer {
	return &singleRenderer{
		outputDirectory: outputDirectory,
		projectName:     projectName,
		copier:          copier,
		stderr:          stderr,
	}
}

func (renderer *singleRenderer) Handle(event stream.Event) error {
	switch event.Kind {
	case stream.EventKindWarning:
		if event.Message != nil && renderer.stderr != nil {
			fmt.Fprintln(renderer.stderr, event.Message.Message)
		}
	case stream.EventKindError:
		if event.Err != nil && renderer.stderr != nil {
			fmt.Fprintln(renderer.stderr, event.Err.Message)
		}
	case stream.EventKindTree:
		renderer.builder.WriteString(fmt.Sprintf(treeHeadingFormat, renderer.projectName) + lineTerminator)
		if treeError := WriteTreeText(&renderer.builder, event.Tree); treeError != nil {
			return treeError
		}
		renderer.builder.WriteString(lineTerminator)
	case stream.EventKindFileBlock:
		if event.Block != nil {
			for _, line := range event.Block.Lines {
				renderer.builder.WriteString(line + lineTerminator)
			}
		}
	case stream.EventKindSummary:
		renderer.summary = event.Summary
	}
	return nil
}

// Flush writes the accumulated snapshot to the single artifact, overwriting
// any existing file of the same name, and copies it to the clipboard when
// configured.
func (renderer *singleRenderer) Flush() error {
	if renderer.flushed {
		return nil
	}
	renderer.flushed = true

	artifactName := SingleArtifactName(renderer.projectName)
	artifactPath := filepath.Join(renderer.outputDirectory, artifactName)
	combinedText := renderer.builder.String()
	if writeError := os.WriteFile(artifactPath, []byte(combinedText), 0o644); writeError != nil {
		return fmt.Errorf("writing artifact %s: %w", artifactPath, writeError)
	}
	renderer.artifactNames = append(renderer.artifactNames, artifactName)

	if renderer.copier != nil {
		if copyError := renderer.copier.Copy(combinedText); copyError != nil && renderer.stderr != nil {
			fmt.Fprintf(renderer.stderr, "Warning: copying snapshot to clipboard: %v\n", copyError)
		}
	}
	return nil
}

// Artifacts returns the artifact names written by Flush.
func (renderer *singleRenderer) Artifacts() []string {
	return append([]string(nil), renderer.artifactNames...)
}

// Summary returns the run summary observed on the stream, if any.
func (renderer *singleRenderer) Summary() *stream.SummaryEvent {
	return renderer.summary
}
