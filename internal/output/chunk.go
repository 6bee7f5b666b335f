package output

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rmarkov/snapfold/internal/services/stream"
)

// DefaultMaxLinesPerChunk bounds chunk artifacts when no limit is supplied.
const DefaultMaxLinesPerChunk = 5000

// chunkRenderer splits the stream of file blocks across numbered artifacts
// once the configured line budget would be exceeded. A block is never split:
// a block larger than the budget occupies one chunk alone and overflows it.
type chunkRenderer struct {
	outputDirectory  string
	projectName      string
	maxLines         int
	stderr           io.Writer
	chunkIndex       int
	currentLineCount int
	currentChunk     *os.File
	artifactNames    []string
	summary          *stream.SummaryEvent
}

// NewChunkRenderer constructs the renderer for chunked mode. A non-positive
// maxLines falls back to the default budget.
func NewChunkRenderer(outputDirectory, projectName string, maxLines int, stderr io.Writer) StreamRenderer {
	if maxLines <= 0 {
		maxLines = DefaultMaxLinesPerChunk
	}
	return &chunkRenderer{
		outputDirectory: outputDirectory,
		projectName:     projectName,
		maxLines:        maxLines,
		stderr:          stderr,
	}
}

func (renderer *chunkRenderer) Handle(event stream.Event) error {
	switch event.Kind {
	case stream.EventKindWarning:
		if event.Message != nil && renderer.stderr != nil {
			fmt.Fprintln(renderer.stderr, event.Message.Message)
		}
	case stream.EventKindError:
		if event.Err != nil && renderer.stderr != nil {
			fmt.Fprintln(renderer.stderr, event.Err.Message)
		}
	case stream.EventKindFileBlock:
		if event.Block != nil {
			return renderer.appendBlock(event.Block.Lines)
		}
	case stream.EventKindSummary:
		renderer.summary = event.Summary
	}
	return nil
}

// appendBlock rotates to a fresh chunk when the block would overflow the open
// one, then writes the block's lines.
func (renderer *chunkRenderer) appendBlock(blockLines []string) error {
	if renderer.currentChunk != nil && renderer.currentLineCount+len(blockLines) > renderer.maxLines {
		if closeError := renderer.closeCurrentChunk(); closeError != nil {
			return closeError
		}
	}
	if renderer.currentChunk == nil {
		if openError := renderer.openNextChunk(); openError != nil {
			return openError
		}
	}
	for _, line := range blockLines {
		if _, writeError := renderer.currentChunk.WriteString(line + lineTerminator); writeError != nil {
			return fmt.Errorf("writing chunk %s: %w", renderer.artifactNames[len(renderer.artifactNames)-1], writeError)
		}
	}
	renderer.currentLineCount += len(blockLines)
	return nil
}

func (renderer *chunkRenderer) openNextChunk() error {
	renderer.chunkIndex++
	artifactName := ChunkArtifactName(renderer.projectName, renderer.chunkIndex)
	artifactPath := filepath.Join(renderer.outputDirectory, artifactName)
	chunkFile, createError := os.Create(artifactPath)
	if createError != nil {
		return fmt.Errorf("creating chunk %s: %w", artifactPath, createError)
	}
	renderer.currentChunk = chunkFile
	renderer.currentLineCount = 0
	renderer.artifactNames = append(renderer.artifactNames, artifactName)
	return nil
}

func (renderer *chunkRenderer) closeCurrentChunk() error {
	if renderer.currentChunk == nil {
		return nil
	}
	closeError := renderer.currentChunk.Close()
	renderer.currentChunk = nil
	renderer.currentLineCount = 0
	if closeError != nil {
		return fmt.Errorf("finalizing chunk: %w", closeError)
	}
	return nil
}

// Flush finalizes the open chunk, if any.
func (renderer *chunkRenderer) Flush() error {
	return renderer.closeCurrentChunk()
}

// Artifacts returns the names of chunks written so far, in creation order.
func (renderer *chunkRenderer) Artifacts() []string {
	return append([]string(nil), renderer.artifactNames...)
}

// Summary returns the run summary observed on the stream, if any.
func (renderer *chunkRenderer) Summary() *stream.SummaryEvent {
	return renderer.summary
}
