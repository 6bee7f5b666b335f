package output_test

import (
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/rmarkov/snapfold/internal/output"
	"github.com/rmarkov/snapfold/internal/services/stream"
	"github.com/rmarkov/snapfold/internal/types"
)

// recordingCopier captures clipboard writes instead of touching the system clipboard.
type recordingCopier struct {
	copiedText string
	copyError  error
}

func (copier *recordingCopier) Copy(text string) error {
	copier.copiedText = text
	return copier.copyError
}

// TestSingleRendererArtifact verifies the tree heading, tree body, and file
// blocks land in one artifact in stream order.
func TestSingleRendererArtifact(testingInstance *testing.T) {
	outputDirectory := testingInstance.TempDir()
	renderer := output.NewSingleRenderer(outputDirectory, "demo", nil, os.Stderr)

	treeNode := &types.TreeOutputNode{
		Name: "demo",
		Type: types.EntryKindDirectory,
		Children: []*types.TreeOutputNode{
			{
				Name: "src",
				Type: types.EntryKindDirectory,
				Children: []*types.TreeOutputNode{
					{Name: "index.js", Type: types.EntryKindFile},
				},
			},
		},
	}
	if handleError := renderer.Handle(stream.Event{Kind: stream.EventKindTree, Tree: treeNode}); handleError != nil {
		testingInstance.Fatalf("Handle tree: %v", handleError)
	}
	if handleError := renderer.Handle(blockEvent("demo/src/index.js", "hi")); handleError != nil {
		testingInstance.Fatalf("Handle block: %v", handleError)
	}
	if flushError := renderer.Flush(); flushError != nil {
		testingInstance.Fatalf("Flush: %v", flushError)
	}

	artifactNames := renderer.Artifacts()
	if len(artifactNames) != 1 || artifactNames[0] != "demo_combined.txt" {
		testingInstance.Fatalf("unexpected artifacts: %v", artifactNames)
	}
	artifactText := readArtifact(testingInstance, outputDirectory, artifactNames[0])
	expectedText := "" +
		"tree demo\n" +
		"└── src\n" +
		"    └── index.js\n" +
		"\n" +
		"demo/src/index.js\n" +
		"\n" +
		"hi\n" +
		"\n"
	if artifactText != expectedText {
		testingInstance.Errorf("unexpected content:\n%q\nexpected:\n%q", artifactText, expectedText)
	}
}

// TestSingleRendererClipboardCopy verifies the artifact text is mirrored to
// the configured copier on Flush.
func TestSingleRendererClipboardCopy(testingInstance *testing.T) {
	outputDirectory := testingInstance.TempDir()
	copier := &recordingCopier{}
	renderer := output.NewSingleRenderer(outputDirectory, "demo", copier, os.Stderr)

	if handleError := renderer.Handle(blockEvent("demo/a.txt", "a")); handleError != nil {
		testingInstance.Fatalf("Handle: %v", handleError)
	}
	if flushError := renderer.Flush(); flushError != nil {
		testingInstance.Fatalf("Flush: %v", flushError)
	}

	artifactText := readArtifact(testingInstance, outputDirectory, "demo_combined.txt")
	if copier.copiedText != artifactText {
		testingInstance.Errorf("clipboard text %q differs from artifact %q", copier.copiedText, artifactText)
	}
}

// TestSingleRendererClipboardFailureIsNonFatal verifies a copier failure is
// reported to stderr without failing the flush.
func TestSingleRendererClipboardFailureIsNonFatal(testingInstance *testing.T) {
	outputDirectory := testingInstance.TempDir()
	copier := &recordingCopier{copyError: errors.New("no display")}
	var stderrBuffer strings.Builder
	renderer := output.NewSingleRenderer(outputDirectory, "demo", copier, &stderrBuffer)

	if handleError := renderer.Handle(blockEvent("demo/a.txt", "a")); handleError != nil {
		testingInstance.Fatalf("Handle: %v", handleError)
	}
	if flushError := renderer.Flush(); flushError != nil {
		testingInstance.Fatalf("Flush should tolerate copier failures, got: %v", flushError)
	}
	if !strings.Contains(stderrBuffer.String(), "no display") {
		testingInstance.Errorf("expected the copier failure on stderr, got %q", stderrBuffer.String())
	}
}

// TestSingleRendererFlushIsIdempotent verifies repeated flushes write once.
func TestSingleRendererFlushIsIdempotent(testingInstance *testing.T) {
	outputDirectory := testingInstance.TempDir()
	renderer := output.NewSingleRenderer(outputDirectory, "demo", nil, os.Stderr)

	if handleError := renderer.Handle(blockEvent("demo/a.txt", "a")); handleError != nil {
		testingInstance.Fatalf("Handle: %v", handleError)
	}
	if flushError := renderer.Flush(); flushError != nil {
		testingInstance.Fatalf("first Flush: %v", flushError)
	}
	if flushError := renderer.Flush(); flushError != nil {
		testingInstance.Fatalf("second Flush: %v", flushError)
	}
	if artifactNames := renderer.Artifacts(); len(artifactNames) != 1 {
		testingInstance.Errorf("expected a single artifact, got %v", artifactNames)
	}
}
