package commands_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rmarkov/snapfold/internal/commands"
	"github.com/rmarkov/snapfold/internal/filter"
	"github.com/rmarkov/snapfold/internal/types"
)

// testProjectName identifies the scanned project in block headers.
const testProjectName = "demo"

// TestCollectFilePathsOrderingAndPruning verifies deterministic, filtered collection.
func TestCollectFilePathsOrderingAndPruning(testingInstance *testing.T) {
	root := testingInstance.TempDir()
	sourceDirectory := makeTestDirectory(testingInstance, root, "src")
	writeTestFile(testingInstance, sourceDirectory, "index.js", "hi")
	writeTestFile(testingInstance, sourceDirectory, "app.js", "app")
	writeTestFile(testingInstance, root, "zz.txt", "zz")
	writeTestFile(testingInstance, root, "README.md", "readme")
	writeTestFile(testingInstance, root, ".env", "secret")
	dependencyDirectory := makeTestDirectory(testingInstance, root, filepath.Join("node_modules", "pkg"))
	writeTestFile(testingInstance, dependencyDirectory, "index.js", "dep")

	options := commands.CollectOptions{Root: root, ProjectName: testProjectName, IgnoreSet: filter.NewDefaultIgnoreSet()}
	filePaths, collectError := commands.CollectFilePaths(options)
	if collectError != nil {
		testingInstance.Fatalf("CollectFilePaths: %v", collectError)
	}

	expectedPaths := []string{
		filepath.Join(root, "src", "app.js"),
		filepath.Join(root, "src", "index.js"),
		filepath.Join(root, "zz.txt"),
	}
	if len(filePaths) != len(expectedPaths) {
		testingInstance.Fatalf("expected %d paths, got %d (%v)", len(expectedPaths), len(filePaths), filePaths)
	}
	for position, expectedPath := range expectedPaths {
		if filePaths[position] != expectedPath {
			testingInstance.Errorf("position %d: expected %s, got %s", position, expectedPath, filePaths[position])
		}
	}
}

// TestRenderFileFraming verifies the header and block framing of a readable file.
func TestRenderFileFraming(testingInstance *testing.T) {
	root := testingInstance.TempDir()
	sourceDirectory := makeTestDirectory(testingInstance, root, "src")
	writeTestFile(testingInstance, sourceDirectory, "index.js", "hi")

	options := commands.CollectOptions{Root: root, ProjectName: testProjectName, IgnoreSet: filter.NewDefaultIgnoreSet()}
	rendered := commands.RenderFile(filepath.Join(sourceDirectory, "index.js"), options)

	if rendered.Header != "demo/src/index.js" {
		testingInstance.Fatalf("unexpected header: %s", rendered.Header)
	}
	expectedBlock := []string{"demo/src/index.js", "", "hi", ""}
	actualBlock := rendered.BlockLines()
	if len(actualBlock) != len(expectedBlock) {
		testingInstance.Fatalf("expected %d block lines, got %d (%v)", len(expectedBlock), len(actualBlock), actualBlock)
	}
	for position, expectedLine := range expectedBlock {
		if actualBlock[position] != expectedLine {
			testingInstance.Errorf("line %d: expected %q, got %q", position, expectedLine, actualBlock[position])
		}
	}
}

// TestRenderFileTrailingNewline verifies a trailing newline does not double the final blank.
func TestRenderFileTrailingNewline(testingInstance *testing.T) {
	root := testingInstance.TempDir()
	writeTestFile(testingInstance, root, "main.go", "package main\n")

	options := commands.CollectOptions{Root: root, ProjectName: testProjectName, IgnoreSet: filter.NewDefaultIgnoreSet()}
	rendered := commands.RenderFile(filepath.Join(root, "main.go"), options)

	expectedBlock := []string{"demo/main.go", "", "package main", ""}
	actualBlock := rendered.BlockLines()
	if len(actualBlock) != len(expectedBlock) {
		testingInstance.Fatalf("expected %d block lines, got %d (%v)", len(expectedBlock), len(actualBlock), actualBlock)
	}
}

// TestRenderFileUnreadable verifies read failures become diagnostic bodies, not run failures.
func TestRenderFileUnreadable(testingInstance *testing.T) {
	root := testingInstance.TempDir()
	missingPath := filepath.Join(root, "absent.txt")

	options := commands.CollectOptions{Root: root, ProjectName: testProjectName, IgnoreSet: filter.NewDefaultIgnoreSet()}
	rendered := commands.RenderFile(missingPath, options)

	if rendered.Header != "demo/absent.txt" {
		testingInstance.Fatalf("unexpected header: %s", rendered.Header)
	}
	if !strings.HasPrefix(rendered.Body, "Error reading file:") {
		testingInstance.Errorf("expected diagnostic body, got %q", rendered.Body)
	}
}

// TestStreamFilesVisitsInOrder verifies streaming follows the collected ordering.
func TestStreamFilesVisitsInOrder(testingInstance *testing.T) {
	root := testingInstance.TempDir()
	writeTestFile(testingInstance, root, "b.txt", "b")
	writeTestFile(testingInstance, root, "a.txt", "a")

	options := commands.CollectOptions{Root: root, ProjectName: testProjectName, IgnoreSet: filter.NewDefaultIgnoreSet()}
	var visitedHeaders []string
	streamError := commands.StreamFiles(options, func(rendered types.RenderedFile) error {
		visitedHeaders = append(visitedHeaders, rendered.Header)
		return nil
	})
	if streamError != nil {
		testingInstance.Fatalf("StreamFiles: %v", streamError)
	}

	expectedHeaders := []string{"demo/a.txt", "demo/b.txt"}
	if len(visitedHeaders) != len(expectedHeaders) {
		testingInstance.Fatalf("expected %d visits, got %d", len(expectedHeaders), len(visitedHeaders))
	}
	for position, expectedHeader := range expectedHeaders {
		if visitedHeaders[position] != expectedHeader {
			testingInstance.Errorf("position %d: expected %s, got %s", position, expectedHeader, visitedHeaders[position])
		}
	}
}

// TestStreamFilesMissingRoot verifies an unreadable root aborts the stream.
func TestStreamFilesMissingRoot(testingInstance *testing.T) {
	missingRoot := filepath.Join(testingInstance.TempDir(), "absent")
	options := commands.CollectOptions{Root: missingRoot, ProjectName: testProjectName, IgnoreSet: filter.NewDefaultIgnoreSet()}
	streamError := commands.StreamFiles(options, func(types.RenderedFile) error { return nil })
	if streamError == nil {
		testingInstance.Fatalf("expected an error for a missing root")
	}
	if !os.IsNotExist(streamError) && !strings.Contains(streamError.Error(), "reading directory") {
		testingInstance.Errorf("unexpected error: %v", streamError)
	}
}
