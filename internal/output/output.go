// Package output materializes snapshot event streams as text artifacts.
package output

import (
	"fmt"
	"io"

	"github.com/rmarkov/snapfold/internal/services/stream"
	"github.com/rmarkov/snapfold/internal/types"
)

const (
	treeBranchConnector = "├── "
	treeLastConnector   = "└── "
	treeBranchPadding   = "│   "
	treeLastPadding     = "    "

	// treeHeadingFormat labels the rendered tree in single-file artifacts.
	treeHeadingFormat = "tree %s"

	// chunkArtifactNameFormat names chunked artifacts; indices are contiguous,
	// three digits, and start at 1.
	chunkArtifactNameFormat = "%s_combined_%03d.txt"

	// singleArtifactNameFormat names the unchunked artifact.
	singleArtifactNameFormat = "%s_combined.txt"

	lineTerminator = "\n"
)

// StreamRenderer consumes snapshot events and materializes output artifacts.
// Flush finalizes any open artifact and must be called exactly once, including
// on error paths.
type StreamRenderer interface {
	Handle(event stream.Event) error
	Flush() error
	Artifacts() []string
	Summary() *stream.SummaryEvent
}

// ChunkArtifactName returns the artifact name for the chunk at the given index.
func ChunkArtifactName(projectName string, chunkIndex int) string {
	return fmt.Sprintf(chunkArtifactNameFormat, projectName, chunkIndex)
}

// SingleArtifactName returns the artifact name used in unchunked mode.
func SingleArtifactName(projectName string) string {
	return fmt.Sprintf(singleArtifactNameFormat, projectName)
}

// WriteTreeText renders the children of the tree root to the writer using
// box-drawing connectors. The root itself is represented by the surrounding
// heading, so only descendants produce lines.
func WriteTreeText(writer io.Writer, node *types.TreeOutputNode) error {
	if node == nil {
		return nil
	}
	return writeTreeChildren(writer, node, "")
}

func writeTreeChildren(writer io.Writer, node *types.TreeOutputNode, prefix string) error {
	childCount := len(node.Children)
	for childIndex, child := range node.Children {
		if child == nil {
			continue
		}
		isLastChild := childIndex == childCount-1
		connector := treeBranchConnector
		childPrefix := prefix + treeBranchPadding
		if isLastChild {
			connector = treeLastConnector
			childPrefix = prefix + treeLastPadding
		}
		if _, writeError := fmt.Fprintf(writer, "%s%s%s%s", prefix, connector, child.Name, lineTerminator); writeError != nil {
			return writeError
		}
		if child.Type == types.EntryKindDirectory {
			if childError := writeTreeChildren(writer, child, childPrefix); childError != nil {
				return childError
			}
		}
	}
	return nil
}
