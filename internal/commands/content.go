package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/rmarkov/snapfold/internal/filter"
	"github.com/rmarkov/snapfold/internal/types"
	"github.com/rmarkov/snapfold/internal/utils"
)

const (
	// unreadableBodyFormat replaces the body of a file whose content cannot be read.
	unreadableBodyFormat = "Error reading file: %v"

	// headerSeparator joins the project name and the relative path in block headers.
	headerSeparator = "/"
)

// CollectOptions configures one content collection pass.
type CollectOptions struct {
	Root        string
	ProjectName string
	IgnoreSet   *filter.IgnoreSet
	// Warn receives non-fatal traversal diagnostics. Optional.
	Warn func(message string)
}

// CollectFilePaths walks the included directory structure and returns the
// absolute paths of every qualifying file, sorted lexicographically. The walk
// uses an explicit work list so arbitrarily deep trees cannot exhaust the
// stack, and the final sort decouples ordering from traversal happenstance.
func CollectFilePaths(options CollectOptions) ([]string, error) {
	warn := options.Warn
	if warn == nil {
		warn = func(string) {}
	}

	var filePaths []string
	pendingDirectories := []string{options.Root}
	for len(pendingDirectories) > 0 {
		currentDirectory := pendingDirectories[len(pendingDirectories)-1]
		pendingDirectories = pendingDirectories[:len(pendingDirectories)-1]

		directoryEntries, readDirectoryError := os.ReadDir(currentDirectory)
		if readDirectoryError != nil {
			if currentDirectory == options.Root {
				return nil, fmt.Errorf(errorReadDirectoryFormat, currentDirectory, readDirectoryError)
			}
			warn(fmt.Sprintf(warningSkipSubdirFormat, currentDirectory, readDirectoryError))
			continue
		}

		for _, directoryEntry := range directoryEntries {
			if !filter.Include(directoryEntry.Name(), directoryEntry.IsDir(), options.IgnoreSet) {
				continue
			}
			childPath := filepath.Join(currentDirectory, directoryEntry.Name())
			if directoryEntry.IsDir() {
				pendingDirectories = append(pendingDirectories, childPath)
			} else {
				filePaths = append(filePaths, childPath)
			}
		}
	}

	sort.Strings(filePaths)
	return filePaths, nil
}

// RenderFile produces the textual form of one included file. Read failures are
// recovered locally: the body becomes a diagnostic placeholder embedding the
// underlying error, and the header is still emitted.
func RenderFile(absolutePath string, options CollectOptions) types.RenderedFile {
	relativePath := utils.RelativePathOrSelf(absolutePath, options.Root)
	rendered := types.RenderedFile{
		Header: options.ProjectName + headerSeparator + relativePath,
	}

	fileBytes, readError := os.ReadFile(absolutePath)
	if readError != nil {
		rendered.Body = fmt.Sprintf(unreadableBodyFormat, readError)
		return rendered
	}
	rendered.Body = string(fileBytes)
	rendered.SizeBytes = int64(len(fileBytes))
	return rendered
}

// StreamFiles renders every qualifying file beneath the root in deterministic
// order and passes each one to visit. Visit errors abort the stream.
func StreamFiles(options CollectOptions, visit func(types.RenderedFile) error) error {
	filePaths, collectError := CollectFilePaths(options)
	if collectError != nil {
		return collectError
	}
	for _, filePath := range filePaths {
		if visitError := visit(RenderFile(filePath, options)); visitError != nil {
			return visitError
		}
	}
	return nil
}
