// Package commands contains the core data collection logic for the snapshot tool.
package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"golang.org/x/text/collate"

	"github.com/rmarkov/snapfold/internal/filter"
	"github.com/rmarkov/snapfold/internal/types"
	"github.com/rmarkov/snapfold/internal/utils"
)

const (
	// warningSkipSubdirFormat is used when a subdirectory cannot be read.
	warningSkipSubdirFormat = "Warning: Skipping subdirectory %s due to error: %v\n"

	// errorReadDirectoryFormat is used when a directory cannot be read.
	errorReadDirectoryFormat = "reading directory %s: %w"
)

// GetTreeData builds the included directory structure beneath rootDirectoryPath.
// Directories sort before files and each group is ordered by collated name, so
// the resulting tree is fully deterministic for an unchanged filesystem.
// Unreadable subdirectories are reported to stderr and rendered empty.
func GetTreeData(rootDirectoryPath string, ignoreSet *filter.IgnoreSet) (*types.TreeOutputNode, error) {
	rootNode := &types.TreeOutputNode{
		Name: filepath.Base(rootDirectoryPath),
		Type: types.EntryKindDirectory,
	}
	nameCollator := utils.NewNameCollator()
	children, buildError := buildTreeNodes(rootDirectoryPath, ignoreSet, nameCollator)
	if buildError != nil {
		return nil, buildError
	}
	rootNode.Children = children
	return rootNode, nil
}

// buildTreeNodes lists one directory, filters and orders its entries, and
// recurses into the surviving subdirectories.
func buildTreeNodes(currentDirectoryPath string, ignoreSet *filter.IgnoreSet, nameCollator *collate.Collator) ([]*types.TreeOutputNode, error) {
	directoryEntries, readDirectoryError := os.ReadDir(currentDirectoryPath)
	if readDirectoryError != nil {
		return nil, fmt.Errorf(errorReadDirectoryFormat, currentDirectoryPath, readDirectoryError)
	}

	includedEntries := make([]os.DirEntry, 0, len(directoryEntries))
	for _, directoryEntry := range directoryEntries {
		if filter.Include(directoryEntry.Name(), directoryEntry.IsDir(), ignoreSet) {
			includedEntries = append(includedEntries, directoryEntry)
		}
	}
	sortEntriesForTree(includedEntries, nameCollator)

	var nodes []*types.TreeOutputNode
	for _, directoryEntry := range includedEntries {
		childPath := filepath.Join(currentDirectoryPath, directoryEntry.Name())
		node := &types.TreeOutputNode{Name: directoryEntry.Name()}
		if directoryEntry.IsDir() {
			node.Type = types.EntryKindDirectory
			childNodes, buildError := buildTreeNodes(childPath, ignoreSet, nameCollator)
			if buildError != nil {
				fmt.Fprintf(os.Stderr, warningSkipSubdirFormat, childPath, buildError)
				node.Children = nil
			} else {
				node.Children = childNodes
			}
		} else {
			node.Type = types.EntryKindFile
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

// sortEntriesForTree orders directories before files, then each group by
// collated entry name.
func sortEntriesForTree(entries []os.DirEntry, nameCollator *collate.Collator) {
	sort.SliceStable(entries, func(firstIndex, secondIndex int) bool {
		firstEntry := entries[firstIndex]
		secondEntry := entries[secondIndex]
		if firstEntry.IsDir() != secondEntry.IsDir() {
			return firstEntry.IsDir()
		}
		return nameCollator.CompareString(firstEntry.Name(), secondEntry.Name()) < 0
	})
}
