// Package cleanup removes dependency directories beneath a root path.
package cleanup

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// DefaultTargetDirectoryName is the directory name removed when none is configured.
const DefaultTargetDirectoryName = "node_modules"

// Result aggregates what one removal pass accomplished.
type Result struct {
	RemovedDirectories []string
}

// RemoveTree walks root recursively and deletes every directory whose name
// exactly equals targetDirName, including its contents, without recursing into
// it. A missing or unreadable subtree is logged and skipped, never fatal.
// Deletion failures are unexpected and abort the walk.
func RemoveTree(root string, targetDirName string, logger *zap.Logger) (Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if targetDirName == "" {
		targetDirName = DefaultTargetDirectoryName
	}

	var result Result
	walkError := removeBeneath(root, targetDirName, logger, &result)
	return result, walkError
}

func removeBeneath(directoryPath string, targetDirName string, logger *zap.Logger, result *Result) error {
	directoryEntries, readDirectoryError := os.ReadDir(directoryPath)
	if readDirectoryError != nil {
		logger.Warn(fmt.Sprintf("skipping unreadable directory %s: %v", directoryPath, readDirectoryError))
		return nil
	}

	for _, directoryEntry := range directoryEntries {
		if !directoryEntry.IsDir() {
			continue
		}
		childPath := filepath.Join(directoryPath, directoryEntry.Name())
		if directoryEntry.Name() == targetDirName {
			if removeError := os.RemoveAll(childPath); removeError != nil {
				return fmt.Errorf("removing %s: %w", childPath, removeError)
			}
			result.RemovedDirectories = append(result.RemovedDirectories, childPath)
			logger.Info(fmt.Sprintf("removed %s", childPath))
			continue
		}
		if recurseError := removeBeneath(childPath, targetDirName, logger, result); recurseError != nil {
			return recurseError
		}
	}
	return nil
}
