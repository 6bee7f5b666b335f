package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rmarkov/snapfold/internal/cleanup"
	"github.com/rmarkov/snapfold/internal/config"
	"github.com/rmarkov/snapfold/internal/utils"
)

const (
	cleanupUse              = "cleanup <rootPath>"
	cleanupShortDescription = "recursively delete dependency directories"
	cleanupLongDescription  = `Walk the root path recursively and delete every directory whose name exactly
matches the target (node_modules by default), including its contents.
Inaccessible subtrees are skipped with a warning.`
	cleanupUsageExample = `  # Remove every node_modules directory beneath the current project
  cleanup .

  # Remove build output directories instead
  cleanup ./workspace --target dist`

	targetFlagName        = "target"
	targetFlagDescription = "directory name to remove"

	removedSummaryFormat = "Removed %d %s"
	nothingRemovedFormat = "No %s directories found beneath %s"
)

// ExecuteCleanup runs the cleanup application.
func ExecuteCleanup(logger *zap.Logger) error {
	return createCleanupCommand(logger).Execute()
}

// createCleanupCommand builds the cleanup root Cobra command.
func createCleanupCommand(logger *zap.Logger) *cobra.Command {
	var showVersion bool
	var targetDirectoryName string
	var configFilePath string

	cleanupCommand := &cobra.Command{
		Use:          cleanupUse,
		Short:        cleanupShortDescription,
		Long:         cleanupLongDescription,
		Example:      cleanupUsageExample,
		SilenceUsage: true,
		Args:         cobra.ExactArgs(1),
		PersistentPreRun: func(command *cobra.Command, arguments []string) {
			if showVersion {
				fmt.Printf(versionTemplate, utils.GetApplicationVersion())
				os.Exit(0)
			}
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			applicationConfiguration, configurationError := config.LoadApplicationConfiguration(config.LoadOptions{
				ExplicitFilePath: configFilePath,
			})
			if configurationError != nil {
				return configurationError
			}

			resolvedTarget := cleanup.DefaultTargetDirectoryName
			if applicationConfiguration.Cleanup.Target != "" {
				resolvedTarget = applicationConfiguration.Cleanup.Target
			}
			if command.Flags().Changed(targetFlagName) {
				resolvedTarget = targetDirectoryName
			}

			rootPath, absolutePathError := filepath.Abs(arguments[0])
			if absolutePathError != nil {
				return fmt.Errorf(errorAbsolutePathFormat, arguments[0], absolutePathError)
			}

			result, removeError := cleanup.RemoveTree(rootPath, resolvedTarget, logger)
			if removeError != nil {
				return removeError
			}
			if logger != nil {
				if len(result.RemovedDirectories) == 0 {
					logger.Info(fmt.Sprintf(nothingRemovedFormat, resolvedTarget, rootPath))
				} else {
					directoryLabel := "directories"
					if len(result.RemovedDirectories) == 1 {
						directoryLabel = "directory"
					}
					logger.Info(fmt.Sprintf(removedSummaryFormat, len(result.RemovedDirectories), directoryLabel))
				}
			}
			return nil
		},
	}

	cleanupCommand.PersistentFlags().BoolVar(&showVersion, versionFlagName, false, versionFlagDescription)
	cleanupCommand.Flags().StringVar(&targetDirectoryName, targetFlagName, cleanup.DefaultTargetDirectoryName, targetFlagDescription)
	cleanupCommand.Flags().StringVar(&configFilePath, configFlagName, "", configFlagDescription)
	cleanupCommand.InitDefaultHelpCmd()
	cleanupCommand.InitDefaultCompletionCmd()
	return cleanupCommand
}
