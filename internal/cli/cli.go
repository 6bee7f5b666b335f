// Package cli provides the command line interfaces for the snapfold tools.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rmarkov/snapfold/internal/config"
	"github.com/rmarkov/snapfold/internal/filter"
	"github.com/rmarkov/snapfold/internal/output"
	"github.com/rmarkov/snapfold/internal/services/clipboard"
	"github.com/rmarkov/snapfold/internal/services/stream"
	"github.com/rmarkov/snapfold/internal/tokenizer"
	"github.com/rmarkov/snapfold/internal/types"
	"github.com/rmarkov/snapfold/internal/utils"
)

const (
	modeFlagName            = "mode"
	exclusionFlagName       = "e"
	outputDirectoryFlagName = "output-dir"
	tokensFlagName          = "tokens"
	modelFlagName           = "model"
	clipboardFlagName       = "clipboard"
	configFlagName          = "config"
	versionFlagName         = "version"
	versionTemplate         = "snapfold version: %s\n"

	snapshotUse              = "snapshot <projectName> [rootDirectory] [maxLinesPerChunk]"
	snapshotShortDescription = "flatten a project directory into text snapshots"
	snapshotLongDescription  = `Flatten a project directory into one or more human-readable text snapshots.
Chunked mode splits the concatenated file contents across numbered artifacts
bounded by a line budget. Single mode writes one artifact prefixed with the
rendered folder tree.`
	snapshotUsageExample = `  # Chunked snapshot of the current directory, 5000 lines per chunk
  snapshot demo

  # Single-file snapshot of another directory, including the folder tree
  snapshot demo ./service --mode single

  # Chunked snapshot with a 1200-line budget and an extra ignored folder
  snapshot demo . 1200 -e fixtures`

	defaultRootDirectory      = "."
	defaultTokenizerModelName = "gpt-4o"

	modeFlagDescription            = "output mode: chunked or single"
	exclusionFlagDescription       = "additional literal name to ignore (repeatable)"
	outputDirectoryFlagDescription = "directory that receives output artifacts"
	tokensFlagDescription          = "include token counts in the run summary"
	modelFlagDescription           = "tokenizer model to use for token counting"
	clipboardFlagDescription       = "also copy the snapshot to the clipboard (single mode)"
	configFlagDescription          = "path to a configuration file"
	versionFlagDescription         = "display application version"

	invalidModeMessage          = "invalid mode '%s': expected %s or %s"
	invalidMaxLinesMessage      = "invalid maxLinesPerChunk '%s': expected a positive integer"
	errorRootMissingFormat      = "root directory '%s' does not exist"
	errorRootNotDirectoryFormat = "root path '%s' is not a directory"
	errorStatRootFormat         = "stat failed for '%s': %w"
	errorAbsolutePathFormat     = "abs failed for '%s': %w"
	errorOutputDirectoryFormat  = "preparing output directory %s: %w"

	summaryLogFormat   = "Summary: %d %s, %d lines, %s%s"
	artifactsLogFormat = "Wrote %s"
	noArtifactsMessage = "No files matched; nothing was written"
)

// ExecuteSnapshot runs the snapshot application.
func ExecuteSnapshot(logger *zap.Logger) error {
	return createSnapshotCommand(logger).Execute()
}

// snapshotOptions gathers everything one snapshot run needs after flag and
// configuration resolution.
type snapshotOptions struct {
	projectName      string
	rootDirectory    string
	maxLines         int
	mode             string
	outputDirectory  string
	extraIgnores     []string
	configuredIgnore []string
	tokensEnabled    bool
	tokenModel       string
	copyToClipboard  bool
}

// createSnapshotCommand builds the snapshot root Cobra command.
func createSnapshotCommand(logger *zap.Logger) *cobra.Command {
	var showVersion bool
	var modeFlag string
	var exclusionNames []string
	var outputDirectoryFlag string
	var tokensEnabled bool
	var tokenModel string = defaultTokenizerModelName
	var copyToClipboard bool
	var configFilePath string

	snapshotCommand := &cobra.Command{
		Use:          snapshotUse,
		Short:        snapshotShortDescription,
		Long:         snapshotLongDescription,
		Example:      snapshotUsageExample,
		SilenceUsage: true,
		Args:         cobra.RangeArgs(1, 3),
		PersistentPreRun: func(command *cobra.Command, arguments []string) {
			if showVersion {
				fmt.Printf(versionTemplate, utils.GetApplicationVersion())
				os.Exit(0)
			}
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			workingDirectory, workingDirectoryError := os.Getwd()
			if workingDirectoryError != nil {
				return fmt.Errorf("unable to determine working directory: %w", workingDirectoryError)
			}
			applicationConfiguration, configurationError := config.LoadApplicationConfiguration(config.LoadOptions{
				WorkingDirectory: workingDirectory,
				ExplicitFilePath: configFilePath,
			})
			if configurationError != nil {
				return configurationError
			}
			snapshotConfiguration := applicationConfiguration.Snapshot

			options := snapshotOptions{
				projectName:      arguments[0],
				rootDirectory:    defaultRootDirectory,
				maxLines:         output.DefaultMaxLinesPerChunk,
				mode:             types.ModeChunked,
				outputDirectory:  workingDirectory,
				extraIgnores:     exclusionNames,
				configuredIgnore: snapshotConfiguration.Ignore,
				tokenModel:       tokenModel,
			}
			if snapshotConfiguration.Mode != "" {
				options.mode = snapshotConfiguration.Mode
			}
			if snapshotConfiguration.MaxLines != nil && *snapshotConfiguration.MaxLines > 0 {
				options.maxLines = *snapshotConfiguration.MaxLines
			}
			if snapshotConfiguration.OutputDirectory != "" {
				options.outputDirectory = snapshotConfiguration.OutputDirectory
			}
			if snapshotConfiguration.Tokens.Enabled != nil {
				options.tokensEnabled = *snapshotConfiguration.Tokens.Enabled
			}
			if snapshotConfiguration.Tokens.Model != "" && !command.Flags().Changed(modelFlagName) {
				options.tokenModel = snapshotConfiguration.Tokens.Model
			}
			if snapshotConfiguration.Clipboard != nil {
				options.copyToClipboard = *snapshotConfiguration.Clipboard
			}

			if len(arguments) > 1 {
				options.rootDirectory = arguments[1]
			}
			if len(arguments) > 2 {
				parsedMaxLines, parseError := strconv.Atoi(arguments[2])
				if parseError != nil || parsedMaxLines <= 0 {
					return fmt.Errorf(invalidMaxLinesMessage, arguments[2])
				}
				options.maxLines = parsedMaxLines
			}
			if command.Flags().Changed(modeFlagName) {
				options.mode = modeFlag
			}
			if command.Flags().Changed(outputDirectoryFlagName) {
				options.outputDirectory = outputDirectoryFlag
			}
			if command.Flags().Changed(tokensFlagName) {
				options.tokensEnabled = tokensEnabled
			}
			if command.Flags().Changed(clipboardFlagName) {
				options.copyToClipboard = copyToClipboard
			}

			options.mode = strings.ToLower(options.mode)
			if options.mode != types.ModeChunked && options.mode != types.ModeSingle {
				return fmt.Errorf(invalidModeMessage, options.mode, types.ModeChunked, types.ModeSingle)
			}

			return runSnapshot(command.Context(), logger, options)
		},
	}

	snapshotCommand.PersistentFlags().BoolVar(&showVersion, versionFlagName, false, versionFlagDescription)
	snapshotCommand.Flags().StringVar(&modeFlag, modeFlagName, types.ModeChunked, modeFlagDescription)
	snapshotCommand.Flags().StringArrayVarP(&exclusionNames, exclusionFlagName, exclusionFlagName, nil, exclusionFlagDescription)
	snapshotCommand.Flags().StringVar(&outputDirectoryFlag, outputDirectoryFlagName, defaultRootDirectory, outputDirectoryFlagDescription)
	snapshotCommand.Flags().BoolVar(&tokensEnabled, tokensFlagName, false, tokensFlagDescription)
	snapshotCommand.Flags().StringVar(&tokenModel, modelFlagName, defaultTokenizerModelName, modelFlagDescription)
	snapshotCommand.Flags().BoolVar(&copyToClipboard, clipboardFlagName, false, clipboardFlagDescription)
	snapshotCommand.Flags().StringVar(&configFilePath, configFlagName, "", configFlagDescription)
	snapshotCommand.InitDefaultHelpCmd()
	snapshotCommand.InitDefaultCompletionCmd()
	return snapshotCommand
}

// runSnapshot executes one end-to-end snapshot: resolve the root, build the
// ignore set, stream blocks into the mode-specific renderer, finalize every
// open artifact, and report what was written.
func runSnapshot(ctx context.Context, logger *zap.Logger, options snapshotOptions) (err error) {
	validatedRoot, rootError := resolveScanRoot(options.rootDirectory)
	if rootError != nil {
		return rootError
	}

	ignoreSet := filter.NewDefaultIgnoreSet(options.configuredIgnore...)
	ignoreSet.Add(options.extraIgnores...)

	if mkdirError := os.MkdirAll(options.outputDirectory, 0o755); mkdirError != nil {
		return fmt.Errorf(errorOutputDirectoryFormat, options.outputDirectory, mkdirError)
	}

	var tokenCounter tokenizer.Counter
	var tokenModel string
	if options.tokensEnabled {
		createdCounter, resolvedModel, counterError := tokenizer.NewCounter(tokenizer.Config{Model: options.tokenModel})
		if counterError != nil {
			return counterError
		}
		tokenCounter = createdCounter
		tokenModel = resolvedModel
	}

	var renderer output.StreamRenderer
	switch options.mode {
	case types.ModeSingle:
		var copier clipboard.Copier
		if options.copyToClipboard {
			copier = clipboard.NewService()
		}
		renderer = output.NewSingleRenderer(options.outputDirectory, options.projectName, copier, os.Stderr)
	default:
		renderer = output.NewChunkRenderer(options.outputDirectory, options.projectName, options.maxLines, os.Stderr)
	}

	defer func() {
		if flushError := renderer.Flush(); flushError != nil && err == nil {
			err = flushError
		}
		if err == nil {
			reportArtifacts(logger, renderer)
		}
	}()

	producer := func(streamCtx context.Context, events chan<- stream.Event) error {
		streamOptions := stream.SnapshotOptions{
			Root:         validatedRoot.AbsolutePath,
			ProjectName:  options.projectName,
			IgnoreSet:    ignoreSet,
			Mode:         options.mode,
			TokenCounter: tokenCounter,
			TokenModel:   tokenModel,
		}
		return stream.StreamSnapshot(streamCtx, streamOptions, events)
	}

	consumer := func(event stream.Event) error {
		return renderer.Handle(event)
	}

	return dispatchStream(ctx, producer, consumer)
}

// reportArtifacts logs the run summary and the names of artifacts written.
func reportArtifacts(logger *zap.Logger, renderer output.StreamRenderer) {
	if logger == nil {
		return
	}
	if summary := renderer.Summary(); summary != nil {
		fileLabel := "files"
		if summary.Files == 1 {
			fileLabel = "file"
		}
		tokenSuffix := ""
		if summary.Tokens > 0 {
			tokenSuffix = fmt.Sprintf(", %d tokens (model: %s)", summary.Tokens, summary.Model)
		}
		logger.Info(fmt.Sprintf(summaryLogFormat, summary.Files, fileLabel, summary.Lines, utils.FormatFileSize(summary.Bytes), tokenSuffix))
	}
	artifactNames := renderer.Artifacts()
	if len(artifactNames) == 0 {
		logger.Info(noArtifactsMessage)
		return
	}
	logger.Info(fmt.Sprintf(artifactsLogFormat, strings.Join(artifactNames, ", ")))
}

// dispatchStream runs the producer and consumer concurrently over one event
// channel. Ordering stays deterministic because there is exactly one of each.
func dispatchStream(
	ctx context.Context,
	produce func(context.Context, chan<- stream.Event) error,
	consume func(stream.Event) error,
) error {
	if ctx == nil {
		ctx = context.Background()
	}
	group, streamCtx := errgroup.WithContext(ctx)
	events := make(chan stream.Event)

	group.Go(func() error {
		defer close(events)
		return produce(streamCtx, events)
	})

	group.Go(func() error {
		for {
			select {
			case <-streamCtx.Done():
				return streamCtx.Err()
			case event, ok := <-events:
				if !ok {
					return nil
				}
				if err := consume(event); err != nil {
					return err
				}
			}
		}
	})

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// resolveScanRoot converts the root argument to absolute form and validates
// that it names an existing directory.
func resolveScanRoot(rootDirectory string) (types.ValidatedRoot, error) {
	absolutePath, absolutePathError := filepath.Abs(rootDirectory)
	if absolutePathError != nil {
		return types.ValidatedRoot{}, fmt.Errorf(errorAbsolutePathFormat, rootDirectory, absolutePathError)
	}
	cleanPath := filepath.Clean(absolutePath)
	info, statError := os.Stat(cleanPath)
	if statError != nil {
		if os.IsNotExist(statError) {
			return types.ValidatedRoot{}, fmt.Errorf(errorRootMissingFormat, rootDirectory)
		}
		return types.ValidatedRoot{}, fmt.Errorf(errorStatRootFormat, rootDirectory, statError)
	}
	if !info.IsDir() {
		return types.ValidatedRoot{}, fmt.Errorf(errorRootNotDirectoryFormat, rootDirectory)
	}
	return types.ValidatedRoot{AbsolutePath: cleanPath, IsDir: true}, nil
}
