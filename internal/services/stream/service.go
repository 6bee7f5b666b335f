// Package stream turns a snapshot run into an ordered sequence of events
// consumed by the output renderers.
package stream

import (
	"context"
	"fmt"
	"strings"

	"github.com/rmarkov/snapfold/internal/commands"
	"github.com/rmarkov/snapfold/internal/filter"
	"github.com/rmarkov/snapfold/internal/tokenizer"
	"github.com/rmarkov/snapfold/internal/types"
)

// SnapshotOptions configures one snapshot stream.
type SnapshotOptions struct {
	Root         string
	ProjectName  string
	IgnoreSet    *filter.IgnoreSet
	Mode         string
	TokenCounter tokenizer.Counter
	TokenModel   string
}

type emitter struct {
	ctx context.Context
	out chan<- Event
}

func newEmitter(ctx context.Context, out chan<- Event) *emitter {
	if ctx == nil {
		ctx = context.Background()
	}
	return &emitter{ctx: ctx, out: out}
}

func (e *emitter) send(event Event) error {
	if e.out == nil {
		return fmt.Errorf("stream: event channel is nil")
	}
	select {
	case <-e.ctx.Done():
		return e.ctx.Err()
	case e.out <- event:
		return nil
	}
}

func (e *emitter) warn(path, message string) {
	trimmed := strings.TrimRight(message, "\n")
	if trimmed == "" {
		return
	}
	_ = e.send(Event{
		Kind:    EventKindWarning,
		Path:    path,
		Message: &LogEvent{Level: "warning", Message: trimmed},
	})
}

type summaryTracker struct {
	files  int
	lines  int
	bytes  int64
	tokens int
	model  string
}

func (tracker *summaryTracker) add(lines int, size int64, tokens int, model string) {
	tracker.files++
	tracker.lines += lines
	tracker.bytes += size
	tracker.tokens += tokens
	if tracker.model == "" && model != "" && tokens > 0 {
		tracker.model = model
	}
}

func (tracker *summaryTracker) summary() *SummaryEvent {
	return &SummaryEvent{
		Files:  tracker.files,
		Lines:  tracker.lines,
		Bytes:  tracker.bytes,
		Tokens: tracker.tokens,
		Model:  tracker.model,
	}
}

// StreamSnapshot produces the full event sequence for one run: start, the
// rendered tree in single-file mode, one block per included file in
// deterministic order, a summary, and done. The snapshot never modifies the
// scanned tree.
func StreamSnapshot(ctx context.Context, opts SnapshotOptions, out chan<- Event) error {
	if opts.Root == "" {
		return fmt.Errorf("stream: snapshot root path is empty")
	}
	if opts.ProjectName == "" {
		return fmt.Errorf("stream: project name is empty")
	}

	emitter := newEmitter(ctx, out)
	if err := emitter.send(Event{Kind: EventKindStart, Path: opts.Root}); err != nil {
		return err
	}

	if opts.Mode == types.ModeSingle {
		treeNode, treeError := commands.GetTreeData(opts.Root, opts.IgnoreSet)
		if treeError != nil {
			_ = emitter.send(Event{Kind: EventKindError, Path: opts.Root, Err: &ErrorEvent{Message: treeError.Error()}})
			return treeError
		}
		if err := emitter.send(Event{Kind: EventKindTree, Path: opts.Root, Tree: treeNode}); err != nil {
			return err
		}
	}

	tracker := &summaryTracker{}
	collectOptions := commands.CollectOptions{
		Root:        opts.Root,
		ProjectName: opts.ProjectName,
		IgnoreSet:   opts.IgnoreSet,
		Warn: func(message string) {
			emitter.warn(opts.Root, message)
		},
	}

	visit := func(rendered types.RenderedFile) error {
		if opts.TokenCounter != nil {
			countResult, countError := tokenizer.CountString(opts.TokenCounter, rendered.Body)
			if countError != nil {
				emitter.warn(opts.Root, fmt.Sprintf("counting tokens for %s: %v", rendered.Header, countError))
			} else if countResult.Counted {
				rendered.Tokens = countResult.Tokens
			}
		}
		blockLines := rendered.BlockLines()
		tracker.add(len(blockLines), rendered.SizeBytes, rendered.Tokens, opts.TokenModel)
		return emitter.send(Event{
			Kind: EventKindFileBlock,
			Path: rendered.Header,
			Block: &BlockEvent{
				Header:    rendered.Header,
				Lines:     blockLines,
				SizeBytes: rendered.SizeBytes,
				Tokens:    rendered.Tokens,
			},
		})
	}

	if streamError := commands.StreamFiles(collectOptions, visit); streamError != nil {
		_ = emitter.send(Event{Kind: EventKindError, Path: opts.Root, Err: &ErrorEvent{Message: streamError.Error()}})
		return streamError
	}

	if err := emitter.send(Event{Kind: EventKindSummary, Path: opts.Root, Summary: tracker.summary()}); err != nil {
		return err
	}
	return emitter.send(Event{Kind: EventKindDone, Path: opts.Root})
}
