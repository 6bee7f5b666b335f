package stream

import (
	"github.com/rmarkov/snapfold/internal/types"
)

type EventKind string

const (
	EventKindStart     EventKind = "start"
	EventKindTree      EventKind = "tree"
	EventKindFileBlock EventKind = "file_block"
	EventKindWarning   EventKind = "warning"
	EventKindError     EventKind = "error"
	EventKindSummary   EventKind = "summary"
	EventKindDone      EventKind = "done"
)

// Event is one element of the ordered snapshot stream. Exactly one payload
// field is populated for each kind.
type Event struct {
	Kind    EventKind
	Path    string
	Tree    *types.TreeOutputNode
	Block   *BlockEvent
	Summary *SummaryEvent
	Message *LogEvent
	Err     *ErrorEvent
}

// BlockEvent carries one framed file block. Lines already include the header
// line, the surrounding blank lines, and the body lines; a block is the atomic
// unit of chunking and is never split across output artifacts.
type BlockEvent struct {
	Header    string
	Lines     []string
	SizeBytes int64
	Tokens    int
}

// SummaryEvent aggregates the files rendered by one run.
type SummaryEvent struct {
	Files  int
	Lines  int
	Bytes  int64
	Tokens int
	Model  string
}

// LogEvent is a non-fatal diagnostic emitted during traversal.
type LogEvent struct {
	Level   string
	Message string
}

// ErrorEvent terminates a stream that cannot continue.
type ErrorEvent struct {
	Message string
}
