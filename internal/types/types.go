// Package types defines every cross-package data structure used by the snapfold tools.
package types

import "strings"

const (
	EntryKindFile      = "file"
	EntryKindDirectory = "directory"

	ModeChunked = "chunked"
	ModeSingle  = "single"
)

// ValidatedRoot is an absolute scan root that already passed existence checks.
type ValidatedRoot struct {
	AbsolutePath string
	IsDir        bool
}

// RenderedFile is the textual form of one included file: a project-qualified
// header and the file body (or a diagnostic placeholder when unreadable).
type RenderedFile struct {
	Header    string
	Body      string
	SizeBytes int64
	Tokens    int
}

// BlockLines returns the framed block for the rendered file: the header line,
// one blank line, the body lines, and one trailing blank line. Downstream
// consumers rely on this exact framing to locate file boundaries.
func (rendered RenderedFile) BlockLines() []string {
	trimmedBody := strings.TrimSuffix(rendered.Body, "\n")
	bodyLines := strings.Split(trimmedBody, "\n")
	blockLines := make([]string, 0, len(bodyLines)+3)
	blockLines = append(blockLines, rendered.Header, "")
	blockLines = append(blockLines, bodyLines...)
	blockLines = append(blockLines, "")
	return blockLines
}

// TreeOutputNode represents a node of the rendered directory tree. The tree is
// rebuilt on every run and discarded after rendering.
type TreeOutputNode struct {
	Name     string
	Type     string
	Children []*TreeOutputNode
}
