package dragdrop

import (
	"errors"
	"fmt"
)

// ErrEmptyFileList is returned by FilesPayload when no paths are given.
var ErrEmptyFileList = errors.New("dragdrop: file payload needs at least one path")

// PayloadKind tells which variant a Payload holds.
type PayloadKind int

const (
	PayloadNone PayloadKind = iota
	PayloadText
	PayloadFiles
)

func (k PayloadKind) String() string {
	switch k {
	case PayloadText:
		return "text"
	case PayloadFiles:
		return "files"
	default:
		return "none"
	}
}

// Payload is the data carried by a drag session: nothing, a text string, or a
// non-empty ordered list of filesystem paths. It is immutable once built.
type Payload struct {
	kind  PayloadKind
	text  string
	paths []string
}

// NoPayload returns the absent payload.
func NoPayload() Payload {
	return Payload{}
}

// TextPayload wraps dragged text.
func TextPayload(text string) Payload {
	return Payload{kind: PayloadText, text: text}
}

// FilesPayload wraps dropped paths. The slice is copied.
func FilesPayload(paths []string) (Payload, error) {
	if len(paths) == 0 {
		return Payload{}, ErrEmptyFileList
	}
	cp := make([]string, len(paths))
	copy(cp, paths)
	return Payload{kind: PayloadFiles, paths: cp}, nil
}

func (p Payload) Kind() PayloadKind { return p.kind }

// IsEmpty reports whether the payload is absent.
func (p Payload) IsEmpty() bool { return p.kind == PayloadNone }

// Text returns the dragged text and whether the payload is text.
func (p Payload) Text() (string, bool) {
	return p.text, p.kind == PayloadText
}

// Paths returns a copy of the dropped paths and whether the payload is a file list.
func (p Payload) Paths() ([]string, bool) {
	if p.kind != PayloadFiles {
		return nil, false
	}
	cp := make([]string, len(p.paths))
	copy(cp, p.paths)
	return cp, true
}

// Len is the number of paths, 1 for text, 0 when absent.
func (p Payload) Len() int {
	switch p.kind {
	case PayloadFiles:
		return len(p.paths)
	case PayloadText:
		return 1
	}
	return 0
}

func (p Payload) String() string {
	switch p.kind {
	case PayloadText:
		return fmt.Sprintf("text(%d bytes)", len(p.text))
	case PayloadFiles:
		return fmt.Sprintf("files(%d)", len(p.paths))
	}
	return "none"
}
