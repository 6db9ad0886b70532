package dragdrop

import (
	"errors"
	"testing"
)

func TestFilesPayload(t *testing.T) {
	src := []string{"/a", "/b"}
	p, err := FilesPayload(src)
	if err != nil {
		t.Fatalf("FilesPayload: %v", err)
	}
	src[0] = "/mutated"

	paths, ok := p.Paths()
	if !ok {
		t.Fatal("expected file payload")
	}
	if paths[0] != "/a" || paths[1] != "/b" {
		t.Errorf("payload changed with caller slice: %v", paths)
	}
	paths[1] = "/mutated"
	again, _ := p.Paths()
	if again[1] != "/b" {
		t.Errorf("payload changed through returned slice: %v", again)
	}
	if p.Kind() != PayloadFiles || p.Len() != 2 || p.String() != "files(2)" {
		t.Errorf("unexpected payload %v kind=%s len=%d", p, p.Kind(), p.Len())
	}
	if _, ok := p.Text(); ok {
		t.Error("file payload reported text")
	}
}

func TestFilesPayload_Empty(t *testing.T) {
	for _, paths := range [][]string{nil, {}} {
		if _, err := FilesPayload(paths); !errors.Is(err, ErrEmptyFileList) {
			t.Errorf("FilesPayload(%v): expected ErrEmptyFileList, got %v", paths, err)
		}
	}
}

func TestTextAndNoPayload(t *testing.T) {
	txt := TextPayload("hello")
	if s, ok := txt.Text(); !ok || s != "hello" {
		t.Errorf("Text(): got %q, %v", s, ok)
	}
	if _, ok := txt.Paths(); ok {
		t.Error("text payload reported paths")
	}
	if txt.String() != "text(5 bytes)" {
		t.Errorf("String(): got %q", txt.String())
	}

	none := NoPayload()
	if !none.IsEmpty() || none.Len() != 0 || none.Kind() != PayloadNone || none.String() != "none" {
		t.Errorf("unexpected absent payload %v", none)
	}
}
