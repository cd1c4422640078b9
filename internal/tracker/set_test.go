package tracker

import (
	"testing"

	"unicsv/internal/transcoder"
)

func TestApplyFileOpened(t *testing.T) {
	s := Set{}

	s = Apply(s, Event{Kind: FileOpened, Path: "/a.csv", Encoding: transcoder.UTF16LE})
	if !s.Contains("/a.csv") {
		t.Fatal("unicode file not tracked after open")
	}
	if s["/a.csv"] != transcoder.UTF16LE {
		t.Fatalf("encoding = %s, want %s", s["/a.csv"], transcoder.UTF16LE)
	}
}

func TestApplyIgnoresUnmarkedOpen(t *testing.T) {
	s := Apply(Set{}, Event{Kind: FileOpened, Path: "/b.csv", Encoding: transcoder.SystemDefault})
	if s.Contains("/b.csv") {
		t.Fatal("unmarked file must not be tracked on open")
	}
}

func TestApplyFileClosedRemoves(t *testing.T) {
	s := Set{"/a.csv": transcoder.UTF8}
	s = Apply(s, Event{Kind: FileClosed, Path: "/a.csv"})
	if s.Contains("/a.csv") {
		t.Fatal("file still tracked after close")
	}
}

func TestApplyFileConvertedTracks(t *testing.T) {
	s := Apply(Set{}, Event{Kind: FileConverted, Path: "/c.csv", Encoding: transcoder.SystemDefault})
	if !s.Contains("/c.csv") {
		t.Fatal("converted file must be tracked regardless of encoding")
	}
}

func TestApplyIsPure(t *testing.T) {
	orig := Set{"/a.csv": transcoder.UTF8}

	_ = Apply(orig, Event{Kind: FileClosed, Path: "/a.csv"})
	_ = Apply(orig, Event{Kind: FileOpened, Path: "/b.csv", Encoding: transcoder.UTF16BE})

	if len(orig) != 1 || !orig.Contains("/a.csv") {
		t.Fatalf("input set mutated: %v", orig)
	}
}

func TestApplyReplaySequence(t *testing.T) {
	events := []Event{
		{Kind: FileOpened, Path: "/a.csv", Encoding: transcoder.UTF8},
		{Kind: FileOpened, Path: "/b.csv", Encoding: transcoder.UTF16LE},
		{Kind: FileClosed, Path: "/a.csv"},
		{Kind: FileConverted, Path: "/c.csv", Encoding: transcoder.UTF16BE},
	}

	s := Set{}
	for _, ev := range events {
		s = Apply(s, ev)
	}

	want := Set{
		"/b.csv": transcoder.UTF16LE,
		"/c.csv": transcoder.UTF16BE,
	}
	if len(s) != len(want) {
		t.Fatalf("set = %v, want %v", s, want)
	}
	for path, enc := range want {
		if s[path] != enc {
			t.Fatalf("set[%s] = %s, want %s", path, s[path], enc)
		}
	}
}
