package tracker

import "unicsv/internal/transcoder"

// EventKind enumerates the file lifecycle notifications a host can emit.
type EventKind int

const (
	// FileOpened fires when a host observes a file with a known encoding.
	FileOpened EventKind = iota
	// FileClosed fires when a host is done with a file.
	FileClosed
	// FileConverted fires after a successful delimiter conversion.
	FileConverted
)

// Event describes one file lifecycle notification.
type Event struct {
	Kind     EventKind
	Path     string
	Encoding transcoder.Encoding
}

// Set maps tracked paths to their detected encoding.
type Set map[string]transcoder.Encoding

// Apply returns the set that results from handling ev. The input set is
// never mutated, so callers can keep historical snapshots and replay event
// sequences. Opening an unmarked file does not start tracking it; a
// conversion does, since from then on the file must be restored on demand.
func Apply(s Set, ev Event) Set {
	next := make(Set, len(s)+1)
	for path, enc := range s {
		next[path] = enc
	}

	switch ev.Kind {
	case FileOpened:
		if ev.Encoding.Unicode() {
			next[ev.Path] = ev.Encoding
		}
	case FileConverted:
		next[ev.Path] = ev.Encoding
	case FileClosed:
		delete(next, ev.Path)
	}
	return next
}

// Contains reports whether path is tracked.
func (s Set) Contains(path string) bool {
	_, ok := s[path]
	return ok
}
